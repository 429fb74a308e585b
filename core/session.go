package core

import (
	"context"
)

// Session resolves an access token to the account it was issued for
type Session interface {
	Login(ctx context.Context, accessToken string) (string, error)
}
