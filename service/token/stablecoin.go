package token

import (
	"context"

	"dsc/core"

	"github.com/holiman/uint256"
)

// Stablecoin the pegged debt token. Minting and burning are restricted to the
// owner, which is the engine once wired.
type Stablecoin struct {
	*Token
	owner string
}

// NewStablecoin new debt token owned by owner
func NewStablecoin(owner string) *Stablecoin {
	return &Stablecoin{
		Token: New("DecentralizedStableCoin", "DSC", 18),
		owner: owner,
	}
}

// Owner current owner
func (s *Stablecoin) Owner() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.owner
}

// TransferOwnership hands minting rights to newOwner
func (s *Stablecoin) TransferOwnership(ctx context.Context, caller, newOwner string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if caller != s.owner {
		return core.ErrNotOwner
	}

	if newOwner == "" {
		return core.ErrZeroAccount
	}

	prev := s.owner
	s.owner = newOwner
	s.journal.Append(func() { s.owner = prev })
	return nil
}

// Mint creates amount debt tokens for to
func (s *Stablecoin) Mint(ctx context.Context, caller, to string, amount *uint256.Int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if caller != s.owner {
		return false, core.ErrNotOwner
	}

	if to == "" {
		return false, core.ErrZeroAccount
	}

	if amount.IsZero() {
		return false, core.ErrZeroAmount
	}

	if err := s.mint(to, amount); err != nil {
		return false, err
	}

	return true, nil
}

// Burn destroys amount tokens held by the owner
func (s *Stablecoin) Burn(ctx context.Context, caller string, amount *uint256.Int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if caller != s.owner {
		return core.ErrNotOwner
	}

	if amount.IsZero() {
		return core.ErrZeroAmount
	}

	return s.burn(caller, amount)
}
