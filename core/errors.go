package core

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/holiman/uint256"
)

// ErrorCode int
type ErrorCode int

const (
	// ErrUnknown unknown
	ErrUnknown ErrorCode = 100000
	// ErrConfig malformed construction input
	ErrConfig ErrorCode = 100001
	// ErrReentrantCall a guarded operation was entered while another one is running
	ErrReentrantCall ErrorCode = 100002
	// ErrOverflow balance arithmetic overflowed 256 bits
	ErrOverflow ErrorCode = 100003

	// ErrZeroAmount amount must be more than zero
	ErrZeroAmount ErrorCode = 100100
	// ErrUnknownAsset asset not registered as collateral
	ErrUnknownAsset ErrorCode = 100101
	// ErrInsufficientBalance withdrawal or burn exceeds recorded balance
	ErrInsufficientBalance ErrorCode = 100102
	// ErrTransferFailed token transfer reported failure
	ErrTransferFailed ErrorCode = 100103
	// ErrMintFailed debt token mint reported failure
	ErrMintFailed ErrorCode = 100104

	// ErrInsufficientHealthFactor post-operation solvency check failed
	ErrInsufficientHealthFactor ErrorCode = 100200
	// ErrHealthFactorOk liquidation target is not under-collateralized
	ErrHealthFactorOk ErrorCode = 100201
	// ErrHealthFactorNotImproved liquidation did not raise the target health factor
	ErrHealthFactorNotImproved ErrorCode = 100202

	// ErrNotOwner caller is not the token owner
	ErrNotOwner ErrorCode = 100300
	// ErrZeroAccount account must not be empty
	ErrZeroAccount ErrorCode = 100301
	// ErrInsufficientAllowance transferFrom exceeds allowance
	ErrInsufficientAllowance ErrorCode = 100302
	// ErrStalePrice oracle answer older than the configured timeout
	ErrStalePrice ErrorCode = 100303
	// ErrZeroPrice oracle answered zero where a price divides
	ErrZeroPrice ErrorCode = 100304

	// ErrUnauthorized access token missing, malformed or not signed by this server
	ErrUnauthorized ErrorCode = 100400
	// ErrRequestConflict request id already used for a different operation
	ErrRequestConflict ErrorCode = 100401
)

var errorMessages = map[ErrorCode]string{
	ErrUnknown:                  "unknown",
	ErrConfig:                   "token addresses and price feed addresses must be the same length",
	ErrReentrantCall:            "reentrant call",
	ErrOverflow:                 "arithmetic overflow",
	ErrZeroAmount:               "amount must be more than zero",
	ErrUnknownAsset:             "token not allowed",
	ErrInsufficientBalance:      "insufficient balance",
	ErrTransferFailed:           "transfer failed",
	ErrMintFailed:               "mint failed",
	ErrInsufficientHealthFactor: "breaks health factor",
	ErrHealthFactorOk:           "health factor ok",
	ErrHealthFactorNotImproved:  "health factor not improved",
	ErrNotOwner:                 "caller is not the owner",
	ErrZeroAccount:              "account must not be empty",
	ErrInsufficientAllowance:    "insufficient allowance",
	ErrStalePrice:               "stale price",
	ErrZeroPrice:                "zero price",
	ErrUnauthorized:             "unauthorized",
	ErrRequestConflict:          "request id already used",
}

func (e ErrorCode) String() string {
	return strconv.Itoa(int(e))
}

func (e ErrorCode) Error() string {
	if msg, ok := errorMessages[e]; ok {
		return msg
	}

	return e.String()
}

// Code extracts the ErrorCode carried by err, ErrUnknown if there is none
func Code(err error) ErrorCode {
	if err == nil {
		return 0
	}

	var code ErrorCode
	if errors.As(err, &code) {
		return code
	}

	return ErrUnknown
}

// HealthFactorError solvency check failure carrying the computed score
type HealthFactorError struct {
	Code  ErrorCode
	Score *uint256.Int
}

// NewHealthFactorError new error for a failed solvency check
func NewHealthFactorError(score *uint256.Int) *HealthFactorError {
	return &HealthFactorError{
		Code:  ErrInsufficientHealthFactor,
		Score: new(uint256.Int).Set(score),
	}
}

func (e *HealthFactorError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code.Error(), e.Score.Dec())
}

func (e *HealthFactorError) Unwrap() error {
	return e.Code
}
