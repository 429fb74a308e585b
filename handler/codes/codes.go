package codes

import (
	"net/http"

	"dsc/core"
)

// InvalidArguments malformed request parameters
const InvalidArguments = 100001

// Status http status of an engine error code
func Status(code core.ErrorCode) int {
	switch code {
	case core.ErrUnknownAsset:
		return http.StatusNotFound
	case core.ErrUnauthorized:
		return http.StatusUnauthorized
	case core.ErrNotOwner:
		return http.StatusForbidden
	case core.ErrReentrantCall, core.ErrRequestConflict:
		return http.StatusConflict
	case core.ErrUnknown:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}
