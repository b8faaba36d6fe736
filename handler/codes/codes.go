package codes

import (
	"errors"
	"strconv"

	"twapvault/core"

	"github.com/twitchtv/twirp"
)

const (
	// CustomCodeKey code key
	CustomCodeKey = "custom_code"
	// RetryableKey set when the caller may try again unchanged
	RetryableKey = "retryable"

	// InvalidArguments invalid arguments
	InvalidArguments = 100001
)

// With with specified error
func With(err error, code int) error {
	twerr, ok := err.(twirp.Error)
	if !ok {
		twerr = twirp.InternalErrorWith(err)
	}

	return twerr.WithMeta(CustomCodeKey, strconv.Itoa(code))
}

// Get get error code
func Get(code twirp.ErrorCode) int {
	switch code {
	case twirp.InvalidArgument:
		return InvalidArguments
	default:
		return twirp.ServerHTTPStatusFromErrorCode(code)
	}
}

// From convert a service error into a twirp error carrying its numeric code
func From(err error) twirp.Error {
	var twerr twirp.Error
	if errors.As(err, &twerr) {
		return twerr
	}

	code := core.CodeOf(err)
	if code == core.ErrUnknown {
		return twirp.InternalErrorWith(err)
	}

	twerr = twirp.NewError(twirpCode(code), err.Error())
	twerr = twerr.WithMeta(CustomCodeKey, code.String())
	if code.Retryable() {
		twerr = twerr.WithMeta(RetryableKey, "true")
	}

	return twerr
}

func twirpCode(code core.ErrorCode) twirp.ErrorCode {
	switch code.Category() {
	case core.CategoryInput:
		return twirp.InvalidArgument
	case core.CategorySolvency, core.CategoryEligibility:
		return twirp.FailedPrecondition
	case core.CategoryOracle:
		return twirp.Unavailable
	case core.CategoryTransfer:
		return twirp.Aborted
	case core.CategoryPermission:
		if code == core.ErrUnauthorized {
			return twirp.PermissionDenied
		}
		return twirp.ResourceExhausted
	default:
		return twirp.Internal
	}
}
