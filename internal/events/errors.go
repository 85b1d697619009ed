package events

import (
	"stb-telemetry/internal/shared/svcerrors"
)

// Event errors
const (
	codeValidationFailed     = "EVT_1000"
	codeUnknownDiscriminator = "EVT_1001"
)

// errValidationFailed returns an error for events that are structurally incomplete.
func errValidationFailed(msg string, cause error) *svcerrors.ServiceError {
	return svcerrors.NewInvalidArgumentError(codeValidationFailed, msg, cause)
}

// errUnknownDiscriminator returns an error when no variant matches a kind or sub-kind.
func errUnknownDiscriminator(msg string, cause error) *svcerrors.ServiceError {
	return svcerrors.NewInvalidArgumentError(codeUnknownDiscriminator, msg, cause)
}
