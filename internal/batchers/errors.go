package batchers

import (
	"fmt"

	"stb-telemetry/internal/shared/svcerrors"
)

// Engine errors
const (
	codeEngineStopped        = "ENG_1000"
	codeNoDeviceContext      = "ENG_1001"
	codeIdentityNotSet       = "ENG_1002"
	codeInvalidIdentity      = "ENG_1003"
	codeReservedKind         = "ENG_1004"
	codeInternalEncodeFailed = "ENG_9000"
	codeInternalWriteFailed  = "ENG_9001"
)

// errEngineStopped returns an error when the engine no longer accepts work.
func errEngineStopped(cause error) *svcerrors.ServiceError {
	return svcerrors.NewUnavailableError(codeEngineStopped, "engine is stopped", cause)
}

// errNoDeviceContext returns an error when a batch cannot be written because no device
// context has been received yet.
func errNoDeviceContext(held int) *svcerrors.ServiceError {
	return svcerrors.NewResourceConflictError(codeNoDeviceContext, fmt.Sprintf("no device context yet, %d events held", held), nil)
}

// errIdentityNotSet returns an error when a batch cannot be written because SetIdentity was
// never called.
func errIdentityNotSet(held int) *svcerrors.ServiceError {
	return svcerrors.NewResourceConflictError(codeIdentityNotSet, fmt.Sprintf("identity not set, %d events held", held), nil)
}

func errInvalidIdentity(msg string, cause error) *svcerrors.ServiceError {
	return svcerrors.NewInvalidArgumentError(codeInvalidIdentity, msg, cause)
}

// errReservedKind returns an error when a producer pushes an event kind the engine emits itself.
func errReservedKind(kind fmt.Stringer) *svcerrors.ServiceError {
	return svcerrors.NewInvalidArgumentError(codeReservedKind, fmt.Sprintf("%s events are written by the engine", kind), nil)
}

// errInternalEncodeFailed returns an error when a batch cannot be encoded.
func errInternalEncodeFailed(cause error) *svcerrors.ServiceError {
	return svcerrors.NewInternalError(codeInternalEncodeFailed, fmt.Errorf("batchEncodeFailed: %w", cause))
}

// errInternalWriteFailed returns an error when an encoded batch cannot be written.
func errInternalWriteFailed(cause error) *svcerrors.ServiceError {
	return svcerrors.NewInternalError(codeInternalWriteFailed, fmt.Errorf("batchWriteFailed: %w", cause))
}
