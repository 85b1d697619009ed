package ingestors

import (
	"fmt"

	"stb-telemetry/internal/shared/svcerrors"
)

// Ingestion errors
const (
	codeValidationFailed = "ING_1000"
)

// errValidationFailed returns an error for request bodies that cannot be read as events.
func errValidationFailed(msg string, cause error) *svcerrors.ServiceError {
	return svcerrors.NewInvalidArgumentError(codeValidationFailed, msg, cause)
}

// errItemRejected keeps the code of an event-level error and prefixes its message with the
// item's position in the request.
func errItemRejected(index int, svcErr *svcerrors.ServiceError) *svcerrors.ServiceError {
	return &svcerrors.ServiceError{
		Category:       svcErr.Category,
		Code:           svcErr.Code,
		Message:        fmt.Sprintf("item at index %d: %s", index, svcErr.Message),
		Cause:          svcErr,
		HttpStatusCode: svcErr.HttpStatusCode,
	}
}
