package catalogs

import (
	"fmt"

	"stb-telemetry/internal/shared/svcerrors"
)

// Catalog errors
const (
	codeInvalidChannel         = "CAT_1000"
	codeInternalUpstreamFailed = "CAT_9000"
)

func errInvalidChannel(channel string) *svcerrors.ServiceError {
	return svcerrors.NewInvalidArgumentError(codeInvalidChannel, fmt.Sprintf("invalid channel tag: %q", channel), nil)
}

// errInternalUpstreamFailed returns an error when the catalog cannot be reached or answers
// with something other than a schedule listing.
func errInternalUpstreamFailed(cause error) *svcerrors.ServiceError {
	return svcerrors.NewInternalError(codeInternalUpstreamFailed, fmt.Errorf("catalogUpstreamFailed: %w", cause))
}
