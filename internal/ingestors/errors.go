package ingestors

import (
	"fmt"

	"trace-analytics/internal/shared/svcerrors"
)

// Trace loading and normalization errors
const (
	codeUnsupportedTraceFormat = "ING_1000"
	codeEmptyTrace             = "ING_1001"

	codeInternalTraceReadFailed = "ING_9000"
)

// errUnsupportedTraceFormat returns an error for trace files in a format the loader cannot parse.
func errUnsupportedTraceFormat(path string) *svcerrors.ServiceError {
	return svcerrors.NewInvalidArgumentError(codeUnsupportedTraceFormat, fmt.Sprintf("unsupported trace format: %q", path), nil)
}

// errEmptyTrace returns an error when no usable records remain after timestamp validation.
func errEmptyTrace(dropped int) *svcerrors.ServiceError {
	return svcerrors.NewEmptyInputError(codeEmptyTrace, fmt.Sprintf("no usable records after timestamp validation (%d dropped)", dropped), nil)
}

// errInternalTraceReadFailed returns an error when reading the trace file fails.
func errInternalTraceReadFailed(cause error) *svcerrors.ServiceError {
	return svcerrors.NewInternalError(codeInternalTraceReadFailed, fmt.Errorf("traceReadFailed: %w", cause))
}
