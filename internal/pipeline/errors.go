package pipeline

import (
	"trace-analytics/internal/shared/svcerrors"
)

func errInternalPipelineFailed(cause error) *svcerrors.ServiceError {
	if svcErr, ok := svcerrors.AsServiceError(cause); ok {
		return svcErr
	}
	return svcerrors.NewInternalErrorUndefined(cause)
}
