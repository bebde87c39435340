package segmenters

import (
	"fmt"

	"trace-analytics/internal/shared/svcerrors"
)

// SessionSegmenter errors
const (
	codeInvalidGapThreshold = "SEG_1000"
	codeEmptyEventStream    = "SEG_1001"
)

// errInvalidGapThreshold returns an error for a non-positive proximity gap.
func errInvalidGapThreshold(gapThresholdSec float64) *svcerrors.ServiceError {
	return svcerrors.NewInvalidArgumentError(codeInvalidGapThreshold,
		fmt.Sprintf("gap threshold must be positive, got %g", gapThresholdSec), nil)
}

// errEmptyEventStream returns an error when segmentation is asked to run on no events.
func errEmptyEventStream() *svcerrors.ServiceError {
	return svcerrors.NewEmptyInputError(codeEmptyEventStream, "event stream is empty", nil)
}
