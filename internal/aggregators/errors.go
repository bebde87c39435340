package aggregators

import (
	"fmt"

	"trace-analytics/internal/shared/svcerrors"
)

// WindowAggregator errors
const (
	codeInvalidBinWidth = "AGG_1000"
)

// errInvalidBinWidth returns an error for a non-positive bin width.
func errInvalidBinWidth(binWidthSec float64) *svcerrors.ServiceError {
	return svcerrors.NewInvalidArgumentError(codeInvalidBinWidth,
		fmt.Sprintf("bin width must be positive, got %g", binWidthSec), nil)
}
