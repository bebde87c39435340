package decomposers

import (
	"trace-analytics/internal/shared/svcerrors"
)

// VarianceDecomposer errors
const (
	codeEmptyWindowTable = "VAR_1000"
)

var errEmptyWindowTable = svcerrors.NewEmptyInputError(codeEmptyWindowTable,
	"variance decomposition requires at least one window", nil)
