package estimators

import (
	"fmt"

	"trace-analytics/internal/shared/svcerrors"
)

// ConcurrencyEstimator errors
const (
	codeInvalidMultipliers = "CON_1000"
	codeEmptySessionTable  = "CON_1001"
)

func errInvalidMultipliers(reason string) *svcerrors.ServiceError {
	return svcerrors.NewInvalidArgumentError(codeInvalidMultipliers,
		fmt.Sprintf("invalid duration-model multipliers: %s", reason), nil)
}

var errEmptySessionTable = svcerrors.NewEmptyInputError(codeEmptySessionTable,
	"concurrency estimation requires at least one session", nil)
