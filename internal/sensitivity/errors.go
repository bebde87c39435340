package sensitivity

import (
	"fmt"

	"trace-analytics/internal/shared/svcerrors"
)

// SensitivityRunner errors
const (
	codeInvalidGapThresholds = "SEN_1000"
	codeEmptyTurnThresholds  = "SEN_1001"
	codeInvalidMinBinCount   = "SEN_1002"
	codeNoSettingSucceeded   = "SEN_1003"
	codePublishFailed        = "SEN_9000"
)

func errInvalidGapThresholds(reason string) *svcerrors.ServiceError {
	return svcerrors.NewInvalidArgumentError(codeInvalidGapThresholds,
		fmt.Sprintf("invalid sweep gap thresholds: %s", reason), nil)
}

var errEmptyTurnThresholds = svcerrors.NewInvalidArgumentError(codeEmptyTurnThresholds,
	"turn-count threshold list must not be empty", nil)

func errInvalidMinBinCount(minCount int64) *svcerrors.ServiceError {
	return svcerrors.NewInvalidArgumentError(codeInvalidMinBinCount,
		fmt.Sprintf("minimum bin sample count must be non-negative, got %d", minCount), nil)
}

var errNoSettingSucceeded = svcerrors.NewInsufficientDataError(codeNoSettingSucceeded,
	"every sweep setting failed", nil)
