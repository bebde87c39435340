package sensitivity

import (
	"context"

	"trace-analytics/internal/models"
	"trace-analytics/internal/shared/loggers"
)

// FilterSparseBins returns a new window table keeping only windows with at
// least minCount samples, so trend statistics are not dominated by noisy
// low-sample bins. The input table is never mutated.
func FilterSparseBins(ctx context.Context, table *models.WindowTable, minCount int64) (*models.WindowTable, error) {
	if minCount < 0 {
		return nil, errInvalidMinBinCount(minCount)
	}

	kept := make([]models.Window, 0, table.Len())
	for _, w := range table.Windows {
		if w.Count >= minCount {
			kept = append(kept, w)
		}
	}

	loggers.Ctx(ctx).Debug().
		Int("windows_in", table.Len()).
		Int("windows_kept", len(kept)).
		Int64("min_count", minCount).
		Msg("filtered sparse bins")

	return &models.WindowTable{Windows: kept, BinWidthSec: table.BinWidthSec}, nil
}
