package reports

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"trace-analytics/internal/models"
	"trace-analytics/internal/shared/filestorages"
)

// ReportWriter renders one analysis run as a human-readable markdown
// summary next to the run's table artifacts.
//
//go:generate mockgen -source=report_writer.go -destination=./mocks/report_writer_mock.go -package=mocks
type ReportWriter interface {
	Write(ctx context.Context, result *models.AnalysisResult) error
}

type reportWriter struct {
	fileStorage filestorages.FileStorage
}

func NewReportWriter(fileStorage filestorages.FileStorage) ReportWriter {
	return &reportWriter{fileStorage: fileStorage}
}

func (w *reportWriter) Write(ctx context.Context, result *models.AnalysisResult) error {
	content := Render(result)
	key := fmt.Sprintf("runs/%s/report.md", result.RunID)
	_, err := w.fileStorage.Put(ctx, key, bytes.NewReader([]byte(content)), filestorages.PutOptions{AllowOverwrite: true})
	if err != nil {
		return fmt.Errorf("failed to put report: %w", err)
	}
	return nil
}

// Render produces the markdown report body.
func Render(result *models.AnalysisResult) string {
	var b strings.Builder

	b.WriteString("# Trace Temporal Structure Report\n\n")
	fmt.Fprintf(&b, "Run `%s`.\n\n", result.RunID)

	b.WriteString("## Trace\n\n")
	fmt.Fprintf(&b, "- **Events:** %d (%d records dropped during normalization)\n", result.EventCount, result.DroppedRecords)
	fmt.Fprintf(&b, "- **Span:** %.1fs to %.1fs\n", result.TraceStartSec, result.TraceEndSec)
	if result.Sessions != nil {
		fmt.Fprintf(&b, "- **Sessions:** %d (gap threshold %.0fs)\n", result.Sessions.Len(), result.Sessions.GapThresholdSec)
	}
	b.WriteString("\n")

	if result.Windows != nil {
		b.WriteString("## Windowed variation\n\n")
		fmt.Fprintf(&b, "- **Windows:** %d of %.0fs each\n", result.Windows.Len(), result.Windows.BinWidthSec)
		if result.Variance != nil && result.Variance.GlobalCV != nil {
			fmt.Fprintf(&b, "- **CV across windows:** %.4f\n", *result.Variance.GlobalCV)
		}
		b.WriteString("\nCV quantifies relative variation across windows: CV above 0.1-0.2 suggests non-negligible window-level variation.\n\n")
	}

	if result.Variance != nil {
		b.WriteString("## Variance decomposition\n\n")
		if result.Variance.IntraDay != nil {
			fmt.Fprintf(&b, "- **Within-day CV:** mean = %.4f, std = %.4f over %d days\n",
				result.Variance.IntraDay.Mean, result.Variance.IntraDay.Std, result.Variance.IntraDay.DayCount)
		} else {
			b.WriteString("- **Within-day CV:** not enough qualifying days\n")
		}
		if result.Variance.InterDay != nil {
			fmt.Fprintf(&b, "- **Between-day CV:** mean = %.4f over %d hours of day\n",
				result.Variance.InterDay.Mean, result.Variance.InterDay.HourCount)
		} else {
			b.WriteString("- **Between-day CV:** not enough qualifying hours\n")
		}
		b.WriteString("\n")
	}

	if result.DailyCurves != nil {
		b.WriteString("## Daily consistency\n\n")
		fmt.Fprintf(&b, "- **Pairwise correlation between daily hourly curves:** mean = %.4f, std = %.4f over %d pairs\n\n",
			result.DailyCurves.Mean, result.DailyCurves.Std, result.DailyCurves.PairCount)
	}

	if result.InterArrival != nil {
		b.WriteString("## Session inter-arrival\n\n")
		fmt.Fprintf(&b, "- **Gaps:** %d, mean = %.1fs, median = %.1fs, p95 = %.1fs\n\n",
			result.InterArrival.Count, result.InterArrival.Mean, result.InterArrival.Median, result.InterArrival.P95)
	}

	if len(result.Concurrency) > 0 {
		b.WriteString("## Concurrent load\n\n")
		b.WriteString("| duration model | peak | mean | median |\n")
		b.WriteString("|---|---|---|---|\n")
		for _, c := range result.Concurrency {
			fmt.Fprintf(&b, "| %s/turn | %d | %.3f | %.3f |\n", c.Label, c.Peak, c.Mean, c.Median)
		}
		b.WriteString("\n")
	}

	if result.Sensitivity != nil && len(result.Sensitivity.Rows) > 0 {
		b.WriteString("## Gap-threshold sensitivity\n\n")
		b.WriteString("| gap | sessions | mean turns | std over hours |\n")
		b.WriteString("|---|---|---|---|\n")
		for _, row := range result.Sensitivity.Rows {
			fmt.Fprintf(&b, "| %s | %d | %.3f | %.3f |\n",
				row.Label, row.SessionCount, row.MeanTurnCount, row.StdMeanTurnsByHour)
		}
		b.WriteString("\n")
		for _, failure := range result.Sensitivity.Failures {
			fmt.Fprintf(&b, "- setting %s failed: %s (%s)\n", failure.Label, failure.Message, failure.ErrorCode)
		}
	}

	return b.String()
}
