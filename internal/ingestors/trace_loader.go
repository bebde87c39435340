package ingestors

import (
	"bufio"
	"context"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"trace-analytics/internal/shared/loggers"

	"github.com/tidwall/gjson"
)

// RawRecord is one trace row before normalization. Malformed rows survive
// loading with HasTimestamp=false so the normalizer can count them as
// dropped instead of failing the whole run.
type RawRecord struct {
	Timestamp    float64
	HasTimestamp bool
	Kind         string
	SessionID    int64
	HasSessionID bool
}

// LoadResult is the raw record stream plus trace-level shape information.
type LoadResult struct {
	Records []RawRecord

	// HasSessionIDColumn is true when the trace carries an explicit session
	// id column, which bypasses gap-based segmentation downstream.
	HasSessionIDColumn bool
}

//go:generate mockgen -source=trace_loader.go -destination=./mocks/trace_loader_mock.go -package=mocks
type TraceLoader interface {
	// Load reads the trace file at path. CSV and JSONL are supported,
	// chosen by file extension.
	Load(ctx context.Context, path string) (*LoadResult, error)
}

type traceLoader struct{}

func NewTraceLoader() TraceLoader {
	return &traceLoader{}
}

func (l *traceLoader) Load(ctx context.Context, path string) (*LoadResult, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errInternalTraceReadFailed(err)
	}
	defer file.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return l.loadCSV(ctx, file)
	case ".jsonl", ".ndjson", ".json":
		return l.loadJSONL(ctx, file)
	default:
		return nil, errUnsupportedTraceFormat(path)
	}
}

// loadCSV parses a headered CSV trace. Recognized columns (case-insensitive):
// "timestamp" (required), "log type" or "kind", "session id".
func (l *traceLoader) loadCSV(ctx context.Context, r io.Reader) (*LoadResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, errInternalTraceReadFailed(err)
	}

	tsCol, kindCol, sessionCol := -1, -1, -1
	for i, name := range header {
		switch normalizeColumnName(name) {
		case "timestamp":
			tsCol = i
		case "log type", "kind":
			kindCol = i
		case "session id", "sessionid":
			sessionCol = i
		}
	}
	if tsCol < 0 {
		return nil, errUnsupportedTraceFormat("csv trace without a timestamp column")
	}

	result := &LoadResult{HasSessionIDColumn: sessionCol >= 0}
	for {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Row-level parse failures become droppable records, not fatal errors.
			result.Records = append(result.Records, RawRecord{})
			continue
		}

		record := RawRecord{SessionID: -1}
		if tsCol < len(row) {
			if ts, parseErr := strconv.ParseFloat(strings.TrimSpace(row[tsCol]), 64); parseErr == nil {
				record.Timestamp = ts
				record.HasTimestamp = true
			}
		}
		if kindCol >= 0 && kindCol < len(row) {
			record.Kind = strings.TrimSpace(row[kindCol])
		}
		if sessionCol >= 0 && sessionCol < len(row) {
			if id, parseErr := strconv.ParseInt(strings.TrimSpace(row[sessionCol]), 10, 64); parseErr == nil {
				record.SessionID = id
				record.HasSessionID = true
			}
		}
		result.Records = append(result.Records, record)
	}
	return result, nil
}

// loadJSONL parses a JSON-lines trace with fields "timestamp" (number or
// numeric string), "kind" and "sessionId".
func (l *traceLoader) loadJSONL(ctx context.Context, r io.Reader) (*LoadResult, error) {
	result := &LoadResult{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !gjson.Valid(line) {
			result.Records = append(result.Records, RawRecord{})
			continue
		}

		record := RawRecord{SessionID: -1}
		if ts := gjson.Get(line, "timestamp"); ts.Exists() {
			switch ts.Type {
			case gjson.Number:
				record.Timestamp = ts.Float()
				record.HasTimestamp = true
			case gjson.String:
				if v, parseErr := strconv.ParseFloat(ts.String(), 64); parseErr == nil {
					record.Timestamp = v
					record.HasTimestamp = true
				}
			}
		}
		record.Kind = gjson.Get(line, "kind").String()
		if id := gjson.Get(line, "sessionId"); id.Exists() {
			result.HasSessionIDColumn = true
			if id.Type == gjson.Number {
				record.SessionID = id.Int()
				record.HasSessionID = true
			}
		}
		result.Records = append(result.Records, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, errInternalTraceReadFailed(err)
	}

	loggers.Ctx(ctx).Debug().Msgf("loaded %d raw records", len(result.Records))
	return result, nil
}

func normalizeColumnName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
