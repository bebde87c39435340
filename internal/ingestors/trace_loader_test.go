package ingestors

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trace-analytics/internal/shared/svcerrors"
)

func writeTraceFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestTraceLoader_CSV(t *testing.T) {
	t.Parallel()

	path := writeTraceFile(t, "trace.csv", `Timestamp,Log Type,Session ID
100.5,Conversation log,7
200,API log,
not-a-number,Conversation log,8
300,Conversation log,9
`)

	loader := NewTraceLoader()
	result, err := loader.Load(context.Background(), path)
	require.NoError(t, err)

	assert.True(t, result.HasSessionIDColumn)
	require.Len(t, result.Records, 4)

	assert.Equal(t, 100.5, result.Records[0].Timestamp)
	assert.True(t, result.Records[0].HasTimestamp)
	assert.Equal(t, "Conversation log", result.Records[0].Kind)
	assert.Equal(t, int64(7), result.Records[0].SessionID)
	assert.True(t, result.Records[0].HasSessionID)

	// Blank session id becomes a missing value, not a parse failure.
	assert.True(t, result.Records[1].HasTimestamp)
	assert.False(t, result.Records[1].HasSessionID)
	assert.Equal(t, "API log", result.Records[1].Kind)

	// Unparsable timestamp survives loading but is flagged for dropping.
	assert.False(t, result.Records[2].HasTimestamp)
}

func TestTraceLoader_CSV_NoSessionColumn(t *testing.T) {
	t.Parallel()

	path := writeTraceFile(t, "trace.csv", `Timestamp
10
20
`)

	loader := NewTraceLoader()
	result, err := loader.Load(context.Background(), path)
	require.NoError(t, err)
	assert.False(t, result.HasSessionIDColumn)
	assert.Len(t, result.Records, 2)
}

func TestTraceLoader_CSV_MissingTimestampColumn(t *testing.T) {
	t.Parallel()

	path := writeTraceFile(t, "trace.csv", `Session ID
1
`)

	loader := NewTraceLoader()
	_, err := loader.Load(context.Background(), path)
	require.Error(t, err)
	svcErr, ok := svcerrors.AsServiceError(err)
	require.True(t, ok)
	assert.True(t, svcErr.IsInvalidArgument())
}

func TestTraceLoader_JSONL(t *testing.T) {
	t.Parallel()

	path := writeTraceFile(t, "trace.jsonl", `{"timestamp": 12.5, "kind": "conversational", "sessionId": 3}
{"timestamp": "42", "kind": "other"}
not json
{"kind": "conversational"}
`)

	loader := NewTraceLoader()
	result, err := loader.Load(context.Background(), path)
	require.NoError(t, err)

	assert.True(t, result.HasSessionIDColumn)
	require.Len(t, result.Records, 4)

	assert.Equal(t, 12.5, result.Records[0].Timestamp)
	assert.Equal(t, int64(3), result.Records[0].SessionID)
	assert.True(t, result.Records[0].HasSessionID)

	// Numeric strings are accepted for timestamps.
	assert.Equal(t, 42.0, result.Records[1].Timestamp)
	assert.True(t, result.Records[1].HasTimestamp)
	assert.False(t, result.Records[1].HasSessionID)

	assert.False(t, result.Records[2].HasTimestamp)
	assert.False(t, result.Records[3].HasTimestamp)
}

func TestTraceLoader_UnsupportedExtension(t *testing.T) {
	t.Parallel()

	path := writeTraceFile(t, "trace.parquet", "binary")

	loader := NewTraceLoader()
	_, err := loader.Load(context.Background(), path)
	require.Error(t, err)
	svcErr, ok := svcerrors.AsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, "ING_1000", svcErr.Code)
}

func TestTraceLoader_FileNotFound(t *testing.T) {
	t.Parallel()

	loader := NewTraceLoader()
	_, err := loader.Load(context.Background(), filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
	svcErr, ok := svcerrors.AsServiceError(err)
	require.True(t, ok)
	assert.True(t, svcErr.IsInternalError())
}
