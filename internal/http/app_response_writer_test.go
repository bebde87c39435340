package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"trace-analytics/internal/shared/svcerrors"

	"github.com/stretchr/testify/assert"
)

func TestAppResponseWriter_ErrorCode(t *testing.T) {
	t.Parallel()

	appWriter := newAppResponseWriter(httptest.NewRecorder(), 1)

	assert.Equal(t, "", appWriter.ErrorCode())

	appWriter.SetServiceError(svcerrors.NewNotFoundError(codeRunNotFound, "run not found", nil))
	assert.Equal(t, codeRunNotFound, appWriter.ErrorCode())

	appWriter.SetServiceError(svcerrors.NewInternalErrorUndefined(nil))
	assert.Equal(t, "SYS_9001", appWriter.ErrorCode())

	appWriter.SetServiceError(nil)
	assert.Equal(t, "", appWriter.ErrorCode())
}

func TestAppResponseWriter_WrapsResponseWriter(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	appWriter := newAppResponseWriter(rr, 1)

	appWriter.WriteHeader(http.StatusOK)
	assert.Equal(t, http.StatusOK, appWriter.Status())
	assert.Equal(t, http.StatusOK, rr.Code)

	appWriter.Write([]byte(`{"runId":"abc"}`))
	assert.Equal(t, `{"runId":"abc"}`, rr.Body.String())
	assert.Equal(t, http.StatusOK, appWriter.Status())
}
