package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"trace-analytics/internal/shared/svcerrors"
	"trace-analytics/internal/stores"

	"github.com/go-chi/chi/v5"
)

const codeRunNotFound = "HTTP_1000"

type AppHttpHandler interface {
	Handle(w http.ResponseWriter, r *http.Request) error
}

type getRunHandler struct {
	resultStore stores.ResultStore
}

func NewGetRunHandler(resultStore stores.ResultStore) AppHttpHandler {
	return &getRunHandler{
		resultStore: resultStore,
	}
}

// Handle processes GET /runs/{runID} requests, returning the persisted JSON
// summary of one analysis run.
func (h *getRunHandler) Handle(w http.ResponseWriter, r *http.Request) error {
	runID := chi.URLParam(r, "runID")
	result, err := h.resultStore.Get(r.Context(), runID)
	if err != nil {
		if errors.Is(err, stores.ErrRunNotFound) {
			return svcerrors.NewNotFoundError(codeRunNotFound, "run "+runID+" not found", err)
		}
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	return json.NewEncoder(w).Encode(result)
}
