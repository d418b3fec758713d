package httpapi

import (
	"context"
	"net/http"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/neilpattanaik/ParlayWatch/internal/usecase"
)

const (
	liveMatchesErrorMessage = "Failed to fetch live matches"
	internalErrorMessage    = "internal server error"
)

type errorResponse struct {
	Error string `json:"error"`
}

type mappedError struct {
	HTTPStatus int
	Message    string
}

func writeJSON(_ context.Context, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = sonic.ConfigDefault.NewEncoder(w).Encode(payload)
}

// writeError never echoes the cause; clients only see the mapped message.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	mapped := mapError(err)
	writeJSON(ctx, w, mapped.HTTPStatus, errorResponse{Error: mapped.Message})
}

func writeInternalError(ctx context.Context, w http.ResponseWriter) {
	writeJSON(ctx, w, http.StatusInternalServerError, errorResponse{Error: internalErrorMessage})
}

func mapError(err error) mappedError {
	switch {
	case crerr.Is(err, usecase.ErrAggregation), crerr.Is(err, usecase.ErrFetch):
		return mappedError{
			HTTPStatus: http.StatusInternalServerError,
			Message:    liveMatchesErrorMessage,
		}
	default:
		return mappedError{
			HTTPStatus: http.StatusInternalServerError,
			Message:    internalErrorMessage,
		}
	}
}
