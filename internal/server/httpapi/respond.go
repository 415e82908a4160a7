package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/agentchat/internal/common"
	"github.com/dmitrijs2005/agentchat/internal/inference"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeError maps service errors to status codes. Inference failures are
// passed through with their own text so the user sees what went wrong.
func (s *HTTPServer) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var ie *inference.Error

	switch {
	case errors.As(err, &ie):
		writeMessage(w, http.StatusBadGateway, err.Error())
	case errors.Is(err, common.ErrorValidation):
		writeMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, common.ErrorNotFound):
		writeMessage(w, http.StatusNotFound, "not found")
	case errors.Is(err, common.ErrorAlreadyExists):
		writeMessage(w, http.StatusConflict, "already exists")
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired):
		writeMessage(w, http.StatusUnauthorized, "unauthorized")
	default:
		s.logger.Error(r.Context(), "request failed",
			"request_id", requestIDFrom(r.Context()), "path", r.URL.Path, "error", err)
		writeMessage(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid request body: %v", common.ErrorValidation, err)
	}
	return nil
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid session id", common.ErrorValidation)
	}
	return id, nil
}
