package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/kailas-cloud/entdoc/internal/db"
	"github.com/kailas-cloud/entdoc/internal/domain"
	domquery "github.com/kailas-cloud/entdoc/internal/domain/query"
	queryuc "github.com/kailas-cloud/entdoc/internal/usecase/query"
)

// ErrorCode is a machine-readable error code in API responses.
type ErrorCode string

// API error codes.
const (
	CodeBadRequest        ErrorCode = "bad_request"
	CodeUnauthorized      ErrorCode = "unauthorized"
	CodeValidationFailed  ErrorCode = "validation_failed"
	CodeEntityNotFound    ErrorCode = "entity_not_found"
	CodeUnknownEntityType ErrorCode = "unknown_entity_type"
	CodeUnguardedDelete   ErrorCode = "unguarded_delete"
	CodeStoreUnavailable  ErrorCode = "store_unavailable"
	CodeInternalError     ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code       ErrorCode         `json:"code"`
	Message    string            `json:"message"`
	Fields     map[string]string `json:"fields,omitempty"`
	Collection string            `json:"collection,omitempty"`
	Filter     map[string]any    `json:"filter,omitempty"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

func defaultErrorHandlers() []errorHandler {
	return []errorHandler{
		validationHandler,
		notFoundHandler,
		sentinelHandler(domain.ErrUnguardedDelete, http.StatusBadRequest, CodeUnguardedDelete),
		sentinelHandler(domain.ErrMissingIdentity, http.StatusBadRequest, CodeBadRequest),
		sentinelHandler(domquery.ErrEmptyUpdate, http.StatusBadRequest, CodeBadRequest),
		sentinelHandler(queryuc.ErrCollectionRequired, http.StatusBadRequest, CodeBadRequest),
		sentinelHandler(db.ErrNotConnected, http.StatusServiceUnavailable, CodeStoreUnavailable),
	}
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, sentinel.Error())
		return true
	}
}

// validationHandler reports per-field codes of a rejected entity.
func validationHandler(w http.ResponseWriter, err error) bool {
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		return false
	}
	writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
		Code:       CodeValidationFailed,
		Message:    domain.ErrEntityValidation.Error(),
		Fields:     ve.Codes(),
		Collection: ve.Collection,
	})
	return true
}

// notFoundHandler echoes the collection and filter of a strict lookup.
func notFoundHandler(w http.ResponseWriter, err error) bool {
	var nf *domain.NotFoundError
	if !errors.As(err, &nf) {
		return false
	}
	writeJSON(w, http.StatusNotFound, ErrorResponse{
		Code:       CodeEntityNotFound,
		Message:    domain.ErrEntityNotFound.Error(),
		Collection: nf.Collection,
		Filter:     nf.Filter,
	})
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	for _, h := range s.errorHandlers {
		if h(w, err) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}
