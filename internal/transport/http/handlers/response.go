package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/vedran77/pulse-channels/pkg/apperror"
	"github.com/vedran77/pulse-channels/pkg/validator"
)

var statusByCode = map[apperror.Code]int{
	apperror.CodeInvalidArgument:    http.StatusBadRequest,
	apperror.CodeNotFound:           http.StatusNotFound,
	apperror.CodeAlreadyExists:      http.StatusConflict,
	apperror.CodePermissionDenied:   http.StatusForbidden,
	apperror.CodeUnauthenticated:    http.StatusUnauthorized,
	apperror.CodeEncryptionTooLarge: http.StatusUnprocessableEntity,
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}

func writeValidationErrors(w http.ResponseWriter, errs validator.ValidationErrors) {
	writeJSON(w, http.StatusBadRequest, map[string]any{
		"error": map[string]any{
			"code":   "VALIDATION_ERROR",
			"fields": errs,
		},
	})
}

// writeAppError answers with the status of the first AppError in err's
// chain. Anything else is logged and reported as INTERNAL.
func writeAppError(w http.ResponseWriter, log *slog.Logger, op string, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		if status, ok := statusByCode[appErr.Code]; ok {
			writeError(w, status, string(appErr.Code), appErr.Message)
			return
		}
	}

	log.Error("Request failed", "op", op, "error", err)
	writeError(w, http.StatusInternalServerError, string(apperror.CodeInternal), "Something went wrong")
}

// decode reads a JSON body into dst and runs its validate tags. It writes
// the error response itself and reports whether the handler may go on.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return false
	}
	if errs := validator.Struct(dst); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}
