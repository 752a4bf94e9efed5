// pkg/utils/response.go
package utils

import (
	"encoding/json"
	"log"
	"net/http"

	apperrors "maw-backend/pkg/errors"
)

// ErrorResponse is the wire shape for every failed request.
type ErrorResponse struct {
	OK        bool   `json:"ok"`
	Error     string `json:"error"`
	ErrorCode string `json:"error_code,omitempty"`
}

// SendJSONResponse sends a JSON response with proper error handling
func SendJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")

	// Marshal the data first to catch any encoding errors
	jsonData, err := json.Marshal(data)
	if err != nil {
		log.Printf("Error marshaling JSON response: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		fallbackResponse := map[string]string{
			"error": "Internal server error: failed to encode response",
		}
		json.NewEncoder(w).Encode(fallbackResponse)
		return
	}

	w.WriteHeader(statusCode)

	if _, writeErr := w.Write(jsonData); writeErr != nil {
		log.Printf("Error writing response: %v", writeErr)
	}
}

// SendErrorResponse sends a structured error response
func SendErrorResponse(w http.ResponseWriter, err error) {
	statusCode := apperrors.GetStatusCode(err)

	if appErr, ok := err.(*apperrors.AppError); ok {
		SendJSONResponse(w, statusCode, ErrorResponse{
			OK:        false,
			Error:     appErr.Message,
			ErrorCode: appErr.Type,
		})
		return
	}

	SendJSONResponse(w, statusCode, ErrorResponse{
		OK:    false,
		Error: err.Error(),
	})
}

func DecodeJSONBody(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperrors.NewAppError(apperrors.ErrBadRequest, http.StatusBadRequest, "invalid JSON format")
	}
	return nil
}
