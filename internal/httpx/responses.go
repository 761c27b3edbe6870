package httpx

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the body of every non-2xx JSON reply.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody describes a failed request. Message is a single string, or a
// list with one entry per violated rule for validation failures.
type ErrorBody struct {
	Code      string `json:"code"`
	Message   any    `json:"message"`
	Status    int    `json:"status"`
	RequestID string `json:"request_id,omitempty"`
}

// MessageResponse is a fixed acknowledgment body.
type MessageResponse struct {
	Message string `json:"message"`
}

func JSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}

func JSONMessage(w http.ResponseWriter, message string) {
	JSON(w, http.StatusOK, MessageResponse{Message: message})
}

func JSONError(w http.ResponseWriter, r *http.Request, statusCode int, code string, message string) {
	writeError(w, r, statusCode, code, message)
}

// JSONValidationError replies 400 with every violation message.
func JSONValidationError(w http.ResponseWriter, r *http.Request, messages []string) {
	if messages == nil {
		messages = []string{}
	}
	writeError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", messages)
}

func writeError(w http.ResponseWriter, r *http.Request, statusCode int, code string, message any) {
	JSON(w, statusCode, ErrorResponse{
		Error: ErrorBody{
			Code:      code,
			Message:   message,
			Status:    statusCode,
			RequestID: RequestIDFrom(r),
		},
	})
}
