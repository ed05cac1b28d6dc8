package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rpggio/feedback-widget/internal/domain/feedback"
)

const maxBodyBytes = 64 << 10

var errBodyTooLarge = errors.New("request body too large")

// DecodeJSON decodes a single JSON object from body into dst.
func DecodeJSON(body io.Reader, dst any) error {
	limited := io.LimitReader(body, maxBodyBytes+1)
	data, err := io.ReadAll(limited)
	if err != nil {
		return fmt.Errorf("reading body: %w", err)
	}
	if len(data) > maxBodyBytes {
		return errBodyTooLarge
	}
	if err := json.Unmarshal(data, dst); err != nil {
		if isSyntaxError(err) {
			return fmt.Errorf("invalid JSON body: %w", err)
		}
		return fmt.Errorf("decoding body: %w", err)
	}
	return nil
}

// WriteJSON writes payload with the given status.
func WriteJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// WriteError writes a {"error": message} body.
func WriteError(w http.ResponseWriter, status int, message string) {
	if message == "" {
		message = http.StatusText(status)
	}
	WriteJSON(w, status, feedback.ErrorResponse{Error: message})
}
