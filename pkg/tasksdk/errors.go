package tasksdk

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/tasktrack/pkg/httpx"
)

// APIError is an error response, on either side of the wire: handlers write
// it with WriteError and the client returns it from every call.
type APIError struct {
	StatusCode int
	Message    string
	Fields     map[string][]string
}

func NewAPIError(status int, msg string) *APIError {
	return &APIError{StatusCode: status, Message: msg}
}

func (e *APIError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("%d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%d: %s %v", e.StatusCode, e.Message, e.Fields)
}

// WriteError writes e as a JSON ErrorResponse.
func (e *APIError) WriteError(w http.ResponseWriter) {
	httpx.WriteJSON(w, e.StatusCode, ErrorResponse{Error: e.Message, Fields: e.Fields})
}

const (
	MsgInvalidInput  = "Invalid input."
	MsgInternal      = "Internal server error"
	MsgNotFound      = "Not found."
	MsgMalformedBody = "Malformed request body."
	MsgRequestTooBig = "Request body too large."
)

var (
	ErrInternal  = NewAPIError(http.StatusInternalServerError, MsgInternal)
	ErrMalformed = NewAPIError(http.StatusBadRequest, MsgMalformedBody)
	ErrTooLarge  = NewAPIError(http.StatusRequestEntityTooLarge, MsgRequestTooBig)
)

func parseErrorResponse(resp *http.Response, body []byte) error {
	var er ErrorResponse
	if err := json.Unmarshal(body, &er); err == nil && er.Error != "" {
		return &APIError{StatusCode: resp.StatusCode, Message: er.Error, Fields: er.Fields}
	}
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return &APIError{StatusCode: resp.StatusCode, Message: msg}
}
