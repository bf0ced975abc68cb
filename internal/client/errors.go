package client

import (
	"errors"
	"fmt"

	"github.com/travelog/travelog/internal/handler/dto"
)

// APIError is a failed response decoded from the server's error envelope.
type APIError struct {
	Status  int
	Kind    dto.Kind
	Code    string
	Message string
	Fields  map[string][]string

	// Detail is the underlying error text, only sent by development servers.
	Detail string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api error %d %s: %s", e.Status, e.Code, e.Message)
}

// IsUnauthenticated reports whether the server rejected the caller's token
// or credentials.
func (e *APIError) IsUnauthenticated() bool {
	return e.Kind == dto.KindUnauthenticated
}

// AsAPIError unwraps err to an *APIError.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// HasCode reports whether err is an *APIError with one of the given codes.
func HasCode(err error, codes ...string) bool {
	apiErr, ok := AsAPIError(err)
	if !ok {
		return false
	}
	for _, code := range codes {
		if apiErr.Code == code {
			return true
		}
	}
	return false
}
