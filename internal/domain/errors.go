package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNoGreeting         = errors.New("message does not start with a greeting followed by a restaurant name")
	ErrRestaurantNotFound = errors.New("restaurant not found")
	ErrTemplateMissing    = errors.New("template missing")
	ErrDeliveryNotFound   = errors.New("delivery not found")
)

// TransportError is returned when the messaging provider rejects or fails a
// send or schedule call.
type TransportError struct {
	Op         string
	StatusCode int
	Code       int
	Message    string
	Err        error
}

func (e *TransportError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("transport %s failed: %v", e.Op, e.Err)
	case e.Code != 0:
		return fmt.Sprintf("transport %s failed: status %d, code %d: %s", e.Op, e.StatusCode, e.Code, e.Message)
	default:
		return fmt.Sprintf("transport %s failed: status %d: %s", e.Op, e.StatusCode, e.Message)
	}
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
