package errors

import "fmt"

var (
	ErrMissingToken = fmt.Errorf("missing bearer token")
	ErrInvalidToken = fmt.Errorf("invalid or expired token")
	ErrUnknownRoom  = fmt.Errorf("unknown room")
	ErrUnknownUser  = fmt.Errorf("unknown user")
)
