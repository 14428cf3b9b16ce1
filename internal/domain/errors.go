package domain

import "errors"

var (
	ErrUnreadableDocument = errors.New("document yields no extractable text")
	ErrTimeout            = errors.New("completion service timed out")
	ErrServiceUnavailable = errors.New("completion service unavailable")
	ErrMalformedOutput    = errors.New("model output is not a JSON object")
	ErrRequestNotFound    = errors.New("procurement request not found")
	ErrInvalidStatus      = errors.New("unknown request status")
	ErrInvalidTransition  = errors.New("status transition not allowed")
)
