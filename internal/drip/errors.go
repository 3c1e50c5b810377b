package drip

import "errors"

// ValidationError blocks a launch whose inputs are incomplete. Nothing is
// executed and no state is created.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// AuthorizationError blocks autopilot use without an active trial or paid
// subscription.
type AuthorizationError struct {
	Message string
}

func (e *AuthorizationError) Error() string { return e.Message }

// TransportError carries the bulk-send collaborator's failure message
// verbatim. The campaign record has already been transitioned to paused
// when this error is returned.
type TransportError struct {
	Message string
}

func (e *TransportError) Error() string { return e.Message }

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsAuthorization reports whether err is an AuthorizationError.
func IsAuthorization(err error) bool {
	var ae *AuthorizationError
	return errors.As(err, &ae)
}

// IsTransport reports whether err is a TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
