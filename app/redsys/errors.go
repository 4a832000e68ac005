package redsys

import (
	"errors"
	"fmt"
)

var (
	ErrValidation      = errors.New("redsys: invalid parameter")
	ErrEncoding        = errors.New("redsys: encoding error")
	ErrVerification    = errors.New("redsys: notification verification failed")
	ErrGatewayDeclined = errors.New("redsys: operation declined by gateway")
	ErrInvalidSecret   = errors.New("redsys: invalid merchant secret")
)

// ValidationError reports a request field that was rejected by a setter or
// was missing when the request was built.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("redsys: invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// EncodingError wraps a Base64, JSON or XML decoding failure.
type EncodingError struct {
	Format string
	Err    error
}

func (e *EncodingError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("redsys: malformed %s", e.Format)
	}
	return fmt.Sprintf("redsys: malformed %s: %v", e.Format, e.Err)
}

func (e *EncodingError) Is(target error) bool {
	return target == ErrEncoding
}

func (e *EncodingError) Unwrap() error {
	return e.Err
}

type VerificationKind int

const (
	MissingField VerificationKind = iota + 1
	MalformedPayload
	SignatureMismatch
)

func (k VerificationKind) String() string {
	switch k {
	case MissingField:
		return "missing_field"
	case MalformedPayload:
		return "malformed_payload"
	case SignatureMismatch:
		return "signature_mismatch"
	default:
		return "unknown"
	}
}

// VerificationError means a notification must be discarded. Nothing in the
// payload may be trusted when it is returned.
type VerificationError struct {
	Kind   VerificationKind
	Detail string
	Err    error
}

func (e *VerificationError) Error() string {
	msg := "redsys: notification rejected (" + e.Kind.String() + ")"
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *VerificationError) Is(target error) bool {
	return target == ErrVerification
}

func (e *VerificationError) Unwrap() error {
	return e.Err
}

// DeclinedError is returned for authentic notifications whose response code
// is not a success code. Message is nil when the code is not catalogued.
type DeclinedError struct {
	Code    string
	Message *Message
}

func (e *DeclinedError) Error() string {
	if e.Message != nil && e.Message.Text != "" {
		return fmt.Sprintf("redsys: operation declined (%s): %s", e.Code, e.Message.Text)
	}
	return fmt.Sprintf("redsys: operation declined (%s)", e.Code)
}

func (e *DeclinedError) Is(target error) bool {
	return target == ErrGatewayDeclined
}

// Description returns the human readable reason of the decline.
func (e *DeclinedError) Description() string {
	if e.Message != nil && e.Message.Text != "" {
		return e.Message.Text
	}
	return "unknown response code " + e.Code
}
