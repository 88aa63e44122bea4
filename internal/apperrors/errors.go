// Package apperrors holds the error taxonomy shared by the ledger, its stores and the HTTP layer.
package apperrors

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a ledger failure so callers can react without parsing messages
type ErrorKind string

const (
	KindInvalidRaffleSpec    ErrorKind = "InvalidRaffleSpec"
	KindInvalidPercentage    ErrorKind = "InvalidPercentage"
	KindInvalidPrice         ErrorKind = "InvalidPrice"
	KindNotFound             ErrorKind = "NotFound"
	KindRaffleNotActive      ErrorKind = "RaffleNotActive"
	KindRaffleSoldOut        ErrorKind = "RaffleSoldOut"
	KindDuplicateParticipant ErrorKind = "DuplicateParticipant"
	KindUnauthorized         ErrorKind = "Unauthorized"
	KindAlreadyClosed        ErrorKind = "AlreadyClosed"
	KindNoParticipants       ErrorKind = "NoParticipants"
	KindInvariantViolation   ErrorKind = "InvariantViolation"
	KindRaffleNotClosed      ErrorKind = "RaffleNotClosed"
	KindNotWinner            ErrorKind = "NotWinner"
	KindPrizeAlreadyClaimed  ErrorKind = "PrizeAlreadyClaimed"
	KindNoPrize              ErrorKind = "NoPrize"
	KindInvalidCredentials   ErrorKind = "InvalidCredentials"
	KindAccountExists        ErrorKind = "AccountExists"
	KindInvalidInput         ErrorKind = "InvalidInput"
)

// Error is the typed failure returned across the ledger boundary.
// Two errors are considered equal by errors.Is when their kinds match.
type Error struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Msg != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	case e.Msg != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error with the same kind
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinels for errors.Is checks
var (
	ErrInvalidRaffleSpec    = &Error{Kind: KindInvalidRaffleSpec}
	ErrInvalidPercentage    = &Error{Kind: KindInvalidPercentage}
	ErrInvalidPrice         = &Error{Kind: KindInvalidPrice}
	ErrNotFound             = &Error{Kind: KindNotFound}
	ErrRaffleNotActive      = &Error{Kind: KindRaffleNotActive}
	ErrRaffleSoldOut        = &Error{Kind: KindRaffleSoldOut}
	ErrDuplicateParticipant = &Error{Kind: KindDuplicateParticipant}
	ErrUnauthorized         = &Error{Kind: KindUnauthorized}
	ErrAlreadyClosed        = &Error{Kind: KindAlreadyClosed}
	ErrNoParticipants       = &Error{Kind: KindNoParticipants}
	ErrInvariantViolation   = &Error{Kind: KindInvariantViolation}
	ErrRaffleNotClosed      = &Error{Kind: KindRaffleNotClosed}
	ErrNotWinner            = &Error{Kind: KindNotWinner}
	ErrPrizeAlreadyClaimed  = &Error{Kind: KindPrizeAlreadyClaimed}
	ErrNoPrize              = &Error{Kind: KindNoPrize}
	ErrInvalidCredentials   = &Error{Kind: KindInvalidCredentials}
	ErrAccountExists        = &Error{Kind: KindAccountExists}
	ErrInvalidInput         = &Error{Kind: KindInvalidInput}
)

// NewError builds a typed error with a formatted message
func NewError(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// WrapError builds a typed error around a cause
func WrapError(kind ErrorKind, err error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns the kind of the first *Error in the chain, or "" for untyped errors
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
