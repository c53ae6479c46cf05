package services

import "errors"

// Kind is the coarse error category exposed to callers of the services.
type Kind int

const (
	KindUnknown Kind = iota
	KindUnauthenticated
	KindNotFoundOrUnauthorized
	KindConflict
	KindValidation
	KindStorageUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindUnauthenticated:
		return "unauthenticated"
	case KindNotFoundOrUnauthorized:
		return "not_found_or_unauthorized"
	case KindConflict:
		return "conflict"
	case KindValidation:
		return "validation_failure"
	case KindStorageUnavailable:
		return "storage_unavailable"
	default:
		return "unknown"
	}
}

// Error carries a Kind and a message that is safe to show to clients.
// Err holds the internal cause, if any, and is never part of Message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

var (
	ErrUnauthenticated        = &Error{Kind: KindUnauthenticated, Message: "unauthenticated"}
	ErrInvalidCredentials     = &Error{Kind: KindUnauthenticated, Message: "invalid credentials"}
	ErrPostNotFound           = &Error{Kind: KindNotFoundOrUnauthorized, Message: "post not found"}
	ErrNotFoundOrUnauthorized = &Error{Kind: KindNotFoundOrUnauthorized, Message: "post not found or unauthorized"}
	ErrUsernameTaken          = &Error{Kind: KindConflict, Message: "username already taken"}
	ErrAlreadyLiked           = &Error{Kind: KindConflict, Message: "already liked"}
)

// KindOf reports the Kind of err, or KindUnknown if err is not a service error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func validationError(message string) error {
	return &Error{Kind: KindValidation, Message: message}
}

func storageError(err error) error {
	return &Error{Kind: KindStorageUnavailable, Message: "storage unavailable", Err: err}
}
