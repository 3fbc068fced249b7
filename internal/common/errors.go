package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")
)

// Rejection sentinels. Match with errors.Is; the comparison is by Kind, so a
// freshly built *Error with a custom message still matches its sentinel.
var (
	ErrValidation         = &Error{Kind: KindValidation, Message: "Validation error"}
	ErrConflict           = &Error{Kind: KindConflict, Message: "User with this email already exists."}
	ErrInvalidCredentials = &Error{Kind: KindInvalidCredentials, Message: "Invalid email or password."}
	ErrUnauthenticated    = &Error{Kind: KindUnauthenticated, Message: "Authentication required. Please provide a token."}
	ErrInvalidToken       = &Error{Kind: KindInvalidToken, Message: "Invalid token."}
	ErrTokenExpired       = &Error{Kind: KindTokenExpired, Message: "Token expired. Please login again."}
	ErrUserNotFound       = &Error{Kind: KindUserNotFound, Message: "User not found. Invalid token."}
	ErrForbidden          = &Error{Kind: KindForbidden, Message: "Access denied. Admin role required."}
	ErrNotFound           = &Error{Kind: KindNotFound, Message: "Resource not found."}
	ErrorInternal         = &Error{Kind: KindInternal, Message: "Internal server error"}
)
