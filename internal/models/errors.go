package models

import "errors"

// Доменные ошибки. Граница HTTP переводит их в коды ответа.
var (
	ErrUnauthenticated    = errors.New("authentication required")
	ErrForbidden          = errors.New("permission denied")
	ErrNotFound           = errors.New("not found")
	ErrSelfSubscription   = errors.New("cannot subscribe to own course")
	ErrFreeCourse         = errors.New("course is free and cannot be paid")
	ErrInvalidVideoURL    = errors.New("only youtube video links are allowed")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserInactive       = errors.New("user is inactive")
	ErrExternalService    = errors.New("payment service unavailable")
	ErrPaymentRejected    = errors.New("payment service rejected the request")
	ErrSignature          = errors.New("invalid webhook signature")
)
