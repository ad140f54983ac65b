package errors

import "fmt"

var (
	ErrWorkerPanic        = fmt.Errorf("worker panic")
	ErrEmptyWords         = fmt.Errorf("no words have been found")
	ErrInvalidPassword    = fmt.Errorf("invalid password")
	ErrInvalidLogin       = fmt.Errorf("invalid login")
	ErrInvalidCredentials = fmt.Errorf("invalid login or password")
	ErrUserAlreadyExists  = fmt.Errorf("user already exists")
	ErrUserNotFound       = fmt.Errorf("user not found")
	ErrTokenGeneration    = fmt.Errorf("token generation failed")
	ErrEmptySecret        = fmt.Errorf("jwt secret cannot be empty")
	ErrInvalidToken       = fmt.Errorf("invalid or expired token")
	ErrEmptyNickname      = fmt.Errorf("nickname cannot be empty")
	ErrEmptyContent       = fmt.Errorf("message content is empty")
	ErrContentTooLong     = fmt.Errorf("message content is too long")
	ErrUnknownFrame       = fmt.Errorf("unknown frame type")
	ErrNotInChat          = fmt.Errorf("participant has not chosen a nickname yet")
	ErrInvalidRoom        = fmt.Errorf("invalid room")
	ErrNotInRoom          = fmt.Errorf("participant has not joined this room")
	ErrCommandDropped     = fmt.Errorf("server busy, command dropped")
	ErrOutboundQueueFull  = fmt.Errorf("outbound queue full")
)
