package domain

import "errors"

var (
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenSignature = errors.New("invalid token signature")
	ErrTokenMalformed = errors.New("malformed token")
)
