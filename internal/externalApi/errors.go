package externalApi

import "errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrUnexpectedCode = errors.New("unexpected response code")
)
