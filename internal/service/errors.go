package service

import "errors"

var (
	ErrNotFound           = errors.New("error not found")
	ErrPublishingDisabled = errors.New("error report publishing is disabled")
)
