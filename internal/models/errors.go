package models

import "errors"

var (
	ErrNotFound       = errors.New("file not found")
	ErrFinalized      = errors.New("file already finalized")
	ErrOffsetMismatch = errors.New("offset mismatch")
	ErrEmptyBody      = errors.New("request body is required")
	ErrMissingName    = errors.New("file name is required")
)
