package repository

import "errors"

var (
	ErrNotFound     = errors.New("record not found")
	ErrDuplicate    = errors.New("record already exists")
	ErrStaleVersion = errors.New("record modified concurrently")
)
