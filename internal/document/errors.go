package document

import "errors"

var (
	ErrEmptyName      = errors.New("field name is empty")
	ErrFieldExists    = errors.New("field already exists")
	ErrFieldNotFound  = errors.New("field not found")
	ErrUnknownMessage = errors.New("unknown commit message")
)
