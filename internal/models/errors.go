package models

import (
	"errors"
)

var (
	ErrNoRecord          = errors.New("models: no matching record found")
	ErrDuplicateProperty = errors.New("models: duplicate property id")
	ErrInvalidProperty   = errors.New("models: invalid property")
)
