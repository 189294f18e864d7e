package entity

import "errors"

// ErrNotFound indicates the requested entity does not exist in the store.
var ErrNotFound = errors.New("entity not found")
