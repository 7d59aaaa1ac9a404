package repositories

import "errors"

var (
	// ErrNotFound is wrapped by every lookup that matches no row.
	ErrNotFound = errors.New("record not found")
	// ErrStockConflict is returned when a conditional stock decrement matches no row.
	ErrStockConflict = errors.New("not enough stock to decrement")
)
