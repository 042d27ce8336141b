package models

import (
	"errors"
	"fmt"
)

// ErrNotFound matches every "record does not exist" failure of this package.
var ErrNotFound = errors.New("not found")

var (
	// ErrProductNotFound is returned when a product is not found.
	ErrProductNotFound = fmt.Errorf("product %w", ErrNotFound)
	// ErrCategoryNotFound is returned when a category is not found.
	ErrCategoryNotFound = fmt.Errorf("category %w", ErrNotFound)
)
