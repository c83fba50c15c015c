// internal/app/store/storeutil/errors.go
package storeutil

import "errors"

// Unique-key violations shared by the slugged stores. Handlers report all of
// them as 400.
var (
	ErrDuplicateSlug = errors.New("slug already exists")
	ErrDuplicateName = errors.New("name already exists")
	ErrEmptySlug     = errors.New("slug must contain at least one letter or digit")
)
