package assessment

import "errors"

var (
	ErrUnknownVariant = errors.New("assessment variant not found")
	ErrInvalidCatalog = errors.New("invalid assessment catalog")
)
