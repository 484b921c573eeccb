package recipe

import "errors"

// Domain validation errors
var (
	ErrEmptyTitle       = errors.New("recipe title cannot be empty")
	ErrEmptyIngredients = errors.New("recipe ingredients cannot be empty")
)
