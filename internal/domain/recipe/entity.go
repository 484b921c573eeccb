// Package recipe defines the recipe domain entities and normalization rules
package recipe

import "strings"

// Recipe represents a single recipe record from the dataset.
// Recipes are immutable once loaded; the collection is read once at
// startup and shared read-only for the process lifetime.
type Recipe struct {
	title              string
	ingredients        string
	instructions       string
	cleanedIngredients string
}

// New creates a recipe record. The cleaned-ingredient form is derived from
// the display ingredients when the source does not supply one.
func New(title, ingredients, instructions, cleanedIngredients string) (*Recipe, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}

	ingredients = strings.TrimSpace(ingredients)
	if ingredients == "" {
		return nil, ErrEmptyIngredients
	}

	cleanedIngredients = strings.TrimSpace(cleanedIngredients)
	if cleanedIngredients == "" {
		cleanedIngredients = CleanIngredients(ingredients)
	}

	return &Recipe{
		title:              title,
		ingredients:        ingredients,
		instructions:       strings.TrimSpace(instructions),
		cleanedIngredients: cleanedIngredients,
	}, nil
}

// Title returns the recipe title
func (r *Recipe) Title() string {
	return r.title
}

// Ingredients returns the display form of the ingredient list
func (r *Recipe) Ingredients() string {
	return r.ingredients
}

// Instructions returns the preparation instructions
func (r *Recipe) Instructions() string {
	return r.instructions
}

// CleanedIngredients returns the normalized token form used for vectorization
func (r *Recipe) CleanedIngredients() string {
	return r.cleanedIngredients
}

// IngredientList splits the display ingredients into individual items
func (r *Recipe) IngredientList() []string {
	parts := strings.Split(r.ingredients, ",")
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			items = append(items, p)
		}
	}
	return items
}
