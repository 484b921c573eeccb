// Package testutils provides test data factories for the test suites.
package testutils

import (
	"fmt"
	"strings"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/alchemorsel/souschef/internal/domain/recipe"
)

// RecipeFactory builds valid random recipes for tests.
type RecipeFactory struct {
	faker *gofakeit.Faker
}

// NewRecipeFactory creates a factory with a fixed seed so test data is
// reproducible across runs.
func NewRecipeFactory(seed int64) *RecipeFactory {
	return &RecipeFactory{faker: gofakeit.New(seed)}
}

// Build creates one random recipe.
func (f *RecipeFactory) Build() (*recipe.Recipe, error) {
	n := f.faker.Number(3, 7)
	ingredients := make([]string, n)
	for i := range ingredients {
		ingredients[i] = f.faker.Vegetable()
	}

	steps := make([]string, f.faker.Number(2, 5))
	for i := range steps {
		steps[i] = fmt.Sprintf("%d. %s.", i+1, f.faker.Sentence(6))
	}

	return recipe.New(
		f.faker.Dinner(),
		strings.Join(ingredients, ", "),
		strings.Join(steps, " "),
		"",
	)
}

// BuildMany creates count random recipes.
func (f *RecipeFactory) BuildMany(count int) ([]*recipe.Recipe, error) {
	recipes := make([]*recipe.Recipe, 0, count)
	for i := 0; i < count; i++ {
		r, err := f.Build()
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, r)
	}
	return recipes, nil
}

// BuildCSV renders count random recipes as a dataset CSV document.
func (f *RecipeFactory) BuildCSV(count int) (string, error) {
	recipes, err := f.BuildMany(count)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("Title,Ingredients,Instructions,Cleaned_Ingredients\n")
	for _, r := range recipes {
		fmt.Fprintf(&b, "%s,%s,%s,%s\n",
			csvQuote(r.Title()),
			csvQuote(r.Ingredients()),
			csvQuote(r.Instructions()),
			csvQuote(r.CleanedIngredients()))
	}
	return b.String(), nil
}

func csvQuote(field string) string {
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}
