// Package dataset loads the recipe corpus from CSV files, falling back to a
// small built-in sample when the configured file cannot be used.
package dataset

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/alchemorsel/souschef/internal/domain/recipe"
	"github.com/alchemorsel/souschef/pkg/errors"
)

//go:embed sample.csv
var sampleCSV []byte

// Column names expected in the dataset header.
const (
	colTitle              = "Title"
	colIngredients        = "Ingredients"
	colInstructions       = "Instructions"
	colCleanedIngredients = "Cleaned_Ingredients"
)

// CSVSource loads recipes from a CSV file on disk. When the file is missing,
// unreadable, or yields no usable rows, Load serves the embedded sample
// instead so the service always starts with a working corpus.
type CSVSource struct {
	path   string
	logger *zap.Logger
}

// NewCSVSource creates a source backed by the CSV file at path.
func NewCSVSource(path string, logger *zap.Logger) *CSVSource {
	return &CSVSource{
		path:   path,
		logger: logger,
	}
}

// Load implements outbound.RecipeSource.
func (s *CSVSource) Load(ctx context.Context) ([]*recipe.Recipe, error) {
	if s.path != "" {
		recipes, err := s.loadFile(ctx)
		if err == nil {
			s.logger.Info("Loaded recipe dataset",
				zap.String("path", s.path),
				zap.Int("recipes", len(recipes)))
			return recipes, nil
		}
		s.logger.Warn("Falling back to built-in sample recipes",
			zap.String("path", s.path),
			zap.Error(err))
	} else {
		s.logger.Info("No dataset path configured, using built-in sample recipes")
	}

	return SampleRecipes()
}

func (s *CSVSource) loadFile(ctx context.Context) ([]*recipe.Recipe, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, errors.NewDataUnavailableError(s.path, err)
	}
	defer f.Close()

	recipes, err := parseRecipes(ctx, f, s.logger)
	if err != nil {
		return nil, errors.NewDataUnavailableError(s.path, err)
	}
	return recipes, nil
}

// SampleRecipes parses the embedded sample corpus.
func SampleRecipes() ([]*recipe.Recipe, error) {
	return parseRecipes(context.Background(), bytes.NewReader(sampleCSV), zap.NewNop())
}

// parseRecipes reads a recipe CSV stream. Rows missing a title or
// ingredients are skipped rather than failing the whole load.
func parseRecipes(ctx context.Context, r io.Reader, logger *zap.Logger) ([]*recipe.Recipe, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{colTitle, colIngredients} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("missing required column %q", required)
		}
	}

	field := func(row []string, name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	var recipes []*recipe.Recipe
	var skipped int
	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row %d: %w", line, err)
		}

		r, err := recipe.New(
			field(row, colTitle),
			field(row, colIngredients),
			field(row, colInstructions),
			field(row, colCleanedIngredients),
		)
		if err != nil {
			skipped++
			logger.Debug("Skipping invalid dataset row",
				zap.Int("line", line),
				zap.Error(err))
			continue
		}
		recipes = append(recipes, r)
	}

	if skipped > 0 {
		logger.Warn("Skipped invalid dataset rows", zap.Int("skipped", skipped))
	}
	if len(recipes) == 0 {
		return nil, fmt.Errorf("no usable recipes in dataset")
	}
	return recipes, nil
}
