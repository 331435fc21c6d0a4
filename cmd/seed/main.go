package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"github.com/plateful/backend/config"
	"github.com/plateful/backend/internal/database"
	"github.com/plateful/backend/internal/models"
)

type tagSeed struct {
	Name  string `json:"name" validate:"required"`
	Color string `json:"color" validate:"required,hexcolor"`
	Slug  string `json:"slug" validate:"required"`
}

type ingredientSeed struct {
	Name            string `json:"name" validate:"required"`
	MeasurementUnit string `json:"measurement_unit" validate:"required"`
}

func main() {
	tagsFile := flag.String("tags", "data/tags.json", "path to tags JSON file")
	ingredientsFile := flag.String("ingredients", "data/ingredients.json", "path to ingredients JSON file")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	validate := validator.New()

	tags, err := loadSeeds[tagSeed](*tagsFile, validate)
	if err != nil {
		log.Fatalf("Failed to load tags: %v", err)
	}
	ingredients, err := loadSeeds[ingredientSeed](*ingredientsFile, validate)
	if err != nil {
		log.Fatalf("Failed to load ingredients: %v", err)
	}

	created := 0
	for _, t := range tags {
		tag := models.Tag{Name: t.Name, Color: t.Color, Slug: t.Slug}
		if err := db.Create(&tag).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				continue
			}
			log.Fatalf("Failed to create tag %q: %v", t.Name, err)
		}
		created++
	}
	log.Printf("Created %d tags (%d skipped as existing)", created, len(tags)-created)

	created = 0
	for _, i := range ingredients {
		ingredient := models.Ingredient{Name: i.Name, MeasurementUnit: i.MeasurementUnit}
		if err := db.Create(&ingredient).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				continue
			}
			log.Fatalf("Failed to create ingredient %q: %v", i.Name, err)
		}
		created++
	}
	log.Printf("Created %d ingredients (%d skipped as existing)", created, len(ingredients)-created)
}

func loadSeeds[T any](path string, validate *validator.Validate) ([]T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var seeds []T
	if err := json.Unmarshal(data, &seeds); err != nil {
		return nil, fmt.Errorf("invalid JSON in %s: %w", path, err)
	}

	for i := range seeds {
		if err := validate.Struct(&seeds[i]); err != nil {
			return nil, fmt.Errorf("entry %d in %s: %w", i, path, err)
		}
	}
	return seeds, nil
}
