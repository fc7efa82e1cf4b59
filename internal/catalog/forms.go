package catalog

import (
	"strings"

	"github.com/spf13/cast"

	"github.com/drstein77/storefront/internal/models"
	"github.com/drstein77/storefront/internal/validation"
)

// ProductForm is the back-office add/edit product form. Price and stock may
// arrive as numbers or numeric strings.
type ProductForm struct {
	Name        string          `json:"name"`
	Price       any             `json:"price"`
	Description string          `json:"description"`
	Details     []string        `json:"details"`
	ImageURLs   []string        `json:"imageUrls"`
	Category    models.Category `json:"category"`
	Stock       any             `json:"stock"`
}

// Product validates the form and returns the product it describes. Blank
// details and image URLs are dropped.
func (f ProductForm) Product() (models.Product, error) {
	errs := validation.FieldErrors{}
	if validation.Blank(f.Name) {
		errs["name"] = "Product name is required."
	}
	price, err := cast.ToFloat64E(f.Price)
	if err != nil || price <= 0 {
		errs["price"] = "Price must be a positive number."
	}
	if !f.Category.Valid() {
		errs["category"] = "Category must be summer or winter."
	}
	stock := 0
	if f.Stock != nil {
		stock, err = cast.ToIntE(f.Stock)
		if err != nil || stock < 0 {
			errs["stock"] = "Stock must be zero or more."
		}
	}
	if err := errs.Err(); err != nil {
		return models.Product{}, err
	}

	return models.Product{
		Name:        strings.TrimSpace(f.Name),
		Price:       price,
		Description: f.Description,
		Details:     nonBlank(f.Details),
		ImageURLs:   nonBlank(f.ImageURLs),
		Category:    f.Category,
		Stock:       stock,
	}, nil
}

func nonBlank(in []string) []string {
	out := []string{}
	for _, s := range in {
		if !validation.Blank(s) {
			out = append(out, strings.TrimSpace(s))
		}
	}
	return out
}

type ReviewForm struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
	Author  string `json:"author"`
}

func (f ReviewForm) Review() (models.Review, error) {
	errs := validation.FieldErrors{}
	if f.Rating < 1 || f.Rating > 5 {
		errs["rating"] = "Please select a rating."
	}
	if validation.Blank(f.Comment) {
		errs["comment"] = "Please enter a comment."
	}
	if validation.Blank(f.Author) {
		errs["name"] = "Please enter your name."
	}
	if err := errs.Err(); err != nil {
		return models.Review{}, err
	}
	return models.Review{
		Author:  strings.TrimSpace(f.Author),
		Rating:  f.Rating,
		Comment: strings.TrimSpace(f.Comment),
	}, nil
}
