package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var defaultSeed []byte

// Seed is the initial state of a NOVA deployment.
type Seed struct {
	Categories []Category
	Products   []Product
	Coupons    []SeedCoupon
	Accounts   []SeedAccount
}

// SeedCoupon is a coupon definition as written in the seed file.
type SeedCoupon struct {
	Code            string `yaml:"code" validate:"required"`
	DiscountPercent int    `yaml:"discount" validate:"min=0,max=100"`
	Active          bool   `yaml:"active"`
}

// SeedAccount is a customer or staff login as written in the seed file.
type SeedAccount struct {
	ID            string `yaml:"id" validate:"required"`
	Name          string `yaml:"name" validate:"required"`
	Email         string `yaml:"email" validate:"required,email"`
	Role          string `yaml:"role" validate:"required,oneof=customer manager cashier"`
	Password      string `yaml:"password" validate:"required,min=8"`
	LoyaltyPoints int    `yaml:"loyalty_points" validate:"min=0"`
}

type seedFile struct {
	Categories []seedCategory `yaml:"categories" validate:"dive"`
	Products   []seedProduct  `yaml:"products" validate:"required,min=1,dive"`
	Coupons    []SeedCoupon   `yaml:"coupons" validate:"dive"`
	Accounts   []SeedAccount  `yaml:"accounts" validate:"dive"`
}

type seedCategory struct {
	ID   string `yaml:"id" validate:"required"`
	Name string `yaml:"name" validate:"required"`
	Slug string `yaml:"slug" validate:"required"`
	Icon string `yaml:"icon"`
}

type seedVariant struct {
	Type    string   `yaml:"type" validate:"required"`
	Options []string `yaml:"options" validate:"required,min=1,dive,required"`
}

type seedReview struct {
	ID       string    `yaml:"id" validate:"required"`
	UserName string    `yaml:"user_name" validate:"required"`
	Rating   int       `yaml:"rating" validate:"min=1,max=5"`
	Comment  string    `yaml:"comment"`
	Date     time.Time `yaml:"date"`
}

type seedProduct struct {
	ID          string        `yaml:"id" validate:"required"`
	Name        string        `yaml:"name" validate:"required"`
	Description string        `yaml:"description"`
	Price       int64         `yaml:"price" validate:"min=0"`
	Category    string        `yaml:"category" validate:"required"`
	Image       string        `yaml:"image"`
	Stock       int           `yaml:"stock" validate:"min=0"`
	Rating      float64       `yaml:"rating" validate:"min=0,max=5"`
	Reviews     int           `yaml:"reviews" validate:"min=0"`
	IsNew       bool          `yaml:"is_new"`
	Discount    int           `yaml:"discount" validate:"min=0,max=100"`
	Variants    []seedVariant `yaml:"variants" validate:"dive"`
	ReviewsList []seedReview  `yaml:"reviews_list" validate:"dive"`
}

// DefaultSeed returns the built-in NOVA demo catalog.
func DefaultSeed() (*Seed, error) {
	return ParseSeed(defaultSeed)
}

// LoadSeed reads a seed file. An empty path selects the built-in seed.
func LoadSeed(path string) (*Seed, error) {
	if path == "" {
		return DefaultSeed()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return ParseSeed(data)
}

// ParseSeed decodes and validates a YAML seed document.
func ParseSeed(data []byte) (*Seed, error) {
	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to decode seed: %w", err)
	}
	if err := validator.New().Struct(f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProduct, err)
	}

	seen := make(map[string]bool, len(f.Products))
	seed := &Seed{Coupons: f.Coupons, Accounts: f.Accounts}
	for _, c := range f.Categories {
		seed.Categories = append(seed.Categories, Category(c))
	}
	for _, sp := range f.Products {
		if seen[sp.ID] {
			return nil, fmt.Errorf("%w: duplicate product id %s", ErrInvalidProduct, sp.ID)
		}
		seen[sp.ID] = true
		seed.Products = append(seed.Products, sp.toProduct())
	}
	return seed, nil
}

func (sp seedProduct) toProduct() Product {
	p := Product{
		ID:          sp.ID,
		Name:        sp.Name,
		Description: sp.Description,
		Price:       sp.Price,
		Category:    sp.Category,
		Image:       sp.Image,
		Stock:       sp.Stock,
		Rating:      sp.Rating,
		Reviews:     sp.Reviews,
		IsNew:       sp.IsNew,
		Discount:    sp.Discount,
	}
	for _, v := range sp.Variants {
		p.Variants = append(p.Variants, Variant{Type: v.Type, Options: v.Options})
	}
	for _, r := range sp.ReviewsList {
		p.ReviewsList = append(p.ReviewsList, Review(r))
	}
	return p
}
