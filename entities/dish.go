package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PriceRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

type Dish struct {
	ID            uuid.UUID                        `gorm:"type:uuid;primary_key" json:"id"`
	Name          LocalizedText                    `gorm:"embedded;embeddedPrefix:name_" json:"name"`
	Description   LocalizedText                    `gorm:"embedded;embeddedPrefix:description_" json:"description"`
	Images        datatypes.JSONSlice[string]      `json:"images"`
	Ingredients   datatypes.JSONSlice[string]      `json:"ingredients"`
	Category      string                           `gorm:"index" json:"category"`
	Region        string                           `gorm:"index" json:"region"`
	CookingTime   int                              `json:"cooking_time"` // minutes
	PriceRange    PriceRange                       `gorm:"embedded;embeddedPrefix:price_" json:"price_range"`
	AverageRating float64                          `gorm:"default:0" json:"average_rating"`
	ReviewCount   int                              `gorm:"default:0" json:"review_count"`
	History       datatypes.JSONSlice[DishVersion] `json:"history,omitempty"`
	DeletedAt     gorm.DeletedAt                   `gorm:"index" json:"deleted_at"`

	Timestamp
}

// DishSnapshot is the versioned part of a dish. Rating aggregates and the
// history log itself are deliberately absent.
type DishSnapshot struct {
	Name        LocalizedText `json:"name"`
	Description LocalizedText `json:"description"`
	Images      []string      `json:"images"`
	Ingredients []string      `json:"ingredients"`
	Category    string        `json:"category"`
	Region      string        `json:"region"`
	CookingTime int           `json:"cooking_time"`
	PriceRange  PriceRange    `json:"price_range"`
}

type DishVersion struct {
	Version    int          `json:"version"`
	Data       DishSnapshot `json:"data"`
	ModifiedBy string       `json:"modified_by"`
	ModifiedAt time.Time    `json:"modified_at"`
}

// DishContentColumns are the columns written by content edits and reverts.
var DishContentColumns = []string{
	"name_vi", "name_ja",
	"description_vi", "description_ja",
	"images", "ingredients",
	"category", "region", "cooking_time",
	"price_min", "price_max",
	"history", "updated_at",
}

func (d *Dish) BeforeCreate(*gorm.DB) error {
	ensureID(&d.ID)
	return nil
}

func (d *Dish) Snapshot() DishSnapshot {
	return DishSnapshot{
		Name:        d.Name,
		Description: d.Description,
		Images:      append([]string{}, d.Images...),
		Ingredients: append([]string{}, d.Ingredients...),
		Category:    d.Category,
		Region:      d.Region,
		CookingTime: d.CookingTime,
		PriceRange:  d.PriceRange,
	}
}

func (d *Dish) Apply(s DishSnapshot) {
	d.Name = s.Name
	d.Description = s.Description
	d.Images = append(datatypes.JSONSlice[string]{}, s.Images...)
	d.Ingredients = append(datatypes.JSONSlice[string]{}, s.Ingredients...)
	d.Category = s.Category
	d.Region = s.Region
	d.CookingTime = s.CookingTime
	d.PriceRange = s.PriceRange
}

func (d *Dish) IsDeleted() bool {
	return d.DeletedAt.Valid
}
