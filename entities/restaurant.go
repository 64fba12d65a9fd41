package entities

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type GeoPoint struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
}

type Restaurant struct {
	ID            uuid.UUID                   `gorm:"type:uuid;primary_key" json:"id"`
	Name          string                      `gorm:"index" json:"name"`
	Address       string                      `json:"address"`
	Location      GeoPoint                    `gorm:"embedded;embeddedPrefix:location_" json:"location"`
	Phone         string                      `json:"phone,omitempty"`
	Website       string                      `json:"website,omitempty"`
	Images        datatypes.JSONSlice[string] `json:"images"`
	AverageRating float64                     `gorm:"default:0" json:"average_rating"`
	ReviewCount   int                         `gorm:"default:0" json:"review_count"`
	DeletedAt     gorm.DeletedAt              `gorm:"index" json:"deleted_at"`

	Timestamp
}

// RestaurantDish is a weak reference from a restaurant to a dish. Rows are not
// removed when the dish is soft-deleted.
type RestaurantDish struct {
	RestaurantID uuid.UUID `gorm:"type:uuid;primaryKey" json:"restaurant_id"`
	DishID       uuid.UUID `gorm:"type:uuid;primaryKey;index" json:"dish_id"`
	Position     int       `json:"position"`
}

func (r *Restaurant) BeforeCreate(*gorm.DB) error {
	ensureID(&r.ID)
	return nil
}

func (r *Restaurant) IsDeleted() bool {
	return r.DeletedAt.Valid
}
