package entities

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Review targets exactly one of a dish or a restaurant. The unique indexes
// include soft-deleted rows, so a user reviews a target at most once until an
// admin hard-deletes the review.
type Review struct {
	ID           uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	UserID       uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_review_user_dish;uniqueIndex:idx_review_user_restaurant" json:"user_id"`
	DishID       *uuid.UUID     `gorm:"type:uuid;index;uniqueIndex:idx_review_user_dish" json:"dish_id,omitempty"`
	RestaurantID *uuid.UUID     `gorm:"type:uuid;index;uniqueIndex:idx_review_user_restaurant" json:"restaurant_id,omitempty"`
	Rating       int            `gorm:"not null" json:"rating"`
	Comment      string         `gorm:"type:text" json:"comment,omitempty"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Timestamp
}

func (r *Review) BeforeCreate(*gorm.DB) error {
	ensureID(&r.ID)
	return nil
}

// ReviewsOfDish and ReviewsOfRestaurant select the reviews that count towards
// an aggregate and appear in listings. Soft-deleted rows are dropped by the
// model's default scope.
func ReviewsOfDish(dishID string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Model(&Review{}).Where("dish_id = ?", dishID)
	}
}

func ReviewsOfRestaurant(restaurantID string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Model(&Review{}).Where("restaurant_id = ?", restaurantID)
	}
}
