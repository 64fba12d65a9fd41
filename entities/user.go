package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Email    string    `gorm:"uniqueIndex;not null" json:"email"`
	Password string    `json:"-"`
	Name     string    `json:"name"`
	Role     string    `gorm:"default:user" json:"role"`

	Favorites []*Favorite `gorm:"foreignKey:UserID" json:"-"`
	Timestamp
}

// Favorite is a durable pointer from a user to a dish. It survives the dish
// being soft-deleted and becomes visible again on restore.
type Favorite struct {
	UserID  uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	DishID  uuid.UUID `gorm:"type:uuid;primaryKey;index" json:"dish_id"`
	AddedAt time.Time `gorm:"type:timestamp;index" json:"added_at"`

	Dish *Dish `gorm:"foreignKey:DishID" json:"dish,omitempty"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	ensureID(&u.ID)
	return nil
}
