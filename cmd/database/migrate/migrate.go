package migration

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/tranhuy105/ITSS-CongAn-sub000/entities"
)

func Migrate(db *gorm.DB) error {
	if db.Dialector.Name() == "postgres" {
		db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";")
	}

	models := []struct {
		name  string
		model interface{}
	}{
		{"user", &entities.User{}},
		{"dish", &entities.Dish{}},
		{"restaurant", &entities.Restaurant{}},
		{"restaurant dish", &entities.RestaurantDish{}},
		{"review", &entities.Review{}},
		{"favorite", &entities.Favorite{}},
	}
	for _, m := range models {
		if err := db.AutoMigrate(m.model); err != nil {
			return fmt.Errorf("error migrating %s table: %w", m.name, err)
		}
	}
	return nil
}
