package dish

import (
	"github.com/tranhuy105/ITSS-CongAn-sub000/domain"
	"github.com/tranhuy105/ITSS-CongAn-sub000/entities"
)

func ToDishResponse(d *entities.Dish) domain.DishResponse {
	res := domain.DishResponse{
		ID:            d.ID.String(),
		Name:          domain.LocalizedText{Vi: d.Name.Vi, Ja: d.Name.Ja},
		Description:   domain.LocalizedDescription{Vi: d.Description.Vi, Ja: d.Description.Ja},
		Images:        nonNil(d.Images),
		Ingredients:   nonNil(d.Ingredients),
		Category:      d.Category,
		Region:        d.Region,
		CookingTime:   d.CookingTime,
		PriceRange:    domain.PriceRange{Min: d.PriceRange.Min, Max: d.PriceRange.Max},
		AverageRating: d.AverageRating,
		ReviewCount:   d.ReviewCount,
		Version:       len(d.History) + 1,
		Status:        domain.StatusActive,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
	if d.IsDeleted() {
		at := d.DeletedAt.Time
		res.Status = domain.StatusDeleted
		res.DeletedAt = &at
	}
	return res
}

func ToDishResponses(dishes []*entities.Dish) []domain.DishResponse {
	out := make([]domain.DishResponse, 0, len(dishes))
	for _, d := range dishes {
		out = append(out, ToDishResponse(d))
	}
	return out
}

func toSnapshotResponse(s entities.DishSnapshot) domain.DishSnapshot {
	return domain.DishSnapshot{
		Name:        domain.LocalizedText{Vi: s.Name.Vi, Ja: s.Name.Ja},
		Description: domain.LocalizedDescription{Vi: s.Description.Vi, Ja: s.Description.Ja},
		Images:      nonNil(s.Images),
		Ingredients: nonNil(s.Ingredients),
		Category:    s.Category,
		Region:      s.Region,
		CookingTime: s.CookingTime,
		PriceRange:  domain.PriceRange{Min: s.PriceRange.Min, Max: s.PriceRange.Max},
	}
}

func toHistoryResponse(d *entities.Dish) domain.DishHistoryResponse {
	history := make([]domain.DishVersionResponse, 0, len(d.History))
	for _, v := range d.History {
		history = append(history, domain.DishVersionResponse{
			Version:    v.Version,
			Data:       toSnapshotResponse(v.Data),
			ModifiedBy: v.ModifiedBy,
			ModifiedAt: v.ModifiedAt,
		})
	}
	return domain.DishHistoryResponse{
		DishID:         d.ID.String(),
		CurrentVersion: len(d.History) + 1,
		History:        history,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
