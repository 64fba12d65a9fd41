package dish

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/tranhuy105/ITSS-CongAn-sub000/domain"
	"github.com/tranhuy105/ITSS-CongAn-sub000/entities"
	"github.com/tranhuy105/ITSS-CongAn-sub000/internal/utils/events"
	"github.com/tranhuy105/ITSS-CongAn-sub000/internal/utils/logger"
	"github.com/tranhuy105/ITSS-CongAn-sub000/internal/utils/storage"
)

type (
	DishService interface {
		CreateDish(ctx context.Context, req domain.CreateDishRequest) (domain.DishResponse, error)
		GetDishByID(ctx context.Context, id string) (domain.DishResponse, error)
		AdminGetDishByID(ctx context.Context, id string) (domain.DishResponse, error)
		GetDishes(ctx context.Context, filter domain.DishFilter, page domain.PaginationRequest) (domain.DishListResponse, error)
		UpdateDish(ctx context.Context, id string, req domain.UpdateDishRequest, actor string) (domain.DishResponse, error)
		RevertDish(ctx context.Context, id string, version int, actor string) (domain.DishResponse, error)
		GetDishHistory(ctx context.Context, id string) (domain.DishHistoryResponse, error)
		SoftDeleteDish(ctx context.Context, id string) error
		RestoreDish(ctx context.Context, id string) error
		UploadDishImage(ctx context.Context, req domain.UploadDishImageRequest, actor string) (domain.DishResponse, error)
	}

	dishService struct {
		dishRepository DishRepository
		s3             storage.AwsS3
		publisher      events.Publisher
		log            *logger.Logger
	}
)

func NewDishService(dishRepository DishRepository, s3 storage.AwsS3, publisher events.Publisher, log *logger.Logger) DishService {
	return &dishService{
		dishRepository: dishRepository,
		s3:             s3,
		publisher:      publisher,
		log:            log.With("service", "DishService"),
	}
}

func validateContent(s entities.DishSnapshot) error {
	if strings.TrimSpace(s.Name.Vi) == "" && strings.TrimSpace(s.Name.Ja) == "" {
		return domain.ErrDishNameRequired
	}
	if s.CookingTime < 0 {
		return domain.ErrInvalidCookingTime
	}
	if s.PriceRange.Min < 0 || s.PriceRange.Max < 0 {
		return domain.ErrInvalidPriceRange
	}
	if s.PriceRange.Max > 0 && s.PriceRange.Min > s.PriceRange.Max {
		return domain.ErrInvalidPriceRange
	}
	return nil
}

func validID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrDishNotFound
	}
	return nil
}

func (s *dishService) CreateDish(ctx context.Context, req domain.CreateDishRequest) (domain.DishResponse, error) {
	dish := &entities.Dish{}
	dish.Apply(entities.DishSnapshot{
		Name:        entities.LocalizedText{Vi: req.Name.Vi, Ja: req.Name.Ja},
		Description: entities.LocalizedText{Vi: req.Description.Vi, Ja: req.Description.Ja},
		Images:      req.Images,
		Ingredients: req.Ingredients,
		Category:    req.Category,
		Region:      req.Region,
		CookingTime: req.CookingTime,
		PriceRange:  entities.PriceRange{Min: req.PriceRange.Min, Max: req.PriceRange.Max},
	})
	if err := validateContent(dish.Snapshot()); err != nil {
		return domain.DishResponse{}, err
	}

	if err := s.dishRepository.CreateDish(ctx, dish); err != nil {
		return domain.DishResponse{}, err
	}

	s.emit(ctx, events.DishCreated, dish.ID.String(), nil)
	return ToDishResponse(dish), nil
}

func (s *dishService) GetDishByID(ctx context.Context, id string) (domain.DishResponse, error) {
	if err := validID(id); err != nil {
		return domain.DishResponse{}, err
	}
	dish, err := s.dishRepository.GetDishByID(ctx, id, false)
	if err != nil {
		return domain.DishResponse{}, err
	}
	return ToDishResponse(dish), nil
}

func (s *dishService) AdminGetDishByID(ctx context.Context, id string) (domain.DishResponse, error) {
	if err := validID(id); err != nil {
		return domain.DishResponse{}, err
	}
	dish, err := s.dishRepository.GetDishByID(ctx, id, true)
	if err != nil {
		return domain.DishResponse{}, err
	}
	return ToDishResponse(dish), nil
}

func (s *dishService) GetDishes(ctx context.Context, filter domain.DishFilter, page domain.PaginationRequest) (domain.DishListResponse, error) {
	if filter.MinRating < 0 || filter.MaxRating > 5 ||
		(filter.MaxRating > 0 && filter.MinRating > filter.MaxRating) {
		return domain.DishListResponse{}, domain.ErrInvalidRatingFilter
	}
	page = page.Normalize()

	dishes, total, err := s.dishRepository.GetDishes(ctx, filter, page)
	if err != nil {
		return domain.DishListResponse{}, err
	}

	return domain.DishListResponse{
		Dishes:     ToDishResponses(dishes),
		Pagination: domain.NewPaginationResponse(page, total),
	}, nil
}

func applyUpdate(cur entities.DishSnapshot, req domain.UpdateDishRequest) entities.DishSnapshot {
	if req.Name != nil {
		cur.Name = entities.LocalizedText{Vi: req.Name.Vi, Ja: req.Name.Ja}
	}
	if req.Description != nil {
		cur.Description = entities.LocalizedText{Vi: req.Description.Vi, Ja: req.Description.Ja}
	}
	if req.Images != nil {
		cur.Images = *req.Images
	}
	if req.Ingredients != nil {
		cur.Ingredients = *req.Ingredients
	}
	if req.Category != nil {
		cur.Category = *req.Category
	}
	if req.Region != nil {
		cur.Region = *req.Region
	}
	if req.CookingTime != nil {
		cur.CookingTime = *req.CookingTime
	}
	if req.PriceRange != nil {
		cur.PriceRange = entities.PriceRange{Min: req.PriceRange.Min, Max: req.PriceRange.Max}
	}
	return cur
}

func (s *dishService) UpdateDish(ctx context.Context, id string, req domain.UpdateDishRequest, actor string) (domain.DishResponse, error) {
	if err := validID(id); err != nil {
		return domain.DishResponse{}, err
	}

	dish, err := s.dishRepository.ModifyDish(ctx, id, actor, func(d *entities.Dish) error {
		next := applyUpdate(d.Snapshot(), req)
		if err := validateContent(next); err != nil {
			return err
		}
		d.Apply(next)
		return nil
	})
	if err != nil {
		return domain.DishResponse{}, err
	}

	s.emit(ctx, events.DishUpdated, id, map[string]any{"version": len(dish.History)})
	return ToDishResponse(dish), nil
}

// RevertDish restores the content stored under version. The state being
// replaced is itself recorded, so a revert can be reverted.
func (s *dishService) RevertDish(ctx context.Context, id string, version int, actor string) (domain.DishResponse, error) {
	if err := validID(id); err != nil {
		return domain.DishResponse{}, err
	}
	if version < 1 {
		return domain.DishResponse{}, domain.ErrVersionNotFound
	}

	dish, err := s.dishRepository.ModifyDish(ctx, id, actor, func(d *entities.Dish) error {
		for _, v := range d.History {
			if v.Version == version {
				d.Apply(v.Data)
				return nil
			}
		}
		return domain.ErrVersionNotFound
	})
	if err != nil {
		return domain.DishResponse{}, err
	}

	s.emit(ctx, events.DishReverted, id, map[string]any{"reverted_to": version})
	return ToDishResponse(dish), nil
}

func (s *dishService) GetDishHistory(ctx context.Context, id string) (domain.DishHistoryResponse, error) {
	if err := validID(id); err != nil {
		return domain.DishHistoryResponse{}, err
	}
	dish, err := s.dishRepository.GetDishByID(ctx, id, true)
	if err != nil {
		return domain.DishHistoryResponse{}, err
	}
	return toHistoryResponse(dish), nil
}

func (s *dishService) SoftDeleteDish(ctx context.Context, id string) error {
	if err := validID(id); err != nil {
		return err
	}
	if err := s.dishRepository.SoftDeleteDish(ctx, id); err != nil {
		return err
	}
	s.emit(ctx, events.DishDeleted, id, nil)
	return nil
}

func (s *dishService) RestoreDish(ctx context.Context, id string) error {
	if err := validID(id); err != nil {
		return err
	}
	if err := s.dishRepository.RestoreDish(ctx, id); err != nil {
		return err
	}
	s.emit(ctx, events.DishRestored, id, nil)
	return nil
}

// UploadDishImage stores the file and appends its public link through the
// versioned edit path.
func (s *dishService) UploadDishImage(ctx context.Context, req domain.UploadDishImageRequest, actor string) (domain.DishResponse, error) {
	if err := validID(req.DishID); err != nil {
		return domain.DishResponse{}, err
	}
	if _, err := s.dishRepository.GetDishByID(ctx, req.DishID, false); err != nil {
		return domain.DishResponse{}, err
	}

	objectKey, err := s.s3.UploadFile(req.DishID, req.Image, "dishes", storage.AllowImage...)
	if err != nil {
		return domain.DishResponse{}, err
	}
	link := s.s3.GetPublicLinkKey(objectKey)

	dish, err := s.dishRepository.ModifyDish(ctx, req.DishID, actor, func(d *entities.Dish) error {
		d.Images = append(d.Images, link)
		return nil
	})
	if err != nil {
		if delErr := s.s3.DeleteFile(objectKey); delErr != nil {
			s.log.Warn("failed to remove orphaned image", "object_key", objectKey, "error", delErr)
		}
		return domain.DishResponse{}, err
	}

	s.emit(ctx, events.DishUpdated, req.DishID, map[string]any{"version": len(dish.History), "image": link})
	return ToDishResponse(dish), nil
}

func (s *dishService) emit(ctx context.Context, typ, id string, payload map[string]any) {
	events.Emit(ctx, s.publisher, s.log, events.Event{Type: typ, EntityID: id, Payload: payload})
}
