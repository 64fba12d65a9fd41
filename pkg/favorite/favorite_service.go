package favorite

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/tranhuy105/ITSS-CongAn-sub000/domain"
	"github.com/tranhuy105/ITSS-CongAn-sub000/entities"
	"github.com/tranhuy105/ITSS-CongAn-sub000/pkg/dish"
)

type (
	FavoriteService interface {
		AddFavorite(ctx context.Context, userID, dishID string) error
		RemoveFavorite(ctx context.Context, userID, dishID string) error
		IsFavorite(ctx context.Context, userID, dishID string) (bool, error)
		ListFavorites(ctx context.Context, userID string, page domain.PaginationRequest) (domain.FavoriteListResponse, error)
	}

	favoriteService struct {
		favoriteRepository FavoriteRepository
		dishRepository     dish.DishRepository
	}
)

func NewFavoriteService(favoriteRepository FavoriteRepository, dishRepository dish.DishRepository) FavoriteService {
	return &favoriteService{
		favoriteRepository: favoriteRepository,
		dishRepository:     dishRepository,
	}
}

func parseIDs(userID, dishID string) (uuid.UUID, uuid.UUID, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return uuid.Nil, uuid.Nil, domain.ErrParseUUID
	}
	did, err := uuid.Parse(dishID)
	if err != nil {
		return uuid.Nil, uuid.Nil, domain.ErrDishNotFound
	}
	return uid, did, nil
}

func (s *favoriteService) AddFavorite(ctx context.Context, userID, dishID string) error {
	uid, did, err := parseIDs(userID, dishID)
	if err != nil {
		return err
	}
	if _, err := s.dishRepository.GetDishByID(ctx, did.String(), false); err != nil {
		return err
	}

	exists, err := s.favoriteRepository.IsFavorite(ctx, uid.String(), did.String())
	if err != nil {
		return err
	}
	if exists {
		return domain.ErrAlreadyFavorited
	}

	return s.favoriteRepository.AddFavorite(ctx, &entities.Favorite{
		UserID:  uid,
		DishID:  did,
		AddedAt: time.Now().UTC(),
	})
}

func (s *favoriteService) RemoveFavorite(ctx context.Context, userID, dishID string) error {
	uid, did, err := parseIDs(userID, dishID)
	if err != nil {
		if errors.Is(err, domain.ErrDishNotFound) {
			return domain.ErrFavoriteNotFound
		}
		return err
	}
	return s.favoriteRepository.RemoveFavorite(ctx, uid.String(), did.String())
}

func (s *favoriteService) IsFavorite(ctx context.Context, userID, dishID string) (bool, error) {
	uid, did, err := parseIDs(userID, dishID)
	if err != nil {
		return false, err
	}
	return s.favoriteRepository.IsFavorite(ctx, uid.String(), did.String())
}

func (s *favoriteService) ListFavorites(ctx context.Context, userID string, page domain.PaginationRequest) (domain.FavoriteListResponse, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return domain.FavoriteListResponse{}, domain.ErrParseUUID
	}
	page = page.Normalize()

	favorites, total, err := s.favoriteRepository.ListFavorites(ctx, userID, page)
	if err != nil {
		return domain.FavoriteListResponse{}, err
	}

	out := make([]domain.FavoriteResponse, 0, len(favorites))
	for _, f := range favorites {
		// the dish was soft-deleted between the page query and the preload
		if f.Dish == nil {
			continue
		}
		out = append(out, domain.FavoriteResponse{
			Dish:    dish.ToDishResponse(f.Dish),
			AddedAt: f.AddedAt,
		})
	}

	return domain.FavoriteListResponse{
		Favorites:  out,
		Pagination: domain.NewPaginationResponse(page, total),
	}, nil
}
