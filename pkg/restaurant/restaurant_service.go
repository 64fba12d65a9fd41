package restaurant

import (
	"context"

	"github.com/google/uuid"

	"github.com/tranhuy105/ITSS-CongAn-sub000/domain"
	"github.com/tranhuy105/ITSS-CongAn-sub000/entities"
	"github.com/tranhuy105/ITSS-CongAn-sub000/internal/utils/events"
	"github.com/tranhuy105/ITSS-CongAn-sub000/internal/utils/logger"
	"github.com/tranhuy105/ITSS-CongAn-sub000/pkg/dish"
	"github.com/tranhuy105/ITSS-CongAn-sub000/pkg/geo"
)

type (
	RestaurantService interface {
		CreateRestaurant(ctx context.Context, req domain.CreateRestaurantRequest) (domain.RestaurantResponse, error)
		GetRestaurantByID(ctx context.Context, id string) (domain.RestaurantResponse, error)
		AdminGetRestaurantByID(ctx context.Context, id string) (domain.RestaurantResponse, error)
		UpdateRestaurant(ctx context.Context, id string, req domain.UpdateRestaurantRequest) (domain.RestaurantResponse, error)
		SoftDeleteRestaurant(ctx context.Context, id string) error
		RestoreRestaurant(ctx context.Context, id string) error
		AssignDishes(ctx context.Context, id string, dishIDs []string) (domain.RestaurantResponse, error)
		SearchRestaurants(ctx context.Context, filter domain.RestaurantFilter, page domain.PaginationRequest) (domain.RestaurantListResponse, error)
		FindNearbyRestaurants(ctx context.Context, req domain.NearbyRestaurantsRequest) (domain.RestaurantListResponse, error)
		ListRestaurantsServingDish(ctx context.Context, dishID string, page domain.PaginationRequest) (domain.RestaurantListResponse, error)
	}

	restaurantService struct {
		restaurantRepository RestaurantRepository
		dishRepository       dish.DishRepository
		publisher            events.Publisher
		log                  *logger.Logger
	}
)

func NewRestaurantService(
	restaurantRepository RestaurantRepository,
	dishRepository dish.DishRepository,
	publisher events.Publisher,
	log *logger.Logger,
) RestaurantService {
	return &restaurantService{
		restaurantRepository: restaurantRepository,
		dishRepository:       dishRepository,
		publisher:            publisher,
		log:                  log.With("service", "RestaurantService"),
	}
}

func toRestaurantResponse(r *entities.Restaurant) domain.RestaurantResponse {
	images := []string(r.Images)
	if images == nil {
		images = []string{}
	}
	res := domain.RestaurantResponse{
		ID:            r.ID.String(),
		Name:          r.Name,
		Address:       r.Address,
		Location:      domain.Location{Longitude: r.Location.Longitude, Latitude: r.Location.Latitude},
		Phone:         r.Phone,
		Website:       r.Website,
		Images:        images,
		AverageRating: r.AverageRating,
		ReviewCount:   r.ReviewCount,
		Status:        domain.StatusActive,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
	if r.IsDeleted() {
		at := r.DeletedAt.Time
		res.Status = domain.StatusDeleted
		res.DeletedAt = &at
	}
	return res
}

func toRestaurantResponses(rs []*entities.Restaurant) []domain.RestaurantResponse {
	out := make([]domain.RestaurantResponse, 0, len(rs))
	for _, r := range rs {
		out = append(out, toRestaurantResponse(r))
	}
	return out
}

func validID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrRestaurantNotFound
	}
	return nil
}

func validateRatingRange(filter domain.RestaurantFilter) error {
	if filter.MinRating < 0 || filter.MaxRating > 5 ||
		(filter.MaxRating > 0 && filter.MinRating > filter.MaxRating) {
		return domain.ErrInvalidRatingFilter
	}
	return nil
}

func (s *restaurantService) CreateRestaurant(ctx context.Context, req domain.CreateRestaurantRequest) (domain.RestaurantResponse, error) {
	if err := geo.ValidatePoint(geo.FromLocation(req.Location)); err != nil {
		return domain.RestaurantResponse{}, err
	}

	restaurant := &entities.Restaurant{
		Name:     req.Name,
		Address:  req.Address,
		Location: entities.GeoPoint{Longitude: req.Location.Longitude, Latitude: req.Location.Latitude},
		Phone:    req.Phone,
		Website:  req.Website,
		Images:   append([]string{}, req.Images...),
	}
	if err := s.restaurantRepository.CreateRestaurant(ctx, restaurant, req.DishIDs); err != nil {
		return domain.RestaurantResponse{}, err
	}

	s.emit(ctx, events.RestaurantCreated, restaurant.ID.String(), nil)
	return s.withDishes(ctx, restaurant)
}

func (s *restaurantService) withDishes(ctx context.Context, restaurant *entities.Restaurant) (domain.RestaurantResponse, error) {
	dishes, err := s.restaurantRepository.GetRestaurantDishes(ctx, restaurant.ID.String())
	if err != nil {
		return domain.RestaurantResponse{}, err
	}
	res := toRestaurantResponse(restaurant)
	res.Dishes = dish.ToDishResponses(dishes)
	return res, nil
}

func (s *restaurantService) GetRestaurantByID(ctx context.Context, id string) (domain.RestaurantResponse, error) {
	if err := validID(id); err != nil {
		return domain.RestaurantResponse{}, err
	}
	restaurant, err := s.restaurantRepository.GetRestaurantByID(ctx, id, false)
	if err != nil {
		return domain.RestaurantResponse{}, err
	}
	return s.withDishes(ctx, restaurant)
}

func (s *restaurantService) AdminGetRestaurantByID(ctx context.Context, id string) (domain.RestaurantResponse, error) {
	if err := validID(id); err != nil {
		return domain.RestaurantResponse{}, err
	}
	restaurant, err := s.restaurantRepository.GetRestaurantByID(ctx, id, true)
	if err != nil {
		return domain.RestaurantResponse{}, err
	}
	return s.withDishes(ctx, restaurant)
}

func (s *restaurantService) UpdateRestaurant(ctx context.Context, id string, req domain.UpdateRestaurantRequest) (domain.RestaurantResponse, error) {
	if err := validID(id); err != nil {
		return domain.RestaurantResponse{}, err
	}
	restaurant, err := s.restaurantRepository.GetRestaurantByID(ctx, id, false)
	if err != nil {
		return domain.RestaurantResponse{}, err
	}

	if req.Location != nil {
		if err := geo.ValidatePoint(geo.FromLocation(*req.Location)); err != nil {
			return domain.RestaurantResponse{}, err
		}
		restaurant.Location = entities.GeoPoint{Longitude: req.Location.Longitude, Latitude: req.Location.Latitude}
	}
	if req.Name != nil {
		restaurant.Name = *req.Name
	}
	if req.Address != nil {
		restaurant.Address = *req.Address
	}
	if req.Phone != nil {
		restaurant.Phone = *req.Phone
	}
	if req.Website != nil {
		restaurant.Website = *req.Website
	}
	if req.Images != nil {
		restaurant.Images = append([]string{}, (*req.Images)...)
	}

	if err := s.restaurantRepository.UpdateRestaurant(ctx, restaurant); err != nil {
		return domain.RestaurantResponse{}, err
	}

	s.emit(ctx, events.RestaurantUpdated, id, nil)
	return s.withDishes(ctx, restaurant)
}

func (s *restaurantService) SoftDeleteRestaurant(ctx context.Context, id string) error {
	if err := validID(id); err != nil {
		return err
	}
	if err := s.restaurantRepository.SoftDeleteRestaurant(ctx, id); err != nil {
		return err
	}
	s.emit(ctx, events.RestaurantDeleted, id, nil)
	return nil
}

func (s *restaurantService) RestoreRestaurant(ctx context.Context, id string) error {
	if err := validID(id); err != nil {
		return err
	}
	if err := s.restaurantRepository.RestoreRestaurant(ctx, id); err != nil {
		return err
	}
	s.emit(ctx, events.RestaurantRestored, id, nil)
	return nil
}

func (s *restaurantService) AssignDishes(ctx context.Context, id string, dishIDs []string) (domain.RestaurantResponse, error) {
	if err := validID(id); err != nil {
		return domain.RestaurantResponse{}, err
	}
	if err := s.restaurantRepository.AssignDishes(ctx, id, dishIDs); err != nil {
		return domain.RestaurantResponse{}, err
	}

	s.emit(ctx, events.RestaurantAssigned, id, map[string]any{"dish_ids": dishIDs})
	return s.GetRestaurantByID(ctx, id)
}

func (s *restaurantService) SearchRestaurants(ctx context.Context, filter domain.RestaurantFilter, page domain.PaginationRequest) (domain.RestaurantListResponse, error) {
	if err := validateRatingRange(filter); err != nil {
		return domain.RestaurantListResponse{}, err
	}
	page = page.Normalize()

	restaurants, total, err := s.restaurantRepository.SearchRestaurants(ctx, filter, page)
	if err != nil {
		return domain.RestaurantListResponse{}, err
	}
	return domain.RestaurantListResponse{
		Restaurants: toRestaurantResponses(restaurants),
		Pagination:  domain.NewPaginationResponse(page, total),
	}, nil
}

// FindNearbyRestaurants pages over the restaurants inside the spherical cap
// that also pass filter. Order follows filter.Sort, never distance.
func (s *restaurantService) FindNearbyRestaurants(ctx context.Context, req domain.NearbyRestaurantsRequest) (domain.RestaurantListResponse, error) {
	center := geo.FromLocation(req.Center)
	if err := geo.ValidatePoint(center); err != nil {
		return domain.RestaurantListResponse{}, err
	}
	if err := geo.ValidateRadius(req.RadiusMeters); err != nil {
		return domain.RestaurantListResponse{}, err
	}
	if err := validateRatingRange(req.Filter); err != nil {
		return domain.RestaurantListResponse{}, err
	}
	page := req.Page.Normalize()

	candidates, err := s.restaurantRepository.FindInBox(ctx, geo.BoundingBox(center, req.RadiusMeters), req.Filter)
	if err != nil {
		return domain.RestaurantListResponse{}, err
	}

	inside := make([]*entities.Restaurant, 0, len(candidates))
	for _, r := range candidates {
		p := geo.Point{Longitude: r.Location.Longitude, Latitude: r.Location.Latitude}
		if geo.Within(center, p, req.RadiusMeters) {
			inside = append(inside, r)
		}
	}

	total := int64(len(inside))
	start := page.Offset()
	if start > len(inside) {
		start = len(inside)
	}
	end := start + page.Limit
	if end > len(inside) {
		end = len(inside)
	}

	return domain.RestaurantListResponse{
		Restaurants: toRestaurantResponses(inside[start:end]),
		Pagination:  domain.NewPaginationResponse(page, total),
	}, nil
}

func (s *restaurantService) ListRestaurantsServingDish(ctx context.Context, dishID string, page domain.PaginationRequest) (domain.RestaurantListResponse, error) {
	if _, err := uuid.Parse(dishID); err != nil {
		return domain.RestaurantListResponse{}, domain.ErrDishNotFound
	}
	if _, err := s.dishRepository.GetDishByID(ctx, dishID, false); err != nil {
		return domain.RestaurantListResponse{}, err
	}
	page = page.Normalize()

	restaurants, total, err := s.restaurantRepository.ListRestaurantsServingDish(ctx, dishID, page)
	if err != nil {
		return domain.RestaurantListResponse{}, err
	}
	return domain.RestaurantListResponse{
		Restaurants: toRestaurantResponses(restaurants),
		Pagination:  domain.NewPaginationResponse(page, total),
	}, nil
}

func (s *restaurantService) emit(ctx context.Context, typ, id string, payload map[string]any) {
	events.Emit(ctx, s.publisher, s.log, events.Event{Type: typ, EntityID: id, Payload: payload})
}
