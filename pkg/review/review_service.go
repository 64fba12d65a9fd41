package review

import (
	"context"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/tranhuy105/ITSS-CongAn-sub000/domain"
	"github.com/tranhuy105/ITSS-CongAn-sub000/entities"
	"github.com/tranhuy105/ITSS-CongAn-sub000/internal/utils/logger"
	"github.com/tranhuy105/ITSS-CongAn-sub000/pkg/dish"
	"github.com/tranhuy105/ITSS-CongAn-sub000/pkg/rating"
	"github.com/tranhuy105/ITSS-CongAn-sub000/pkg/restaurant"
)

type (
	ReviewService interface {
		CreateReview(ctx context.Context, userID string, req domain.CreateReviewRequest) (domain.ReviewResponse, error)
		CreateRestaurantReview(ctx context.Context, userID string, req domain.CreateRestaurantReviewRequest) (domain.ReviewResponse, error)
		UpdateReview(ctx context.Context, reviewID, userID string, req domain.UpdateReviewRequest) (domain.ReviewResponse, error)
		SoftDeleteReview(ctx context.Context, reviewID, userID string) error
		HardDeleteReview(ctx context.Context, reviewID string) error
		ListDishReviews(ctx context.Context, dishID string, page domain.PaginationRequest) (domain.ReviewListResponse, error)
		ListRestaurantReviews(ctx context.Context, restaurantID string, page domain.PaginationRequest) (domain.ReviewListResponse, error)
	}

	reviewService struct {
		reviewRepository     ReviewRepository
		dishRepository       dish.DishRepository
		restaurantRepository restaurant.RestaurantRepository
		aggregator           rating.Aggregator
		log                  *logger.Logger
	}
)

func NewReviewService(
	reviewRepository ReviewRepository,
	dishRepository dish.DishRepository,
	restaurantRepository restaurant.RestaurantRepository,
	aggregator rating.Aggregator,
	log *logger.Logger,
) ReviewService {
	return &reviewService{
		reviewRepository:     reviewRepository,
		dishRepository:       dishRepository,
		restaurantRepository: restaurantRepository,
		aggregator:           aggregator,
		log:                  log.With("service", "ReviewService"),
	}
}

func toReviewResponse(r *entities.Review) domain.ReviewResponse {
	res := domain.ReviewResponse{
		ID:        r.ID.String(),
		UserID:    r.UserID.String(),
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if r.DishID != nil {
		res.DishID = r.DishID.String()
	}
	if r.RestaurantID != nil {
		res.RestaurantID = r.RestaurantID.String()
	}
	if r.User != nil {
		res.UserName = r.User.Name
	}
	return res
}

func validateContent(rating int, comment string) error {
	if rating < 1 || rating > 5 {
		return domain.ErrInvalidRating
	}
	if utf8.RuneCountInString(comment) > domain.MaxCommentLength {
		return domain.ErrCommentTooLong
	}
	return nil
}

func (s *reviewService) CreateReview(ctx context.Context, userID string, req domain.CreateReviewRequest) (domain.ReviewResponse, error) {
	if err := validateContent(req.Rating, req.Comment); err != nil {
		return domain.ReviewResponse{}, err
	}
	uid, err := uuid.Parse(userID)
	if err != nil {
		return domain.ReviewResponse{}, domain.ErrParseUUID
	}
	dishID, err := uuid.Parse(req.DishID)
	if err != nil {
		return domain.ReviewResponse{}, domain.ErrDishNotFound
	}

	if _, err := s.dishRepository.GetDishByID(ctx, dishID.String(), false); err != nil {
		return domain.ReviewResponse{}, err
	}

	exists, err := s.reviewRepository.HasDishReview(ctx, userID, dishID.String())
	if err != nil {
		return domain.ReviewResponse{}, err
	}
	if exists {
		return domain.ReviewResponse{}, domain.ErrDuplicateReview
	}

	review := &entities.Review{
		UserID:  uid,
		DishID:  &dishID,
		Rating:  req.Rating,
		Comment: req.Comment,
	}
	// the unique index still rejects a concurrent duplicate that passed the check
	if err := s.reviewRepository.CreateReview(ctx, review); err != nil {
		return domain.ReviewResponse{}, err
	}

	s.refresh(ctx, review)
	return toReviewResponse(review), nil
}

func (s *reviewService) CreateRestaurantReview(ctx context.Context, userID string, req domain.CreateRestaurantReviewRequest) (domain.ReviewResponse, error) {
	if err := validateContent(req.Rating, req.Comment); err != nil {
		return domain.ReviewResponse{}, err
	}
	uid, err := uuid.Parse(userID)
	if err != nil {
		return domain.ReviewResponse{}, domain.ErrParseUUID
	}
	restaurantID, err := uuid.Parse(req.RestaurantID)
	if err != nil {
		return domain.ReviewResponse{}, domain.ErrRestaurantNotFound
	}

	if _, err := s.restaurantRepository.GetRestaurantByID(ctx, restaurantID.String(), false); err != nil {
		return domain.ReviewResponse{}, err
	}

	exists, err := s.reviewRepository.HasRestaurantReview(ctx, userID, restaurantID.String())
	if err != nil {
		return domain.ReviewResponse{}, err
	}
	if exists {
		return domain.ReviewResponse{}, domain.ErrDuplicateReview
	}

	review := &entities.Review{
		UserID:       uid,
		RestaurantID: &restaurantID,
		Rating:       req.Rating,
		Comment:      req.Comment,
	}
	if err := s.reviewRepository.CreateReview(ctx, review); err != nil {
		return domain.ReviewResponse{}, err
	}

	s.refresh(ctx, review)
	return toReviewResponse(review), nil
}

// ownedReview loads a visible review and checks that userID wrote it.
func (s *reviewService) ownedReview(ctx context.Context, reviewID, userID string) (*entities.Review, error) {
	if _, err := uuid.Parse(reviewID); err != nil {
		return nil, domain.ErrReviewNotFound
	}
	review, err := s.reviewRepository.GetReviewByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if review.UserID.String() != userID {
		return nil, domain.ErrNotReviewAuthor
	}
	return review, nil
}

func (s *reviewService) UpdateReview(ctx context.Context, reviewID, userID string, req domain.UpdateReviewRequest) (domain.ReviewResponse, error) {
	if req.Rating == nil && req.Comment == nil {
		return domain.ReviewResponse{}, domain.ErrEmptyReviewChange
	}

	review, err := s.ownedReview(ctx, reviewID, userID)
	if err != nil {
		return domain.ReviewResponse{}, err
	}

	if req.Rating != nil {
		review.Rating = *req.Rating
	}
	if req.Comment != nil {
		review.Comment = *req.Comment
	}
	if err := validateContent(review.Rating, review.Comment); err != nil {
		return domain.ReviewResponse{}, err
	}

	if err := s.reviewRepository.UpdateReview(ctx, review); err != nil {
		return domain.ReviewResponse{}, err
	}

	s.refresh(ctx, review)
	return toReviewResponse(review), nil
}

func (s *reviewService) SoftDeleteReview(ctx context.Context, reviewID, userID string) error {
	review, err := s.ownedReview(ctx, reviewID, userID)
	if err != nil {
		return err
	}
	if err := s.reviewRepository.SoftDeleteReview(ctx, reviewID); err != nil {
		return err
	}
	s.refresh(ctx, review)
	return nil
}

func (s *reviewService) HardDeleteReview(ctx context.Context, reviewID string) error {
	if _, err := uuid.Parse(reviewID); err != nil {
		return domain.ErrReviewNotFound
	}
	review, err := s.reviewRepository.HardDeleteReview(ctx, reviewID)
	if err != nil {
		return err
	}
	s.refresh(ctx, review)
	return nil
}

func (s *reviewService) ListDishReviews(ctx context.Context, dishID string, page domain.PaginationRequest) (domain.ReviewListResponse, error) {
	if _, err := uuid.Parse(dishID); err != nil {
		return domain.ReviewListResponse{}, domain.ErrDishNotFound
	}
	if _, err := s.dishRepository.GetDishByID(ctx, dishID, false); err != nil {
		return domain.ReviewListResponse{}, err
	}
	page = page.Normalize()

	reviews, total, err := s.reviewRepository.ListDishReviews(ctx, dishID, page)
	if err != nil {
		return domain.ReviewListResponse{}, err
	}
	return toListResponse(reviews, page, total), nil
}

func (s *reviewService) ListRestaurantReviews(ctx context.Context, restaurantID string, page domain.PaginationRequest) (domain.ReviewListResponse, error) {
	if _, err := uuid.Parse(restaurantID); err != nil {
		return domain.ReviewListResponse{}, domain.ErrRestaurantNotFound
	}
	if _, err := s.restaurantRepository.GetRestaurantByID(ctx, restaurantID, false); err != nil {
		return domain.ReviewListResponse{}, err
	}
	page = page.Normalize()

	reviews, total, err := s.reviewRepository.ListRestaurantReviews(ctx, restaurantID, page)
	if err != nil {
		return domain.ReviewListResponse{}, err
	}
	return toListResponse(reviews, page, total), nil
}

func toListResponse(reviews []*entities.Review, page domain.PaginationRequest, total int64) domain.ReviewListResponse {
	out := make([]domain.ReviewResponse, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, toReviewResponse(r))
	}
	return domain.ReviewListResponse{
		Reviews:    out,
		Pagination: domain.NewPaginationResponse(page, total),
	}
}

// refresh recomputes the aggregate the review counts towards. A failure has
// already been logged and reported by the aggregator and does not undo the
// review write.
func (s *reviewService) refresh(ctx context.Context, review *entities.Review) {
	var err error
	switch {
	case review.DishID != nil:
		_, err = s.aggregator.RecomputeDishRating(ctx, review.DishID.String())
	case review.RestaurantID != nil:
		_, err = s.aggregator.RecomputeRestaurantRating(ctx, review.RestaurantID.String())
	}
	if err != nil {
		s.log.Warn("review saved with stale rating aggregate", "review_id", review.ID.String(), "error", err)
	}
}
