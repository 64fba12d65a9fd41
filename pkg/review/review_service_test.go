package review

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tranhuy105/ITSS-CongAn-sub000/domain"
	"github.com/tranhuy105/ITSS-CongAn-sub000/entities"
	"github.com/tranhuy105/ITSS-CongAn-sub000/internal/utils/logger"
	"github.com/tranhuy105/ITSS-CongAn-sub000/pkg/dish"
	"github.com/tranhuy105/ITSS-CongAn-sub000/pkg/restaurant"
)

type fakeReviewRepository struct {
	mu      sync.Mutex
	reviews map[string]*entities.Review
	deleted map[string]bool
	// skipPrecheck makes Has* report false, like a racing writer that passed
	// the check before the first insert committed.
	skipPrecheck bool
}

func newFakeReviewRepository() *fakeReviewRepository {
	return &fakeReviewRepository{reviews: map[string]*entities.Review{}, deleted: map[string]bool{}}
}

// stored matches soft-deleted rows too, like the unique indexes.
func (f *fakeReviewRepository) stored(match func(*entities.Review) bool) bool {
	for _, r := range f.reviews {
		if match(r) {
			return true
		}
	}
	return false
}

func (f *fakeReviewRepository) CreateReview(_ context.Context, r *entities.Review) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	dup := f.stored(func(o *entities.Review) bool {
		if o.UserID != r.UserID {
			return false
		}
		if r.DishID != nil && o.DishID != nil {
			return *o.DishID == *r.DishID
		}
		if r.RestaurantID != nil && o.RestaurantID != nil {
			return *o.RestaurantID == *r.RestaurantID
		}
		return false
	})
	if dup {
		return domain.ErrDuplicateReview
	}
	r.ID = uuid.New()
	c := *r
	f.reviews[r.ID.String()] = &c
	return nil
}

func (f *fakeReviewRepository) GetReviewByID(_ context.Context, id string) (*entities.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.reviews[id]
	if !ok || f.deleted[id] {
		return nil, domain.ErrReviewNotFound
	}
	c := *r
	return &c, nil
}

func (f *fakeReviewRepository) HasDishReview(_ context.Context, userID, dishID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.skipPrecheck {
		return false, nil
	}
	return f.stored(func(r *entities.Review) bool {
		return r.UserID.String() == userID && r.DishID != nil && r.DishID.String() == dishID
	}), nil
}

func (f *fakeReviewRepository) HasRestaurantReview(_ context.Context, userID, restaurantID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.skipPrecheck {
		return false, nil
	}
	return f.stored(func(r *entities.Review) bool {
		return r.UserID.String() == userID && r.RestaurantID != nil && r.RestaurantID.String() == restaurantID
	}), nil
}

func (f *fakeReviewRepository) UpdateReview(_ context.Context, r *entities.Review) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := *r
	f.reviews[r.ID.String()] = &c
	return nil
}

func (f *fakeReviewRepository) SoftDeleteReview(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.reviews[id]; !ok || f.deleted[id] {
		return domain.ErrReviewNotFound
	}
	f.deleted[id] = true
	return nil
}

func (f *fakeReviewRepository) HardDeleteReview(_ context.Context, id string) (*entities.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.reviews[id]
	if !ok {
		return nil, domain.ErrReviewNotFound
	}
	delete(f.reviews, id)
	delete(f.deleted, id)
	return r, nil
}

func (f *fakeReviewRepository) ListDishReviews(_ context.Context, dishID string, _ domain.PaginationRequest) ([]*entities.Review, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entities.Review
	for id, r := range f.reviews {
		if !f.deleted[id] && r.DishID != nil && r.DishID.String() == dishID {
			out = append(out, r)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeReviewRepository) ListRestaurantReviews(context.Context, string, domain.PaginationRequest) ([]*entities.Review, int64, error) {
	return nil, 0, nil
}

type activeDishes struct {
	dish.DishRepository
	ids map[string]bool
}

func (a activeDishes) GetDishByID(_ context.Context, id string, _ bool) (*entities.Dish, error) {
	if !a.ids[id] {
		return nil, domain.ErrDishNotFound
	}
	return &entities.Dish{ID: uuid.MustParse(id)}, nil
}

type activeRestaurants struct {
	restaurant.RestaurantRepository
	ids map[string]bool
}

func (a activeRestaurants) GetRestaurantByID(_ context.Context, id string, _ bool) (*entities.Restaurant, error) {
	if !a.ids[id] {
		return nil, domain.ErrRestaurantNotFound
	}
	return &entities.Restaurant{ID: uuid.MustParse(id)}, nil
}

type recordingAggregator struct {
	mu          sync.Mutex
	dishes      []string
	restaurants []string
	err         error
}

func (a *recordingAggregator) RecomputeDishRating(_ context.Context, id string) (domain.RatingSummary, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.dishes = append(a.dishes, id)
	return domain.RatingSummary{}, a.err
}

func (a *recordingAggregator) RecomputeRestaurantRating(_ context.Context, id string) (domain.RatingSummary, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.restaurants = append(a.restaurants, id)
	return domain.RatingSummary{}, a.err
}

func (a *recordingAggregator) ReconcileAll(context.Context) (domain.ReconcileResult, error) {
	return domain.ReconcileResult{}, nil
}

type fixture struct {
	svc          ReviewService
	repo         *fakeReviewRepository
	agg          *recordingAggregator
	dishID       string
	restaurantID string
}

func newFixture() fixture {
	dishID := uuid.NewString()
	restaurantID := uuid.NewString()
	repo := newFakeReviewRepository()
	agg := &recordingAggregator{}
	svc := NewReviewService(
		repo,
		activeDishes{ids: map[string]bool{dishID: true}},
		activeRestaurants{ids: map[string]bool{restaurantID: true}},
		agg,
		logger.Nop(),
	)
	return fixture{svc: svc, repo: repo, agg: agg, dishID: dishID, restaurantID: restaurantID}
}

func ptr[T any](v T) *T { return &v }

func TestCreateReview_TriggersDishRecompute(t *testing.T) {
	f := newFixture()
	user := uuid.NewString()

	res, err := f.svc.CreateReview(context.Background(), user, domain.CreateReviewRequest{DishID: f.dishID, Rating: 5, Comment: "ngon"})
	require.NoError(t, err)
	assert.Equal(t, f.dishID, res.DishID)
	assert.Equal(t, []string{f.dishID}, f.agg.dishes)
}

func TestCreateReview_Duplicate(t *testing.T) {
	f := newFixture()
	user := uuid.NewString()
	ctx := context.Background()

	_, err := f.svc.CreateReview(ctx, user, domain.CreateReviewRequest{DishID: f.dishID, Rating: 4})
	require.NoError(t, err)

	_, err = f.svc.CreateReview(ctx, user, domain.CreateReviewRequest{DishID: f.dishID, Rating: 2})
	assert.ErrorIs(t, err, domain.ErrDuplicateReview)
	assert.ErrorIs(t, err, domain.ErrConflict)

	// a writer that slipped past the pre-check is stopped by storage
	f.repo.skipPrecheck = true
	_, err = f.svc.CreateReview(ctx, user, domain.CreateReviewRequest{DishID: f.dishID, Rating: 2})
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Len(t, f.agg.dishes, 1)
}

func TestCreateReview_Validation(t *testing.T) {
	f := newFixture()
	user := uuid.NewString()
	ctx := context.Background()

	_, err := f.svc.CreateReview(ctx, user, domain.CreateReviewRequest{DishID: f.dishID, Rating: 6})
	assert.ErrorIs(t, err, domain.ErrInvalidRating)

	_, err = f.svc.CreateReview(ctx, user, domain.CreateReviewRequest{DishID: f.dishID, Rating: 3, Comment: strings.Repeat("ă", 1001)})
	assert.ErrorIs(t, err, domain.ErrCommentTooLong)

	_, err = f.svc.CreateReview(ctx, user, domain.CreateReviewRequest{DishID: f.dishID, Rating: 3, Comment: strings.Repeat("ă", 1000)})
	assert.NoError(t, err)

	_, err = f.svc.CreateReview(ctx, user, domain.CreateReviewRequest{DishID: uuid.NewString(), Rating: 3})
	assert.ErrorIs(t, err, domain.ErrDishNotFound)
}

func TestCreateReview_ConsistencyFailureIsNotPropagated(t *testing.T) {
	f := newFixture()
	f.agg.err = &domain.ConsistencyError{Target: "dish", TargetID: f.dishID, Attempts: 2, Err: errors.New("db down")}

	res, err := f.svc.CreateReview(context.Background(), uuid.NewString(), domain.CreateReviewRequest{DishID: f.dishID, Rating: 3})
	require.NoError(t, err)
	assert.NotEmpty(t, res.ID)
}

func TestUpdateAndDelete_AuthorOnly(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	author := uuid.NewString()
	other := uuid.NewString()

	created, err := f.svc.CreateReview(ctx, author, domain.CreateReviewRequest{DishID: f.dishID, Rating: 4})
	require.NoError(t, err)

	_, err = f.svc.UpdateReview(ctx, created.ID, other, domain.UpdateReviewRequest{Rating: ptr(1)})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.ErrorIs(t, f.svc.SoftDeleteReview(ctx, created.ID, other), domain.ErrNotReviewAuthor)

	_, err = f.svc.UpdateReview(ctx, created.ID, author, domain.UpdateReviewRequest{})
	assert.ErrorIs(t, err, domain.ErrEmptyReviewChange)

	updated, err := f.svc.UpdateReview(ctx, created.ID, author, domain.UpdateReviewRequest{Rating: ptr(2)})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Rating)

	require.NoError(t, f.svc.SoftDeleteReview(ctx, created.ID, author))
	assert.ErrorIs(t, f.svc.SoftDeleteReview(ctx, created.ID, author), domain.ErrReviewNotFound)
	assert.Equal(t, []string{f.dishID, f.dishID, f.dishID}, f.agg.dishes)

	// a soft-deleted review still occupies the (user, dish) slot
	_, err = f.svc.CreateReview(ctx, author, domain.CreateReviewRequest{DishID: f.dishID, Rating: 5})
	assert.ErrorIs(t, err, domain.ErrDuplicateReview)
}

func TestUpdateReview_CommentOnlyTriggersRecompute(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	author := uuid.NewString()
	created, err := f.svc.CreateReview(ctx, author, domain.CreateReviewRequest{DishID: f.dishID, Rating: 4})
	require.NoError(t, err)

	_, err = f.svc.UpdateReview(ctx, created.ID, author, domain.UpdateReviewRequest{Comment: ptr("updated")})
	require.NoError(t, err)
	assert.Equal(t, []string{f.dishID, f.dishID}, f.agg.dishes)
}

func TestHardDeleteReview(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	author := uuid.NewString()
	created, err := f.svc.CreateReview(ctx, author, domain.CreateReviewRequest{DishID: f.dishID, Rating: 4})
	require.NoError(t, err)
	require.NoError(t, f.svc.SoftDeleteReview(ctx, created.ID, author))

	require.NoError(t, f.svc.HardDeleteReview(ctx, created.ID))
	assert.ErrorIs(t, f.svc.HardDeleteReview(ctx, created.ID), domain.ErrReviewNotFound)
	assert.Len(t, f.agg.dishes, 3)
}

func TestCreateRestaurantReview(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	user := uuid.NewString()

	_, err := f.svc.CreateRestaurantReview(ctx, user, domain.CreateRestaurantReviewRequest{RestaurantID: f.restaurantID, Rating: 5})
	require.NoError(t, err)
	assert.Equal(t, []string{f.restaurantID}, f.agg.restaurants)

	_, err = f.svc.CreateRestaurantReview(ctx, user, domain.CreateRestaurantReviewRequest{RestaurantID: f.restaurantID, Rating: 1})
	assert.ErrorIs(t, err, domain.ErrDuplicateReview)

	_, err = f.svc.CreateRestaurantReview(ctx, user, domain.CreateRestaurantReviewRequest{RestaurantID: uuid.NewString(), Rating: 1})
	assert.ErrorIs(t, err, domain.ErrRestaurantNotFound)
}

func TestListDishReviews_RequiresActiveDish(t *testing.T) {
	f := newFixture()
	_, err := f.svc.ListDishReviews(context.Background(), uuid.NewString(), domain.PaginationRequest{})
	assert.ErrorIs(t, err, domain.ErrDishNotFound)

	res, err := f.svc.ListDishReviews(context.Background(), f.dishID, domain.PaginationRequest{})
	require.NoError(t, err)
	assert.Empty(t, res.Reviews)
	assert.Equal(t, int64(0), res.Pagination.Total)
}
