package dish

import (
	"context"
	"errors"
	"mime/multipart"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/tranhuy105/ITSS-CongAn-sub000/domain"
	"github.com/tranhuy105/ITSS-CongAn-sub000/entities"
	"github.com/tranhuy105/ITSS-CongAn-sub000/internal/utils/events"
	"github.com/tranhuy105/ITSS-CongAn-sub000/internal/utils/logger"
)

type fakeDishRepository struct {
	mu     sync.Mutex
	dishes map[string]*entities.Dish
}

func newFakeDishRepository() *fakeDishRepository {
	return &fakeDishRepository{dishes: map[string]*entities.Dish{}}
}

func cloneDish(d *entities.Dish) *entities.Dish {
	c := *d
	c.Images = append(datatypes.JSONSlice[string]{}, d.Images...)
	c.Ingredients = append(datatypes.JSONSlice[string]{}, d.Ingredients...)
	c.History = append(datatypes.JSONSlice[entities.DishVersion]{}, d.History...)
	return &c
}

func (f *fakeDishRepository) CreateDish(_ context.Context, d *entities.Dish) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	d.CreatedAt = time.Now()
	d.UpdatedAt = d.CreatedAt
	f.dishes[d.ID.String()] = cloneDish(d)
	return nil
}

func (f *fakeDishRepository) GetDishByID(_ context.Context, id string, includeDeleted bool) (*entities.Dish, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.dishes[id]
	if !ok || (d.IsDeleted() && !includeDeleted) {
		return nil, domain.ErrDishNotFound
	}
	return cloneDish(d), nil
}

func (f *fakeDishRepository) GetDishes(_ context.Context, filter domain.DishFilter, page domain.PaginationRequest) ([]*entities.Dish, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entities.Dish
	for _, d := range f.dishes {
		if d.IsDeleted() && !filter.IncludeDeleted {
			continue
		}
		if filter.Category != "" && d.Category != filter.Category {
			continue
		}
		out = append(out, cloneDish(d))
	}
	return out, int64(len(out)), nil
}

func (f *fakeDishRepository) ModifyDish(_ context.Context, id string, actor string, mutate Mutation) (*entities.Dish, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cur, ok := f.dishes[id]
	if !ok || cur.IsDeleted() {
		return nil, domain.ErrDishNotFound
	}
	next := cloneDish(cur)
	version := entities.DishVersion{
		Version:    len(next.History) + 1,
		Data:       next.Snapshot(),
		ModifiedBy: actor,
		ModifiedAt: time.Now(),
	}
	if err := mutate(next); err != nil {
		return nil, err
	}
	next.History = append(next.History, version)
	// only content columns are persisted
	next.AverageRating = cur.AverageRating
	next.ReviewCount = cur.ReviewCount
	f.dishes[id] = next
	return cloneDish(next), nil
}

func (f *fakeDishRepository) SoftDeleteDish(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.dishes[id]
	if !ok {
		return domain.ErrDishNotFound
	}
	if d.IsDeleted() {
		return domain.ErrDishAlreadyDeleted
	}
	d.DeletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	return nil
}

func (f *fakeDishRepository) RestoreDish(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.dishes[id]
	if !ok {
		return domain.ErrDishNotFound
	}
	if !d.IsDeleted() {
		return domain.ErrDishNotDeleted
	}
	d.DeletedAt = gorm.DeletedAt{}
	return nil
}

type fakeS3 struct {
	uploaded []string
	deleted  []string
}

func (f *fakeS3) UploadFile(fileName string, _ *multipart.FileHeader, folder string, _ ...string) (string, error) {
	key := folder + "/" + fileName + ".png"
	f.uploaded = append(f.uploaded, key)
	return key, nil
}

func (f *fakeS3) UpdateFile(objectKey string, _ *multipart.FileHeader, _ ...string) (string, error) {
	return objectKey, nil
}

func (f *fakeS3) DeleteFile(objectKey string) error {
	f.deleted = append(f.deleted, objectKey)
	return nil
}

func (f *fakeS3) GetObjectKeyFromLink(string) string { return "" }

func (f *fakeS3) GetPublicLinkKey(objectKey string) string {
	return "https://cdn.example.com/" + objectKey
}

func newTestDishService() (DishService, *fakeDishRepository, *events.Recorder, *fakeS3) {
	repo := newFakeDishRepository()
	pub := &events.Recorder{}
	s3 := &fakeS3{}
	return NewDishService(repo, s3, pub, logger.Nop()), repo, pub, s3
}

func ptr[T any](v T) *T { return &v }

func createPho(t *testing.T, svc DishService) domain.DishResponse {
	t.Helper()
	res, err := svc.CreateDish(context.Background(), domain.CreateDishRequest{
		Name:        domain.LocalizedText{Vi: "Phở bò", Ja: "フォー"},
		Ingredients: []string{"bánh phở", "thịt bò"},
		Category:    "noodle",
		Region:      "north",
		CookingTime: 240,
		PriceRange:  domain.PriceRange{Min: 40000, Max: 80000},
	})
	require.NoError(t, err)
	return res
}

func TestCreateDish_Validation(t *testing.T) {
	svc, _, _, _ := newTestDishService()
	ctx := context.Background()

	_, err := svc.CreateDish(ctx, domain.CreateDishRequest{Category: "noodle"})
	assert.ErrorIs(t, err, domain.ErrDishNameRequired)

	_, err = svc.CreateDish(ctx, domain.CreateDishRequest{
		Name:       domain.LocalizedText{Vi: "Bún chả"},
		Category:   "noodle",
		PriceRange: domain.PriceRange{Min: 50, Max: 10},
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestUpdateDish_AppendsHistory(t *testing.T) {
	svc, _, pub, _ := newTestDishService()
	ctx := context.Background()
	pho := createPho(t, svc)
	assert.Equal(t, 1, pho.Version)

	updated, err := svc.UpdateDish(ctx, pho.ID, domain.UpdateDishRequest{CookingTime: ptr(180)}, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, 180, updated.CookingTime)
	assert.Equal(t, 2, updated.Version)

	history, err := svc.GetDishHistory(ctx, pho.ID)
	require.NoError(t, err)
	require.Len(t, history.History, 1)
	assert.Equal(t, 1, history.History[0].Version)
	assert.Equal(t, 240, history.History[0].Data.CookingTime)
	assert.Equal(t, "admin-1", history.History[0].ModifiedBy)
	assert.Equal(t, 2, history.CurrentVersion)

	assert.Equal(t, []string{events.DishCreated, events.DishUpdated}, pub.Types())
}

func TestUpdateDish_InvalidChangeLeavesHistoryUntouched(t *testing.T) {
	svc, repo, _, _ := newTestDishService()
	ctx := context.Background()
	pho := createPho(t, svc)

	_, err := svc.UpdateDish(ctx, pho.ID, domain.UpdateDishRequest{CookingTime: ptr(-1)}, "admin-1")
	assert.ErrorIs(t, err, domain.ErrInvalidCookingTime)
	assert.Empty(t, repo.dishes[pho.ID].History)
}

func TestUpdateDish_KeepsRatingAggregates(t *testing.T) {
	svc, repo, _, _ := newTestDishService()
	ctx := context.Background()
	pho := createPho(t, svc)
	repo.dishes[pho.ID].AverageRating = 4.5
	repo.dishes[pho.ID].ReviewCount = 2

	updated, err := svc.UpdateDish(ctx, pho.ID, domain.UpdateDishRequest{Region: ptr("south")}, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, 4.5, updated.AverageRating)
	assert.Equal(t, 2, updated.ReviewCount)
}

func TestRevertDish_RoundTrip(t *testing.T) {
	svc, _, _, _ := newTestDishService()
	ctx := context.Background()
	pho := createPho(t, svc)

	_, err := svc.UpdateDish(ctx, pho.ID, domain.UpdateDishRequest{
		Name: &domain.LocalizedText{Vi: "Phở gà", Ja: "鶏フォー"},
	}, "admin-1")
	require.NoError(t, err)
	_, err = svc.UpdateDish(ctx, pho.ID, domain.UpdateDishRequest{
		Ingredients: &[]string{"bánh phở", "thịt gà", "hành"},
	}, "admin-2")
	require.NoError(t, err)

	reverted, err := svc.RevertDish(ctx, pho.ID, 1, "admin-3")
	require.NoError(t, err)
	assert.Equal(t, pho.Name, reverted.Name)
	assert.Equal(t, pho.Ingredients, reverted.Ingredients)
	assert.Equal(t, 4, reverted.Version)

	history, err := svc.GetDishHistory(ctx, pho.ID)
	require.NoError(t, err)
	require.Len(t, history.History, 3)
	for i, v := range history.History {
		assert.Equal(t, i+1, v.Version)
	}
	assert.Equal(t, "Phở gà", history.History[2].Data.Name.Vi)
	assert.Equal(t, []string{"bánh phở", "thịt gà", "hành"}, history.History[2].Data.Ingredients)
	assert.Equal(t, "admin-3", history.History[2].ModifiedBy)

	// reverting the revert brings the pre-revert state back
	again, err := svc.RevertDish(ctx, pho.ID, 3, "admin-3")
	require.NoError(t, err)
	assert.Equal(t, "Phở gà", again.Name.Vi)
}

func TestRevertDish_NotFound(t *testing.T) {
	svc, _, _, _ := newTestDishService()
	ctx := context.Background()
	pho := createPho(t, svc)

	_, err := svc.RevertDish(ctx, pho.ID, 1, "admin")
	assert.ErrorIs(t, err, domain.ErrVersionNotFound)

	_, err = svc.RevertDish(ctx, uuid.NewString(), 1, "admin")
	assert.ErrorIs(t, err, domain.ErrDishNotFound)

	_, err = svc.UpdateDish(ctx, pho.ID, domain.UpdateDishRequest{Region: ptr("central")}, "admin")
	require.NoError(t, err)
	require.NoError(t, svc.SoftDeleteDish(ctx, pho.ID))

	_, err = svc.RevertDish(ctx, pho.ID, 1, "admin")
	assert.ErrorIs(t, err, domain.ErrDishNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSoftDeleteAndRestoreGuards(t *testing.T) {
	svc, _, _, _ := newTestDishService()
	ctx := context.Background()
	pho := createPho(t, svc)

	assert.ErrorIs(t, svc.RestoreDish(ctx, pho.ID), domain.ErrConflict)

	require.NoError(t, svc.SoftDeleteDish(ctx, pho.ID))
	assert.ErrorIs(t, svc.SoftDeleteDish(ctx, pho.ID), domain.ErrDishAlreadyDeleted)

	_, err := svc.GetDishByID(ctx, pho.ID)
	assert.ErrorIs(t, err, domain.ErrDishNotFound)

	admin, err := svc.AdminGetDishByID(ctx, pho.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDeleted, admin.Status)
	assert.NotNil(t, admin.DeletedAt)

	require.NoError(t, svc.RestoreDish(ctx, pho.ID))
	got, err := svc.GetDishByID(ctx, pho.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusActive, got.Status)

	assert.ErrorIs(t, svc.SoftDeleteDish(ctx, uuid.NewString()), domain.ErrNotFound)
	assert.ErrorIs(t, svc.SoftDeleteDish(ctx, "not-a-uuid"), domain.ErrNotFound)
}

func TestGetDishes_RatingFilterValidation(t *testing.T) {
	svc, _, _, _ := newTestDishService()
	_, err := svc.GetDishes(context.Background(), domain.DishFilter{MinRating: 4, MaxRating: 2}, domain.PaginationRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidRatingFilter)
}

func TestGetDishes_Pagination(t *testing.T) {
	svc, _, _, _ := newTestDishService()
	createPho(t, svc)
	createPho(t, svc)

	res, err := svc.GetDishes(context.Background(), domain.DishFilter{}, domain.PaginationRequest{})
	require.NoError(t, err)
	assert.Equal(t, domain.PaginationResponse{Page: 1, Limit: domain.DefaultLimit, Total: 2, TotalPages: 1}, res.Pagination)
}

func TestUploadDishImage_IsVersioned(t *testing.T) {
	svc, _, _, s3 := newTestDishService()
	ctx := context.Background()
	pho := createPho(t, svc)

	res, err := svc.UploadDishImage(ctx, domain.UploadDishImageRequest{DishID: pho.ID, Image: &multipart.FileHeader{}}, "admin")
	require.NoError(t, err)
	require.Len(t, res.Images, 1)
	assert.Equal(t, "https://cdn.example.com/dishes/"+pho.ID+".png", res.Images[0])
	assert.Equal(t, 2, res.Version)
	assert.Len(t, s3.uploaded, 1)
}

func TestUploadDishImage_DeletedDish(t *testing.T) {
	svc, _, _, s3 := newTestDishService()
	ctx := context.Background()
	pho := createPho(t, svc)
	require.NoError(t, svc.SoftDeleteDish(ctx, pho.ID))

	_, err := svc.UploadDishImage(ctx, domain.UploadDishImageRequest{DishID: pho.ID, Image: &multipart.FileHeader{}}, "admin")
	assert.True(t, errors.Is(err, domain.ErrDishNotFound))
	assert.Empty(t, s3.uploaded)
}
