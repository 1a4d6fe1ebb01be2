package pets

import (
	"context"
	"testing"
	"time"

	"pet-care-backend/internal/platform/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRepo struct {
	byID map[string]Pet
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Pet{}}
}

func (r *testRepo) Create(ctx context.Context, p Pet) error {
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) Update(ctx context.Context, p Pet) error {
	if _, ok := r.byID[p.ID]; !ok {
		return apperr.NotFound("pet not found")
	}
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Pet, error) {
	p, ok := r.byID[id]
	if !ok {
		return Pet{}, apperr.NotFound("pet not found")
	}
	return p, nil
}

func (r *testRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]Pet, error) {
	out := make([]Pet, 0)
	for _, p := range r.byID {
		if p.OwnerUserID == ownerUserID {
			out = append(out, p)
		}
	}
	return out, nil
}

func intPtr(n int) *int           { return &n }
func floatPtr(f float64) *float64 { return &f }
func strPtr(s string) *string     { return &s }

func TestService_Create(t *testing.T) {
	svc := NewService(newTestRepo())
	now := time.Date(2024, 10, 20, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	p, err := svc.Create(context.Background(), "owner-1", CreateInput{
		Name:        " Coco ",
		Species:     "Dog",
		AgeInMonths: intPtr(18),
		WeightKg:    floatPtr(0),
	})
	require.NoError(t, err)

	assert.Equal(t, "Coco", p.Name)
	assert.Equal(t, SpeciesDog, p.Species)
	require.NotNil(t, p.AgeInMonths)
	assert.Equal(t, 18, *p.AgeInMonths)
	assert.Equal(t, 1, p.AgeInYears())
	assert.Nil(t, p.WeightKg, "0 kg se guarda como null")
	assert.Equal(t, now, p.CreatedAt)
}

func TestService_Create_Validation(t *testing.T) {
	svc := NewService(newTestRepo())

	_, err := svc.Create(context.Background(), "owner-1", CreateInput{Species: "dog"})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.Create(context.Background(), "owner-1", CreateInput{Name: "Coco", Species: "dragon"})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.Create(context.Background(), "", CreateInput{Name: "Coco", Species: "dog"})
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestService_Authorize(t *testing.T) {
	svc := NewService(newTestRepo())
	p, err := svc.Create(context.Background(), "owner-1", CreateInput{Name: "Coco", Species: "dog"})
	require.NoError(t, err)

	_, err = svc.Authorize(context.Background(), p.ID, "owner-1")
	assert.NoError(t, err)

	_, err = svc.Authorize(context.Background(), p.ID, "intruder")
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = svc.Authorize(context.Background(), "missing", "owner-1")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestService_UpdateProfile_OnlyTouchesSentFields(t *testing.T) {
	svc := NewService(newTestRepo())
	p, err := svc.Create(context.Background(), "owner-1", CreateInput{Name: "Coco", Species: "dog", Breed: "corgi"})
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(context.Background(), p.ID, "owner-1", UpdateProfileInput{
		WeightKg: floatPtr(11.2),
	})
	require.NoError(t, err)
	assert.Equal(t, "Coco", updated.Name)
	assert.Equal(t, "corgi", updated.Breed)
	require.NotNil(t, updated.WeightKg)
	assert.InDelta(t, 11.2, *updated.WeightKg, 0.0001)

	_, err = svc.UpdateProfile(context.Background(), p.ID, "owner-1", UpdateProfileInput{Name: strPtr("  ")})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.UpdateProfile(context.Background(), p.ID, "intruder", UpdateProfileInput{Name: strPtr("X")})
	assert.ErrorIs(t, err, apperr.ErrForbidden)
}

func TestService_OutOfRangeNumbersAreNull(t *testing.T) {
	svc := NewService(newTestRepo())
	ctx := context.Background()

	p, err := svc.Create(ctx, "owner-1", CreateInput{
		Name:        "Coco",
		Species:     "dog",
		AgeInMonths: intPtr(1 << 40),
		WeightKg:    floatPtr(1000),
	})
	require.NoError(t, err)
	assert.Nil(t, p.AgeInMonths)
	assert.Nil(t, p.WeightKg)

	updated, err := svc.UpdateProfile(ctx, p.ID, "owner-1", UpdateProfileInput{WeightKg: floatPtr(999.99)})
	require.NoError(t, err)
	require.NotNil(t, updated.WeightKg)
	assert.Equal(t, 999.99, *updated.WeightKg)
}
