package reminders

import (
	"context"
	"sort"
	"testing"
	"time"

	"pet-care-backend/internal/domain/pets"
	"pet-care-backend/internal/platform/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePets struct{}

func (fakePets) Authorize(ctx context.Context, petID, userID string) (pets.Pet, error) {
	if petID != "pet-1" && petID != "pet-2" {
		return pets.Pet{}, apperr.NotFound("pet not found")
	}
	if userID != "owner-1" {
		return pets.Pet{}, apperr.Forbidden("pet belongs to another account")
	}
	return pets.Pet{ID: petID, OwnerUserID: userID}, nil
}

type testRepo struct {
	byID map[string]Reminder
}

func newTestRepo() *testRepo { return &testRepo{byID: map[string]Reminder{}} }

func (r *testRepo) Create(ctx context.Context, rem Reminder) error {
	r.byID[rem.ID] = rem
	return nil
}

func (r *testRepo) Update(ctx context.Context, rem Reminder) error {
	r.byID[rem.ID] = rem
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Reminder, error) {
	rem, ok := r.byID[id]
	if !ok {
		return Reminder{}, apperr.NotFound("reminder not found")
	}
	return rem, nil
}

func (r *testRepo) ListByPet(ctx context.Context, petID string) ([]Reminder, error) {
	out := make([]Reminder, 0)
	for _, rem := range r.byID {
		if rem.PetID == petID {
			out = append(out, rem)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Time < out[j].Time })
	return out, nil
}

func (r *testRepo) ListDue(ctx context.Context, hhmm string) ([]Reminder, error) {
	out := make([]Reminder, 0)
	for _, rem := range r.byID {
		if rem.Enabled && rem.Time == hhmm {
			out = append(out, rem)
		}
	}
	return out, nil
}

func ptr[T any](v T) *T { return &v }

func TestService_Create_Defaults(t *testing.T) {
	svc := NewService(newTestRepo(), fakePets{})

	rem, err := svc.Create(context.Background(), "pet-1", "owner-1", CreateInput{})
	require.NoError(t, err)
	assert.Equal(t, DefaultLabel, rem.Label)
	assert.Equal(t, DefaultTime, rem.Time)
	assert.True(t, rem.Enabled)

	_, err = svc.Create(context.Background(), "pet-1", "owner-1", CreateInput{Time: ptr("7am")})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.Create(context.Background(), "pet-1", "intruder", CreateInput{})
	assert.ErrorIs(t, err, apperr.ErrForbidden)
}

func TestService_Update(t *testing.T) {
	svc := NewService(newTestRepo(), fakePets{})
	ctx := context.Background()

	rem, err := svc.Create(ctx, "pet-1", "owner-1", CreateInput{Label: ptr("Breakfast")})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, "pet-1", rem.ID, "owner-1", UpdateInput{Enabled: ptr(false), Time: ptr("07:45")})
	require.NoError(t, err)
	assert.Equal(t, "Breakfast", updated.Label)
	assert.Equal(t, "07:45", updated.Time)
	assert.False(t, updated.Enabled)

	_, err = svc.Update(ctx, "pet-2", rem.ID, "owner-1", UpdateInput{Enabled: ptr(true)})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = svc.Update(ctx, "pet-1", "missing", "owner-1", UpdateInput{})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestService_Due(t *testing.T) {
	svc := NewService(newTestRepo(), fakePets{})
	ctx := context.Background()

	_, err := svc.Create(ctx, "pet-1", "owner-1", CreateInput{Time: ptr("08:00")})
	require.NoError(t, err)
	_, err = svc.Create(ctx, "pet-2", "owner-1", CreateInput{Time: ptr("08:00"), Enabled: ptr(false)})
	require.NoError(t, err)

	madrid, err := time.LoadLocation("Europe/Madrid")
	require.NoError(t, err)
	// 06:00 UTC = 08:00 en Madrid (horario de verano)
	at := time.Date(2024, 7, 1, 6, 0, 30, 0, time.UTC)

	due, err := svc.Due(ctx, at, madrid)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, "pet-1", due[0].PetID)

	due, err = svc.Due(ctx, at, time.UTC)
	require.NoError(t, err)
	assert.Empty(t, due)
}
