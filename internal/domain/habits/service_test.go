package habits

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"pet-care-backend/internal/domain/pets"
	"pet-care-backend/internal/platform/apperr"
	"pet-care-backend/internal/ports/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePets struct{}

func (fakePets) Authorize(ctx context.Context, petID, userID string) (pets.Pet, error) {
	switch {
	case petID != "pet-1":
		return pets.Pet{}, apperr.NotFound("pet not found")
	case userID != "owner-1":
		return pets.Pet{}, apperr.Forbidden("pet belongs to another account")
	}
	return pets.Pet{ID: petID, OwnerUserID: userID}, nil
}

type testRepo struct {
	byKey  map[string]Entry
	reads  int
	onList func() // corre una vez, después de armar el resultado
}

func newTestRepo() *testRepo { return &testRepo{byKey: map[string]Entry{}} }

func (r *testRepo) Upsert(ctx context.Context, e Entry) (Entry, error) {
	key := e.PetID + "|" + e.Date
	if prev, ok := r.byKey[key]; ok {
		e.ID = prev.ID
		e.CreatedAt = prev.CreatedAt
	}
	r.byKey[key] = e
	return e, nil
}

func (r *testRepo) ListRecent(ctx context.Context, petID string, limit int) ([]Entry, error) {
	r.reads++
	out := make([]Entry, 0)
	for _, e := range r.byKey {
		if e.PetID == petID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	if len(out) > limit {
		out = out[:limit]
	}
	if hook := r.onList; hook != nil {
		r.onList = nil
		hook()
	}
	return out, nil
}

type cachedTrend struct {
	day    string
	gen    int64
	report TrendReport
}

type memCache struct {
	items       map[string]cachedTrend
	gens        map[string]int64
	invalidated []string
}

func newMemCache() *memCache {
	return &memCache{items: map[string]cachedTrend{}, gens: map[string]int64{}}
}

func (c *memCache) Get(ctx context.Context, petID, day string) (TrendReport, int64, bool, error) {
	gen := c.gens[petID]
	e, ok := c.items[petID]
	if !ok || e.day != day || e.gen != gen {
		return TrendReport{}, gen, false, nil
	}
	return e.report, gen, true, nil
}

func (c *memCache) Set(ctx context.Context, day string, gen int64, r TrendReport) error {
	c.items[r.PetID] = cachedTrend{day: day, gen: gen, report: r}
	return nil
}

func (c *memCache) Invalidate(ctx context.Context, petID string) error {
	c.invalidated = append(c.invalidated, petID)
	c.gens[petID]++
	delete(c.items, petID)
	return nil
}

type recordingPublisher struct {
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, e events.Event) error {
	p.events = append(p.events, e)
	return p.err
}

func fixedNow() time.Time { return time.Date(2024, 10, 20, 15, 0, 0, 0, time.UTC) }

func f64(v float64) *float64 { return &v }

func TestService_Record_UpsertsSameDay(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, fakePets{}, WithClock(fixedNow))
	ctx := context.Background()

	first, err := svc.Record(ctx, "pet-1", "owner-1", RecordInput{Date: "2024-10-20", FeedingGrams: f64(300)})
	require.NoError(t, err)

	second, err := svc.Record(ctx, "pet-1", "owner-1", RecordInput{
		Date:            "2024-10-20",
		FeedingGrams:    f64(320.4),
		ExerciseMinutes: f64(-3),
		CompletedTasks:  []string{"feeding", " ", "walking"},
	})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	require.Len(t, repo.byKey, 1)
	require.NotNil(t, second.FeedingGrams)
	assert.Equal(t, 320, *second.FeedingGrams)
	assert.Nil(t, second.ExerciseMinutes)
	assert.Equal(t, []string{"feeding", "walking"}, second.CompletedTasks)
}

func TestService_Record_Rejections(t *testing.T) {
	svc := NewService(newTestRepo(), fakePets{})
	ctx := context.Background()

	_, err := svc.Record(ctx, "pet-1", "owner-1", RecordInput{Date: "2024-02-31"})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.Record(ctx, "pet-1", "intruder", RecordInput{Date: "2024-10-20"})
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = svc.Record(ctx, "ghost", "owner-1", RecordInput{Date: "2024-10-20"})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestService_Record_InvalidatesCacheAndPublishes(t *testing.T) {
	cache := newMemCache()
	pub := &recordingPublisher{err: errors.New("nats down")}
	svc := NewService(newTestRepo(), fakePets{},
		WithClock(fixedNow), WithTrendCache(cache), WithPublisher(pub))
	ctx := context.Background()

	_, err := svc.Record(ctx, "pet-1", "owner-1", RecordInput{Date: "2024-10-20"})
	require.NoError(t, err, "publish failure must not fail the check-in")

	assert.Equal(t, []string{"pet-1"}, cache.invalidated)
	require.Len(t, pub.events, 1)
	assert.Equal(t, events.SubjectHabitRecorded, pub.events[0].Subject)
}

func TestService_Trends_UsesCache(t *testing.T) {
	repo := newTestRepo()
	cache := newMemCache()
	svc := NewService(repo, fakePets{}, WithClock(fixedNow), WithTrendCache(cache))
	ctx := context.Background()

	_, err := svc.Record(ctx, "pet-1", "owner-1", RecordInput{Date: "2024-10-20", FeedingGrams: f64(320), ExerciseMinutes: f64(30)})
	require.NoError(t, err)

	first, err := svc.Trends(ctx, "pet-1", "owner-1")
	require.NoError(t, err)
	second, err := svc.Trends(ctx, "pet-1", "owner-1")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, repo.reads)
	require.Len(t, first.Points, TrendDays)
	assert.Equal(t, 320, first.Points[6].FeedingGrams)
	assert.Equal(t, 30, first.Points[6].ExerciseMinutes)
}

func TestService_Trends_CheckInDuringRebuildIsNotLost(t *testing.T) {
	repo := newTestRepo()
	cache := newMemCache()
	svc := NewService(repo, fakePets{}, WithClock(fixedNow), WithTrendCache(cache))
	ctx := context.Background()

	// el check-in llega entre la lectura del repo y la escritura en caché
	repo.onList = func() {
		_, err := svc.Record(ctx, "pet-1", "owner-1", RecordInput{Date: "2024-10-20", FeedingGrams: f64(250)})
		require.NoError(t, err)
	}
	first, err := svc.Trends(ctx, "pet-1", "owner-1")
	require.NoError(t, err)
	assert.Equal(t, 0, first.Points[6].FeedingGrams)

	second, err := svc.Trends(ctx, "pet-1", "owner-1")
	require.NoError(t, err)
	assert.Equal(t, 250, second.Points[6].FeedingGrams)
	assert.Equal(t, 2, repo.reads)
}

func TestService_Record_OutOfRangeValuesAreDropped(t *testing.T) {
	svc := NewService(newTestRepo(), fakePets{}, WithClock(fixedNow))
	ctx := context.Background()

	e, err := svc.Record(ctx, "pet-1", "owner-1", RecordInput{
		Date:            "2024-10-20",
		FeedingGrams:    f64(1e30),
		ExerciseMinutes: f64(1e19),
		WeightKg:        f64(1000),
	})
	require.NoError(t, err)
	assert.Nil(t, e.FeedingGrams)
	assert.Nil(t, e.ExerciseMinutes)
	assert.Nil(t, e.WeightKg)

	e, err = svc.Record(ctx, "pet-1", "owner-1", RecordInput{
		Date:            "2024-10-20",
		FeedingGrams:    f64(2147483647),
		ExerciseMinutes: f64(2147483648),
		WeightKg:        f64(999.99),
	})
	require.NoError(t, err)
	require.NotNil(t, e.FeedingGrams)
	assert.Equal(t, 2147483647, *e.FeedingGrams)
	assert.Nil(t, e.ExerciseMinutes)
	require.NotNil(t, e.WeightKg)
	assert.Equal(t, 999.99, *e.WeightKg)
}

func TestService_Trends_TodayFollowsLocation(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)
	// 15:00 UTC ya es 21 de octubre en Tokio
	svc := NewService(newTestRepo(), fakePets{}, WithClock(fixedNow), WithLocation(tokyo))

	r, err := svc.Trends(context.Background(), "pet-1", "owner-1")
	require.NoError(t, err)
	assert.Equal(t, "2024-10-21", r.Points[6].Date)
}

func TestService_Recent_ClampsLimit(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, fakePets{}, WithClock(fixedNow))
	ctx := context.Background()

	for d := 1; d <= 9; d++ {
		_, err := svc.Record(ctx, "pet-1", "owner-1", RecordInput{Date: time.Date(2024, 10, d, 0, 0, 0, 0, time.UTC).Format("2006-01-02")})
		require.NoError(t, err)
	}

	items, err := svc.Recent(ctx, "pet-1", "owner-1", 0)
	require.NoError(t, err)
	require.Len(t, items, 5)
	assert.Equal(t, "2024-10-09", items[0].Date)

	items, err = svc.Recent(ctx, "pet-1", "owner-1", 500)
	require.NoError(t, err)
	assert.Len(t, items, 9)

	assert.Equal(t, 1, clampLimit(1))
	assert.Equal(t, 30, clampLimit(31))
}
