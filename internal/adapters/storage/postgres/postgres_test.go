package postgres

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"pet-care-backend/internal/domain/community"
	"pet-care-backend/internal/domain/habits"
	"pet-care-backend/internal/domain/pets"
	"pet-care-backend/internal/domain/reminders"
	"pet-care-backend/internal/domain/users"
	"pet-care-backend/internal/platform/apperr"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openTestDB usa TEST_DB_DSN; sin él los tests de integración se saltan.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	db, err := Open(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, CreateSchema(context.Background(), db))
	return db
}

func seedOwnerAndPet(t *testing.T, db *sql.DB) (users.User, pets.Pet) {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	u := users.User{
		ID:           uuid.NewString(),
		Name:         "Luna",
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "x",
		CreatedAt:    now,
	}
	require.NoError(t, NewUsersRepo(db).Create(ctx, u))

	months := 18
	p := pets.Pet{
		ID:          uuid.NewString(),
		OwnerUserID: u.ID,
		Name:        "Coco",
		Species:     pets.SpeciesDog,
		AgeInMonths: &months,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, NewPetsRepo(db).Create(ctx, p))
	return u, p
}

func TestUsersRepo_DuplicateEmail(t *testing.T) {
	db := openTestDB(t)
	u, _ := seedOwnerAndPet(t, db)

	dup := u
	dup.ID = uuid.NewString()
	err := NewUsersRepo(db).Create(context.Background(), dup)
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestPetsRepo_RoundTrip(t *testing.T) {
	db := openTestDB(t)
	u, p := seedOwnerAndPet(t, db)
	repo := NewPetsRepo(db)
	ctx := context.Background()

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Coco", got.Name)
	require.NotNil(t, got.AgeInMonths)
	assert.Equal(t, 18, *got.AgeInMonths)
	assert.Nil(t, got.WeightKg)

	list, err := repo.ListByOwner(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = repo.GetByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestHabitsRepo_UpsertKeepsOneRowPerDay(t *testing.T) {
	db := openTestDB(t)
	_, p := seedOwnerAndPet(t, db)
	repo := NewHabitsRepo(db)
	ctx := context.Background()
	now := time.Now().UTC()

	grams := 300
	first, err := repo.Upsert(ctx, habits.Entry{
		ID: uuid.NewString(), PetID: p.ID, Date: "2024-10-20",
		FeedingGrams: &grams, CompletedTasks: []string{"feeding"},
		CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)

	grams = 320
	second, err := repo.Upsert(ctx, habits.Entry{
		ID: uuid.NewString(), PetID: p.ID, Date: "2024-10-20",
		FeedingGrams: &grams, CompletedTasks: []string{"feeding", "walking"},
		CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	require.NotNil(t, second.FeedingGrams)
	assert.Equal(t, 320, *second.FeedingGrams)
	assert.Equal(t, []string{"feeding", "walking"}, second.CompletedTasks)
	assert.Equal(t, "2024-10-20", second.Date)

	items, err := repo.ListRecent(ctx, p.ID, 30)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestRemindersRepo_ListDue(t *testing.T) {
	db := openTestDB(t)
	_, p := seedOwnerAndPet(t, db)
	repo := NewRemindersRepo(db)
	ctx := context.Background()
	now := time.Now().UTC()

	on := reminders.Reminder{ID: uuid.NewString(), PetID: p.ID, Label: "Feeding", Time: "23:59", Enabled: true, CreatedAt: now, UpdatedAt: now}
	off := reminders.Reminder{ID: uuid.NewString(), PetID: p.ID, Label: "Dinner", Time: "23:59", Enabled: false, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repo.Create(ctx, on))
	require.NoError(t, repo.Create(ctx, off))

	due, err := repo.ListDue(ctx, "23:59")
	require.NoError(t, err)
	ids := make([]string, 0, len(due))
	for _, r := range due {
		ids = append(ids, r.ID)
	}
	assert.Contains(t, ids, on.ID)
	assert.NotContains(t, ids, off.ID)

	err = repo.Update(ctx, reminders.Reminder{ID: uuid.NewString(), UpdatedAt: now})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestCommunityRepo_LikesAndAcceptedAnswer(t *testing.T) {
	db := openTestDB(t)
	u, _ := seedOwnerAndPet(t, db)
	repo := NewCommunityRepo(db)
	ctx := context.Background()
	now := time.Now().UTC()

	post := community.Post{ID: uuid.NewString(), AuthorID: u.ID, Content: "hi", Tags: []community.Tag{community.TagRescue}, CreatedAt: now}
	require.NoError(t, repo.CreatePost(ctx, post))

	got, err := repo.SetLike(ctx, post.ID, u.ID, true)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Likes)
	got, err = repo.SetLike(ctx, post.ID, u.ID, true)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Likes)

	liked, err := repo.LikedPosts(ctx, u.ID, []string{post.ID, uuid.NewString()})
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{post.ID: true}, liked)

	got, err = repo.SetLike(ctx, post.ID, u.ID, false)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Likes)

	rescue, err := repo.ListPosts(ctx, community.TagRescue, 0, 50)
	require.NoError(t, err)
	found := false
	for _, p := range rescue {
		found = found || p.ID == post.ID
	}
	assert.True(t, found)

	q := community.Question{ID: uuid.NewString(), AuthorID: u.ID, Question: "?", Tags: []community.Tag{community.TagQA}, CreatedAt: now}
	require.NoError(t, repo.CreateQuestion(ctx, q))
	a1 := community.Answer{ID: uuid.NewString(), QuestionID: q.ID, AuthorID: u.ID, Text: "a", CreatedAt: now}
	a2 := community.Answer{ID: uuid.NewString(), QuestionID: q.ID, AuthorID: u.ID, Text: "b", CreatedAt: now.Add(time.Second)}
	require.NoError(t, repo.AddAnswer(ctx, a1))
	require.NoError(t, repo.AddAnswer(ctx, a2))

	require.NoError(t, repo.AcceptAnswer(ctx, q.ID, a1.ID))
	require.NoError(t, repo.AcceptAnswer(ctx, q.ID, a2.ID))

	stored, err := repo.GetQuestion(ctx, q.ID)
	require.NoError(t, err)
	require.Len(t, stored.Answers, 2)
	assert.False(t, stored.Answers[0].IsAccepted)
	assert.True(t, stored.Answers[1].IsAccepted)

	err = repo.AcceptAnswer(ctx, q.ID, uuid.NewString())
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
