package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"pet-care-backend/internal/domain/community"
	"pet-care-backend/internal/domain/habits"
	"pet-care-backend/internal/domain/users"
	"pet-care-backend/internal/platform/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepo_DuplicateEmail(t *testing.T) {
	repo := NewUserRepo()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, users.User{ID: "u1", Email: "a@b.co"}))
	err := repo.Create(ctx, users.User{ID: "u2", Email: "a@b.co"})
	assert.ErrorIs(t, err, apperr.ErrConflict)

	_, err = repo.GetByEmail(ctx, "nobody@b.co")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestHabitRepo_ConcurrentUpsertKeepsOneRow(t *testing.T) {
	repo := NewHabitRepo()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			grams := n
			_, err := repo.Upsert(ctx, habits.Entry{ID: "id", PetID: "pet-1", Date: "2024-10-20", FeedingGrams: &grams})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	items, err := repo.ListRecent(ctx, "pet-1", 30)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestHabitRepo_ListRecentNewestFirst(t *testing.T) {
	repo := NewHabitRepo()
	ctx := context.Background()

	for _, d := range []string{"2024-10-18", "2024-10-20", "2024-10-19"} {
		_, err := repo.Upsert(ctx, habits.Entry{ID: d, PetID: "pet-1", Date: d})
		require.NoError(t, err)
	}

	items, err := repo.ListRecent(ctx, "pet-1", 2)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "2024-10-20", items[0].Date)
	assert.Equal(t, "2024-10-19", items[1].Date)
}

func TestCommunityRepo_AcceptAnswerUnknownKeepsState(t *testing.T) {
	repo := NewCommunityRepo()
	ctx := context.Background()

	require.NoError(t, repo.CreateQuestion(ctx, community.Question{ID: "q1", CreatedAt: time.Now()}))
	require.NoError(t, repo.AddAnswer(ctx, community.Answer{ID: "a1", QuestionID: "q1"}))
	require.NoError(t, repo.AcceptAnswer(ctx, "q1", "a1"))

	err := repo.AcceptAnswer(ctx, "q1", "missing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	q, err := repo.GetQuestion(ctx, "q1")
	require.NoError(t, err)
	require.Len(t, q.Answers, 1)
	assert.True(t, q.Answers[0].IsAccepted)
}

func TestCommunityRepo_LikeNeverNegative(t *testing.T) {
	repo := NewCommunityRepo()
	ctx := context.Background()

	require.NoError(t, repo.CreatePost(ctx, community.Post{ID: "p1"}))
	p, err := repo.SetLike(ctx, "p1", "u1", false)
	require.NoError(t, err)
	assert.Equal(t, 0, p.Likes)

	p, err = repo.SetLike(ctx, "p1", "u1", true)
	require.NoError(t, err)
	p, err = repo.SetLike(ctx, "p1", "u1", true)
	require.NoError(t, err)
	assert.Equal(t, 1, p.Likes)
}

func TestCommunityRepo_ListPostsOutOfRangeOffset(t *testing.T) {
	repo := NewCommunityRepo()
	ctx := context.Background()

	require.NoError(t, repo.CreatePost(ctx, community.Post{ID: "p1", CreatedAt: time.Now()}))
	require.NoError(t, repo.CreatePost(ctx, community.Post{ID: "p2", CreatedAt: time.Now()}))

	items, err := repo.ListPosts(ctx, community.TagAll, -20, 10)
	require.NoError(t, err)
	assert.Empty(t, items)

	items, err = repo.ListPosts(ctx, community.TagAll, 1, int(^uint(0)>>1))
	require.NoError(t, err)
	assert.Len(t, items, 1)
}
