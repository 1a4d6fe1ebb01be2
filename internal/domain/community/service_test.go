package community

import (
	"context"
	"fmt"
	"math"
	"sort"
	"testing"
	"time"

	"pet-care-backend/internal/platform/apperr"
	"pet-care-backend/internal/ports/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testRepo es un repo mínimo en memoria para los tests del servicio.
type testRepo struct {
	posts     map[string]Post
	likes     map[string]map[string]bool
	questions map[string]Question
}

func newTestRepo() *testRepo {
	return &testRepo{
		posts:     map[string]Post{},
		likes:     map[string]map[string]bool{},
		questions: map[string]Question{},
	}
}

func (r *testRepo) CreatePost(ctx context.Context, p Post) error {
	r.posts[p.ID] = p
	return nil
}

func (r *testRepo) GetPost(ctx context.Context, id string) (Post, error) {
	p, ok := r.posts[id]
	if !ok {
		return Post{}, apperr.NotFound("post not found")
	}
	return p, nil
}

func (r *testRepo) ListPosts(ctx context.Context, tag Tag, offset, limit int) ([]Post, error) {
	all := make([]Post, 0)
	for _, p := range r.posts {
		if tag == TagAll || hasTag(p.Tags, tag) {
			all = append(all, p)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	if offset >= len(all) {
		return []Post{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func hasTag(tags []Tag, t Tag) bool {
	for _, x := range tags {
		if x == t {
			return true
		}
	}
	return false
}

func (r *testRepo) SetLike(ctx context.Context, postID, userID string, liked bool) (Post, error) {
	p, ok := r.posts[postID]
	if !ok {
		return Post{}, apperr.NotFound("post not found")
	}
	if r.likes[postID] == nil {
		r.likes[postID] = map[string]bool{}
	}
	had := r.likes[postID][userID]
	switch {
	case liked && !had:
		r.likes[postID][userID] = true
		p.Likes++
	case !liked && had:
		delete(r.likes[postID], userID)
		if p.Likes > 0 {
			p.Likes--
		}
	}
	r.posts[postID] = p
	return p, nil
}

func (r *testRepo) LikedPosts(ctx context.Context, userID string, postIDs []string) (map[string]bool, error) {
	out := map[string]bool{}
	for _, id := range postIDs {
		if r.likes[id][userID] {
			out[id] = true
		}
	}
	return out, nil
}

func (r *testRepo) AddComment(ctx context.Context, c Comment) (Post, error) {
	p, ok := r.posts[c.PostID]
	if !ok {
		return Post{}, apperr.NotFound("post not found")
	}
	p.Comments++
	r.posts[c.PostID] = p
	return p, nil
}

func (r *testRepo) CreateQuestion(ctx context.Context, q Question) error {
	r.questions[q.ID] = q
	return nil
}

func (r *testRepo) GetQuestion(ctx context.Context, id string) (Question, error) {
	q, ok := r.questions[id]
	if !ok {
		return Question{}, apperr.NotFound("question not found")
	}
	return q, nil
}

func (r *testRepo) ListQuestions(ctx context.Context) ([]Question, error) {
	out := make([]Question, 0, len(r.questions))
	for _, q := range r.questions {
		out = append(out, q)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *testRepo) AddAnswer(ctx context.Context, a Answer) error {
	q := r.questions[a.QuestionID]
	q.Answers = append(q.Answers, a)
	r.questions[a.QuestionID] = q
	return nil
}

func (r *testRepo) AcceptAnswer(ctx context.Context, questionID, answerID string) error {
	q := r.questions[questionID]
	found := false
	for i := range q.Answers {
		q.Answers[i].IsAccepted = q.Answers[i].ID == answerID
		found = found || q.Answers[i].IsAccepted
	}
	if !found {
		return apperr.NotFound("answer not found")
	}
	r.questions[questionID] = q
	return nil
}

type directory map[string]string

func (d directory) DisplayName(ctx context.Context, id string) (string, error) {
	n, ok := d[id]
	if !ok {
		return "", apperr.NotFound("user not found")
	}
	return n, nil
}

type recordingPublisher struct{ subjects []string }

func (p *recordingPublisher) Publish(ctx context.Context, e events.Event) error {
	p.subjects = append(p.subjects, e.Subject)
	return nil
}

func newTestService() (*Service, *recordingPublisher) {
	pub := &recordingPublisher{}
	svc := NewService(newTestRepo(), directory{"u1": "Luna", "u2": "Leo"}, pub, nil)
	base := time.Date(2024, 10, 20, 9, 0, 0, 0, time.UTC)
	tick := 0
	svc.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}
	return svc, pub
}

func TestService_CreatePost(t *testing.T) {
	svc, pub := newTestService()
	ctx := context.Background()

	p, err := svc.CreatePost(ctx, "u1", CreatePostInput{
		Content: "Coco loves the sun",
		Media:   []Media{{URI: "https://img/1.jpg"}},
	})
	require.NoError(t, err)
	assert.Equal(t, []Tag{TagDaily}, p.Tags)
	assert.Equal(t, "Luna", p.AuthorName)
	require.Len(t, p.Media, 1)
	assert.Equal(t, MediaImage, p.Media[0].Type)
	assert.NotEmpty(t, p.Media[0].ID)
	assert.Equal(t, []string{events.SubjectPostCreated}, pub.subjects)

	_, err = svc.CreatePost(ctx, "u1", CreatePostInput{Content: "  "})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.CreatePost(ctx, "u1", CreatePostInput{Content: "x", Tags: []string{"memes"}})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	anon, err := svc.CreatePost(ctx, "ghost", CreatePostInput{Content: "who am i"})
	require.NoError(t, err)
	assert.Equal(t, unknownAuthor, anon.AuthorName)
}

func TestService_ListPosts_Pagination(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	for i := 0; i < 12; i++ {
		tags := []string{"daily"}
		if i%3 == 0 {
			tags = []string{"rescue"}
		}
		_, err := svc.CreatePost(ctx, "u1", CreatePostInput{Content: fmt.Sprintf("post %d", i), Tags: tags})
		require.NoError(t, err)
	}

	first, err := svc.ListPosts(ctx, "u2", ListPostsInput{})
	require.NoError(t, err)
	assert.Equal(t, 1, first.Page)
	assert.Len(t, first.Items, 10)
	assert.True(t, first.HasMore)
	assert.Equal(t, "post 11", first.Items[0].Content)

	second, err := svc.ListPosts(ctx, "u2", ListPostsInput{Page: 2})
	require.NoError(t, err)
	assert.Len(t, second.Items, 2)
	assert.False(t, second.HasMore)

	rescue, err := svc.ListPosts(ctx, "u2", ListPostsInput{Tag: "rescue", PageSize: 4})
	require.NoError(t, err)
	assert.Len(t, rescue.Items, 4)
	assert.False(t, rescue.HasMore)

	_, err = svc.ListPosts(ctx, "u2", ListPostsInput{Tag: "memes"})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestService_ListPosts_HugePageIsEmpty(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.CreatePost(ctx, "u1", CreatePostInput{Content: "hola"})
	require.NoError(t, err)

	for _, page := range []int{math.MaxInt / 10, math.MaxInt} {
		res, err := svc.ListPosts(ctx, "u2", ListPostsInput{Page: page, PageSize: 10})
		require.NoError(t, err)
		assert.Empty(t, res.Items)
		assert.NotNil(t, res.Items)
		assert.False(t, res.HasMore)
		assert.Equal(t, page, res.Page)
	}
}

func TestService_SetLike_IdempotentPerUser(t *testing.T) {
	svc, pub := newTestService()
	ctx := context.Background()

	p, err := svc.CreatePost(ctx, "u1", CreatePostInput{Content: "hi"})
	require.NoError(t, err)

	v, err := svc.SetLike(ctx, p.ID, "u2", true)
	require.NoError(t, err)
	assert.Equal(t, 1, v.Likes)
	assert.True(t, v.LikedByMe)

	v, err = svc.SetLike(ctx, p.ID, "u2", true)
	require.NoError(t, err)
	assert.Equal(t, 1, v.Likes)

	v, err = svc.SetLike(ctx, p.ID, "u1", false)
	require.NoError(t, err)
	assert.Equal(t, 1, v.Likes, "unlike without a previous like is a no-op")

	page, err := svc.ListPosts(ctx, "u2", ListPostsInput{})
	require.NoError(t, err)
	assert.True(t, page.Items[0].LikedByMe)
	page, err = svc.ListPosts(ctx, "u1", ListPostsInput{})
	require.NoError(t, err)
	assert.False(t, page.Items[0].LikedByMe)

	v, err = svc.SetLike(ctx, p.ID, "u2", false)
	require.NoError(t, err)
	assert.Equal(t, 0, v.Likes)

	_, err = svc.SetLike(ctx, "missing", "u2", true)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	assert.Contains(t, pub.subjects, events.SubjectPostLiked)
}

func TestService_AddComment(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	p, err := svc.CreatePost(ctx, "u1", CreatePostInput{Content: "hi"})
	require.NoError(t, err)

	v, err := svc.AddComment(ctx, p.ID, "u2", "nice")
	require.NoError(t, err)
	assert.Equal(t, 1, v.Comments)

	_, err = svc.AddComment(ctx, p.ID, "u2", "")
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestService_Questions_AcceptSingleAnswer(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	q, err := svc.CreateQuestion(ctx, "u1", CreateQuestionInput{Question: "Best protein % for a husky?"})
	require.NoError(t, err)
	assert.Equal(t, []Tag{TagQA}, q.Tags)
	assert.Empty(t, q.Answers)

	q, err = svc.AddAnswer(ctx, q.ID, "u2", "24-26%")
	require.NoError(t, err)
	q, err = svc.AddAnswer(ctx, q.ID, "u2", "ask your vet")
	require.NoError(t, err)
	require.Len(t, q.Answers, 2)
	assert.Equal(t, "Leo", q.Answers[0].AuthorName)

	first, second := q.Answers[0].ID, q.Answers[1].ID

	_, err = svc.AcceptAnswer(ctx, q.ID, "u2", first)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = svc.AcceptAnswer(ctx, q.ID, "u1", first)
	require.NoError(t, err)
	q, err = svc.AcceptAnswer(ctx, q.ID, "u1", second)
	require.NoError(t, err)

	accepted := 0
	for _, a := range q.Answers {
		if a.IsAccepted {
			accepted++
			assert.Equal(t, second, a.ID)
		}
	}
	assert.Equal(t, 1, accepted)

	_, err = svc.AcceptAnswer(ctx, q.ID, "u1", "nope")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = svc.AddAnswer(ctx, "missing", "u2", "hello")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	list, err := svc.ListQuestions(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Luna", list[0].AuthorName)
}
