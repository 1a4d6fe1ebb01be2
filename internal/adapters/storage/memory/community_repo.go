package memory

import (
	"context"
	"sort"
	"sync"

	"pet-care-backend/internal/domain/community"
	"pet-care-backend/internal/platform/apperr"
)

type communityRepo struct {
	mu        sync.RWMutex
	posts     map[string]community.Post
	likes     map[string]map[string]struct{} // postID -> userIDs
	comments  map[string][]community.Comment
	questions map[string]community.Question
}

func NewCommunityRepo() community.Repository {
	return &communityRepo{
		posts:     make(map[string]community.Post),
		likes:     make(map[string]map[string]struct{}),
		comments:  make(map[string][]community.Comment),
		questions: make(map[string]community.Question),
	}
}

func (r *communityRepo) CreatePost(ctx context.Context, p community.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.posts[p.ID]; exists {
		return apperr.Conflict("post already exists")
	}
	r.posts[p.ID] = clonePost(p)
	return nil
}

func (r *communityRepo) GetPost(ctx context.Context, id string) (community.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.posts[id]
	if !ok {
		return community.Post{}, apperr.NotFound("post not found")
	}
	return clonePost(p), nil
}

func (r *communityRepo) ListPosts(ctx context.Context, tag community.Tag, offset, limit int) ([]community.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]community.Post, 0, len(r.posts))
	for _, p := range r.posts {
		if tag == "" || tag == community.TagAll || containsTag(p.Tags, tag) {
			all = append(all, p)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID > all[j].ID
	})

	if offset < 0 || offset >= len(all) {
		return []community.Post{}, nil
	}
	end := len(all)
	if limit > 0 && limit < end-offset {
		end = offset + limit
	}
	out := make([]community.Post, 0, end-offset)
	for _, p := range all[offset:end] {
		out = append(out, clonePost(p))
	}
	return out, nil
}

func (r *communityRepo) SetLike(ctx context.Context, postID, userID string, liked bool) (community.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.posts[postID]
	if !ok {
		return community.Post{}, apperr.NotFound("post not found")
	}
	users := r.likes[postID]
	if users == nil {
		users = make(map[string]struct{})
		r.likes[postID] = users
	}

	_, had := users[userID]
	switch {
	case liked && !had:
		users[userID] = struct{}{}
		p.Likes++
	case !liked && had:
		delete(users, userID)
		if p.Likes > 0 {
			p.Likes--
		}
	}
	r.posts[postID] = p
	return clonePost(p), nil
}

func (r *communityRepo) LikedPosts(ctx context.Context, userID string, postIDs []string) (map[string]bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]bool, len(postIDs))
	for _, id := range postIDs {
		if _, ok := r.likes[id][userID]; ok {
			out[id] = true
		}
	}
	return out, nil
}

func (r *communityRepo) AddComment(ctx context.Context, c community.Comment) (community.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.posts[c.PostID]
	if !ok {
		return community.Post{}, apperr.NotFound("post not found")
	}
	r.comments[c.PostID] = append(r.comments[c.PostID], c)
	p.Comments++
	r.posts[c.PostID] = p
	return clonePost(p), nil
}

func (r *communityRepo) CreateQuestion(ctx context.Context, q community.Question) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.questions[q.ID]; exists {
		return apperr.Conflict("question already exists")
	}
	r.questions[q.ID] = cloneQuestion(q)
	return nil
}

func (r *communityRepo) GetQuestion(ctx context.Context, id string) (community.Question, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	q, ok := r.questions[id]
	if !ok {
		return community.Question{}, apperr.NotFound("question not found")
	}
	return cloneQuestion(q), nil
}

func (r *communityRepo) ListQuestions(ctx context.Context) ([]community.Question, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]community.Question, 0, len(r.questions))
	for _, q := range r.questions {
		out = append(out, cloneQuestion(q))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *communityRepo) AddAnswer(ctx context.Context, a community.Answer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	q, ok := r.questions[a.QuestionID]
	if !ok {
		return apperr.NotFound("question not found")
	}
	q.Answers = append(q.Answers, a)
	r.questions[a.QuestionID] = q
	return nil
}

func (r *communityRepo) AcceptAnswer(ctx context.Context, questionID, answerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	q, ok := r.questions[questionID]
	if !ok {
		return apperr.NotFound("question not found")
	}

	idx := -1
	for i, a := range q.Answers {
		if a.ID == answerID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return apperr.NotFound("answer not found")
	}

	q = cloneQuestion(q)
	for i := range q.Answers {
		q.Answers[i].IsAccepted = i == idx
	}
	r.questions[questionID] = q
	return nil
}

func containsTag(tags []community.Tag, t community.Tag) bool {
	for _, x := range tags {
		if x == t {
			return true
		}
	}
	return false
}

func clonePost(p community.Post) community.Post {
	p.Tags = append([]community.Tag{}, p.Tags...)
	p.Media = append([]community.Media{}, p.Media...)
	return p
}

func cloneQuestion(q community.Question) community.Question {
	q.Tags = append([]community.Tag{}, q.Tags...)
	q.Answers = append([]community.Answer{}, q.Answers...)
	return q
}
