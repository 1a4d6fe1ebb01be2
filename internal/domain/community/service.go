package community

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"pet-care-backend/internal/platform/apperr"
	"pet-care-backend/internal/ports/events"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultPageSize = 10
	maxPageSize     = 50
	unknownAuthor   = "Unknown"
)

// AuthorDirectory resuelve el nombre visible de una cuenta.
type AuthorDirectory interface {
	DisplayName(ctx context.Context, userID string) (string, error)
}

type Service struct {
	repo    Repository
	authors AuthorDirectory
	events  events.Publisher
	log     *zap.Logger
	now     func() time.Time
}

func NewService(repo Repository, authors AuthorDirectory, pub events.Publisher, log *zap.Logger) *Service {
	if pub == nil {
		pub = events.Nop()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		repo:    repo,
		authors: authors,
		events:  pub,
		log:     log,
		now:     time.Now,
	}
}

type ListPostsInput struct {
	Page     int
	PageSize int
	Tag      string
}

func (s *Service) ListPosts(ctx context.Context, viewerID string, in ListPostsInput) (PostPage, error) {
	page := in.Page
	if page < 1 {
		page = 1
	}
	size := in.PageSize
	if size < 1 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	tag, err := parseFilter(in.Tag)
	if err != nil {
		return PostPage{}, err
	}

	// offset + size + 1 tiene que entrar en un int
	if page-1 > (math.MaxInt-size-1)/size {
		return PostPage{Items: []PostView{}, Page: page}, nil
	}

	// Se pide uno de más para saber si hay otra página.
	posts, err := s.repo.ListPosts(ctx, tag, (page-1)*size, size+1)
	if err != nil {
		return PostPage{}, err
	}
	hasMore := len(posts) > size
	if hasMore {
		posts = posts[:size]
	}

	views, err := s.viewPosts(ctx, viewerID, posts)
	if err != nil {
		return PostPage{}, err
	}
	return PostPage{Items: views, Page: page, HasMore: hasMore}, nil
}

type CreatePostInput struct {
	Content string
	Tags    []string
	Media   []Media
}

func (s *Service) CreatePost(ctx context.Context, authorID string, in CreatePostInput) (PostView, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return PostView{}, apperr.Validation("content is required")
	}
	tags, err := parseTags(in.Tags, TagDaily)
	if err != nil {
		return PostView{}, err
	}
	media, err := cleanMedia(in.Media)
	if err != nil {
		return PostView{}, err
	}

	p := Post{
		ID:        uuid.NewString(),
		AuthorID:  authorID,
		Content:   content,
		Media:     media,
		Tags:      tags,
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.CreatePost(ctx, p); err != nil {
		return PostView{}, err
	}

	view := PostView{Post: p, AuthorName: s.authorName(ctx, authorID, nil)}
	s.publish(ctx, events.SubjectPostCreated, map[string]any{
		"postId":     p.ID,
		"authorId":   p.AuthorID,
		"authorName": view.AuthorName,
		"tags":       p.Tags,
	})
	return view, nil
}

// SetLike fija el like del usuario. Es idempotente por usuario.
func (s *Service) SetLike(ctx context.Context, postID, userID string, liked bool) (PostView, error) {
	p, err := s.repo.SetLike(ctx, strings.TrimSpace(postID), userID, liked)
	if err != nil {
		return PostView{}, err
	}

	s.publish(ctx, events.SubjectPostLiked, map[string]any{
		"postId": p.ID,
		"userId": userID,
		"liked":  liked,
		"likes":  p.Likes,
	})
	return PostView{Post: p, AuthorName: s.authorName(ctx, p.AuthorID, nil), LikedByMe: liked}, nil
}

func (s *Service) AddComment(ctx context.Context, postID, userID, text string) (PostView, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return PostView{}, apperr.Validation("text is required")
	}

	p, err := s.repo.AddComment(ctx, Comment{
		ID:        uuid.NewString(),
		PostID:    strings.TrimSpace(postID),
		AuthorID:  userID,
		Text:      text,
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		return PostView{}, err
	}

	views, err := s.viewPosts(ctx, userID, []Post{p})
	if err != nil {
		return PostView{}, err
	}
	return views[0], nil
}

func (s *Service) ListQuestions(ctx context.Context) ([]QuestionView, error) {
	qs, err := s.repo.ListQuestions(ctx)
	if err != nil {
		return nil, err
	}
	names := map[string]string{}
	out := make([]QuestionView, 0, len(qs))
	for _, q := range qs {
		out = append(out, s.viewQuestion(ctx, q, names))
	}
	return out, nil
}

type CreateQuestionInput struct {
	Question string
	Tags     []string
}

func (s *Service) CreateQuestion(ctx context.Context, authorID string, in CreateQuestionInput) (QuestionView, error) {
	text := strings.TrimSpace(in.Question)
	if text == "" {
		return QuestionView{}, apperr.Validation("question is required")
	}
	tags, err := parseTags(in.Tags, TagQA)
	if err != nil {
		return QuestionView{}, err
	}

	q := Question{
		ID:        uuid.NewString(),
		AuthorID:  authorID,
		Question:  text,
		Tags:      tags,
		CreatedAt: s.now().UTC(),
		Answers:   []Answer{},
	}
	if err := s.repo.CreateQuestion(ctx, q); err != nil {
		return QuestionView{}, err
	}
	return s.viewQuestion(ctx, q, map[string]string{}), nil
}

// AddAnswer agrega una respuesta y devuelve la pregunta completa.
func (s *Service) AddAnswer(ctx context.Context, questionID, authorID, text string) (QuestionView, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return QuestionView{}, apperr.Validation("text is required")
	}
	questionID = strings.TrimSpace(questionID)
	if _, err := s.repo.GetQuestion(ctx, questionID); err != nil {
		return QuestionView{}, err
	}

	err := s.repo.AddAnswer(ctx, Answer{
		ID:         uuid.NewString(),
		QuestionID: questionID,
		AuthorID:   authorID,
		Text:       text,
		CreatedAt:  s.now().UTC(),
	})
	if err != nil {
		return QuestionView{}, err
	}
	return s.question(ctx, questionID)
}

// AcceptAnswer: solo el autor de la pregunta puede aceptar, y queda una sola aceptada.
func (s *Service) AcceptAnswer(ctx context.Context, questionID, userID, answerID string) (QuestionView, error) {
	answerID = strings.TrimSpace(answerID)
	if answerID == "" {
		return QuestionView{}, apperr.Validation("answerId is required")
	}

	q, err := s.repo.GetQuestion(ctx, strings.TrimSpace(questionID))
	if err != nil {
		return QuestionView{}, err
	}
	if q.AuthorID != userID {
		return QuestionView{}, apperr.Forbidden("only the question author can accept an answer")
	}
	if err := s.repo.AcceptAnswer(ctx, q.ID, answerID); err != nil {
		return QuestionView{}, err
	}
	return s.question(ctx, q.ID)
}

func (s *Service) question(ctx context.Context, id string) (QuestionView, error) {
	q, err := s.repo.GetQuestion(ctx, id)
	if err != nil {
		return QuestionView{}, err
	}
	return s.viewQuestion(ctx, q, map[string]string{}), nil
}

func (s *Service) viewPosts(ctx context.Context, viewerID string, posts []Post) ([]PostView, error) {
	liked := map[string]bool{}
	if viewerID != "" && len(posts) > 0 {
		ids := make([]string, 0, len(posts))
		for _, p := range posts {
			ids = append(ids, p.ID)
		}
		var err error
		if liked, err = s.repo.LikedPosts(ctx, viewerID, ids); err != nil {
			return nil, err
		}
	}

	names := map[string]string{}
	out := make([]PostView, 0, len(posts))
	for _, p := range posts {
		out = append(out, PostView{
			Post:       p,
			AuthorName: s.authorName(ctx, p.AuthorID, names),
			LikedByMe:  liked[p.ID],
		})
	}
	return out, nil
}

func (s *Service) viewQuestion(ctx context.Context, q Question, names map[string]string) QuestionView {
	answers := make([]AnswerView, 0, len(q.Answers))
	for _, a := range q.Answers {
		answers = append(answers, AnswerView{Answer: a, AuthorName: s.authorName(ctx, a.AuthorID, names)})
	}
	return QuestionView{
		Question:   q,
		AuthorName: s.authorName(ctx, q.AuthorID, names),
		Answers:    answers,
	}
}

// authorName nunca falla: una cuenta que no se puede resolver se muestra como "Unknown".
func (s *Service) authorName(ctx context.Context, userID string, memo map[string]string) string {
	if name, ok := memo[userID]; ok {
		return name
	}
	name := unknownAuthor
	if s.authors != nil {
		n, err := s.authors.DisplayName(ctx, userID)
		switch {
		case err == nil && n != "":
			name = n
		case err != nil && !errors.Is(err, apperr.ErrNotFound):
			s.log.Warn("author lookup failed", zap.String("user_id", userID), zap.Error(err))
		}
	}
	if memo != nil {
		memo[userID] = name
	}
	return name
}

func (s *Service) publish(ctx context.Context, subject string, payload any) {
	err := s.events.Publish(ctx, events.Event{Subject: subject, OccurredAt: s.now().UTC(), Payload: payload})
	if err != nil {
		s.log.Warn("event publish failed", zap.String("subject", subject), zap.Error(err))
	}
}

func parseFilter(raw string) (Tag, error) {
	t := Tag(strings.ToLower(strings.TrimSpace(raw)))
	if t == "" || t == TagAll {
		return TagAll, nil
	}
	if !t.Valid() {
		return "", apperr.Validation("tag must be all, daily, qa or rescue")
	}
	return t, nil
}

// parseTags valida y deduplica; sin tags usa def.
func parseTags(raw []string, def Tag) ([]Tag, error) {
	out := make([]Tag, 0, len(raw))
	seen := map[Tag]bool{}
	for _, r := range raw {
		t := Tag(strings.ToLower(strings.TrimSpace(r)))
		if t == "" || t == TagAll {
			continue
		}
		if !t.Valid() {
			return nil, apperr.Validation("tags must be daily, qa or rescue")
		}
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		out = append(out, def)
	}
	return out, nil
}

func cleanMedia(in []Media) ([]Media, error) {
	out := make([]Media, 0, len(in))
	for _, m := range in {
		m.URI = strings.TrimSpace(m.URI)
		if m.URI == "" {
			return nil, apperr.Validation("media uri is required")
		}
		switch m.Type {
		case MediaImage, MediaVideo:
		case "":
			m.Type = MediaImage
		default:
			return nil, apperr.Validation("media type must be image or video")
		}
		if strings.TrimSpace(m.ID) == "" {
			m.ID = uuid.NewString()
		}
		out = append(out, m)
	}
	return out, nil
}
