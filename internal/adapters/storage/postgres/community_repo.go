package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"pet-care-backend/internal/domain/community"
	"pet-care-backend/internal/platform/apperr"
)

type CommunityRepo struct {
	db *sql.DB
}

func NewCommunityRepo(db *sql.DB) *CommunityRepo {
	return &CommunityRepo{db: db}
}

const postColumns = `id, author_id, content, media, tags, likes, comments, created_at`

func (r *CommunityRepo) CreatePost(ctx context.Context, p community.Post) error {
	media, tags, err := encodePostJSON(p)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO posts (`+postColumns+`)
		VALUES ($1,$2,$3,$4::jsonb,$5::jsonb,$6,$7,$8)
	`, p.ID, p.AuthorID, p.Content, media, tags, p.Likes, p.Comments, p.CreatedAt)
	return err
}

func (r *CommunityRepo) GetPost(ctx context.Context, id string) (community.Post, error) {
	return r.getPost(ctx, r.db, id)
}

func (r *CommunityRepo) ListPosts(ctx context.Context, tag community.Tag, offset, limit int) ([]community.Post, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if tag == "" || tag == community.TagAll {
		rows, err = r.db.QueryContext(ctx, `
			SELECT `+postColumns+` FROM posts
			ORDER BY created_at DESC, id DESC
			OFFSET $1 LIMIT $2
		`, offset, limit)
	} else {
		filter, _ := json.Marshal([]community.Tag{tag})
		rows, err = r.db.QueryContext(ctx, `
			SELECT `+postColumns+` FROM posts
			WHERE tags @> $1::jsonb
			ORDER BY created_at DESC, id DESC
			OFFSET $2 LIMIT $3
		`, string(filter), offset, limit)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]community.Post, 0)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// SetLike inserta o borra la fila de post_likes y ajusta el contador solo si
// la fila cambió, dentro de la misma transacción.
func (r *CommunityRepo) SetLike(ctx context.Context, postID, userID string, liked bool) (community.Post, error) {
	var out community.Post
	err := r.inTx(ctx, func(tx *sql.Tx) error {
		// bloquea el post para serializar likes concurrentes
		if _, err := r.getPost(ctx, tx, postID, "FOR UPDATE"); err != nil {
			return err
		}

		var res sql.Result
		var err error
		if liked {
			res, err = tx.ExecContext(ctx, `
				INSERT INTO post_likes (post_id, user_id) VALUES ($1,$2)
				ON CONFLICT DO NOTHING
			`, postID, userID)
		} else {
			res, err = tx.ExecContext(ctx, `DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2`, postID, userID)
		}
		if err != nil {
			return err
		}

		if n, _ := res.RowsAffected(); n > 0 {
			delta := 1
			if !liked {
				delta = -1
			}
			if _, err := tx.ExecContext(ctx, `
				UPDATE posts SET likes = GREATEST(0, likes + $2) WHERE id = $1
			`, postID, delta); err != nil {
				return err
			}
		}

		out, err = r.getPost(ctx, tx, postID)
		return err
	})
	return out, err
}

func (r *CommunityRepo) LikedPosts(ctx context.Context, userID string, postIDs []string) (map[string]bool, error) {
	out := make(map[string]bool, len(postIDs))
	if len(postIDs) == 0 {
		return out, nil
	}
	ids, err := json.Marshal(postIDs)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT post_id FROM post_likes
		WHERE user_id = $1
		  AND post_id IN (SELECT jsonb_array_elements_text($2::jsonb))
	`, userID, string(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out[id] = true
	}
	return out, rows.Err()
}

func (r *CommunityRepo) AddComment(ctx context.Context, c community.Comment) (community.Post, error) {
	var out community.Post
	err := r.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `UPDATE posts SET comments = comments + 1 WHERE id = $1`, c.PostID)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return apperr.NotFound("post not found")
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO post_comments (id, post_id, author_id, text, created_at)
			VALUES ($1,$2,$3,$4,$5)
		`, c.ID, c.PostID, c.AuthorID, c.Text, c.CreatedAt); err != nil {
			return err
		}
		out, err = r.getPost(ctx, tx, c.PostID)
		return err
	})
	return out, err
}

func (r *CommunityRepo) CreateQuestion(ctx context.Context, q community.Question) error {
	tags, err := json.Marshal(nonNilTags(q.Tags))
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO questions (id, author_id, question, tags, created_at)
		VALUES ($1,$2,$3,$4::jsonb,$5)
	`, q.ID, q.AuthorID, q.Question, string(tags), q.CreatedAt)
	return err
}

func (r *CommunityRepo) GetQuestion(ctx context.Context, id string) (community.Question, error) {
	qs, err := r.queryQuestions(ctx, `WHERE id = $1`, id)
	if err != nil {
		return community.Question{}, err
	}
	if len(qs) == 0 {
		return community.Question{}, apperr.NotFound("question not found")
	}
	return qs[0], nil
}

func (r *CommunityRepo) ListQuestions(ctx context.Context) ([]community.Question, error) {
	return r.queryQuestions(ctx, `ORDER BY created_at DESC`)
}

func (r *CommunityRepo) AddAnswer(ctx context.Context, a community.Answer) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO answers (id, question_id, author_id, text, is_accepted, created_at)
		VALUES ($1,$2,$3,$4,FALSE,$5)
	`, a.ID, a.QuestionID, a.AuthorID, a.Text, a.CreatedAt)
	return err
}

// AcceptAnswer limpia la aceptada anterior y marca la nueva en una transacción;
// el índice único parcial impide dos aceptadas a la vez.
func (r *CommunityRepo) AcceptAnswer(ctx context.Context, questionID, answerID string) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		var exists bool
		if err := tx.QueryRowContext(ctx, `
			SELECT EXISTS (SELECT 1 FROM answers WHERE id = $1 AND question_id = $2)
		`, answerID, questionID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return apperr.NotFound("answer not found")
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE answers SET is_accepted = FALSE WHERE question_id = $1 AND is_accepted
		`, questionID); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `UPDATE answers SET is_accepted = TRUE WHERE id = $1`, answerID)
		if isUniqueViolation(err) {
			return apperr.Conflict("another answer was accepted concurrently")
		}
		return err
	})
}

func (r *CommunityRepo) queryQuestions(ctx context.Context, tail string, args ...any) ([]community.Question, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, author_id, question, tags, created_at FROM questions `+tail, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]community.Question, 0)
	index := map[string]int{}
	ids := make([]string, 0)
	for rows.Next() {
		var (
			q    community.Question
			tags []byte
		)
		if err := rows.Scan(&q.ID, &q.AuthorID, &q.Question, &tags, &q.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(tags, &q.Tags); err != nil {
			return nil, fmt.Errorf("decode question tags: %w", err)
		}
		q.Answers = []community.Answer{}
		index[q.ID] = len(out)
		ids = append(ids, q.ID)
		out = append(out, q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return out, nil
	}

	rawIDs, err := json.Marshal(ids)
	if err != nil {
		return nil, err
	}
	arows, err := r.db.QueryContext(ctx, `
		SELECT id, question_id, author_id, text, is_accepted, created_at
		FROM answers
		WHERE question_id IN (SELECT jsonb_array_elements_text($1::jsonb))
		ORDER BY created_at ASC, id ASC
	`, string(rawIDs))
	if err != nil {
		return nil, err
	}
	defer arows.Close()

	for arows.Next() {
		var a community.Answer
		if err := arows.Scan(&a.ID, &a.QuestionID, &a.AuthorID, &a.Text, &a.IsAccepted, &a.CreatedAt); err != nil {
			return nil, err
		}
		i := index[a.QuestionID]
		out[i].Answers = append(out[i].Answers, a)
	}
	return out, arows.Err()
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (r *CommunityRepo) getPost(ctx context.Context, q querier, id string, lock ...string) (community.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`
	if len(lock) > 0 {
		query += " " + lock[0]
	}
	p, err := scanPost(q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return community.Post{}, apperr.NotFound("post not found")
	}
	return p, err
}

func (r *CommunityRepo) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func scanPost(s scanner) (community.Post, error) {
	var (
		p     community.Post
		media []byte
		tags  []byte
	)
	if err := s.Scan(&p.ID, &p.AuthorID, &p.Content, &media, &tags, &p.Likes, &p.Comments, &p.CreatedAt); err != nil {
		return community.Post{}, err
	}
	if err := json.Unmarshal(media, &p.Media); err != nil {
		return community.Post{}, fmt.Errorf("decode post media: %w", err)
	}
	if err := json.Unmarshal(tags, &p.Tags); err != nil {
		return community.Post{}, fmt.Errorf("decode post tags: %w", err)
	}
	return p, nil
}

func encodePostJSON(p community.Post) (media string, tags string, err error) {
	m := p.Media
	if m == nil {
		m = []community.Media{}
	}
	rawMedia, err := json.Marshal(m)
	if err != nil {
		return "", "", err
	}
	rawTags, err := json.Marshal(nonNilTags(p.Tags))
	if err != nil {
		return "", "", err
	}
	return string(rawMedia), string(rawTags), nil
}

func nonNilTags(t []community.Tag) []community.Tag {
	if t == nil {
		return []community.Tag{}
	}
	return t
}
