package community

import "time"

// Tag clasifica posts y preguntas. "all" solo existe como filtro.
// @Enum daily, qa, rescue
type Tag string

const (
	TagAll    Tag = "all"
	TagDaily  Tag = "daily"
	TagQA     Tag = "qa"
	TagRescue Tag = "rescue"
)

func (t Tag) Valid() bool {
	switch t {
	case TagDaily, TagQA, TagRescue:
		return true
	}
	return false
}

// MediaType: image | video.
type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
)

type Media struct {
	ID        string    `json:"id"`
	Type      MediaType `json:"type"`
	URI       string    `json:"uri"`
	Thumbnail string    `json:"thumbnail,omitempty"`
}

type Post struct {
	ID        string
	AuthorID  string
	Content   string
	Media     []Media
	Tags      []Tag
	Likes     int
	Comments  int
	CreatedAt time.Time
}

type Comment struct {
	ID        string
	PostID    string
	AuthorID  string
	Text      string
	CreatedAt time.Time
}

type Question struct {
	ID        string
	AuthorID  string
	Question  string
	Tags      []Tag
	CreatedAt time.Time
	// Answers en orden de creación.
	Answers []Answer
}

type Answer struct {
	ID         string
	QuestionID string
	AuthorID   string
	Text       string
	IsAccepted bool
	CreatedAt  time.Time
}

// PostView es el post tal como lo ve un usuario concreto.
type PostView struct {
	Post
	AuthorName string
	LikedByMe  bool
}

type PostPage struct {
	Items   []PostView
	Page    int
	HasMore bool
}

type AnswerView struct {
	Answer
	AuthorName string
}

type QuestionView struct {
	Question
	AuthorName string
	Answers    []AnswerView
}
