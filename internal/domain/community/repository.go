package community

import "context"

type Repository interface {
	CreatePost(ctx context.Context, p Post) error
	GetPost(ctx context.Context, id string) (Post, error)
	// ListPosts: más recientes primero. tag vacío o TagAll no filtra.
	ListPosts(ctx context.Context, tag Tag, offset, limit int) ([]Post, error)

	// SetLike fija el like de userID sobre el post y devuelve el post actualizado.
	// Repetir el mismo valor no cambia el contador.
	SetLike(ctx context.Context, postID, userID string, liked bool) (Post, error)
	// LikedPosts indica cuáles de postIDs tienen like de userID.
	LikedPosts(ctx context.Context, userID string, postIDs []string) (map[string]bool, error)

	// AddComment guarda el comentario e incrementa el contador del post.
	AddComment(ctx context.Context, c Comment) (Post, error)

	CreateQuestion(ctx context.Context, q Question) error
	GetQuestion(ctx context.Context, id string) (Question, error)
	// ListQuestions: más recientes primero, con sus respuestas.
	ListQuestions(ctx context.Context) ([]Question, error)
	AddAnswer(ctx context.Context, a Answer) error
	// AcceptAnswer deja answerID como única respuesta aceptada de la pregunta.
	AcceptAnswer(ctx context.Context, questionID, answerID string) error
}
