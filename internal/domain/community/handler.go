package community

import (
	"net/http"
	"strconv"
	"time"

	"pet-care-backend/internal/platform/httpx"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/posts", func(pr chi.Router) {
		pr.Get("/", listPostsHandler(svc))
		pr.Post("/", createPostHandler(svc))
		pr.Post("/{postID}/like", likePostHandler(svc))
		pr.Post("/{postID}/comments", commentPostHandler(svc))
	})

	r.Route("/questions", func(qr chi.Router) {
		qr.Get("/", listQuestionsHandler(svc))
		qr.Post("/", createQuestionHandler(svc))
		qr.Post("/{questionID}/answers", answerQuestionHandler(svc))
		qr.Post("/{questionID}/accept", acceptAnswerHandler(svc))
	})
}

type createPostRequest struct {
	Content string   `json:"content"`
	Tags    []string `json:"tags" example:"daily"`
	Media   []Media  `json:"media"`
}

type likeRequest struct {
	Liked *bool `json:"liked"`
}

type textRequest struct {
	Text string `json:"text"`
}

type createQuestionRequest struct {
	Question string   `json:"question"`
	Tags     []string `json:"tags" example:"qa"`
}

type acceptRequest struct {
	AnswerID string `json:"answerId"`
}

type postResponse struct {
	ID           string    `json:"id"`
	AuthorID     string    `json:"authorId"`
	AuthorName   string    `json:"authorName"`
	AuthorAvatar string    `json:"authorAvatar"`
	CreatedAt    time.Time `json:"createdAt"`
	Content      string    `json:"content"`
	Media        []Media   `json:"media"`
	Tags         []Tag     `json:"tags"`
	Likes        int       `json:"likes"`
	Comments     int       `json:"comments"`
	LikedByMe    bool      `json:"likedByMe"`
}

type postPageResponse struct {
	Items   []postResponse `json:"items"`
	Page    int            `json:"page"`
	HasMore bool           `json:"hasMore"`
}

type answerResponse struct {
	ID           string    `json:"id"`
	AuthorID     string    `json:"authorId"`
	AuthorName   string    `json:"authorName"`
	AuthorAvatar string    `json:"authorAvatar"`
	Text         string    `json:"text"`
	CreatedAt    time.Time `json:"createdAt"`
	IsAccepted   bool      `json:"isAccepted"`
}

type questionResponse struct {
	ID           string           `json:"id"`
	Question     string           `json:"question"`
	AuthorID     string           `json:"authorId"`
	AuthorName   string           `json:"authorName"`
	AuthorAvatar string           `json:"authorAvatar"`
	CreatedAt    time.Time        `json:"createdAt"`
	Tags         []Tag            `json:"tags"`
	Answers      []answerResponse `json:"answers"`
}

// listPostsHandler godoc
// @Summary Feed de la comunidad
// @Description Más recientes primero. likedByMe es relativo al usuario autenticado.
// @Tags community
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param page query int false "Página (desde 1)"
// @Param pageSize query int false "Tamaño de página (default 10)"
// @Param tag query string false "all | daily | qa | rescue"
// @Success 200 {object} postPageResponse
// @Failure 400 {object} httpx.ErrorBody "tag inválido"
// @Failure 401 {object} httpx.ErrorBody "unauthorized"
// @Router /posts [get]
func listPostsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := httpx.RequireUser(r)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		q := r.URL.Query()
		page, _ := strconv.Atoi(q.Get("page"))
		size, _ := strconv.Atoi(q.Get("pageSize"))

		res, err := svc.ListPosts(r.Context(), userID, ListPostsInput{
			Page:     page,
			PageSize: size,
			Tag:      q.Get("tag"),
		})
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		out := postPageResponse{
			Items:   make([]postResponse, 0, len(res.Items)),
			Page:    res.Page,
			HasMore: res.HasMore,
		}
		for _, p := range res.Items {
			out.Items = append(out.Items, toPostResponse(p))
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

// createPostHandler godoc
// @Summary Publicar post
// @Tags community
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param payload body createPostRequest true "content obligatorio; tags por defecto [daily]"
// @Success 201 {object} postResponse
// @Failure 400 {object} httpx.ErrorBody "validation error"
// @Failure 401 {object} httpx.ErrorBody "unauthorized"
// @Router /posts [post]
func createPostHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := httpx.RequireUser(r)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		var req createPostRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		p, err := svc.CreatePost(r.Context(), userID, CreatePostInput(req))
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		httpx.WriteJSON(w, http.StatusCreated, toPostResponse(p))
	}
}

// likePostHandler godoc
// @Summary Like / unlike
// @Description liked por defecto true. Repetir el mismo valor no altera el contador.
// @Tags community
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param postID path string true "ID del post"
// @Param payload body likeRequest false "Estado deseado"
// @Success 200 {object} postResponse
// @Failure 401 {object} httpx.ErrorBody "unauthorized"
// @Failure 404 {object} httpx.ErrorBody "post not found"
// @Router /posts/{postID}/like [post]
func likePostHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := httpx.RequireUser(r)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		var req likeRequest
		if r.ContentLength != 0 {
			if err := httpx.DecodeJSON(r, &req); err != nil {
				httpx.WriteError(w, r, err)
				return
			}
		}
		liked := true
		if req.Liked != nil {
			liked = *req.Liked
		}

		p, err := svc.SetLike(r.Context(), chi.URLParam(r, "postID"), userID, liked)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		httpx.WriteJSON(w, http.StatusOK, toPostResponse(p))
	}
}

// commentPostHandler godoc
// @Summary Comentar post
// @Tags community
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param postID path string true "ID del post"
// @Param payload body textRequest true "Comentario"
// @Success 201 {object} postResponse
// @Failure 400 {object} httpx.ErrorBody "text is required"
// @Failure 404 {object} httpx.ErrorBody "post not found"
// @Router /posts/{postID}/comments [post]
func commentPostHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := httpx.RequireUser(r)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		var req textRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		p, err := svc.AddComment(r.Context(), chi.URLParam(r, "postID"), userID, req.Text)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		httpx.WriteJSON(w, http.StatusCreated, toPostResponse(p))
	}
}

// listQuestionsHandler godoc
// @Summary Preguntas de la comunidad
// @Tags community
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Success 200 {array} questionResponse
// @Failure 401 {object} httpx.ErrorBody "unauthorized"
// @Router /questions [get]
func listQuestionsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := httpx.RequireUser(r); err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		qs, err := svc.ListQuestions(r.Context())
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		out := make([]questionResponse, 0, len(qs))
		for _, q := range qs {
			out = append(out, toQuestionResponse(q))
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

// createQuestionHandler godoc
// @Summary Hacer una pregunta
// @Tags community
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param payload body createQuestionRequest true "question obligatorio; tags por defecto [qa]"
// @Success 201 {object} questionResponse
// @Failure 400 {object} httpx.ErrorBody "validation error"
// @Failure 401 {object} httpx.ErrorBody "unauthorized"
// @Router /questions [post]
func createQuestionHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := httpx.RequireUser(r)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		var req createQuestionRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		q, err := svc.CreateQuestion(r.Context(), userID, CreateQuestionInput(req))
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		httpx.WriteJSON(w, http.StatusCreated, toQuestionResponse(q))
	}
}

// answerQuestionHandler godoc
// @Summary Responder pregunta
// @Tags community
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param questionID path string true "ID de la pregunta"
// @Param payload body textRequest true "Respuesta"
// @Success 201 {object} questionResponse
// @Failure 400 {object} httpx.ErrorBody "text is required"
// @Failure 404 {object} httpx.ErrorBody "question not found"
// @Router /questions/{questionID}/answers [post]
func answerQuestionHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := httpx.RequireUser(r)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		var req textRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		q, err := svc.AddAnswer(r.Context(), chi.URLParam(r, "questionID"), userID, req.Text)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		httpx.WriteJSON(w, http.StatusCreated, toQuestionResponse(q))
	}
}

// acceptAnswerHandler godoc
// @Summary Aceptar respuesta
// @Description Solo el autor de la pregunta. Deja una única respuesta aceptada.
// @Tags community
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param questionID path string true "ID de la pregunta"
// @Param payload body acceptRequest true "Respuesta a aceptar"
// @Success 200 {object} questionResponse
// @Failure 400 {object} httpx.ErrorBody "answerId is required"
// @Failure 403 {object} httpx.ErrorBody "no es el autor"
// @Failure 404 {object} httpx.ErrorBody "not found"
// @Router /questions/{questionID}/accept [post]
func acceptAnswerHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := httpx.RequireUser(r)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		var req acceptRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		q, err := svc.AcceptAnswer(r.Context(), chi.URLParam(r, "questionID"), userID, req.AnswerID)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		httpx.WriteJSON(w, http.StatusOK, toQuestionResponse(q))
	}
}

func toPostResponse(p PostView) postResponse {
	media := p.Media
	if media == nil {
		media = []Media{}
	}
	return postResponse{
		ID:         p.ID,
		AuthorID:   p.AuthorID,
		AuthorName: p.AuthorName,
		CreatedAt:  p.CreatedAt,
		Content:    p.Content,
		Media:      media,
		Tags:       p.Tags,
		Likes:      p.Likes,
		Comments:   p.Comments,
		LikedByMe:  p.LikedByMe,
	}
}

func toQuestionResponse(q QuestionView) questionResponse {
	out := questionResponse{
		ID:         q.ID,
		Question:   q.Question.Question,
		AuthorID:   q.AuthorID,
		AuthorName: q.AuthorName,
		CreatedAt:  q.CreatedAt,
		Tags:       q.Tags,
		Answers:    make([]answerResponse, 0, len(q.Answers)),
	}
	for _, a := range q.Answers {
		out.Answers = append(out.Answers, answerResponse{
			ID:         a.ID,
			AuthorID:   a.AuthorID,
			AuthorName: a.AuthorName,
			Text:       a.Text,
			CreatedAt:  a.CreatedAt,
			IsAccepted: a.IsAccepted,
		})
	}
	return out
}
