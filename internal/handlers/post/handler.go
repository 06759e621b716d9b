package post

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"stay/infras/otel"
	"stay/internal/domains/post/model"
	"stay/internal/domains/post/model/dto"
	"stay/internal/domains/post/service"
	"stay/shared"
	"stay/shared/constant"
	gDto "stay/shared/dto"
	"stay/shared/validator"
	"stay/transport/http/middleware"
	"stay/transport/http/response"
)

type Handler struct {
	service    service.Post
	middleware middleware.AuthRole
	otel       otel.Otel
}

func New(service service.Post, middleware middleware.AuthRole, otel otel.Otel) Handler {
	return Handler{
		service:    service,
		middleware: middleware,
		otel:       otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/posts", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreatePost)
		routerGroup.Get("/", handler.GetPosts)
		routerGroup.Get("/{id}", handler.GetPostByID)
		routerGroup.Put("/{id}", handler.UpdatePost)
		routerGroup.Delete("/{id}", handler.DeletePost)
	})
}

// CreatePost publishes a new post by the authenticated user.
// @Summary Create a new post
// @Description Create a post authored by the authenticated user.
// @Tags Post
// @Accept json
// @Produce json
// @Param request body dto.CreatePostRequest true "Create Post Request"
// @Success 201 {object} dto.PostResponse "Post created successfully"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/posts [post]
// @Security BearerAuth
func (handler *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreatePost")
	defer scope.End()

	req := dto.CreatePostRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create post")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Post created successfully by user " + user)

	response.WithJSON(w, http.StatusCreated, res)
}

// GetPosts lists posts with optional filters.
// @Summary Get all posts
// @Description Retrieve posts with optional title and published filters, paginated.
// @Tags Post
// @Accept json
// @Produce json
// @Param title query string false "Filter by title"
// @Param published query boolean false "Filter by published state"
// @Success 200 {object} dto.GetPostsResponse "List of posts"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/posts [get]
// @Security BearerAuth
func (handler *Handler) GetPosts(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetPosts")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
	}

	if title := r.URL.Query().Get(model.FieldTitle); title != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldTitle,
			Operator: gDto.FilterOperatorLike,
			Value:    title,
			Table:    model.TableName,
		})
	}

	if published := shared.ConvertStringToBool(r.URL.Query().Get(model.FieldPublished)); published != nil {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldPublished,
			Operator: gDto.FilterOperatorEq,
			Value:    *published,
			Table:    model.TableName,
		})
	}

	posts, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get posts")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Posts retrieved successfully")

	response.WithJSON(w, http.StatusOK, posts)
}

// GetPostByID retrieves a post by its ID.
// @Summary Get a post by ID
// @Description Retrieve a post with its author's username.
// @Tags Post
// @Accept json
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} dto.PostResponse "Post details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/posts/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetPostByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetPostByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	post, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get post by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Post retrieved successfully")

	response.WithJSON(w, http.StatusOK, post)
}

// UpdatePost updates a post owned by the authenticated user.
// @Summary Update a post by ID
// @Description Update the title, content or published state of a post. Only the author may do this.
// @Tags Post
// @Accept json
// @Produce json
// @Param id path string true "Post ID"
// @Param request body dto.UpdatePostRequest true "Update Post Request"
// @Success 200 {object} response.Message "Post updated successfully"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/posts/{id} [put]
// @Security BearerAuth
func (handler *Handler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdatePost")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdatePostRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update post")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Post updated successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Post updated successfully")
}

// DeletePost deletes a post owned by the authenticated user.
// @Summary Delete a post by ID
// @Description Delete a post. Only the author may do this.
// @Tags Post
// @Accept json
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} response.Message "Post deleted successfully"
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/posts/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeletePost")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete post")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Post deleted successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Post deleted successfully")
}
