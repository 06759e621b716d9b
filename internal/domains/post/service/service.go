package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"stay/config"
	"stay/infras/otel"
	"stay/internal/domains/post/model"
	"stay/internal/domains/post/model/dto"
	"stay/internal/domains/post/repository"
	userModel "stay/internal/domains/user/model"
	userRepo "stay/internal/domains/user/repository"
	"stay/shared"
	"stay/shared/cache"
	"stay/shared/constant"
	gDto "stay/shared/dto"
	"stay/shared/failure"
)

const (
	cacheGetPost    = "post:get"
	cacheGetAllPost = "post:gets"
	cacheCountPost  = "post:count"
)

type Post interface {
	Create(ctx context.Context, req dto.CreatePostRequest) (dto.PostResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetPostsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.PostResponse, error)
	Update(ctx context.Context, req dto.UpdatePostRequest, id string) error
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo     repository.Post
	userRepo userRepo.User
	cfg      *config.Config
	cache    cache.RedisCache
	otel     otel.Otel
}

func New(repo repository.Post, userRepo userRepo.User, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Post {
	return &serviceImpl{
		repo:     repo,
		userRepo: userRepo,
		cfg:      cfg,
		cache:    cache,
		otel:     otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreatePostRequest) (res dto.PostResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CreatePost")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	post := req.ToModel(user)

	if err = s.repo.Insert(ctx, post); err != nil {
		log.Error().Err(err).Msg("failed to create post")

		return res, fmt.Errorf("failed to create post: %w", err)
	}

	s.invalidateListCaches(ctx)

	res.FromModel(post)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetPostsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetPosts")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllPost, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for posts")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count posts")

		return res, fmt.Errorf("failed to count posts: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get posts")

		return res, fmt.Errorf("failed to get posts: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	if err = s.annotateAuthors(ctx, res.Posts); err != nil {
		return res, err
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save posts to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CountPosts")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountPost, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count posts")

		return res, fmt.Errorf("failed to count posts: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save post count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.PostResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetPost")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetPost, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for post")

		return res, nil
	}

	post, err := s.getPost(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(post)

	annotated := []dto.PostResponse{res}
	if err = s.annotateAuthors(ctx, annotated); err != nil {
		return res, err
	}

	res = annotated[0]

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save post to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdatePostRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdatePost")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req == (dto.UpdatePostRequest{}) {
		return failure.BadRequestFromString("update request cannot be empty")
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	post, err := s.getPost(ctx, id)
	if err != nil {
		return err
	}

	if post.AuthorID != user {
		return failure.Forbidden("only the author can modify this post")
	}

	updatedFields := shared.TransformFields(req, user)
	if err = s.repo.Update(ctx, updatedFields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update post")

		return fmt.Errorf("failed to update post: %w", err)
	}

	s.invalidatePostCaches(ctx, id)

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".DeletePost")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	post, err := s.getPost(ctx, id)
	if err != nil {
		return err
	}

	if post.AuthorID != user {
		return failure.Forbidden("only the author can delete this post")
	}

	if err = s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete post")

		return fmt.Errorf("failed to delete post: %w", err)
	}

	s.invalidatePostCaches(ctx, id)

	return nil
}

func (s *serviceImpl) getPost(ctx context.Context, id string) (model.Post, error) {
	post, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get post")

		return post, fmt.Errorf("failed to get post: %w", err)
	}

	if post.ID == constant.Empty {
		return post, failure.NotFound("post not found")
	}

	return post, nil
}

// annotateAuthors resolves author usernames in one query per batch.
func (s *serviceImpl) annotateAuthors(ctx context.Context, posts []dto.PostResponse) error {
	if len(posts) == 0 {
		return nil
	}

	seen := map[string]bool{}
	ids := []string{}

	for _, post := range posts {
		if !seen[post.AuthorID] {
			seen[post.AuthorID] = true

			ids = append(ids, post.AuthorID)
		}
	}

	authorFilter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    userModel.FieldID,
				Operator: gDto.FilterOperatorIn,
				Value:    ids,
				Table:    userModel.TableName,
			},
		},
	}

	authors, err := s.userRepo.GetAll(ctx, gDto.QueryParams{}, authorFilter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get post authors")

		return fmt.Errorf("failed to get post authors: %w", err)
	}

	names := make(map[string]string, len(authors))
	for _, author := range authors {
		names[author.ID] = author.Username
	}

	for i := range posts {
		posts[i].AuthorName = names[posts[i].AuthorID]
	}

	return nil
}

func (s *serviceImpl) invalidatePostCaches(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetPost, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete post from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllPost)
		shared.InvalidateCaches(c, s.cache, cacheCountPost)
	}()
}

func (s *serviceImpl) invalidateListCaches(ctx context.Context) {
	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllPost)
		shared.InvalidateCaches(c, s.cache, cacheCountPost)
	}()
}
