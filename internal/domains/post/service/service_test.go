package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"stay/config"
	"stay/infras/otel/mocks"
	postMocks "stay/internal/domains/post/mocks"
	"stay/internal/domains/post/model"
	"stay/internal/domains/post/model/dto"
	"stay/internal/domains/post/service"
	userMocks "stay/internal/domains/user/mocks"
	userModel "stay/internal/domains/user/model"
	cacheMocks "stay/shared/cache/mocks"
	"stay/shared/constant"
	gDto "stay/shared/dto"
	"stay/shared/failure"
	gModel "stay/shared/model"
	"stay/shared/timezone"
)

func validPost() model.Post {
	return model.Post{
		ID:        "post-id-123",
		Title:     "Test Post",
		Content:   "Test Content",
		Published: true,
		AuthorID:  "author-id-123",
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  "author-id-123",
			ModifiedBy: "author-id-123",
		},
	}
}

func newService(t *testing.T) (service.Post, *postMocks.MockPost, *userMocks.MockUser, *cacheMocks.MockRedisCache) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	mockRepo := postMocks.NewMockPost(ctrl)
	mockUserRepo := userMocks.NewMockUser(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(mockRepo, mockUserRepo, cfg, mockCache, mockOtel)

	return svc, mockRepo, mockUserRepo, mockCache
}

func asAuthor(ctx context.Context) context.Context {
	return context.WithValue(ctx, constant.ContextKeyUserID, "author-id-123")
}

func TestPostService_Create(t *testing.T) {
	svc, mockRepo, _, mockCache := newService(t)

	mockCache.EXPECT().
		Clear(gomock.Any(), gomock.Any()).
		Return(nil).
		AnyTimes()

	t.Run("successful creation defaults to published", func(t *testing.T) {
		mockRepo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, post model.Post) error {
				assert.True(t, post.Published)
				assert.Equal(t, "author-id-123", post.AuthorID)

				return nil
			})

		res, err := svc.Create(asAuthor(context.Background()), dto.CreatePostRequest{
			Title:   "Test Post",
			Content: "Test Content",
		})

		assert.NoError(t, err)
		assert.Equal(t, "Test Post", res.Title)
	})

	t.Run("explicit draft", func(t *testing.T) {
		draft := false

		mockRepo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, post model.Post) error {
				assert.False(t, post.Published)

				return nil
			})

		_, err := svc.Create(asAuthor(context.Background()), dto.CreatePostRequest{
			Title:     "Draft Post",
			Content:   "Draft Content",
			Published: &draft,
		})

		assert.NoError(t, err)
	})

	t.Run("repository error", func(t *testing.T) {
		mockRepo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			Return(errors.New("database error"))

		_, err := svc.Create(asAuthor(context.Background()), dto.CreatePostRequest{
			Title:   "Test Post",
			Content: "Test Content",
		})

		assert.Error(t, err)
	})
}

func TestPostService_GetAll(t *testing.T) {
	svc, mockRepo, mockUserRepo, mockCache := newService(t)

	mockCache.EXPECT().
		Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil).
		AnyTimes()

	t.Run("annotates author names", func(t *testing.T) {
		mockCache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("cache miss")).
			Times(2)

		mockRepo.EXPECT().
			Count(gomock.Any(), gomock.Any()).
			Return(1, nil)

		mockRepo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]model.Post{validPost()}, nil)

		mockUserRepo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]userModel.User{{ID: "author-id-123", Username: "alice"}}, nil)

		res, err := svc.GetAll(context.Background(), gDto.QueryParams{Limit: 10, Page: 1}, gDto.FilterGroup{})

		assert.NoError(t, err)
		assert.Len(t, res.Posts, 1)
		assert.Equal(t, "alice", res.Posts[0].AuthorName)
		assert.Equal(t, 1, res.TotalData)
	})

	t.Run("cache hit skips repository", func(t *testing.T) {
		mockCache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil)

		_, err := svc.GetAll(context.Background(), gDto.QueryParams{Limit: 10, Page: 1}, gDto.FilterGroup{})

		assert.NoError(t, err)
	})
}

func TestPostService_Update(t *testing.T) {
	svc, mockRepo, _, mockCache := newService(t)

	mockCache.EXPECT().
		Delete(gomock.Any(), gomock.Any()).
		Return(nil).
		AnyTimes()
	mockCache.EXPECT().
		Clear(gomock.Any(), gomock.Any()).
		Return(nil).
		AnyTimes()

	title := "Updated Title"

	t.Run("author updates own post", func(t *testing.T) {
		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(validPost(), nil)

		mockRepo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil)

		err := svc.Update(asAuthor(context.Background()), dto.UpdatePostRequest{Title: &title}, "post-id-123")

		assert.NoError(t, err)
	})

	t.Run("non-author is forbidden", func(t *testing.T) {
		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(validPost(), nil)

		ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "someone-else")
		err := svc.Update(ctx, dto.UpdatePostRequest{Title: &title}, "post-id-123")

		assert.Error(t, err)
		assert.Equal(t, http.StatusForbidden, failure.GetCode(err))
	})

	t.Run("empty update rejected", func(t *testing.T) {
		err := svc.Update(asAuthor(context.Background()), dto.UpdatePostRequest{}, "post-id-123")

		assert.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("post not found", func(t *testing.T) {
		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Post{}, nil)

		err := svc.Update(asAuthor(context.Background()), dto.UpdatePostRequest{Title: &title}, "nonexistent-id")

		assert.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestPostService_Delete(t *testing.T) {
	svc, mockRepo, _, mockCache := newService(t)

	mockCache.EXPECT().
		Delete(gomock.Any(), gomock.Any()).
		Return(nil).
		AnyTimes()
	mockCache.EXPECT().
		Clear(gomock.Any(), gomock.Any()).
		Return(nil).
		AnyTimes()

	t.Run("author deletes own post", func(t *testing.T) {
		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(validPost(), nil)

		mockRepo.EXPECT().
			Delete(gomock.Any(), gomock.Any()).
			Return(nil)

		err := svc.Delete(asAuthor(context.Background()), "post-id-123")

		assert.NoError(t, err)
	})

	t.Run("non-author is forbidden", func(t *testing.T) {
		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(validPost(), nil)

		ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "someone-else")
		err := svc.Delete(ctx, "post-id-123")

		assert.Error(t, err)
		assert.Equal(t, http.StatusForbidden, failure.GetCode(err))
	})
}
