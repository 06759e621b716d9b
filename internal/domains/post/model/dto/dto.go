package dto

import (
	"github.com/google/uuid"

	"stay/internal/domains/post/model"
	"stay/shared"
	gDto "stay/shared/dto"
	gModel "stay/shared/model"
	"stay/shared/timezone"
)

type CreatePostRequest struct {
	Title     string `json:"title"     validate:"required,max=255"`
	Content   string `json:"content"   validate:"required"`
	Published *bool  `json:"published" validate:"omitempty"`
}

func (c *CreatePostRequest) ToModel(user string) model.Post {
	published := true
	if c.Published != nil {
		published = *c.Published
	}

	return model.Post{
		ID:        uuid.NewString(),
		Title:     c.Title,
		Content:   c.Content,
		Published: published,
		AuthorID:  user,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdatePostRequest struct {
	Title     *string `db:"title"     json:"title,omitempty"     validate:"omitempty,max=255"`
	Content   *string `db:"content"   json:"content,omitempty"`
	Published *bool   `db:"published" json:"published,omitempty"`
}

type PostResponse struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Content    string `json:"content"`
	Published  bool   `json:"published"`
	AuthorID   string `json:"author_id"`
	AuthorName string `json:"author_name,omitempty"`
	gDto.Metadata
}

func (r *PostResponse) FromModel(model model.Post) {
	r.ID = model.ID
	r.Title = model.Title
	r.Content = model.Content
	r.Published = model.Published
	r.AuthorID = model.AuthorID
	r.Metadata.FromModel(model.Metadata)
}

type GetPostsResponse struct {
	Posts     []PostResponse `json:"posts"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetPostsResponse) FromModels(models []model.Post, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Posts = make([]PostResponse, len(models))
	for i, mod := range models {
		r.Posts[i].FromModel(mod)
	}
}
