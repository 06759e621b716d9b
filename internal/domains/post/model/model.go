package model

import "stay/shared/model"

const (
	TableName  = "posts"
	EntityName = "post"

	FieldID        = "id"
	FieldTitle     = "title"
	FieldContent   = "content"
	FieldPublished = "published"
	FieldAuthorID  = "author_id"
)

type Post struct {
	ID        string `db:"id"`
	Title     string `db:"title"`
	Content   string `db:"content"`
	Published bool   `db:"published"`
	AuthorID  string `db:"author_id"`
	model.Metadata
}
