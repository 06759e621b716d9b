package model

import "stay/shared/model"

const (
	TableName  = "users"
	EntityName = "user"

	FieldID        = "id"
	FieldEmail     = "email"
	FieldUsername  = "username"
	FieldPassword  = "password"
	FieldName      = "name"
	FieldRole      = "role"
	FieldLastLogin = "last_login"
	FieldActive    = "active"
)

type User struct {
	ID        string  `db:"id"`
	Email     string  `db:"email"`
	Username  string  `db:"username"`
	Password  string  `db:"password"`
	Name      *string `db:"name"`
	Role      string  `db:"role"`
	LastLogin *string `db:"last_login"`
	Active    bool    `db:"active"`
	model.Metadata
}
