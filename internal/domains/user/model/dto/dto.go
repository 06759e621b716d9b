package dto

import (
	"stay/internal/domains/user/model"
	"stay/shared"
	"stay/shared/constant"
	gDto "stay/shared/dto"
	gModel "stay/shared/model"
	"stay/shared/timezone"

	"github.com/google/uuid"
)

type CreateUserRequest struct {
	Email    string  `json:"email"          validate:"required,email"`
	Username string  `json:"username"       validate:"required,min=3,max=50"`
	Password string  `json:"password"       validate:"required,min=8"`
	Role     string  `json:"role"           validate:"omitempty,oneof=standard master"`
	Name     *string `json:"name,omitempty"`
}

func (r *CreateUserRequest) ToModel(username string, hashedPassword string) model.User {
	role := r.Role
	if role == constant.Empty {
		role = constant.RoleStandard
	}

	return model.User{
		ID:       uuid.NewString(),
		Email:    r.Email,
		Username: r.Username,
		Password: hashedPassword,
		Role:     role,
		Name:     r.Name,
		Active:   true,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  username,
			ModifiedBy: username,
		},
	}
}

type UserResponse struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	Username  string  `json:"username"`
	Role      string  `json:"role"`
	Name      *string `json:"name,omitempty"`
	LastLogin *string `json:"last_login,omitempty"`
	Active    bool    `json:"active"`
	gDto.Metadata
}

func (r *UserResponse) FromModel(model model.User) {
	r.ID = model.ID
	r.Email = model.Email
	r.Username = model.Username
	r.Role = model.Role
	r.Name = model.Name
	r.LastLogin = model.LastLogin
	r.Active = model.Active
	r.Metadata.FromModel(model.Metadata)
}

type UpdateUserRequest struct {
	Role   *string `json:"role,omitempty"   validate:"omitempty,oneof=standard master"`
	Name   *string `json:"name,omitempty"`
	Active *bool   `json:"active,omitempty"`
}

type GetUsersResponse struct {
	Users     []UserResponse `json:"users"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetUsersResponse) FromModels(models []model.User, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Users = make([]UserResponse, len(models))
	for i, mod := range models {
		r.Users[i].FromModel(mod)
	}
}
