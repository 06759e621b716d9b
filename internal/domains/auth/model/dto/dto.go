package dto

import (
	"time"

	"github.com/google/uuid"

	"stay/infras/jwt"
	bookingDto "stay/internal/domains/booking/model/dto"
	userModel "stay/internal/domains/user/model"
	userDto "stay/internal/domains/user/model/dto"
	"stay/shared/constant"
	gModel "stay/shared/model"
	"stay/shared/timezone"
)

type RegisterRequest struct {
	Email    string  `json:"email"          validate:"required,email"`
	Username string  `json:"username"       validate:"required,min=3,max=50"`
	Password string  `json:"password"       validate:"required,min=8"`
	Name     *string `json:"name,omitempty"`
}

func (r *RegisterRequest) ToUserModel(username string, hashedPassword string) userModel.User {
	return userModel.User{
		ID:       uuid.NewString(),
		Email:    r.Email,
		Username: r.Username,
		Password: hashedPassword,
		Role:     constant.RoleStandard,
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

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateLastLoginRequest struct {
	LastLogin time.Time `db:"last_login" json:"last_login" validate:"required"`
}

type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

func (l *LoginResponse) FromTokenPair(tokenPair *jwt.TokenPair) {
	l.AccessToken = tokenPair.AccessToken
	l.RefreshToken = tokenPair.RefreshToken
	l.ExpiresIn = tokenPair.ExpiresIn
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

func (r *RefreshTokenResponse) FromTokenPair(tokenPair *jwt.TokenPair) {
	r.AccessToken = tokenPair.AccessToken
	r.RefreshToken = tokenPair.RefreshToken
	r.ExpiresIn = tokenPair.ExpiresIn
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password"     validate:"required,min=8"`
}

type UpdatePasswordRequest struct {
	Password string `db:"password" json:"password" validate:"required,min=8"`
}

// ProfileResponse bundles the authenticated user with their bookings.
type ProfileResponse struct {
	User     userDto.UserResponse         `json:"user"`
	Bookings []bookingDto.BookingResponse `json:"bookings"`
}
