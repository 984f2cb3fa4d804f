package transport

import (
	"time"

	authtransport "github.com/techadict/shop/internal/auth/transport"
	"github.com/techadict/shop/internal/models"
)

// UserRequest has the same shape as a registration.
type UserRequest = authtransport.RegisterRequest

// UserUpdateRequest merges only the fields that are present. Roles, when
// present, replace the current set.
type UserUpdateRequest struct {
	FirstName *string  `json:"first_name"`
	LastName  *string  `json:"last_name"`
	Password  *string  `json:"password" validate:"omitempty,min=5"`
	Phone     *string  `json:"phone"`
	Roles     []string `json:"roles"`
}

type UserResponse struct {
	ID        string                       `json:"id"`
	FirstName string                       `json:"first_name"`
	LastName  string                       `json:"last_name"`
	Email     string                       `json:"email"`
	Phone     string                       `json:"phone"`
	Roles     []authtransport.RoleResponse `json:"roles"`
	CreatedAt time.Time                    `json:"created_at"`
}

type AddressRequest struct {
	UserID    string `json:"user_id"`
	FullName  string `json:"full_name"`
	Phone     string `json:"phone"`
	Detail    string `json:"detail"`
	Ward      string `json:"ward"`
	District  string `json:"district"`
	City      string `json:"city"`
	IsDefault *bool  `json:"is_default"`
}

func ToUserResponse(u *models.User) UserResponse {
	roles := make([]authtransport.RoleResponse, 0, len(u.Roles))
	for i := range u.Roles {
		roles = append(roles, authtransport.ToRoleResponse(&u.Roles[i]))
	}
	return UserResponse{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Phone:     u.Phone,
		Roles:     roles,
		CreatedAt: u.CreatedAt,
	}
}
