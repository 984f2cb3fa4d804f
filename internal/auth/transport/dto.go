package transport

type AuthenticationRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AuthenticationResponse struct {
	Token         string `json:"token,omitempty"`
	Authenticated bool   `json:"authenticated"`
}

// TokenRequest carries a raw token for introspect and logout.
type TokenRequest struct {
	Token string `json:"token"`
}

type IntrospectResponse struct {
	Valid bool `json:"valid"`
}

type RegisterRequest struct {
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Email     string   `json:"email"    validate:"required,email"`
	Password  string   `json:"password" validate:"required,min=5"`
	Phone     string   `json:"phone"`
	Roles     []string `json:"roles"`
}

type PermissionRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

type PermissionUpdateRequest struct {
	Description *string `json:"description"`
}

type PermissionResponse struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type RoleRequest struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description"`
	Permissions []string `json:"permissions"`
}

// RoleUpdateRequest leaves the permission set untouched when Permissions is
// absent; an empty list clears it.
type RoleUpdateRequest struct {
	Description *string  `json:"description"`
	Permissions []string `json:"permissions"`
}

type RoleResponse struct {
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Permissions []PermissionResponse `json:"permissions"`
}
