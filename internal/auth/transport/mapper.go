package transport

import "github.com/techadict/shop/internal/models"

func ToPermissionResponse(p *models.Permission) PermissionResponse {
	return PermissionResponse{Name: p.Name, Description: p.Description}
}

func ToRoleResponse(r *models.Role) RoleResponse {
	perms := make([]PermissionResponse, 0, len(r.Permissions))
	for i := range r.Permissions {
		perms = append(perms, ToPermissionResponse(&r.Permissions[i]))
	}
	return RoleResponse{Name: r.Name, Description: r.Description, Permissions: perms}
}
