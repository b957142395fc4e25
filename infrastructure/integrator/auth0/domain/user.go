package domain

// CreateUserRequest es el cuerpo de POST /api/v2/users
type CreateUserRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	Name       string `json:"name,omitempty"`
	Connection string `json:"connection"`
}

// UpdateUserRequest es el cuerpo de PATCH /api/v2/users/{id}; sólo viajan los campos enviados
type UpdateUserRequest struct {
	Email *string `json:"email,omitempty"`
	Name  *string `json:"name,omitempty"`
}

func (r UpdateUserRequest) Empty() bool {
	return r.Email == nil && r.Name == nil
}

type User struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

type AssignRolesRequest struct {
	Roles []string `json:"roles"`
}
