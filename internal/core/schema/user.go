package schema

// UserForm creates a user account inside the admin's tenant.
type UserForm struct {
	Name     string `json:"name"     validate:"required,min=2,max=120"`
	Email    string `json:"email"    validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     string `json:"role"     validate:"required,oneof=admin accountant seller client"`
}

func (f *UserForm) normalize() {
	f.Name = name(f.Name)
	f.Email = email(f.Email)
	f.Role = lower(f.Role)
}

// RoleForm assigns a role to a user.
type RoleForm struct {
	Role string `json:"role" validate:"required,oneof=admin accountant seller client"`
}

func (f *RoleForm) normalize() {
	f.Role = lower(f.Role)
}

// LoginForm carries the sign-in credentials.
type LoginForm struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (f *LoginForm) normalize() {
	f.Email = email(f.Email)
}

// UserSearchQuery backs the user picker (GET /api/users?search=).
type UserSearchQuery struct {
	Search string `query:"search" validate:"omitempty,max=100"`
	Role   string `query:"role"   validate:"omitempty,oneof=admin accountant seller client"`
	Limit  int    `query:"limit"  validate:"gte=0,max=50"`
}

func (q *UserSearchQuery) normalize() {
	q.Search = collapse(q.Search)
}
