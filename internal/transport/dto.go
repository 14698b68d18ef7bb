package transport

import "strings"

type RegisterRequest struct {
	Name     string `json:"name"     validate:"required,min=2,max=50"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

func (r *RegisterRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = NormalizeEmail(r.Email)
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Normalize() {
	r.Email = NormalizeEmail(r.Email)
}

type ProfileUpdateRequest struct {
	Name  *string `json:"name"  validate:"omitempty,min=2,max=50"`
	Email *string `json:"email" validate:"omitempty,email"`
}

func (r *ProfileUpdateRequest) Normalize() {
	if r.Name != nil {
		n := strings.TrimSpace(*r.Name)
		r.Name = &n
	}
	if r.Email != nil {
		e := NormalizeEmail(*r.Email)
		r.Email = &e
	}
}

type PasswordUpdateRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword"     validate:"required,min=6"`
}

type CreateBagRequest struct {
	Name        string   `json:"name"        validate:"required,min=2,max=100"`
	Description string   `json:"description" validate:"required,max=1000"`
	Price       *float64 `json:"price"       validate:"required,gte=0"`
	Category    string   `json:"category"    validate:"required,oneof=handbag backpack crossbody tote clutch messenger duffel laptop"`
	Image       string   `json:"image"       validate:"required,url"`
	Stock       *int     `json:"stock"       validate:"required,gte=0"`
}

func (r *CreateBagRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Description = strings.TrimSpace(r.Description)
	r.Category = strings.TrimSpace(r.Category)
	r.Image = strings.TrimSpace(r.Image)
}

type UpdateBagRequest struct {
	Name        *string  `json:"name"        validate:"omitempty,min=2,max=100"`
	Description *string  `json:"description" validate:"omitempty,min=1,max=1000"`
	Price       *float64 `json:"price"       validate:"omitempty,gte=0"`
	Category    *string  `json:"category"    validate:"omitempty,oneof=handbag backpack crossbody tote clutch messenger duffel laptop"`
	Image       *string  `json:"image"       validate:"omitempty,url"`
	Stock       *int     `json:"stock"       validate:"omitempty,gte=0"`
}

func (r *UpdateBagRequest) Normalize() {
	for _, s := range []*string{r.Name, r.Description, r.Category, r.Image} {
		if s != nil {
			*s = strings.TrimSpace(*s)
		}
	}
}

// ListBagsQuery is bound from query parameters; zero values are replaced by
// defaults before validation.
type ListBagsQuery struct {
	Page     int      `query:"page"     validate:"min=1"`
	Limit    int      `query:"limit"    validate:"min=1,max=100"`
	Category string   `query:"category" validate:"omitempty,oneof=handbag backpack crossbody tote clutch messenger duffel laptop"`
	Search   string   `query:"search"`
	MinPrice *float64 `query:"minPrice" validate:"omitempty,gte=0"`
	MaxPrice *float64 `query:"maxPrice" validate:"omitempty,gte=0"`
	Sort     string   `query:"sort"     validate:"oneof=price -price name -name createdAt -createdAt"`
}

type SearchBagsQuery struct {
	Query string `query:"q"     validate:"required,max=200"`
	Page  int    `query:"page"  validate:"min=1"`
	Limit int    `query:"limit" validate:"min=1,max=100"`
}

type UpdateRoleRequest struct {
	Role string `json:"role"`
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
