package dto

// CreateUserRequest is used by admins. A doctor role also requires the
// doctor record fields.
type CreateUserRequest struct {
	Email          string `json:"email" validate:"required,email"`
	Password       string `json:"password" validate:"required,min=6"`
	FirstName      string `json:"first_name" validate:"required"`
	LastName       string `json:"last_name" validate:"required"`
	Phone          string `json:"phone" validate:"omitempty,max=30"`
	Role           string `json:"role" validate:"required,oneof=admin doctor patient"`
	Specialization string `json:"specialization" validate:"required_if=Role doctor"`
	LicenseNumber  string `json:"license_number" validate:"required_if=Role doctor"`
	Bio            string `json:"bio"`
}

// UpdateUserRequest changes only the fields that are present.
type UpdateUserRequest struct {
	Email     *string `json:"email" validate:"omitempty,email"`
	Password  *string `json:"password" validate:"omitempty,min=6"`
	FirstName *string `json:"first_name" validate:"omitempty,min=1"`
	LastName  *string `json:"last_name" validate:"omitempty,min=1"`
	Phone     *string `json:"phone" validate:"omitempty,max=30"`
	Role      *string `json:"role" validate:"omitempty,oneof=admin doctor patient"`
}

type UserListResponse struct {
	Users []UserResponse `json:"users"`
	Total int            `json:"total"`
}
