package models

// RegisterRequest is the payload for POST /api/auth/register
type RegisterRequest struct {
	Name                 string `json:"name" validate:"required"`
	Email                string `json:"email" validate:"required,email"`
	Password             string `json:"password" validate:"required,min=8"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,eqfield=Password"`
	MemberCode           string `json:"member_code" validate:"required"`
}

// LoginRequest is the payload for POST /api/auth/login
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// CreateUserRequest is the payload for POST /api/users.
// It shares the register contract but does not log the created user in.
type CreateUserRequest struct {
	Name                 string `json:"name" validate:"required"`
	Email                string `json:"email" validate:"required,email"`
	Password             string `json:"password" validate:"required,min=8"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,eqfield=Password"`
	MemberCode           string `json:"member_code" validate:"required"`
}

// UpdateUserRequest is the payload for PUT /api/users/{id}.
// Password is optional; when omitted the stored hash is left untouched.
type UpdateUserRequest struct {
	Name                 string `json:"name" validate:"required"`
	Email                string `json:"email" validate:"required,email"`
	Password             string `json:"password" validate:"omitempty,min=8"`
	PasswordConfirmation string `json:"password_confirmation" validate:"eqfield=Password"`
	MemberCode           string `json:"member_code" validate:"required"`
}

// CreatePostRequest is the payload for POST /api/posts
type CreatePostRequest struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content" validate:"required"`
}

// UpdatePostRequest is the payload for PUT /api/posts/{id}.
// Both fields are optional; absent fields keep their stored value.
type UpdatePostRequest struct {
	Title   *string `json:"title" validate:"omitnil,min=1"`
	Content *string `json:"content" validate:"omitnil,min=1"`
}
