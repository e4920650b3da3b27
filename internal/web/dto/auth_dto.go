package dto

// SignUpForm содержит поля формы регистрации.
type SignUpForm struct {
	Name            string `form:"name" validate:"required,min=2,max=50"`
	Email           string `form:"email" validate:"required,email"`
	Password        string `form:"password" validate:"required,min=8"`
	ConfirmPassword string `form:"confirm_password" validate:"required"`
}

// LoginForm содержит поля формы входа.
type LoginForm struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
}
