package dto

type CreateAccountDTO struct {
	FirstName    string  `json:"firstName" validate:"required,max=100"`
	LastName     string  `json:"lastName" validate:"required,max=100"`
	Email        string  `json:"email" validate:"required,email"`
	MatricNumber *string `json:"matricNumber" validate:"omitempty,max=30"`
	Role         string  `json:"role" validate:"required,oneof=student teacher"`
}

type LoginDTO struct {
	Email string `json:"email" validate:"required,email"`
}
