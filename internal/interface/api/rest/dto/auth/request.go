package auth

type (
	LoginRequest struct {
		Email string `json:"email" validate:"required,email"`
		Senha string `json:"senha" validate:"required"`
	}
	LoginResponse struct {
		Token string `json:"token"`
	}
)
