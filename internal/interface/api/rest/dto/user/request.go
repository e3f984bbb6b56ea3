package user

type (
	Request struct {
		Nome      string `json:"nome" validate:"required,min=2,max=50"`
		Sobrenome string `json:"sobrenome" validate:"required,min=2,max=50"`
		Email     string `json:"email" validate:"required,email"`
		CPF       string `json:"cpf" validate:"required,cpf"`
		Telefone  string `json:"telefone" validate:"required,telefone"`
		Senha     string `json:"senha" validate:"required,min=6,max=72"`
		CEP       string `json:"cep" validate:"required,cep"`
	}

	// PatchRequest keeps Senha only to reject it.
	PatchRequest struct {
		Nome      *string `json:"nome" validate:"omitempty,min=2,max=50"`
		Sobrenome *string `json:"sobrenome" validate:"omitempty,min=2,max=50"`
		Email     *string `json:"email" validate:"omitempty,email"`
		CPF       *string `json:"cpf" validate:"omitempty,cpf"`
		Telefone  *string `json:"telefone" validate:"omitempty,telefone"`
		Papel     *string `json:"papel" validate:"omitempty,oneof=admin usuario"`
		CEP       *string `json:"cep" validate:"omitempty,cep"`
		Senha     *string `json:"senha"`
	}

	PasswordRequest struct {
		SenhaAntiga string `json:"senhaAntiga" validate:"required"`
		SenhaNova   string `json:"senhaNova" validate:"required,min=6,max=72"`
	}

	SearchQuery struct {
		ID    string `form:"id"`
		Nome  string `form:"nome"`
		Email string `form:"email"`
	}
)
