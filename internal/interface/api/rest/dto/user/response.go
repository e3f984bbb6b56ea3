package user

import (
	"time"
)

type (
	User struct {
		ID        string    `json:"_id"`
		Nome      string    `json:"nome"`
		Sobrenome string    `json:"sobrenome"`
		Email     string    `json:"email"`
		CPF       string    `json:"cpf"`
		Telefone  string    `json:"telefone"`
		Papel     string    `json:"papel"`
		CEP       string    `json:"cep"`
		Anuncios  []string  `json:"anuncios"`
		CreatedAt time.Time `json:"createdAt"`
		UpdatedAt time.Time `json:"updatedAt"`
	}
	Users []User

	// Ref is the populated form of a user reference.
	Ref struct {
		ID   string `json:"_id"`
		Nome string `json:"nome"`
	}
)
