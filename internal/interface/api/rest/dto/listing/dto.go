package listing

import (
	"time"

	"github.com/shopspring/decimal"

	"classifieds-api/internal/interface/api/rest/dto/user"
)

// Price is a decimal written as a JSON number.
type Price struct {
	decimal.Decimal
}

func (p Price) MarshalJSON() ([]byte, error) { return []byte(p.Decimal.String()), nil }

type (
	Listing struct {
		ID               string          `json:"_id"`
		Titulo           string          `json:"titulo"`
		Descricao        string          `json:"descricao"`
		Preco            Price           `json:"preco"`
		CategoriaID      string          `json:"categoria_id"`
		UsuarioID        string          `json:"usuario_id"`
		DataPublicacao   time.Time       `json:"data_publicacao"`
		DataExpiracao    time.Time       `json:"data_expiracao"`
		Visibilidade     string          `json:"visibilidade"`
		CompartilhadoCom []string        `json:"compartilhado_com"`
	}
	Listings []Listing

	// Populated replaces share keys with user references.
	Populated struct {
		ID               string          `json:"_id"`
		Titulo           string          `json:"titulo"`
		Descricao        string          `json:"descricao"`
		Preco            Price           `json:"preco"`
		CategoriaID      string          `json:"categoria_id"`
		UsuarioID        string          `json:"usuario_id"`
		DataPublicacao   time.Time       `json:"data_publicacao"`
		DataExpiracao    time.Time       `json:"data_expiracao"`
		Visibilidade     string          `json:"visibilidade"`
		CompartilhadoCom []user.Ref      `json:"compartilhado_com"`
	}

	Request struct {
		Titulo           string           `json:"titulo" validate:"required,min=2,max=50"`
		Descricao        string           `json:"descricao" validate:"required,min=2,max=100"`
		Preco            *decimal.Decimal `json:"preco" validate:"required,min=0,max=1000000000"`
		CategoriaID      string           `json:"categoria_id" validate:"required"`
		UsuarioID        string           `json:"usuario_id" validate:"required"`
		DataExpiracao    *time.Time       `json:"data_expiracao" validate:"required"`
		Visibilidade     string           `json:"visibilidade"`
		CompartilhadoCom []string         `json:"compartilhado_com"`
	}

	PatchRequest struct {
		Titulo        *string          `json:"titulo" validate:"omitempty,min=2,max=50"`
		Descricao     *string          `json:"descricao" validate:"omitempty,min=2,max=100"`
		Preco         *decimal.Decimal `json:"preco" validate:"omitempty,min=0,max=1000000000"`
		DataExpiracao *time.Time       `json:"data_expiracao"`
		CategoriaID   *string          `json:"categoria_id"`
	}

	VisibilityRequest struct {
		Visibilidade     string   `json:"visibilidade" validate:"required"`
		CompartilhadoCom []string `json:"compartilhado_com"`
	}

	ShareRequest struct {
		CompartilhadoCom []string `json:"compartilhado_com"`
	}

	SearchQuery struct {
		ID           string `form:"id"`
		Titulo       string `form:"titulo"`
		UsuarioID    string `form:"usuario_id"`
		CategoriaID  string `form:"categoria_id"`
		Visibilidade string `form:"visibilidade"`
	}
)
