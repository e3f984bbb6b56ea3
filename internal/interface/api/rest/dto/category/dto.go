package category

import (
	listingdto "classifieds-api/internal/interface/api/rest/dto/listing"
)

type (
	// ListingSummary is the populated form of a category back-reference.
	ListingSummary struct {
		Titulo    string           `json:"titulo"`
		Descricao string           `json:"descricao"`
		Preco     listingdto.Price `json:"preco"`
	}
	Category struct {
		ID        string           `json:"_id"`
		Nome      string           `json:"nome"`
		Descricao string           `json:"descricao"`
		Anuncios  []ListingSummary `json:"anuncios"`
	}
	Categories []Category

	Request struct {
		Nome      string `json:"nome" validate:"required,min=2,max=50"`
		Descricao string `json:"descricao" validate:"required,min=2,max=100"`
	}
	PatchRequest struct {
		Nome      *string `json:"nome" validate:"omitempty,min=2,max=50"`
		Descricao *string `json:"descricao" validate:"omitempty,min=2,max=100"`
	}
	SearchQuery struct {
		ID   string `form:"id"`
		Nome string `form:"nome"`
	}
)
