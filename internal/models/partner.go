package models

import "time"

// Partner представляет модель партнёра.
type Partner struct {
	ID                   int64     `json:"id"`
	Name                 string    `json:"name"`
	Description          string    `json:"description"`
	Logo                 *string   `json:"logo,omitempty"`
	MarketplaceCover     *string   `json:"marketplaceCover,omitempty"`
	CompanyCover         *string   `json:"companyCover,omitempty"`
	About                *string   `json:"about,omitempty"`
	ImportantInformation *string   `json:"importantInformation,omitempty"`
	Version              int32     `json:"version"`
	CreatedAt            time.Time `json:"createdAt"`
	UpdatedAt            time.Time `json:"updatedAt"`
}

// PartnerRequest представляет структуру запроса для создания партнёра.
type PartnerRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description" validate:"required"`
}

// PartnerUpdate содержит текстовые поля обновления партнёра.
// nil означает, что поле не передавалось.
type PartnerUpdate struct {
	About                *string
	ImportantInformation *string
}

// PartnerWithOffers - ответ на запрос партнёра вместе с его предложениями.
type PartnerWithOffers struct {
	Partner       Partner        `json:"partner"`
	ServiceOffers []ServiceOffer `json:"serviceOffers"`
}
