// internal/application/query/store/dto/catalog_dto.go
package dto

import (
	categorydom "botparts/internal/domain/category"
	offerdom "botparts/internal/domain/offer"
	productdom "botparts/internal/domain/product"
)

// HomeDTO is the home surface payload: featured products, category tiles
// and active offer banners in one response.
type HomeDTO struct {
	Featured   []productdom.Product  `json:"featured"`
	Categories []categorydom.Category `json:"categories"`
	Offers     []offerdom.Offer      `json:"offers"`
}

// CategoryPageDTO is one category plus its products.
type CategoryPageDTO struct {
	Category categorydom.Category  `json:"category"`
	Products []productdom.Product `json:"products"`
}

// SearchResultDTO mirrors the search page payload: the filtered product
// list plus the query it answered.
type SearchResultDTO struct {
	Products []productdom.Product `json:"products"`
	Query    string               `json:"query"`
	Total    int                  `json:"total"`
}
