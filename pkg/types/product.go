package types

import "time"

type Product struct {
	Id               uint      `json:"id"`
	Sku              string    `json:"sku,omitempty"`
	Name             string    `json:"name"`
	Description      string    `json:"description,omitempty"`
	ShortDescription string    `json:"shortDescription,omitempty"`
	Category         string    `json:"category,omitempty"`
	Price            float64   `json:"price"`
	Rating           float64   `json:"rating,omitempty"`
	Quantity         int       `json:"quantity"`
	Featured         bool      `json:"featured,omitempty"`
	Trending         bool      `json:"trending,omitempty"`
	TrendScore       float64   `json:"trendScore,omitempty"`
	Image            string    `json:"image,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}

type Pagination struct {
	Page      int `json:"page"`
	PageSize  int `json:"pageSize"`
	PageCount int `json:"pageCount"`
	Total     int `json:"total"`
}
