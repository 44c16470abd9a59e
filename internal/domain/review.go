package domain

import "time"

type Review struct {
	ID         int64     `json:"id"`
	ShopID     int64     `json:"shop_id" validate:"required"`
	CustomerID int64     `json:"customer_id"`
	Rating     int       `json:"rating" validate:"required,min=1,max=5"`
	Comment    string    `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
