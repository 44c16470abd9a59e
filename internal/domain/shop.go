package domain

import "time"

type Shop struct {
	ID           int64     `json:"id"`
	OwnerID      int64     `json:"owner_id"`
	Name         string    `json:"name" validate:"required"`
	Description  string    `json:"description,omitempty"`
	Phone        string    `json:"phone" validate:"required"`
	Address      string    `json:"address" validate:"required"`
	City         string    `json:"city" validate:"required"`
	State        string    `json:"state,omitempty"`
	ZipCode      string    `json:"zip_code,omitempty"`
	Rating       float64   `json:"rating"`
	TotalReviews int       `json:"total_reviews"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Vehicles []Vehicle `json:"vehicles,omitempty" gorm:"foreignKey:ShopID"`
}
