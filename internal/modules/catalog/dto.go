package catalog

type CreateShopRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Phone       string `json:"phone" binding:"required"`
	Address     string `json:"address" binding:"required"`
	City        string `json:"city" binding:"required"`
	State       string `json:"state"`
	ZipCode     string `json:"zip_code"`
}

type UpdateShopRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Phone       *string `json:"phone"`
	Address     *string `json:"address"`
	City        *string `json:"city"`
	State       *string `json:"state"`
	ZipCode     *string `json:"zip_code"`
	IsActive    *bool   `json:"is_active"`
}

type CreateVehicleRequest struct {
	ShopID            int64  `json:"shop_id" binding:"required"`
	Name              string `json:"name" binding:"required"`
	Model             string `json:"model" binding:"required"`
	Type              string `json:"type" binding:"required"`
	Description       string `json:"description"`
	PricePerHourCents int64  `json:"price_per_hour_cents" binding:"required,gt=0"`
	PricePerDayCents  int64  `json:"price_per_day_cents" binding:"required,gt=0"`
	Condition         string `json:"condition"`
}

type UpdateVehicleRequest struct {
	Name              *string `json:"name"`
	Model             *string `json:"model"`
	Type              *string `json:"type"`
	Description       *string `json:"description"`
	PricePerHourCents *int64  `json:"price_per_hour_cents"`
	PricePerDayCents  *int64  `json:"price_per_day_cents"`
	Condition         *string `json:"condition"`
	IsAvailable       *bool   `json:"is_available"`
}
