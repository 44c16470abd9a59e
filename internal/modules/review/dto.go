package review

type CreateReviewRequest struct {
	ShopID  int64  `json:"shop_id" binding:"required"`
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}
