package handler

// productRequest carries the product fields from both the multipart create
// form and the JSON update body.
type productRequest struct {
	Name     string  `json:"name"     form:"name"     validate:"required"`
	Price    float64 `json:"price"    form:"price"    validate:"required,gt=0"`
	Quantity int     `json:"quantity" form:"quantity" validate:"gte=0"`
	Image    string  `json:"image"    form:"-"`
}
