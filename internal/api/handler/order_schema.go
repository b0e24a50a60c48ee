package handler

// --- Request types ---

type orderItemRequest struct {
	ProductID string  `json:"productId" validate:"required"`
	Quantity  int     `json:"quantity"  validate:"required,gt=0"`
	UnitPrice float64 `json:"unitPrice" validate:"gte=0"`
	Subtotal  float64 `json:"subtotal"  validate:"gte=0"`
}

type createOrderRequest struct {
	Items         []orderItemRequest `json:"items"         validate:"required,min=1,dive"`
	SubTotal      float64            `json:"subTotal"      validate:"gte=0"`
	IVA           float64            `json:"iva"           validate:"gte=0"`
	Total         float64            `json:"total"         validate:"required,gt=0"`
	TotalProducts int                `json:"totalProducts" validate:"required,gt=0"`
	PaymentMethod string             `json:"paymentMethod" validate:"required"`
}

type updateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type deletedResponse struct {
	Message string `json:"message"`
}
