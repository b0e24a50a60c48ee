package handler

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/gerasmt/productsbackend/internal/core/ports"
)

// maxImageSize caps uploaded product images at 5 MB.
const maxImageSize = 5 * 1024 * 1024

var allowedImageTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/jpg":  {},
	"image/png":  {},
	"image/gif":  {},
	"image/webp": {},
}

// ProductHandler handles catalog endpoints.
type ProductHandler struct {
	service ports.ProductService
}

func NewProductHandler(service ports.ProductService) *ProductHandler {
	return &ProductHandler{service: service}
}

// List returns the caller's products, or every product for admins.
func (h *ProductHandler) List(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	products, err := h.service.List(c.Request().Context(), caller.ID, caller.Role)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, products)
}

// ListAll returns the whole catalog for the storefront.
func (h *ProductHandler) ListAll(c echo.Context) error {
	products, err := h.service.ListAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, products)
}

// Get returns a single product by id.
func (h *ProductHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	product, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, product)
}

// Create stores a new product. The request is multipart: form fields plus an
// "image" file that is pushed to the asset host.
func (h *ProductHandler) Create(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	req, image, err := bindProductForm(c)
	if err != nil {
		return err
	}

	product, err := h.service.Create(c.Request().Context(), caller.ID, ports.ProductInput{
		Name:     req.Name,
		Price:    req.Price,
		Quantity: req.Quantity,
	}, image)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, product)
}

// Update rewrites a product without touching its image.
func (h *ProductHandler) Update(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req productRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	product, err := h.service.Update(c.Request().Context(), caller.ID, id, ports.ProductInput{
		Name:     req.Name,
		Price:    req.Price,
		Quantity: req.Quantity,
	}, req.Image)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, product)
}

// UpdateWithImage replaces both the product fields and the hosted image.
func (h *ProductHandler) UpdateWithImage(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	req, image, err := bindProductForm(c)
	if err != nil {
		return err
	}

	product, err := h.service.UpdateWithImage(c.Request().Context(), caller.ID, id, ports.ProductInput{
		Name:     req.Name,
		Price:    req.Price,
		Quantity: req.Quantity,
	}, image)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, product)
}

// Delete removes a product and its hosted image (fail-closed).
func (h *ProductHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	product, err := h.service.Delete(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, product)
}

// pathID validates the :id path parameter as a Mongo object id, rejecting
// malformed ids before they reach the stores.
func pathID(c echo.Context) (string, error) {
	id := c.Param("id")
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}

// bindProductForm reads the multipart product form: validated fields plus the
// size- and type-checked image file.
func bindProductForm(c echo.Context) (productRequest, ports.ImageUpload, error) {
	var req productRequest
	if err := c.Bind(&req); err != nil {
		return req, ports.ImageUpload{}, echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return req, ports.ImageUpload{}, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return req, ports.ImageUpload{}, echo.NewHTTPError(http.StatusBadRequest, "image not found")
	}
	if fileHeader.Size > maxImageSize {
		return req, ports.ImageUpload{}, echo.NewHTTPError(http.StatusBadRequest, "file size exceeded")
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if _, ok := allowedImageTypes[contentType]; !ok {
		return req, ports.ImageUpload{}, echo.NewHTTPError(http.StatusBadRequest, "file type not allowed")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return req, ports.ImageUpload{}, echo.NewHTTPError(http.StatusBadRequest, "image not found")
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxImageSize+1))
	if err != nil {
		return req, ports.ImageUpload{}, echo.NewHTTPError(http.StatusBadRequest, "failed to read image")
	}
	if len(data) > maxImageSize {
		return req, ports.ImageUpload{}, echo.NewHTTPError(http.StatusBadRequest, "file size exceeded")
	}

	return req, ports.ImageUpload{ContentType: contentType, Data: data}, nil
}
