package handler

import (
	"errors"
	"net/http"

	"github.com/elis-elis/bestbuy/internal/delivery/http/request"
	"github.com/elis-elis/bestbuy/internal/delivery/http/response"
	"github.com/elis-elis/bestbuy/internal/domain"
	"github.com/elis-elis/bestbuy/internal/pkg/logger"
	"github.com/elis-elis/bestbuy/internal/pkg/validator"
	"github.com/elis-elis/bestbuy/internal/usecase/catalog"
)

// CatalogHandler handles HTTP requests for the product catalog
type CatalogHandler struct {
	service *catalog.Service
	logger  *logger.Logger
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(service *catalog.Service, log *logger.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		logger:  log,
	}
}

// CreateProductRequest represents the request body for adding a product
type CreateProductRequest struct {
	Kind      string                  `json:"kind" validate:"required,oneof=standard non_stocked limited"`
	Name      string                  `json:"name" validate:"required,min=1,max=255"`
	Price     float64                 `json:"price" validate:"gte=0"`
	Quantity  int                     `json:"quantity" validate:"gte=0"`
	Maximum   int                     `json:"maximum" validate:"gte=0"`
	Promotion *CreatePromotionRequest `json:"promotion,omitempty"`
}

// CreatePromotionRequest describes an optional promotion to attach
type CreatePromotionRequest struct {
	Kind    string  `json:"kind" validate:"required,oneof=percent_discount second_half_price third_one_free"`
	Name    string  `json:"name" validate:"required,min=1,max=255"`
	Percent float64 `json:"percent"`
}

// ProductResponse is the detailed single-product payload
type ProductResponse struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Active   bool    `json:"active"`
	Display  string  `json:"display"`
}

func productResponse(p domain.Product) ProductResponse {
	return ProductResponse{
		ID:       p.ID().String(),
		Name:     p.Name(),
		Price:    p.Price(),
		Quantity: p.GetQuantity(),
		Active:   p.IsActive(),
		Display:  p.Show(),
	}
}

// List handles GET /api/v1/products
// @Summary List active products
// @Description Get the active products in store order with display numbering
// @Tags Catalog
// @Produce json
// @Success 200 {object} map[string]interface{} "Active products"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /products [get]
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	views, err := h.service.ListActive(r.Context())
	if err != nil {
		h.handleError(w, err)
		return
	}

	response.Success(w, views)
}

// TotalQuantity handles GET /api/v1/products/total-quantity
// @Summary Total stock across the store
// @Description Sum of the quantities of every product, active and inactive
// @Tags Catalog
// @Produce json
// @Success 200 {object} map[string]interface{} "Total quantity"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /products/total-quantity [get]
func (h *CatalogHandler) TotalQuantity(w http.ResponseWriter, r *http.Request) {
	total, err := h.service.TotalQuantity(r.Context())
	if err != nil {
		h.handleError(w, err)
		return
	}

	response.Success(w, map[string]int{"total_quantity": total})
}

// GetByID handles GET /api/v1/products/{id}
// @Summary Get a product by ID
// @Description Get one product, whether currently active or not
// @Tags Catalog
// @Produce json
// @Param id path string true "Product ID (UUID)"
// @Success 200 {object} map[string]interface{} "Product details"
// @Failure 400 {object} map[string]string "Invalid product ID"
// @Failure 404 {object} map[string]string "Product not found"
// @Router /products/{id} [get]
func (h *CatalogHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := request.GetUUIDParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	product, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.handleError(w, err)
		return
	}

	response.Success(w, productResponse(product))
}

// Create handles POST /api/v1/products
// @Summary Add a product to the catalog
// @Description Add a standard, non-stocked or limited product, optionally with a promotion
// @Tags Catalog
// @Accept json
// @Produce json
// @Param product body CreateProductRequest true "Product details"
// @Success 201 {object} map[string]interface{} "Product added"
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /products [post]
func (h *CatalogHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validator.Get().Struct(req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	spec := domain.ProductSpec{
		Kind:     domain.ProductKind(req.Kind),
		Name:     req.Name,
		Price:    req.Price,
		Quantity: req.Quantity,
		Maximum:  req.Maximum,
	}
	if req.Promotion != nil {
		spec.Promotion = &domain.PromotionSpec{
			Kind:    domain.PromotionKind(req.Promotion.Kind),
			Name:    req.Promotion.Name,
			Percent: req.Promotion.Percent,
		}
	}

	product, err := h.service.Add(r.Context(), spec)
	if err != nil {
		h.handleError(w, err)
		return
	}

	response.Created(w, productResponse(product))
}

// Delete handles DELETE /api/v1/products/{id}
// @Summary Remove a product from the catalog
// @Tags Catalog
// @Param id path string true "Product ID (UUID)"
// @Success 204 "Product removed"
// @Failure 400 {object} map[string]string "Invalid product ID"
// @Failure 404 {object} map[string]string "Product not found"
// @Router /products/{id} [delete]
func (h *CatalogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := request.GetUUIDParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	if err := h.service.Remove(r.Context(), id); err != nil {
		h.handleError(w, err)
		return
	}

	response.NoContent(w)
}

// handleError maps core errors onto HTTP responses, surfacing the core's own
// message so clients see what the menu loop of the original program printed.
func (h *CatalogHandler) handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		response.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidArgument):
		response.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrInvalidOperation):
		response.Error(w, http.StatusUnprocessableEntity, err.Error())
	default:
		h.logger.Error("Internal error in catalog handler", err)
		response.Error(w, http.StatusInternalServerError, "Internal server error")
	}
}
