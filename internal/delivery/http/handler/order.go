package handler

import (
	"errors"
	"net/http"

	"github.com/elis-elis/bestbuy/internal/delivery/http/request"
	"github.com/elis-elis/bestbuy/internal/delivery/http/response"
	"github.com/elis-elis/bestbuy/internal/domain"
	"github.com/elis-elis/bestbuy/internal/pkg/logger"
	"github.com/elis-elis/bestbuy/internal/usecase/order"
)

// OrderHandler handles HTTP requests for orders
type OrderHandler struct {
	service *order.Service
	logger  *logger.Logger
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(service *order.Service, log *logger.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  log,
	}
}

// CreateOrderRequest represents the request body for placing an order
type CreateOrderRequest struct {
	Lines []order.LineRequest `json:"lines" validate:"required,min=1"`
}

// Create handles POST /api/v1/orders
// @Summary Place an order
// @Description Fulfill the given lines in sequence. Lines are applied eagerly: when a line fails, earlier lines stay applied and the response reports the partially applied order alongside the error.
// @Tags Orders
// @Accept json
// @Produce json
// @Param order body CreateOrderRequest true "Order lines"
// @Success 201 {object} map[string]interface{} "Order fulfilled"
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 404 {object} map[string]string "Product not in store"
// @Failure 409 {object} map[string]interface{} "Order rejected or partially applied"
// @Router /orders [post]
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.service.Place(r.Context(), req.Lines)
	if err != nil {
		if result != nil {
			// Partial application: the caller must know which mutations stand.
			response.JSON(w, http.StatusConflict, map[string]interface{}{
				"error": err.Error(),
				"order": result,
			})
			return
		}
		h.handleError(w, err)
		return
	}

	response.Created(w, result)
}

// Preview handles POST /api/v1/orders/preview
// @Summary Quote an order without fulfilling it
// @Description Validate every line and compute the total price with no stock mutation
// @Tags Orders
// @Accept json
// @Produce json
// @Param order body CreateOrderRequest true "Order lines"
// @Success 200 {object} map[string]interface{} "Quoted total"
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 404 {object} map[string]string "Product not in store"
// @Failure 409 {object} map[string]string "Order not fulfillable"
// @Router /orders/preview [post]
func (h *OrderHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	total, err := h.service.Preview(r.Context(), req.Lines)
	if err != nil {
		h.handleError(w, err)
		return
	}

	response.Success(w, map[string]float64{"total": total})
}

func (h *OrderHandler) handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		response.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidArgument):
		response.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrInvalidOperation):
		response.Error(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, domain.ErrInvalidState), errors.Is(err, domain.ErrInsufficientStock):
		response.Error(w, http.StatusConflict, err.Error())
	default:
		h.logger.Error("Internal error in order handler", err)
		response.Error(w, http.StatusInternalServerError, "Internal server error")
	}
}
