package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"shopcart/internal/model"
	"shopcart/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// CartHandler handles cart-related HTTP requests.
type CartHandler struct {
	service     service.CartService
	development bool
	logger      zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(service service.CartService, development bool, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		service:     service,
		development: development,
		logger:      logger.With().Str("handler", "cart").Logger(),
	}
}

type createCartRequest struct {
	UserID string `json:"userId"`
}

type addItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type applyCouponRequest struct {
	Code string `json:"code"`
}

type operationResponse struct {
	ID            string         `json:"id"`
	CartID        string         `json:"cartId"`
	OperationType string         `json:"operationType"`
	Details       map[string]any `json:"details"`
	CreatedAt     string         `json:"createdAt"`
}

// Create handles POST /api/carts requests. The body is optional.
func (h *CartHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, model.NewInvalidArgument("invalid request body", "createCart", "cart", ""), h.development, h.logger)
		return
	}

	cart, err := h.service.Create(r.Context(), req.UserID)
	if err != nil {
		writeError(w, err, h.development, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, cart.Response())
}

// Get handles GET /api/carts/{id} requests.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	cart, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err, h.development, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, cart.Response())
}

// AddItem handles POST /api/carts/{id}/items requests.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, model.NewInvalidArgument("invalid request body", "addProduct", "cart", ""), h.development, h.logger)
		return
	}

	cart, err := h.service.AddProduct(r.Context(), chi.URLParam(r, "id"), req.ProductID, req.Quantity)
	if err != nil {
		writeError(w, err, h.development, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, cart.Response())
}

// RemoveItem handles DELETE /api/carts/{id}/items/{productId} requests.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	cart, err := h.service.RemoveProduct(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "productId"))
	if err != nil {
		writeError(w, err, h.development, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, cart.Response())
}

// UpdateItem handles PUT /api/carts/{id}/items/{productId} requests.
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var req updateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, model.NewInvalidArgument("invalid request body", "updateQuantity", "cart", ""), h.development, h.logger)
		return
	}

	cart, err := h.service.UpdateQuantity(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "productId"), req.Quantity)
	if err != nil {
		writeError(w, err, h.development, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, cart.Response())
}

// ApplyCoupon handles POST /api/carts/{id}/coupon requests.
func (h *CartHandler) ApplyCoupon(w http.ResponseWriter, r *http.Request) {
	var req applyCouponRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, model.NewInvalidArgument("invalid request body", "applyCoupon", "cart", ""), h.development, h.logger)
		return
	}

	cart, err := h.service.ApplyCoupon(r.Context(), chi.URLParam(r, "id"), req.Code)
	if err != nil {
		writeError(w, err, h.development, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, cart.Response())
}

// Operations handles GET /api/carts/{id}/operations requests.
func (h *CartHandler) Operations(w http.ResponseWriter, r *http.Request) {
	operations, err := h.service.Operations(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err, h.development, h.logger)
		return
	}

	resp := make([]operationResponse, len(operations))
	for i, op := range operations {
		resp[i] = operationResponse{
			ID:            op.ID,
			CartID:        op.CartID,
			OperationType: op.OperationType,
			Details:       op.Details,
			CreatedAt:     op.CreatedAt.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		}
	}

	writeJSON(w, http.StatusOK, resp)
}
