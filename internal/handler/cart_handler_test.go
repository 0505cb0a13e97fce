package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"shopcart/internal/model"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCartService is a mock implementation of service.CartService.
type MockCartService struct {
	mock.Mock
}

func (m *MockCartService) Create(ctx context.Context, userID string) (*model.Cart, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Cart), args.Error(1)
}

func (m *MockCartService) Get(ctx context.Context, cartID string) (*model.Cart, error) {
	args := m.Called(ctx, cartID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Cart), args.Error(1)
}

func (m *MockCartService) AddProduct(ctx context.Context, cartID, productID string, quantity int) (*model.Cart, error) {
	args := m.Called(ctx, cartID, productID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Cart), args.Error(1)
}

func (m *MockCartService) RemoveProduct(ctx context.Context, cartID, productID string) (*model.Cart, error) {
	args := m.Called(ctx, cartID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Cart), args.Error(1)
}

func (m *MockCartService) UpdateQuantity(ctx context.Context, cartID, productID string, quantity int) (*model.Cart, error) {
	args := m.Called(ctx, cartID, productID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Cart), args.Error(1)
}

func (m *MockCartService) ApplyCoupon(ctx context.Context, cartID, code string) (*model.Cart, error) {
	args := m.Called(ctx, cartID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Cart), args.Error(1)
}

func (m *MockCartService) Operations(ctx context.Context, cartID string) ([]model.Operation, error) {
	args := m.Called(ctx, cartID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Operation), args.Error(1)
}

// newTestRouter mounts the handler on the same routes as the production router,
// without the auth middleware.
func newTestRouter(h *CartHandler) http.Handler {
	r := chi.NewRouter()
	r.Route("/api/carts", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.Post("/{id}/items", h.AddItem)
		r.Put("/{id}/items/{productId}", h.UpdateItem)
		r.Delete("/{id}/items/{productId}", h.RemoveItem)
		r.Post("/{id}/coupon", h.ApplyCoupon)
		r.Get("/{id}/operations", h.Operations)
	})
	return r
}

func sampleCart() *model.Cart {
	return &model.Cart{
		ID:     "cart-1",
		Status: "active",
		Items: []model.CartItem{
			{ID: "item-1", ProductID: "P001", ProductName: "Chicken Waffle", Quantity: 2, UnitPriceCents: 1099, TotalPriceCents: 2198},
		},
		SubtotalCents: 2198,
		ShippingCents: 1500,
		TotalCents:    3698,
	}
}

func decodeErrorEnvelope(t *testing.T, body *bytes.Buffer) errorEnvelope {
	t.Helper()
	var envelope errorEnvelope
	require.NoError(t, json.NewDecoder(body).Decode(&envelope))
	return envelope
}

func TestCartHandler_Create(t *testing.T) {
	mockService := new(MockCartService)
	mockService.On("Create", mock.Anything, "user-1").Return(sampleCart(), nil)

	h := NewCartHandler(mockService, false, zerolog.Nop())
	router := newTestRouter(h)

	req := httptest.NewRequest(http.MethodPost, "/api/carts", strings.NewReader(`{"userId": "user-1"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp model.CartResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "cart-1", resp.ID)
	assert.InDelta(t, 21.98, resp.Subtotal, 0.001)
	assert.InDelta(t, 36.98, resp.Total, 0.001)

	mockService.AssertExpectations(t)
}

func TestCartHandler_Create_EmptyBody(t *testing.T) {
	mockService := new(MockCartService)
	mockService.On("Create", mock.Anything, "").Return(sampleCart(), nil)

	h := NewCartHandler(mockService, false, zerolog.Nop())
	router := newTestRouter(h)

	req := httptest.NewRequest(http.MethodPost, "/api/carts", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	mockService.AssertExpectations(t)
}

func TestCartHandler_Create_MalformedBody(t *testing.T) {
	mockService := new(MockCartService)

	h := NewCartHandler(mockService, false, zerolog.Nop())
	router := newTestRouter(h)

	req := httptest.NewRequest(http.MethodPost, "/api/carts", strings.NewReader(`{not json`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	envelope := decodeErrorEnvelope(t, rec.Body)
	assert.False(t, envelope.Success)
	assert.Equal(t, "application_error", envelope.Error.Type)
	assert.Equal(t, model.ErrCodeInvalidArgument, envelope.Error.Code)

	mockService.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCartHandler_Get(t *testing.T) {
	mockService := new(MockCartService)
	mockService.On("Get", mock.Anything, "cart-1").Return(sampleCart(), nil)

	h := NewCartHandler(mockService, false, zerolog.Nop())
	router := newTestRouter(h)

	req := httptest.NewRequest(http.MethodGet, "/api/carts/cart-1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp model.CartResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Items, 1)
	assert.InDelta(t, 10.99, resp.Items[0].UnitPrice, 0.001)

	mockService.AssertExpectations(t)
}

func TestCartHandler_Get_NotFound(t *testing.T) {
	mockService := new(MockCartService)
	mockService.On("Get", mock.Anything, "missing").
		Return(nil, model.NewNotFound("cart not found", "getCart", "cart"))

	h := NewCartHandler(mockService, false, zerolog.Nop())
	router := newTestRouter(h)

	req := httptest.NewRequest(http.MethodGet, "/api/carts/missing", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)

	envelope := decodeErrorEnvelope(t, rec.Body)
	assert.False(t, envelope.Success)
	assert.Equal(t, "application_error", envelope.Error.Type)
	assert.Equal(t, "cart not found", envelope.Error.Message)
	assert.Equal(t, model.ErrCodeNotFound, envelope.Error.Code)
	assert.NotEmpty(t, envelope.Error.Timestamp)
}

func TestCartHandler_AddItem(t *testing.T) {
	mockService := new(MockCartService)
	mockService.On("AddProduct", mock.Anything, "cart-1", "P001", 2).Return(sampleCart(), nil)

	h := NewCartHandler(mockService, false, zerolog.Nop())
	router := newTestRouter(h)

	req := httptest.NewRequest(http.MethodPost, "/api/carts/cart-1/items",
		strings.NewReader(`{"productId": "P001", "quantity": 2}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	mockService.AssertExpectations(t)
}

func TestCartHandler_AddItem_RequiredField(t *testing.T) {
	mockService := new(MockCartService)
	mockService.On("AddProduct", mock.Anything, "cart-1", "", 2).
		Return(nil, model.NewRequired("productId is required", "addProduct", "cart", "productId"))

	h := NewCartHandler(mockService, false, zerolog.Nop())
	router := newTestRouter(h)

	req := httptest.NewRequest(http.MethodPost, "/api/carts/cart-1/items",
		strings.NewReader(`{"quantity": 2}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	envelope := decodeErrorEnvelope(t, rec.Body)
	assert.Equal(t, model.ErrCodeRequired, envelope.Error.Code)
	assert.Equal(t, "productId is required", envelope.Error.Message)
}

func TestCartHandler_UpdateItem(t *testing.T) {
	mockService := new(MockCartService)
	mockService.On("UpdateQuantity", mock.Anything, "cart-1", "P001", 5).Return(sampleCart(), nil)

	h := NewCartHandler(mockService, false, zerolog.Nop())
	router := newTestRouter(h)

	req := httptest.NewRequest(http.MethodPut, "/api/carts/cart-1/items/P001",
		strings.NewReader(`{"quantity": 5}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	mockService.AssertExpectations(t)
}

func TestCartHandler_RemoveItem(t *testing.T) {
	mockService := new(MockCartService)
	mockService.On("RemoveProduct", mock.Anything, "cart-1", "P001").Return(sampleCart(), nil)

	h := NewCartHandler(mockService, false, zerolog.Nop())
	router := newTestRouter(h)

	req := httptest.NewRequest(http.MethodDelete, "/api/carts/cart-1/items/P001", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	mockService.AssertExpectations(t)
}

func TestCartHandler_ApplyCoupon(t *testing.T) {
	discounted := sampleCart()
	discounted.DiscountCents = 1000
	discounted.TotalCents = 2698

	mockService := new(MockCartService)
	mockService.On("ApplyCoupon", mock.Anything, "cart-1", "SAVE10").Return(discounted, nil)

	h := NewCartHandler(mockService, false, zerolog.Nop())
	router := newTestRouter(h)

	req := httptest.NewRequest(http.MethodPost, "/api/carts/cart-1/coupon",
		strings.NewReader(`{"code": "SAVE10"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp model.CartResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.InDelta(t, 10.00, resp.Discount, 0.001)
	assert.InDelta(t, 26.98, resp.Total, 0.001)

	mockService.AssertExpectations(t)
}

func TestCartHandler_ApplyCoupon_BelowMinimum(t *testing.T) {
	mockService := new(MockCartService)
	mockService.On("ApplyCoupon", mock.Anything, "cart-1", "SAVE10").
		Return(nil, model.NewInvalidArgument("minimum order amount is $50", "applyCoupon", "cart", "minAmount"))

	h := NewCartHandler(mockService, false, zerolog.Nop())
	router := newTestRouter(h)

	req := httptest.NewRequest(http.MethodPost, "/api/carts/cart-1/coupon",
		strings.NewReader(`{"code": "SAVE10"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	envelope := decodeErrorEnvelope(t, rec.Body)
	assert.Equal(t, model.ErrCodeInvalidArgument, envelope.Error.Code)
	assert.Contains(t, envelope.Error.Message, "$50")
}

func TestCartHandler_Operations(t *testing.T) {
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	mockService := new(MockCartService)
	mockService.On("Operations", mock.Anything, "cart-1").Return([]model.Operation{
		{ID: "op-2", CartID: "cart-1", OperationType: model.OpRemoveItem, Details: map[string]any{"productId": "P001"}, CreatedAt: created.Add(time.Minute)},
		{ID: "op-1", CartID: "cart-1", OperationType: model.OpAddItem, Details: map[string]any{"productId": "P001", "quantity": float64(2)}, CreatedAt: created},
	}, nil)

	h := NewCartHandler(mockService, false, zerolog.Nop())
	router := newTestRouter(h)

	req := httptest.NewRequest(http.MethodGet, "/api/carts/cart-1/operations", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp []operationResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp, 2)
	assert.Equal(t, "remove_item", resp[0].OperationType)
	assert.Equal(t, "add_item", resp[1].OperationType)
	assert.Equal(t, "2025-06-01T12:00:00.000Z", resp[1].CreatedAt)
}

func TestCartHandler_InternalError_Production(t *testing.T) {
	mockService := new(MockCartService)
	mockService.On("Get", mock.Anything, "cart-1").
		Return(nil, model.NewInternal("connection refused to db host 10.0.0.5"))

	h := NewCartHandler(mockService, false, zerolog.Nop())
	router := newTestRouter(h)

	req := httptest.NewRequest(http.MethodGet, "/api/carts/cart-1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	envelope := decodeErrorEnvelope(t, rec.Body)
	assert.Equal(t, "server_error", envelope.Error.Type)
	assert.Equal(t, "internal server error", envelope.Error.Message)
	assert.Equal(t, model.ErrCodeInternalError, envelope.Error.Code)
	assert.Nil(t, envelope.Error.Context)
}

func TestCartHandler_InternalError_Development(t *testing.T) {
	mockService := new(MockCartService)
	mockService.On("Get", mock.Anything, "cart-1").
		Return(nil, model.NewInternal("connection refused to db host 10.0.0.5"))

	h := NewCartHandler(mockService, true, zerolog.Nop())
	router := newTestRouter(h)

	req := httptest.NewRequest(http.MethodGet, "/api/carts/cart-1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	envelope := decodeErrorEnvelope(t, rec.Body)
	assert.Equal(t, "connection refused to db host 10.0.0.5", envelope.Error.Message)
}

func TestCartHandler_ErrorContext_DevelopmentOnly(t *testing.T) {
	appErr := model.NewRequired("cart ID is required", "getCart", "cart", "cartId")

	for _, tc := range []struct {
		name        string
		development bool
		wantContext bool
	}{
		{"production hides context", false, false},
		{"development exposes context", true, true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			mockService := new(MockCartService)
			mockService.On("Get", mock.Anything, "x").Return(nil, appErr)

			h := NewCartHandler(mockService, tc.development, zerolog.Nop())
			router := newTestRouter(h)

			req := httptest.NewRequest(http.MethodGet, "/api/carts/x", nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)

			envelope := decodeErrorEnvelope(t, rec.Body)
			if tc.wantContext {
				require.NotNil(t, envelope.Error.Context)
				assert.Equal(t, "getCart", envelope.Error.Context.Operation)
				assert.Equal(t, "cartId", envelope.Error.Context.Field)
			} else {
				assert.Nil(t, envelope.Error.Context)
			}
		})
	}
}

func TestCartHandler_UnknownError_MappedToInternal(t *testing.T) {
	mockService := new(MockCartService)
	mockService.On("Get", mock.Anything, "cart-1").Return(nil, assert.AnError)

	h := NewCartHandler(mockService, false, zerolog.Nop())
	router := newTestRouter(h)

	req := httptest.NewRequest(http.MethodGet, "/api/carts/cart-1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	envelope := decodeErrorEnvelope(t, rec.Body)
	assert.Equal(t, "server_error", envelope.Error.Type)
	assert.Equal(t, model.ErrCodeInternalError, envelope.Error.Code)
}
