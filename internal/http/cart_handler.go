package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Lorendor/webshop-api/internal/domain"
	"github.com/Lorendor/webshop-api/internal/service"
)

type CartHandler struct {
	cart *service.CartService
}

func NewCartHandler(cart *service.CartService) *CartHandler {
	return &CartHandler{cart: cart}
}

type AddItemRequestDTO struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

type CartItemResponse struct {
	Product        ProductResponse `json:"product"`
	Quantity       int             `json:"quantity"`
	UnitPrice      float64         `json:"unit_price"`
	Total          float64         `json:"total"`
	FormattedTotal string          `json:"formatted_total"`
}

type CartViewResponse struct {
	Items          []CartItemResponse `json:"items"`
	Total          float64            `json:"total"`
	FormattedTotal string             `json:"formatted_total"`
	ItemCount      int                `json:"item_count"`
}

// CartStateResponse echoes the raw cart lines after a mutation.
type CartStateResponse struct {
	Message string            `json:"message"`
	Cart    []domain.CartItem `json:"cart"`
}

// GET /api/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	view, err := h.cart.GetCartView(r.Context(), identityFromRequest(r))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	items := make([]CartItemResponse, 0, len(view.Items))
	for _, item := range view.Items {
		items = append(items, CartItemResponse{
			Product:        toProductResponse(item.Product),
			Quantity:       item.Quantity,
			UnitPrice:      item.UnitPrice.InexactFloat64(),
			Total:          item.Total.InexactFloat64(),
			FormattedTotal: domain.FormatPrice(item.Total),
		})
	}

	respondJSON(w, http.StatusOK, CartViewResponse{
		Items:          items,
		Total:          view.Total.InexactFloat64(),
		FormattedTotal: domain.FormatPrice(view.Total),
		ItemCount:      len(items),
	})
}

// POST /api/cart
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if req.ProductID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be positive")
		return
	}
	if req.Quantity < 1 || req.Quantity > domain.MaxItemQuantity {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 10")
		return
	}

	cart, err := h.cart.AddItem(r.Context(), identityFromRequest(r), req.ProductID, req.Quantity)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, CartStateResponse{
		Message: "Item added to cart",
		Cart:    cart.Items,
	})
}

// PUT /api/cart/{product_id}
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "product_id"), 10, 64)
	if err != nil || productID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a positive integer")
		return
	}

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Quantity < 0 || req.Quantity > domain.MaxItemQuantity {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 0 and 10")
		return
	}

	cart, err := h.cart.UpdateQuantity(r.Context(), identityFromRequest(r), productID, req.Quantity)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, CartStateResponse{
		Message: "Cart updated",
		Cart:    cart.Items,
	})
}

// DELETE /api/cart/{product_id}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "product_id"), 10, 64)
	if err != nil || productID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a positive integer")
		return
	}

	cart, err := h.cart.RemoveItem(r.Context(), identityFromRequest(r), productID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, CartStateResponse{
		Message: "Item removed from cart",
		Cart:    cart.Items,
	})
}

// DELETE /api/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.cart.ClearCart(r.Context(), identityFromRequest(r)); err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Cart cleared"})
}
