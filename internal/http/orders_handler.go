package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/mail"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Lorendor/webshop-api/internal/domain"
	"github.com/Lorendor/webshop-api/internal/service"
)

type OrdersHandler struct {
	checkout  *service.CheckoutService
	downloads *service.DownloadService
}

func NewOrdersHandler(checkout *service.CheckoutService, downloads *service.DownloadService) *OrdersHandler {
	return &OrdersHandler{
		checkout:  checkout,
		downloads: downloads,
	}
}

type CheckoutRequestDTO struct {
	CustomerEmail    string  `json:"customer_email"`
	PaymentSessionID *string `json:"payment_session_id"`
}

type OrderItemResponse struct {
	ID                 int64   `json:"id"`
	ProductID          int64   `json:"product_id"`
	ProductName        string  `json:"product_name"`
	Quantity           int     `json:"quantity"`
	UnitPrice          float64 `json:"unit_price"`
	FormattedUnitPrice string  `json:"formatted_unit_price"`
	Total              float64 `json:"total"`
	FormattedTotal     string  `json:"formatted_total"`
}

type OrderResponse struct {
	ID             string              `json:"id"`
	Status         string              `json:"status"`
	Total          float64             `json:"total"`
	FormattedTotal string              `json:"formatted_total"`
	CustomerEmail  string              `json:"customer_email"`
	OrderItems     []OrderItemResponse `json:"order_items"`
	DownloadURL    string              `json:"download_url,omitempty"`
	CreatedAt      string              `json:"created_at"`
}

type CheckoutResponseDTO struct {
	Message string        `json:"message"`
	Order   OrderResponse `json:"order"`
}

func toOrderResponse(o *domain.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		lineTotal := item.LineTotal()
		items = append(items, OrderItemResponse{
			ID:                 item.ID,
			ProductID:          item.ProductID,
			ProductName:        item.ProductName,
			Quantity:           item.Quantity,
			UnitPrice:          item.UnitPrice.InexactFloat64(),
			FormattedUnitPrice: domain.FormatPrice(item.UnitPrice),
			Total:              lineTotal.InexactFloat64(),
			FormattedTotal:     domain.FormatPrice(lineTotal),
		})
	}

	resp := OrderResponse{
		ID:             o.ID.String(),
		Status:         string(o.Status),
		Total:          o.Total.InexactFloat64(),
		FormattedTotal: domain.FormatPrice(o.Total),
		CustomerEmail:  o.CustomerEmail,
		OrderItems:     items,
		CreatedAt:      o.CreatedAt.Format(time.RFC3339),
	}
	if o.IsCompleted() {
		resp.DownloadURL = fmt.Sprintf("/api/orders/%s/download?token=%s", o.ID, o.DownloadToken)
	}
	return resp
}

// POST /api/orders/checkout
func (h *OrdersHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if _, err := mail.ParseAddress(req.CustomerEmail); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_email", "customer_email must be a valid email address")
		return
	}

	order, err := h.checkout.Checkout(r.Context(), identityFromRequest(r), req.CustomerEmail, req.PaymentSessionID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, CheckoutResponseDTO{
		Message: "Order created successfully",
		Order:   toOrderResponse(order),
	})
}

// GET /api/orders
func (h *OrdersHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("user_id").(int64)
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))

	orders, err := h.checkout.ListOrders(r.Context(), userID, page, perPage)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	data := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		data = append(data, toOrderResponse(o))
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"data": data})
}

// GET /api/orders/{order_id}/download
func (h *OrdersHandler) Download(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "order_id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "order_id must be a valid UUID")
		return
	}

	req := service.DownloadRequest{
		OrderID: orderID,
		Token:   r.URL.Query().Get("token"),
		Email:   r.URL.Query().Get("email"),
	}
	if userID, ok := r.Context().Value("user_id").(int64); ok {
		req.UserID = &userID
	}

	archive, err := h.downloads.BuildArchive(r.Context(), req)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	defer func() {
		if err := archive.Close(); err != nil {
			logrus.WithError(err).Warn("failed to remove download archive")
		}
	}()

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", archive.Name))
	http.ServeFile(w, r, archive.Path)
}
