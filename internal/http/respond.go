package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/Lorendor/webshop-api/internal/repository"
	"github.com/Lorendor/webshop-api/internal/service"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logrus.WithError(err).Error("failed to encode response")
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// handleServiceError maps service and repository failures onto HTTP
// responses. Unknown errors become an opaque 500.
func handleServiceError(w http.ResponseWriter, err error) {
	var unavailable *service.ProductUnavailableError

	switch {
	case errors.As(err, &unavailable):
		respondError(w, http.StatusBadRequest, "product_unavailable", unavailable.Error())
	case errors.Is(err, service.ErrEmptyCart):
		respondError(w, http.StatusBadRequest, "empty_cart", "Cart is empty")
	case errors.Is(err, service.ErrInvalidQuantity):
		respondError(w, http.StatusBadRequest, "invalid_quantity", err.Error())
	case errors.Is(err, repository.ErrProductNotFound):
		respondError(w, http.StatusNotFound, "not_found", "Product not found")
	case errors.Is(err, repository.ErrOrderNotFound):
		respondError(w, http.StatusNotFound, "not_found", "Order not found")
	case errors.Is(err, service.ErrInvalidToken):
		respondError(w, http.StatusForbidden, "invalid_token", "Invalid download token")
	case errors.Is(err, service.ErrOrderNotCompleted):
		respondError(w, http.StatusForbidden, "order_not_completed", "Order is not completed")
	case errors.Is(err, service.ErrNotOrderOwner):
		respondError(w, http.StatusForbidden, "forbidden", "Unauthorized")
	case errors.Is(err, service.ErrEmailRequired):
		respondError(w, http.StatusForbidden, "email_verification_required", "Email verification required")
	case errors.Is(err, service.ErrNoFilesFound):
		respondError(w, http.StatusNotFound, "no_files_found", "No files found for this order")
	default:
		logrus.WithError(err).Error("request failed")
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
