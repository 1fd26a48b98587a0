package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/Lorendor/webshop-api/internal/domain"
	"github.com/Lorendor/webshop-api/internal/service"
)

type ProductHandler struct {
	catalog *service.CatalogService
}

func NewProductHandler(catalog *service.CatalogService) *ProductHandler {
	return &ProductHandler{catalog: catalog}
}

type ProductResponse struct {
	ID             int64    `json:"id"`
	Name           string   `json:"name"`
	Slug           string   `json:"slug"`
	Description    string   `json:"description"`
	Price          float64  `json:"price"`
	FormattedPrice string   `json:"formatted_price"`
	PreviewImage   string   `json:"preview_image"`
	FileType       string   `json:"file_type"`
	FileSize       int64    `json:"file_size"`
	Tags           []string `json:"tags"`
	Category       string   `json:"category"`
	LicenseType    string   `json:"license_type"`
	CreatedAt      string   `json:"created_at"`
}

type ProductListResponse struct {
	Data []ProductResponse `json:"data"`
	Meta PageMeta          `json:"meta"`
}

type PageMeta struct {
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
	Total   int64 `json:"total"`
}

func toProductResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ID:             p.ID,
		Name:           p.Name,
		Slug:           p.Slug,
		Description:    p.Description,
		Price:          p.Price.InexactFloat64(),
		FormattedPrice: domain.FormatPrice(p.Price),
		PreviewImage:   p.PreviewImage,
		FileType:       p.FileType,
		FileSize:       p.FileSize,
		Tags:           p.Tags,
		Category:       p.Category,
		LicenseType:    p.LicenseType,
		CreatedAt:      p.CreatedAt.Format(time.RFC3339),
	}
}

// GET /api/products
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := parseProductFilter(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_filter", err.Error())
		return
	}

	page, err := h.catalog.ListProducts(r.Context(), filter)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	data := make([]ProductResponse, 0, len(page.Products))
	for _, p := range page.Products {
		data = append(data, toProductResponse(p))
	}

	respondJSON(w, http.StatusOK, ProductListResponse{
		Data: data,
		Meta: PageMeta{Page: page.Page, PerPage: page.PerPage, Total: page.Total},
	})
}

// GET /api/products/{product_id}
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "product_id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a positive integer")
		return
	}

	product, err := h.catalog.GetProduct(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toProductResponse(product))
}

func parseProductFilter(r *http.Request) (domain.ProductFilter, error) {
	q := r.URL.Query()
	filter := domain.ProductFilter{
		Search:      q.Get("search"),
		Category:    q.Get("category"),
		FileType:    q.Get("file_type"),
		LicenseType: q.Get("license_type"),
		SortBy:      q.Get("sort_by"),
		SortOrder:   q.Get("sort_order"),
	}

	if v := q.Get("min_price"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return filter, errMalformedQueryParam("min_price")
		}
		filter.MinPrice = &d
	}
	if v := q.Get("max_price"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return filter, errMalformedQueryParam("max_price")
		}
		filter.MaxPrice = &d
	}
	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return filter, errMalformedQueryParam("page")
		}
		filter.Page = n
	}
	if v := q.Get("per_page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return filter, errMalformedQueryParam("per_page")
		}
		filter.PerPage = n
	}

	return filter, nil
}

type errMalformedQueryParam string

func (e errMalformedQueryParam) Error() string {
	return string(e) + " is malformed"
}
