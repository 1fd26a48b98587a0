package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Lorendor/webshop-api/internal/domain"
)

// Columns sort_by is allowed to reference; anything else falls back to
// created_at so request input never reaches the ORDER BY clause raw.
var sortableColumns = map[string]string{
	"created_at": "created_at",
	"price":      "price",
	"name":       "name",
}

const productColumns = `id, name, slug, description, price, file_path, preview_image,
	file_type, file_size, tags, category, license_type, is_active, created_at, updated_at`

type PostgresProductRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) *PostgresProductRepository {
	return &PostgresProductRepository{db: db}
}

func (r *PostgresProductRepository) FindActive(ctx context.Context, id int64) (*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE id = $1 AND is_active = TRUE`, productColumns)

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query product by id: %w", err)
	}

	return product, nil
}

func (r *PostgresProductRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE id = $1`, productColumns)

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query product by id: %w", err)
	}

	return product, nil
}

func (r *PostgresProductRepository) List(ctx context.Context, filter domain.ProductFilter) (*domain.ProductPage, error) {
	where, args := buildProductFilter(filter)

	var total int64
	countQuery := "SELECT COUNT(*) FROM products " + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}

	sortBy, ok := sortableColumns[filter.SortBy]
	if !ok {
		sortBy = "created_at"
	}
	sortOrder := "DESC"
	if strings.EqualFold(filter.SortOrder, "asc") {
		sortOrder = "ASC"
	}

	query := fmt.Sprintf("SELECT %s FROM products %s ORDER BY %s %s LIMIT $%d OFFSET $%d",
		productColumns, where, sortBy, sortOrder, len(args)+1, len(args)+2)
	args = append(args, filter.PerPage, (filter.Page-1)*filter.PerPage)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var products []*domain.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return &domain.ProductPage{
		Products: products,
		Page:     filter.Page,
		PerPage:  filter.PerPage,
		Total:    total,
	}, nil
}

func buildProductFilter(filter domain.ProductFilter) (string, []interface{}) {
	conditions := []string{"is_active = TRUE"}
	var args []interface{}

	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Search != "" {
		p := arg("%" + filter.Search + "%")
		conditions = append(conditions,
			fmt.Sprintf("(name ILIKE %s OR description ILIKE %s OR tags::text ILIKE %s)", p, p, p))
	}
	if filter.Category != "" {
		conditions = append(conditions, "category = "+arg(filter.Category))
	}
	if filter.FileType != "" {
		conditions = append(conditions, "file_type = "+arg(filter.FileType))
	}
	if filter.LicenseType != "" {
		conditions = append(conditions, "license_type = "+arg(filter.LicenseType))
	}
	if filter.MinPrice != nil {
		conditions = append(conditions, "price >= "+arg(*filter.MinPrice))
	}
	if filter.MaxPrice != nil {
		conditions = append(conditions, "price <= "+arg(*filter.MaxPrice))
	}

	return "WHERE " + strings.Join(conditions, " AND "), args
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	var p domain.Product
	var tagsJSON []byte
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Slug,
		&p.Description,
		&p.Price,
		&p.FilePath,
		&p.PreviewImage,
		&p.FileType,
		&p.FileSize,
		&tagsJSON,
		&p.Category,
		&p.LicenseType,
		&p.IsActive,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(tagsJSON) > 0 {
		if err := json.Unmarshal(tagsJSON, &p.Tags); err != nil {
			return nil, fmt.Errorf("unmarshal product tags: %w", err)
		}
	}

	return &p, nil
}
