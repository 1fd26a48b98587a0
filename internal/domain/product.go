package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID           int64
	Name         string
	Slug         string
	Description  string
	Price        decimal.Decimal
	FilePath     string
	PreviewImage string
	FileType     string
	FileSize     int64
	Tags         []string
	Category     string
	LicenseType  string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ProductFilter narrows a catalog listing. Zero values mean "no constraint".
type ProductFilter struct {
	Search      string
	Category    string
	FileType    string
	LicenseType string
	MinPrice    *decimal.Decimal
	MaxPrice    *decimal.Decimal
	SortBy      string
	SortOrder   string
	Page        int
	PerPage     int
}

// ProductPage is one page of a catalog listing plus pagination metadata.
type ProductPage struct {
	Products []*Product
	Page     int
	PerPage  int
	Total    int64
}
