package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/Lorendor/webshop-api/internal/domain"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	host, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	port, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)

	db, err := Connect(&Credentials{
		Host:     host,
		Port:     port.Int(),
		User:     "testuser",
		Password: "testpass",
		DBName:   "testdb",
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, RunMigrations(db, "./migrations"))

	return db
}

// insertProduct writes a catalog row directly and returns it with its
// generated id.
func insertProduct(t *testing.T, db *sql.DB, p *domain.Product) *domain.Product {
	t.Helper()

	if p.Name == "" {
		p.Name = gofakeit.ProductName()
	}
	if p.Slug == "" {
		p.Slug = strings.ToLower(strings.ReplaceAll(p.Name, " ", "-")) + "-" + gofakeit.LetterN(6)
	}
	if p.FileType == "" {
		p.FileType = "PSD"
	}
	if p.FilePath == "" {
		p.FilePath = fmt.Sprintf("products/%s.%s", gofakeit.UUID(), strings.ToLower(p.FileType))
	}
	if p.FileSize == 0 {
		p.FileSize = int64(gofakeit.Number(100_000, 10_000_000))
	}
	if p.LicenseType == "" {
		p.LicenseType = "standard"
	}

	tagsJSON, err := json.Marshal(p.Tags)
	require.NoError(t, err)

	err = db.QueryRow(`
		INSERT INTO products (name, slug, description, price, file_path, preview_image,
			file_type, file_size, tags, category, license_type, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`,
		p.Name, p.Slug, p.Description, p.Price, p.FilePath, p.PreviewImage,
		p.FileType, p.FileSize, tagsJSON, p.Category, p.LicenseType, p.IsActive,
	).Scan(&p.ID)
	require.NoError(t, err)

	return p
}

func priced(price string) decimal.Decimal {
	return decimal.RequireFromString(price)
}
