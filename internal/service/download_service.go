package service

import (
	"archive/zip"
	"context"
	"crypto/subtle"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Lorendor/webshop-api/internal/domain"
	"github.com/Lorendor/webshop-api/internal/repository"
	"github.com/Lorendor/webshop-api/internal/storage"
)

// DownloadRequest carries everything a download attempt presents: the
// bearer token, the guest email fallback, and the authenticated user if
// there is one.
type DownloadRequest struct {
	OrderID uuid.UUID
	Token   string
	Email   string
	UserID  *int64
}

// Archive is a built ZIP sitting in the temp directory. Close removes the
// file; callers must call it once the response has been written.
type Archive struct {
	Path string
	Name string
}

func (a *Archive) Close() error {
	return os.Remove(a.Path)
}

type DownloadService struct {
	orders   repository.OrderRepository
	products repository.ProductRepository
	files    storage.FileStore
	tempDir  string
	log      *logrus.Entry
}

func NewDownloadService(
	orders repository.OrderRepository,
	products repository.ProductRepository,
	files storage.FileStore,
	tempDir string,
	log *logrus.Entry,
) *DownloadService {
	return &DownloadService{
		orders:   orders,
		products: products,
		files:    files,
		tempDir:  tempDir,
		log:      log,
	}
}

// BuildArchive authorizes the request against the order and bundles the
// purchased files into a fresh ZIP. The archive is rebuilt on every call;
// tokens are reusable.
func (s *DownloadService) BuildArchive(ctx context.Context, req DownloadRequest) (*Archive, error) {
	order, err := s.orders.GetOrderByID(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}

	if err := authorizeDownload(order, req); err != nil {
		return nil, err
	}

	return s.buildZip(ctx, order)
}

// authorizeDownload checks token, order status, and requester identity,
// in that order. Authenticated requesters must own the order; guests must
// present the order's customer email.
func authorizeDownload(order *domain.Order, req DownloadRequest) error {
	if req.Token == "" || subtle.ConstantTimeCompare([]byte(req.Token), []byte(order.DownloadToken)) != 1 {
		return ErrInvalidToken
	}
	if !order.IsCompleted() {
		return ErrOrderNotCompleted
	}
	if req.UserID != nil {
		if order.UserID == nil || *order.UserID != *req.UserID {
			return ErrNotOrderOwner
		}
		return nil
	}
	if req.Email != order.CustomerEmail {
		return ErrEmailRequired
	}
	return nil
}

func (s *DownloadService) buildZip(ctx context.Context, order *domain.Order) (*Archive, error) {
	if err := os.MkdirAll(s.tempDir, 0o755); err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}

	name := fmt.Sprintf("order_%s_%d.zip", order.ID, time.Now().Unix())
	path := filepath.Join(s.tempDir, name)

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create archive: %w", err)
	}

	zw := zip.NewWriter(f)
	added := 0
	for _, item := range order.Items {
		product, err := s.products.FindByID(ctx, item.ProductID)
		if err != nil {
			s.discard(f, path)
			return nil, err
		}

		if !s.files.Exists(product.FilePath) {
			// Purchased files can go missing on disk; skip them and let
			// the zero-entry check below decide the outcome.
			s.log.WithField("product_id", product.ID).Warn("product file missing, skipping")
			continue
		}

		if err := addFile(zw, s.files, product); err != nil {
			s.discard(f, path)
			return nil, fmt.Errorf("add %q to archive: %w", product.FilePath, err)
		}
		added++
	}

	if err := zw.Close(); err != nil {
		s.discard(f, path)
		return nil, fmt.Errorf("finalize archive: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("close archive: %w", err)
	}

	if added == 0 {
		_ = os.Remove(path)
		return nil, ErrNoFilesFound
	}

	return &Archive{Path: path, Name: name}, nil
}

func addFile(zw *zip.Writer, files storage.FileStore, product *domain.Product) error {
	src, err := files.Open(product.FilePath)
	if err != nil {
		return err
	}
	defer src.Close()

	entry := product.Name + "." + strings.ToLower(product.FileType)
	dst, err := zw.Create(entry)
	if err != nil {
		return err
	}

	_, err = io.Copy(dst, src)
	return err
}

func (s *DownloadService) discard(f *os.File, path string) {
	_ = f.Close()
	_ = os.Remove(path)
}
