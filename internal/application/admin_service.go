package application

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/shoplite/shoplite-api/internal/domain/entity"
	repo "github.com/shoplite/shoplite-api/internal/domain/repository"
	"github.com/shoplite/shoplite-api/pkg/helpers"
)

var (
	ErrSeededAdmin   = errors.New("the seeded administrator cannot be modified")
	ErrSelfDisable   = errors.New("cannot deactivate your own account")
	ErrInvalidRole   = errors.New("invalid role")
	ErrBadTransition = errors.New("status transition not allowed")
)

// AdminService performs the administrative mutations. Every successful
// mutation appends exactly one activity entry, written in the same database
// transaction as the change itself by the *WithLog repository methods.
type AdminService struct {
	Products repo.ProductRepository
	Users    repo.UserRepository
	Orders   repo.OrderRepository
	Catalog  *CatalogService
	Logger   *logrus.Logger

	GCS        *storage.Client
	GCSBucket  string
	AdminEmail string // seeded admin, protected from demotion/deactivation
}

func NewAdminService(products repo.ProductRepository, users repo.UserRepository, orders repo.OrderRepository, catalog *CatalogService, logger *logrus.Logger, gcs *storage.Client, gcsBucket, adminEmail string) *AdminService {
	return &AdminService{
		Products:   products,
		Users:      users,
		Orders:     orders,
		Catalog:    catalog,
		Logger:     logger,
		GCS:        gcs,
		GCSBucket:  gcsBucket,
		AdminEmail: adminEmail,
	}
}

// ---- Products ----

type ProductInput struct {
	SKU         string
	Name        string
	Description string
	PriceCents  int64
	StockQty    int
	Category    string
}

// ListProducts lists products of any status for the dashboard.
func (s *AdminService) ListProducts(ctx context.Context, f repo.ProductFilter) ([]entity.Product, int, error) {
	return s.Products.List(ctx, f)
}

func (s *AdminService) GetProduct(ctx context.Context, id string) (*entity.Product, error) {
	p, err := s.Products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *AdminService) CreateProduct(ctx context.Context, adminID string, in ProductInput) (*entity.Product, error) {
	p := &entity.Product{
		SKU:         in.SKU,
		Name:        in.Name,
		Description: in.Description,
		PriceCents:  in.PriceCents,
		StockQty:    in.StockQty,
		Status:      entity.ProductActive,
	}
	if in.Category != "" {
		cat, err := s.Products.EnsureCategory(ctx, in.Category)
		if err != nil {
			return nil, err
		}
		p.CategoryID = cat.ID
		p.Category = cat.Name
	}
	log := &entity.ActivityLog{
		AdminID:    adminID,
		ActionType: entity.ActionProductCreate,
		TargetType: entity.TargetProduct,
		Details:    map[string]any{"sku": p.SKU, "name": p.Name},
	}
	if err := s.Products.CreateWithLog(ctx, p, log); err != nil {
		return nil, err
	}
	s.reindex(ctx, p)
	if s.Catalog != nil && in.Category != "" {
		s.Catalog.DropCategoryCache(ctx)
	}
	s.logAction(log, "product created")
	return p, nil
}

func (s *AdminService) UpdateProduct(ctx context.Context, adminID, id string, in ProductInput) (*entity.Product, error) {
	p, err := s.Products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	p.SKU = in.SKU
	p.Name = in.Name
	p.Description = in.Description
	p.PriceCents = in.PriceCents
	p.StockQty = in.StockQty
	if in.Category != "" {
		cat, cErr := s.Products.EnsureCategory(ctx, in.Category)
		if cErr != nil {
			return nil, cErr
		}
		p.CategoryID = cat.ID
		p.Category = cat.Name
	} else {
		p.CategoryID = ""
		p.Category = ""
	}
	log := &entity.ActivityLog{
		AdminID:    adminID,
		ActionType: entity.ActionProductEdit,
		TargetType: entity.TargetProduct,
		TargetID:   p.ID,
		Details:    map[string]any{"sku": p.SKU, "name": p.Name},
	}
	if err := s.Products.UpdateWithLog(ctx, p, log); err != nil {
		return nil, err
	}
	s.reindex(ctx, p)
	if s.Catalog != nil {
		s.Catalog.DropCategoryCache(ctx)
	}
	s.logAction(log, "product updated")
	return p, nil
}

// ArchiveProduct soft-deletes a product: it disappears from the storefront
// and the search index but stays referenced by past orders.
func (s *AdminService) ArchiveProduct(ctx context.Context, adminID, id string) (*entity.Product, error) {
	log := &entity.ActivityLog{
		AdminID:    adminID,
		ActionType: entity.ActionProductArchive,
		TargetType: entity.TargetProduct,
		TargetID:   id,
	}
	p, err := s.Products.ArchiveWithLog(ctx, id, log)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	s.reindex(ctx, p)
	s.logAction(log, "product archived")
	return p, nil
}

// UploadProductImage stores the image in GCS and records the public URL.
func (s *AdminService) UploadProductImage(ctx context.Context, adminID, id string, r io.Reader, filename, contentType string) (*entity.Product, error) {
	if s.GCS == nil || s.GCSBucket == "" {
		return nil, errors.New("gcs not configured")
	}
	if _, err := s.Products.GetByID(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("products", id, uuid.NewString()+ext))
	url, err := helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
	if err != nil {
		return nil, err
	}
	log := &entity.ActivityLog{
		AdminID:    adminID,
		ActionType: entity.ActionProductImage,
		TargetType: entity.TargetProduct,
		TargetID:   id,
		Details:    map[string]any{"image_url": url},
	}
	p, err := s.Products.SetImageWithLog(ctx, id, url, log)
	if err != nil {
		return nil, err
	}
	s.reindex(ctx, p)
	s.logAction(log, "product image set")
	return p, nil
}

func (s *AdminService) reindex(ctx context.Context, p *entity.Product) {
	if s.Catalog != nil {
		_ = s.Catalog.IndexProduct(ctx, p)
	}
}

// ---- Users ----

func (s *AdminService) ListUsers(ctx context.Context, f repo.UserFilter) ([]entity.User, int, error) {
	return s.Users.List(ctx, f)
}

// SetUserActive toggles an account. The seeded admin can never be
// deactivated, and an admin cannot deactivate themselves.
func (s *AdminService) SetUserActive(ctx context.Context, adminID, targetID string, active bool) (*entity.User, error) {
	target, err := s.Users.GetByID(ctx, targetID)
	if err != nil || target == nil {
		return nil, ErrUserNotFound
	}
	if !active {
		if s.AdminEmail != "" && target.Email == s.AdminEmail {
			return nil, ErrSeededAdmin
		}
		if targetID == adminID {
			return nil, ErrSelfDisable
		}
	}
	log := &entity.ActivityLog{
		AdminID:    adminID,
		ActionType: entity.ActionUserToggle,
		TargetType: entity.TargetUser,
		TargetID:   targetID,
		Details:    map[string]any{"is_active": active, "email": target.Email},
	}
	u, err := s.Users.SetActiveWithLog(ctx, targetID, active, log)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	s.logAction(log, "user active toggled")
	return u, nil
}

// SetUserRole changes an account's role. The seeded admin cannot be demoted.
func (s *AdminService) SetUserRole(ctx context.Context, adminID, targetID, role string) (*entity.User, error) {
	if role != entity.RoleCustomer && role != entity.RoleAdmin {
		return nil, ErrInvalidRole
	}
	target, err := s.Users.GetByID(ctx, targetID)
	if err != nil || target == nil {
		return nil, ErrUserNotFound
	}
	if role != entity.RoleAdmin && s.AdminEmail != "" && target.Email == s.AdminEmail {
		return nil, ErrSeededAdmin
	}
	log := &entity.ActivityLog{
		AdminID:    adminID,
		ActionType: entity.ActionUserSetRole,
		TargetType: entity.TargetUser,
		TargetID:   targetID,
		Details:    map[string]any{"role": role, "email": target.Email},
	}
	u, err := s.Users.SetRoleWithLog(ctx, targetID, role, log)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	s.logAction(log, "user role changed")
	return u, nil
}

// ---- Orders ----

func (s *AdminService) ListOrders(ctx context.Context, f repo.OrderFilter) ([]entity.Order, int, error) {
	return s.Orders.List(ctx, f)
}

func (s *AdminService) GetOrder(ctx context.Context, id string) (*entity.Order, error) {
	o, err := s.Orders.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return o, nil
}

// ChangeOrderStatus moves an order through the status machine. Canceling
// restores stock; a shipped order can never be canceled.
func (s *AdminService) ChangeOrderStatus(ctx context.Context, adminID, orderID, to string) (*entity.Order, error) {
	log := &entity.ActivityLog{
		AdminID:    adminID,
		ActionType: entity.ActionOrderStatus,
		TargetType: entity.TargetOrder,
		TargetID:   orderID,
	}
	o, err := s.Orders.ChangeStatusWithLog(ctx, orderID, to, log)
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrNotFound):
			return nil, ErrOrderNotFound
		case errors.Is(err, repo.ErrInvalidTransition):
			return nil, ErrBadTransition
		}
		return nil, err
	}
	s.logAction(log, "order status changed")
	return o, nil
}

func (s *AdminService) logAction(log *entity.ActivityLog, msg string) {
	if s.Logger == nil {
		return
	}
	s.Logger.WithFields(logrus.Fields{
		"admin_id":    log.AdminID,
		"action_type": log.ActionType,
		"target_type": log.TargetType,
		"target_id":   log.TargetID,
		"activity_id": log.ID,
	}).Info(msg)
}
