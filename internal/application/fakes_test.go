package application

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shoplite/shoplite-api/internal/domain/entity"
	repo "github.com/shoplite/shoplite-api/internal/domain/repository"
)

// In-memory fakes over the repository interfaces, mirroring the transaction
// semantics of the real implementations closely enough for service tests.

type fakeCartRepo struct {
	mu    sync.Mutex
	carts map[string]map[string]int
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{carts: map[string]map[string]int{}}
}

func (f *fakeCartRepo) Get(_ context.Context, cartID string) (map[string]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[string]int{}
	for k, v := range f.carts[cartID] {
		out[k] = v
	}
	return out, nil
}

func (f *fakeCartRepo) Add(_ context.Context, cartID, productID string, qty int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.carts[cartID] == nil {
		f.carts[cartID] = map[string]int{}
	}
	f.carts[cartID][productID] += qty
	return nil
}

func (f *fakeCartRepo) Set(_ context.Context, cartID, productID string, qty int) error {
	if qty <= 0 {
		return f.Remove(context.Background(), cartID, productID)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.carts[cartID] == nil {
		f.carts[cartID] = map[string]int{}
	}
	f.carts[cartID][productID] = qty
	return nil
}

func (f *fakeCartRepo) Remove(_ context.Context, cartID, productID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.carts[cartID], productID)
	return nil
}

func (f *fakeCartRepo) Clear(_ context.Context, cartID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.carts, cartID)
	return nil
}

type fakeProductRepo struct {
	mu       sync.Mutex
	products map[string]*entity.Product
	logs     []*entity.ActivityLog
}

func newFakeProductRepo(ps ...*entity.Product) *fakeProductRepo {
	f := &fakeProductRepo{products: map[string]*entity.Product{}}
	for _, p := range ps {
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		if p.Status == "" {
			p.Status = entity.ProductActive
		}
		f.products[p.ID] = p
	}
	return f
}

func (f *fakeProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProductRepo) GetActive(_ context.Context, id string) (*entity.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok || p.Status != entity.ProductActive {
		return nil, repo.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProductRepo) GetActiveByIDs(_ context.Context, ids []string) (map[string]entity.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[string]entity.Product{}
	for _, id := range ids {
		if p, ok := f.products[id]; ok && p.Status == entity.ProductActive {
			out[id] = *p
		}
	}
	return out, nil
}

func (f *fakeProductRepo) List(_ context.Context, flt repo.ProductFilter) ([]entity.Product, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.Product
	for _, p := range f.products {
		if flt.Status != "" && p.Status != flt.Status {
			continue
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, len(out), nil
}

func (f *fakeProductRepo) Categories(_ context.Context) ([]entity.Category, error) {
	return nil, nil
}

func (f *fakeProductRepo) EnsureCategory(_ context.Context, name string) (*entity.Category, error) {
	return &entity.Category{ID: uuid.NewString(), Name: name}, nil
}

func (f *fakeProductRepo) CreateWithLog(_ context.Context, p *entity.Product, log *entity.ActivityLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, other := range f.products {
		if other.SKU == p.SKU {
			return repo.ErrDuplicateSKU
		}
	}
	p.ID = uuid.NewString()
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	cp := *p
	f.products[p.ID] = &cp
	log.TargetID = p.ID
	f.appendLog(log)
	return nil
}

func (f *fakeProductRepo) UpdateWithLog(_ context.Context, p *entity.Product, log *entity.ActivityLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.products[p.ID]; !ok {
		return repo.ErrNotFound
	}
	for id, other := range f.products {
		if id != p.ID && other.SKU == p.SKU {
			return repo.ErrDuplicateSKU
		}
	}
	cp := *p
	cp.UpdatedAt = time.Now()
	f.products[p.ID] = &cp
	f.appendLog(log)
	return nil
}

func (f *fakeProductRepo) ArchiveWithLog(_ context.Context, id string, log *entity.ActivityLog) (*entity.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	p.Status = entity.ProductArchived
	f.appendLog(log)
	cp := *p
	return &cp, nil
}

func (f *fakeProductRepo) SetImageWithLog(_ context.Context, id, imageURL string, log *entity.ActivityLog) (*entity.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	p.ImageURL = imageURL
	f.appendLog(log)
	cp := *p
	return &cp, nil
}

func (f *fakeProductRepo) appendLog(log *entity.ActivityLog) {
	log.ID = int64(len(f.logs) + 1)
	log.CreatedAt = time.Now()
	f.logs = append(f.logs, log)
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User
	logs  []*entity.ActivityLog
}

func newFakeUserRepo(us ...*entity.User) *fakeUserRepo {
	f := &fakeUserRepo{users: map[string]*entity.User{}}
	for _, u := range us {
		if u.ID == "" {
			u.ID = uuid.NewString()
		}
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, other := range f.users {
		if other.Email == u.Email {
			return repo.ErrDuplicateEmail
		}
	}
	u.ID = uuid.NewString()
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (f *fakeUserRepo) Update(_ context.Context, u *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[u.ID]; !ok {
		return repo.ErrNotFound
	}
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUserRepo) UpdatePassword(_ context.Context, id, passwordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return repo.ErrNotFound
	}
	u.Password = passwordHash
	return nil
}

func (f *fakeUserRepo) List(_ context.Context, _ repo.UserFilter) ([]entity.User, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.User
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, len(out), nil
}

func (f *fakeUserRepo) SetActiveWithLog(_ context.Context, id string, active bool, log *entity.ActivityLog) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	u.IsActive = active
	f.appendLog(log)
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) SetRoleWithLog(_ context.Context, id, role string, log *entity.ActivityLog) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	u.Role = role
	f.appendLog(log)
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) appendLog(log *entity.ActivityLog) {
	log.ID = int64(len(f.logs) + 1)
	log.CreatedAt = time.Now()
	f.logs = append(f.logs, log)
}

// fakeOrderRepo mirrors the all-or-nothing PlaceOrder semantics against a
// fakeProductRepo's stock.
type fakeOrderRepo struct {
	mu       sync.Mutex
	products *fakeProductRepo
	orders   map[string]*entity.Order
	logs     []*entity.ActivityLog
}

func newFakeOrderRepo(products *fakeProductRepo) *fakeOrderRepo {
	return &fakeOrderRepo{products: products, orders: map[string]*entity.Order{}}
}

func (f *fakeOrderRepo) PlaceOrder(_ context.Context, userID string, requested map[string]int) (*entity.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.products.mu.Lock()
	defer f.products.mu.Unlock()

	ids := make([]string, 0, len(requested))
	for id := range requested {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	// validate every line before touching stock
	for _, id := range ids {
		p, ok := f.products.products[id]
		if !ok || p.Status != entity.ProductActive {
			return nil, repo.ErrProductUnavailable
		}
		if p.StockQty < requested[id] {
			return nil, fmt.Errorf("%w: %s has %d left", repo.ErrInsufficientStock, p.Name, p.StockQty)
		}
	}

	o := &entity.Order{
		ID:       uuid.NewString(),
		UserID:   userID,
		Status:   entity.OrderPaid,
		PlacedAt: time.Now(),
	}
	for _, id := range ids {
		p := f.products.products[id]
		qty := requested[id]
		p.StockQty -= qty
		item := entity.OrderItem{
			ID:             uuid.NewString(),
			OrderID:        o.ID,
			ProductID:      p.ID,
			ProductName:    p.Name,
			SKU:            p.SKU,
			UnitPriceCents: p.PriceCents,
			Qty:            qty,
			SubtotalCents:  p.PriceCents * int64(qty),
		}
		o.Items = append(o.Items, item)
		o.TotalCents += item.SubtotalCents
	}
	f.orders[o.ID] = o
	cp := *o
	return &cp, nil
}

func (f *fakeOrderRepo) GetByID(_ context.Context, id string) (*entity.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOrderRepo) List(_ context.Context, flt repo.OrderFilter) ([]entity.Order, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.Order
	for _, o := range f.orders {
		if flt.UserID != "" && o.UserID != flt.UserID {
			continue
		}
		if flt.Status != "" && o.Status != flt.Status {
			continue
		}
		out = append(out, *o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlacedAt.After(out[j].PlacedAt) })
	return out, len(out), nil
}

func (f *fakeOrderRepo) ChangeStatusWithLog(_ context.Context, id, to string, log *entity.ActivityLog) (*entity.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	if !entity.ValidOrderStatus(to) || !entity.CanTransition(o.Status, to) {
		return nil, fmt.Errorf("%w: %s -> %s", repo.ErrInvalidTransition, o.Status, to)
	}
	if to == entity.OrderCanceled {
		f.restoreStock(o)
	}
	o.Status = to
	log.ID = int64(len(f.logs) + 1)
	f.logs = append(f.logs, log)
	cp := *o
	return &cp, nil
}

func (f *fakeOrderRepo) CancelByOwner(_ context.Context, id, userID string) (*entity.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok || o.UserID != userID {
		return nil, repo.ErrNotFound
	}
	if o.Status != entity.OrderPending {
		return nil, fmt.Errorf("%w: %s -> %s", repo.ErrInvalidTransition, o.Status, entity.OrderCanceled)
	}
	f.restoreStock(o)
	o.Status = entity.OrderCanceled
	cp := *o
	return &cp, nil
}

func (f *fakeOrderRepo) restoreStock(o *entity.Order) {
	f.products.mu.Lock()
	defer f.products.mu.Unlock()
	for _, it := range o.Items {
		if p, ok := f.products.products[it.ProductID]; ok {
			p.StockQty += it.Qty
		}
	}
}

type fakeActivityRepo struct {
	mu      sync.Mutex
	entries []entity.ActivityLog
}

func (f *fakeActivityRepo) append(action string) entity.ActivityLog {
	f.mu.Lock()
	defer f.mu.Unlock()
	e := entity.ActivityLog{
		ID:         int64(len(f.entries) + 1),
		AdminID:    "admin-" + strconv.Itoa(len(f.entries)+1),
		ActionType: action,
		TargetType: entity.TargetProduct,
		CreatedAt:  time.Now(),
	}
	f.entries = append(f.entries, e)
	return e
}

func (f *fakeActivityRepo) List(_ context.Context, _ repo.ActivityFilter) ([]entity.ActivityLog, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]entity.ActivityLog, len(f.entries))
	copy(out, f.entries)
	// newest first
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, len(out), nil
}

func (f *fakeActivityRepo) ListAfter(_ context.Context, afterID int64, limit int) ([]entity.ActivityLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.ActivityLog
	for _, e := range f.entries {
		if e.ID > afterID {
			out = append(out, e)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (f *fakeActivityRepo) LatestID(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.entries) == 0 {
		return 0, nil
	}
	return f.entries[len(f.entries)-1].ID, nil
}
