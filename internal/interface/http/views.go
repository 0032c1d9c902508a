package handlers

import (
	"time"

	"github.com/shoplite/shoplite-api/internal/domain/entity"
)

// JSON views over the domain entities. Handlers never marshal entities
// directly so wire shapes stay stable under internal refactors.

type productView struct {
	ID          string    `json:"id"`
	SKU         string    `json:"sku"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	PriceCents  int64     `json:"price_cents"`
	StockQty    int       `json:"stock_qty"`
	Category    string    `json:"category,omitempty"`
	Status      string    `json:"status"`
	ImageURL    string    `json:"image_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toProductView(p *entity.Product) productView {
	return productView{
		ID:          p.ID,
		SKU:         p.SKU,
		Name:        p.Name,
		Description: p.Description,
		PriceCents:  p.PriceCents,
		StockQty:    p.StockQty,
		Category:    p.Category,
		Status:      p.Status,
		ImageURL:    p.ImageURL,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toProductViews(ps []entity.Product) []productView {
	out := make([]productView, 0, len(ps))
	for i := range ps {
		out = append(out, toProductView(&ps[i]))
	}
	return out
}

type categoryView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

func toCategoryViews(cs []entity.Category) []categoryView {
	out := make([]categoryView, 0, len(cs))
	for _, c := range cs {
		out = append(out, categoryView{ID: c.ID, Name: c.Name, Description: c.Description})
	}
	return out
}

type orderItemView struct {
	ProductID      string `json:"product_id"`
	ProductName    string `json:"product_name"`
	SKU            string `json:"sku"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	Qty            int    `json:"qty"`
	SubtotalCents  int64  `json:"subtotal_cents"`
}

type orderView struct {
	ID         string          `json:"id"`
	UserID     string          `json:"user_id"`
	Status     string          `json:"status"`
	TotalCents int64           `json:"total_cents"`
	PlacedAt   time.Time       `json:"placed_at"`
	Items      []orderItemView `json:"items"`
}

func toOrderView(o *entity.Order) orderView {
	items := make([]orderItemView, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, orderItemView{
			ProductID:      it.ProductID,
			ProductName:    it.ProductName,
			SKU:            it.SKU,
			UnitPriceCents: it.UnitPriceCents,
			Qty:            it.Qty,
			SubtotalCents:  it.SubtotalCents,
		})
	}
	return orderView{
		ID:         o.ID,
		UserID:     o.UserID,
		Status:     o.Status,
		TotalCents: o.TotalCents,
		PlacedAt:   o.PlacedAt,
		Items:      items,
	}
}

// placedOrderView is the checkout response: the order plus the quoted
// delivery date.
type placedOrderView struct {
	orderView
	DeliveryEstimate time.Time `json:"delivery_estimate"`
}

func toOrderViews(os []entity.Order) []orderView {
	out := make([]orderView, 0, len(os))
	for i := range os {
		out = append(out, toOrderView(&os[i]))
	}
	return out
}

type userView struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	Role        string    `json:"role"`
	IsActive    bool      `json:"is_active"`
	AddressLine string    `json:"address_line,omitempty"`
	City        string    `json:"city,omitempty"`
	State       string    `json:"state,omitempty"`
	PostalCode  string    `json:"postal_code,omitempty"`
	Country     string    `json:"country,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toUserView(u *entity.User) userView {
	return userView{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		Role:        u.Role,
		IsActive:    u.IsActive,
		AddressLine: u.AddressLine,
		City:        u.City,
		State:       u.State,
		PostalCode:  u.PostalCode,
		Country:     u.Country,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func toUserViews(us []entity.User) []userView {
	out := make([]userView, 0, len(us))
	for i := range us {
		out = append(out, toUserView(&us[i]))
	}
	return out
}

type activityView struct {
	ID         int64          `json:"id"`
	AdminID    string         `json:"admin_id"`
	AdminEmail string         `json:"admin_email,omitempty"`
	ActionType string         `json:"action_type"`
	TargetType string         `json:"target_type"`
	TargetID   string         `json:"target_id,omitempty"`
	Details    map[string]any `json:"details,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

func toActivityView(a *entity.ActivityLog) activityView {
	return activityView{
		ID:         a.ID,
		AdminID:    a.AdminID,
		AdminEmail: a.AdminEmail,
		ActionType: a.ActionType,
		TargetType: a.TargetType,
		TargetID:   a.TargetID,
		Details:    a.Details,
		CreatedAt:  a.CreatedAt,
	}
}

func toActivityViews(as []entity.ActivityLog) []activityView {
	out := make([]activityView, 0, len(as))
	for i := range as {
		out = append(out, toActivityView(&as[i]))
	}
	return out
}
