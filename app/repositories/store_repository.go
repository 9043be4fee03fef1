package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sadekstore/storefront/app/models"
	"github.com/sadekstore/storefront/pkg/database"
	"github.com/sadekstore/storefront/pkg/event"
)

// EventDocumentSaved fires after every successful write with a DocumentSaved
// payload.
const EventDocumentSaved = "document.saved"

// Change names the part of the document a write touched.
type Change string

const (
	ChangeCategories Change = "categories"
	ChangeProducts   Change = "products"
	ChangeSettings   Change = "settings"
	ChangeOrders     Change = "orders"
	ChangeUser       Change = "user"
	ChangeAnalytics  Change = "analytics"
	ChangeAll        Change = "all"
)

// Catalog reports whether the change affects the public catalog reads
// (settings, categories, products).
func (c Change) Catalog() bool {
	switch c {
	case ChangeCategories, ChangeProducts, ChangeSettings, ChangeAll:
		return true
	}
	return false
}

// DocumentSaved is the EventDocumentSaved payload.
type DocumentSaved struct {
	Change   Change
	Document *models.Document
}

// ErrNotFound is returned for unknown category, product and order ids.
var ErrNotFound = errors.New("not found")

// ProductInput carries the product fields a caller supplied. A nil field
// was omitted.
type ProductInput struct {
	Name        *string
	Description *string
	Price       *float64
	Currency    *string
	Category    *string
	Status      *bool
	Images      []string // nil = omitted
}

// ResetSummary describes what a reset discarded.
type ResetSummary struct {
	ProductsDeleted int  `json:"productsDeleted"`
	OrdersDeleted   int  `json:"ordersDeleted"`
	AnalyticsReset  bool `json:"analyticsReset"`
	SettingsReset   bool `json:"settingsReset"`
}

// StoreRepository exposes typed operations over the store document. Every
// call re-reads the document; every mutation is one locked read-modify-write.
type StoreRepository struct {
	db  *database.DB[models.Document]
	bus *event.Bus
	now func() time.Time
}

func NewStoreRepository(db *database.DB[models.Document], bus *event.Bus) *StoreRepository {
	return &StoreRepository{db: db, bus: bus, now: func() time.Time { return time.Now().UTC() }}
}

// WithClock overrides the clock used for ids and timestamps.
func (r *StoreRepository) WithClock(now func() time.Time) *StoreRepository {
	cp := *r
	cp.now = now
	return &cp
}

func (r *StoreRepository) view(ctx context.Context, fn func(doc *models.Document) error) error {
	return r.db.View(ctx, func(doc *models.Document) error {
		doc.Normalize()
		return fn(doc)
	})
}

func (r *StoreRepository) update(ctx context.Context, change Change, fn func(doc *models.Document) error) error {
	var saved *models.Document
	err := r.db.Update(ctx, func(doc *models.Document) error {
		doc.Normalize()
		if err := fn(doc); err != nil {
			return err
		}
		saved = doc
		return nil
	})
	if err != nil {
		return err
	}
	r.fireSaved(ctx, change, saved)
	return nil
}

func (r *StoreRepository) fireSaved(ctx context.Context, change Change, doc *models.Document) {
	if r.bus != nil {
		r.bus.Fire(ctx, EventDocumentSaved, DocumentSaved{Change: change, Document: doc})
	}
}

// ─── Categories ───────────────────────────────────────────────────────────────

func (r *StoreRepository) ListCategories(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	err := r.view(ctx, func(doc *models.Document) error {
		out = doc.Categories
		return nil
	})
	return out, err
}

func (r *StoreRepository) AddCategory(ctx context.Context, name, description string) (models.Category, error) {
	var created models.Category
	err := r.update(ctx, ChangeCategories, func(doc *models.Document) error {
		var maxID int64
		for _, c := range doc.Categories {
			maxID = max(maxID, c.ID)
		}
		now := r.now()
		created = models.Category{
			ID:          models.NextID(now, maxID),
			Name:        name,
			Description: description,
			CreatedAt:   now,
		}
		doc.Categories = append(doc.Categories, created)
		return nil
	})
	return created, err
}

// UpdateCategory replaces name and description. The id never changes.
func (r *StoreRepository) UpdateCategory(ctx context.Context, id int64, name, description string) (models.Category, error) {
	var updated models.Category
	err := r.update(ctx, ChangeCategories, func(doc *models.Document) error {
		i := indexOf(doc.Categories, id, func(c models.Category) int64 { return c.ID })
		if i < 0 {
			return fmt.Errorf("category %d %w", id, ErrNotFound)
		}
		now := r.now()
		c := &doc.Categories[i]
		c.Name = name
		c.Description = description
		c.UpdatedAt = &now
		updated = *c
		return nil
	})
	return updated, err
}

func (r *StoreRepository) DeleteCategory(ctx context.Context, id int64) (models.Category, error) {
	var removed models.Category
	err := r.update(ctx, ChangeCategories, func(doc *models.Document) error {
		i := indexOf(doc.Categories, id, func(c models.Category) int64 { return c.ID })
		if i < 0 {
			return fmt.Errorf("category %d %w", id, ErrNotFound)
		}
		removed = doc.Categories[i]
		doc.Categories = append(doc.Categories[:i], doc.Categories[i+1:]...)
		return nil
	})
	return removed, err
}

// ─── Products ─────────────────────────────────────────────────────────────────

func (r *StoreRepository) ListProducts(ctx context.Context) ([]models.Product, error) {
	var out []models.Product
	err := r.view(ctx, func(doc *models.Document) error {
		out = doc.Products
		return nil
	})
	return out, err
}

func (r *StoreRepository) GetProduct(ctx context.Context, id int64) (models.Product, error) {
	var found models.Product
	err := r.view(ctx, func(doc *models.Document) error {
		i := indexOf(doc.Products, id, func(p models.Product) int64 { return p.ID })
		if i < 0 {
			return fmt.Errorf("product %d %w", id, ErrNotFound)
		}
		found = doc.Products[i]
		return nil
	})
	return found, err
}

// AddProduct creates a product. Omitted currency defaults to DA, omitted
// status to true and omitted images to [].
func (r *StoreRepository) AddProduct(ctx context.Context, in ProductInput) (models.Product, error) {
	var created models.Product
	err := r.update(ctx, ChangeProducts, func(doc *models.Document) error {
		var maxID int64
		for _, p := range doc.Products {
			maxID = max(maxID, p.ID)
		}
		now := r.now()
		created = models.Product{
			ID:        models.NextID(now, maxID),
			Currency:  models.DefaultCurrency,
			Status:    true,
			Images:    []string{},
			CreatedAt: now,
			UpdatedAt: now,
		}
		in.applyTo(&created)
		doc.Products = append(doc.Products, created)
		return nil
	})
	return created, err
}

// UpdateProduct merges in over the stored product and returns it together
// with the image URLs that were dropped by the update.
func (r *StoreRepository) UpdateProduct(ctx context.Context, id int64, in ProductInput) (models.Product, []string, error) {
	var (
		updated models.Product
		dropped []string
	)
	err := r.update(ctx, ChangeProducts, func(doc *models.Document) error {
		i := indexOf(doc.Products, id, func(p models.Product) int64 { return p.ID })
		if i < 0 {
			return fmt.Errorf("product %d %w", id, ErrNotFound)
		}
		p := &doc.Products[i]
		before := p.Images
		in.applyTo(p)
		p.UpdatedAt = r.now()
		if in.Images != nil {
			dropped = missing(before, p.Images)
		}
		updated = *p
		return nil
	})
	return updated, dropped, err
}

// DeleteProduct removes a product and returns it so its images can be
// cleaned up.
func (r *StoreRepository) DeleteProduct(ctx context.Context, id int64) (models.Product, error) {
	var removed models.Product
	err := r.update(ctx, ChangeProducts, func(doc *models.Document) error {
		i := indexOf(doc.Products, id, func(p models.Product) int64 { return p.ID })
		if i < 0 {
			return fmt.Errorf("product %d %w", id, ErrNotFound)
		}
		removed = doc.Products[i]
		doc.Products = append(doc.Products[:i], doc.Products[i+1:]...)
		return nil
	})
	return removed, err
}

func (in ProductInput) applyTo(p *models.Product) {
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.Currency != nil && *in.Currency != "" {
		p.Currency = *in.Currency
	}
	if in.Category != nil {
		p.Category = *in.Category
	}
	if in.Status != nil {
		p.Status = *in.Status
	}
	if in.Images != nil {
		p.Images = append([]string{}, in.Images...)
	}
}

// ─── Orders ───────────────────────────────────────────────────────────────────

func (r *StoreRepository) ListOrders(ctx context.Context) ([]models.Order, error) {
	var out []models.Order
	err := r.view(ctx, func(doc *models.Document) error {
		out = doc.Orders
		return nil
	})
	return out, err
}

func (r *StoreRepository) GetOrder(ctx context.Context, id int64) (models.Order, error) {
	var found models.Order
	err := r.view(ctx, func(doc *models.Document) error {
		i := indexOf(doc.Orders, id, func(o models.Order) int64 { return o.ID })
		if i < 0 {
			return fmt.Errorf("order %d %w", id, ErrNotFound)
		}
		found = doc.Orders[i]
		return nil
	})
	return found, err
}

// CreateOrder assigns id and timestamps and appends o as given. Status and
// total rules belong to the caller.
func (r *StoreRepository) CreateOrder(ctx context.Context, o models.Order) (models.Order, error) {
	err := r.update(ctx, ChangeOrders, func(doc *models.Document) error {
		var maxID int64
		for _, existing := range doc.Orders {
			maxID = max(maxID, existing.ID)
		}
		now := r.now()
		o.ID = models.NextID(now, maxID)
		o.CreatedAt = now
		o.UpdatedAt = now
		if o.Items == nil {
			o.Items = []models.OrderItem{}
		}
		doc.Orders = append(doc.Orders, o)
		return nil
	})
	return o, err
}

// UpdateOrder runs fn on the stored order and the analytics counters inside
// one locked write. If fn fails nothing is written.
func (r *StoreRepository) UpdateOrder(ctx context.Context, id int64, fn func(o *models.Order, a *models.Analytics) error) (models.Order, error) {
	var updated models.Order
	err := r.update(ctx, ChangeOrders, func(doc *models.Document) error {
		i := indexOf(doc.Orders, id, func(o models.Order) int64 { return o.ID })
		if i < 0 {
			return fmt.Errorf("order %d %w", id, ErrNotFound)
		}
		o := &doc.Orders[i]
		if err := fn(o, &doc.Analytics); err != nil {
			return err
		}
		o.UpdatedAt = r.now()
		updated = *o
		return nil
	})
	return updated, err
}

// ─── Settings / user ──────────────────────────────────────────────────────────

func (r *StoreRepository) Settings(ctx context.Context) (models.Settings, error) {
	var out models.Settings
	err := r.view(ctx, func(doc *models.Document) error {
		out = doc.Settings
		return nil
	})
	return out, err
}

func (r *StoreRepository) SaveSettings(ctx context.Context, fn func(s *models.Settings) error) (models.Settings, error) {
	var out models.Settings
	err := r.update(ctx, ChangeSettings, func(doc *models.Document) error {
		if err := fn(&doc.Settings); err != nil {
			return err
		}
		out = doc.Settings
		return nil
	})
	return out, err
}

func (r *StoreRepository) User(ctx context.Context) (models.User, error) {
	var out models.User
	err := r.view(ctx, func(doc *models.Document) error {
		out = doc.User
		return nil
	})
	return out, err
}

func (r *StoreRepository) SaveUser(ctx context.Context, fn func(u *models.User) error) error {
	return r.update(ctx, ChangeUser, func(doc *models.Document) error {
		return fn(&doc.User)
	})
}

// ─── Analytics ────────────────────────────────────────────────────────────────

func (r *StoreRepository) Analytics(ctx context.Context) (models.Analytics, error) {
	var out models.Analytics
	err := r.view(ctx, func(doc *models.Document) error {
		out = doc.Analytics
		return nil
	})
	return out, err
}

func (r *StoreRepository) TrackVisitor(ctx context.Context) (models.Analytics, error) {
	var out models.Analytics
	err := r.update(ctx, ChangeAnalytics, func(doc *models.Document) error {
		doc.Analytics.Visitors++
		out = doc.Analytics
		return nil
	})
	return out, err
}

// UpdateDocument gives fn the whole document under the write lock. It is
// meant for projections that read several collections at once; change names
// what fn writes.
func (r *StoreRepository) UpdateDocument(ctx context.Context, change Change, fn func(doc *models.Document) error) error {
	return r.update(ctx, change, fn)
}

// DashboardStats counts completed orders and products next to the visitor
// and revenue counters.
func (r *StoreRepository) DashboardStats(ctx context.Context) (models.DashboardStats, error) {
	var out models.DashboardStats
	err := r.view(ctx, func(doc *models.Document) error {
		for _, o := range doc.Orders {
			if o.Status == models.StatusCompleted {
				out.Orders++
			}
		}
		out.Products = len(doc.Products)
		out.Visitors = doc.Analytics.Visitors
		out.Revenue = doc.Analytics.Revenue
		return nil
	})
	return out, err
}

// Reset replaces the document with a fresh seed.
func (r *StoreRepository) Reset(ctx context.Context) (ResetSummary, error) {
	previous, current, err := r.db.Reset(ctx)
	if err != nil {
		return ResetSummary{}, err
	}

	summary := ResetSummary{AnalyticsReset: true, SettingsReset: true}
	if previous != nil {
		summary.ProductsDeleted = len(previous.Products)
		summary.OrdersDeleted = len(previous.Orders)
	}

	current.Normalize()
	r.fireSaved(ctx, ChangeAll, current)
	return summary, nil
}

func indexOf[T any](items []T, id int64, idOf func(T) int64) int {
	for i, it := range items {
		if idOf(it) == id {
			return i
		}
	}
	return -1
}

// missing returns the entries of before that are not in after.
func missing(before, after []string) []string {
	keep := make(map[string]struct{}, len(after))
	for _, s := range after {
		keep[s] = struct{}{}
	}
	var out []string
	for _, s := range before {
		if _, ok := keep[s]; !ok {
			out = append(out, s)
		}
	}
	return out
}
