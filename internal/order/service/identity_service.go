package service

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"radagast/internal/domain"
	"radagast/internal/dto"
	apperrors "radagast/internal/errors"
	"radagast/internal/infrastructure/mysql"
)

type CustomerRepository interface {
	FindByEmail(ctx context.Context, tx *sql.Tx, email string) (*domain.Customer, error)
	FindByEmailForUpdate(ctx context.Context, tx *sql.Tx, email string) (*domain.Customer, error)
	HandleExists(ctx context.Context, tx *sql.Tx, handle string) (bool, error)
	Insert(ctx context.Context, tx *sql.Tx, c domain.Customer) (uint, error)
	UpdateContact(ctx context.Context, tx *sql.Tx, c domain.Customer) error
}

type ProductRepository interface {
	FindByName(ctx context.Context, tx *sql.Tx, name string) (*domain.Product, error)
	FindByNameForUpdate(ctx context.Context, tx *sql.Tx, name string) (*domain.Product, error)
	FindBySKU(ctx context.Context, tx *sql.Tx, sku string) (*domain.Product, error)
	FindBySKUForUpdate(ctx context.Context, tx *sql.Tx, sku string) (*domain.Product, error)
	Insert(ctx context.Context, tx *sql.Tx, p domain.Product) (uint, error)
}

// keyedMutex serializes check-then-create sequences per key so two
// concurrent checkouts for the same email or product name cannot both
// observe "absent" before either commits. The unique constraints remain
// as the backstop for requests racing across processes.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*sync.Mutex)}
}

func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}

// IdentityService deduplicates customers and catalog items, assigning
// stable internal identities. All lookups and inserts run inside the
// caller's transaction so a failed checkout leaves no identity rows
// behind.
type IdentityService struct {
	customerRepo CustomerRepository
	productRepo  ProductRepository
	emailLocks   *keyedMutex
	productLocks *keyedMutex
	logger       *zap.Logger
}

func NewIdentityService(customerRepo CustomerRepository, productRepo ProductRepository, logger *zap.Logger) *IdentityService {
	return &IdentityService{
		customerRepo: customerRepo,
		productRepo:  productRepo,
		emailLocks:   newKeyedMutex(),
		productLocks: newKeyedMutex(),
		logger:       logger,
	}
}

// ResolveCustomer finds the customer by email or creates one with a
// handle derived from the display name. An existing customer's contact
// fields are refreshed in place.
func (s *IdentityService) ResolveCustomer(ctx context.Context, tx *sql.Tx, in dto.CheckoutCustomer) (*domain.Customer, error) {
	unlock := s.emailLocks.lock(strings.ToLower(in.Email))
	defer unlock()

	existing, err := s.customerRepo.FindByEmail(ctx, tx, in.Email)
	if err == nil {
		updated := *existing
		updated.Name = in.Name
		applyContact(&updated, in)
		if err := s.customerRepo.UpdateContact(ctx, tx, updated); err != nil {
			return nil, err
		}
		return &updated, nil
	}
	if _, ok := apperrors.IsNotFoundError(err); !ok {
		return nil, err
	}

	handle, err := s.deriveHandle(ctx, tx, in.Name)
	if err != nil {
		return nil, err
	}

	c := domain.Customer{
		Handle: handle,
		Email:  in.Email,
		Name:   in.Name,
	}
	applyContact(&c, in)

	id, err := s.customerRepo.Insert(ctx, tx, c)
	for attempt := 0; mysql.IsDuplicateKey(err) && attempt < 2; attempt++ {
		if !strings.Contains(mysql.DuplicateKeyName(err), "handle") {
			// Lost an email race across processes. The conflicting row is
			// committed but invisible to this transaction's snapshot, so the
			// re-read must be a locking read.
			s.logger.Debug("customer insert hit duplicate email, re-reading", zap.String("email", in.Email))
			return s.customerRepo.FindByEmailForUpdate(ctx, tx, in.Email)
		}

		// Two different emails raced to the same handle. The derivation
		// loop reads with FOR SHARE, so on retry it sees the committed
		// winner and moves to the next suffix.
		s.logger.Debug("customer insert hit duplicate handle, re-deriving", zap.String("handle", c.Handle))
		c.Handle, err = s.deriveHandle(ctx, tx, in.Name)
		if err != nil {
			return nil, err
		}
		id, err = s.customerRepo.Insert(ctx, tx, c)
	}
	if err != nil {
		return nil, err
	}

	c.ID = id
	s.logger.Info("customer created", zap.Uint("customerId", id), zap.String("handle", c.Handle))
	return &c, nil
}

// deriveHandle lower-cases the display name, strips spaces, and appends
// an increasing numeric suffix until an unused handle is found.
func (s *IdentityService) deriveHandle(ctx context.Context, tx *sql.Tx, name string) (string, error) {
	base := strings.ToLower(strings.ReplaceAll(name, " ", ""))
	if base == "" {
		base = "customer"
	}

	candidate := base
	for suffix := 1; ; suffix++ {
		exists, err := s.customerRepo.HandleExists(ctx, tx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = base + strconv.Itoa(suffix)
	}
}

// ResolveProduct finds the catalog item by storefront SKU when one is
// supplied, else by composed display name, creating it on first
// reference with prices inferred from this sale.
func (s *IdentityService) ResolveProduct(ctx context.Context, tx *sql.Tx, item dto.CheckoutItem) (*domain.Product, error) {
	name := domain.ComposeProductName(item.Name, item.Variant)

	key := name
	if item.SKU != "" {
		key = "sku:" + item.SKU
	}
	unlock := s.productLocks.lock(key)
	defer unlock()

	var existing *domain.Product
	var err error
	if item.SKU != "" {
		existing, err = s.productRepo.FindBySKU(ctx, tx, item.SKU)
	} else {
		existing, err = s.productRepo.FindByName(ctx, tx, name)
	}
	if err == nil {
		return existing, nil
	}
	if _, ok := apperrors.IsNotFoundError(err); !ok {
		return nil, err
	}

	price := unitPrice(item)
	p := domain.Product{
		Name:       name,
		MRP:        price,
		OfferPrice: price,
		InStock:    true,
	}
	if item.SKU != "" {
		sku := item.SKU
		p.SKU = &sku
	}

	id, err := s.productRepo.Insert(ctx, tx, p)
	if mysql.IsDuplicateKey(err) {
		// Same snapshot problem as the customer path: only a locking read
		// can see the row the competing process just committed. The insert
		// can trip either unique key, so the re-read follows the key that
		// fired.
		s.logger.Debug("product insert hit duplicate key, re-reading", zap.String("name", name))
		if item.SKU != "" && strings.Contains(mysql.DuplicateKeyName(err), "sku") {
			return s.productRepo.FindBySKUForUpdate(ctx, tx, item.SKU)
		}
		return s.productRepo.FindByNameForUpdate(ctx, tx, name)
	}
	if err != nil {
		return nil, err
	}

	p.ID = id
	s.logger.Info("product created", zap.Uint("productId", id), zap.String("name", name), zap.Float64("price", price))
	return &p, nil
}

// unitPrice infers a catalog price from the sale: the line total divided
// by quantity, falling back to the declared unit price. Not
// authoritative, just the best signal a checkout event carries.
func unitPrice(item dto.CheckoutItem) float64 {
	if item.Total > 0 && item.Quantity > 0 {
		return item.Total / float64(item.Quantity)
	}
	return item.UnitPrice
}

func applyContact(c *domain.Customer, in dto.CheckoutCustomer) {
	c.Phone = optional(in.Phone)
	c.Address = optional(in.Address)
	c.City = optional(in.City)
	c.State = optional(in.State)
	c.Pincode = optional(in.Pincode)
	c.Country = optional(in.Country)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
