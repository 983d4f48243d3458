package service

import (
	"context"
	"database/sql"
	"testing"

	mysqldriver "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	"radagast/internal/domain"
	"radagast/internal/dto"
	apperrors "radagast/internal/errors"
)

type mockCustomerRepo struct {
	FindByEmailFunc          func(ctx context.Context, tx *sql.Tx, email string) (*domain.Customer, error)
	FindByEmailForUpdateFunc func(ctx context.Context, tx *sql.Tx, email string) (*domain.Customer, error)
	HandleExistsFunc         func(ctx context.Context, tx *sql.Tx, handle string) (bool, error)
	InsertFunc               func(ctx context.Context, tx *sql.Tx, c domain.Customer) (uint, error)

	lockingReads    int
	insertedHandles []string
}

func (m *mockCustomerRepo) FindByEmail(ctx context.Context, tx *sql.Tx, email string) (*domain.Customer, error) {
	return m.FindByEmailFunc(ctx, tx, email)
}

func (m *mockCustomerRepo) FindByEmailForUpdate(ctx context.Context, tx *sql.Tx, email string) (*domain.Customer, error) {
	m.lockingReads++
	return m.FindByEmailForUpdateFunc(ctx, tx, email)
}

func (m *mockCustomerRepo) HandleExists(ctx context.Context, tx *sql.Tx, handle string) (bool, error) {
	return m.HandleExistsFunc(ctx, tx, handle)
}

func (m *mockCustomerRepo) Insert(ctx context.Context, tx *sql.Tx, c domain.Customer) (uint, error) {
	m.insertedHandles = append(m.insertedHandles, c.Handle)
	return m.InsertFunc(ctx, tx, c)
}

func (m *mockCustomerRepo) UpdateContact(ctx context.Context, tx *sql.Tx, c domain.Customer) error {
	return nil
}

type mockProductRepo struct {
	FindByNameFunc          func(ctx context.Context, tx *sql.Tx, name string) (*domain.Product, error)
	FindByNameForUpdateFunc func(ctx context.Context, tx *sql.Tx, name string) (*domain.Product, error)
	FindBySKUFunc           func(ctx context.Context, tx *sql.Tx, sku string) (*domain.Product, error)
	FindBySKUForUpdateFunc  func(ctx context.Context, tx *sql.Tx, sku string) (*domain.Product, error)
	InsertFunc              func(ctx context.Context, tx *sql.Tx, p domain.Product) (uint, error)
}

func (m *mockProductRepo) FindByName(ctx context.Context, tx *sql.Tx, name string) (*domain.Product, error) {
	return m.FindByNameFunc(ctx, tx, name)
}

func (m *mockProductRepo) FindByNameForUpdate(ctx context.Context, tx *sql.Tx, name string) (*domain.Product, error) {
	return m.FindByNameForUpdateFunc(ctx, tx, name)
}

func (m *mockProductRepo) FindBySKU(ctx context.Context, tx *sql.Tx, sku string) (*domain.Product, error) {
	return m.FindBySKUFunc(ctx, tx, sku)
}

func (m *mockProductRepo) FindBySKUForUpdate(ctx context.Context, tx *sql.Tx, sku string) (*domain.Product, error) {
	return m.FindBySKUForUpdateFunc(ctx, tx, sku)
}

func (m *mockProductRepo) Insert(ctx context.Context, tx *sql.Tx, p domain.Product) (uint, error) {
	return m.InsertFunc(ctx, tx, p)
}

func duplicateKeyError(key string) error {
	return &mysqldriver.MySQLError{
		Number:  1062,
		Message: "Duplicate entry 'x' for key '" + key + "'",
	}
}

func notFoundByEmail(ctx context.Context, tx *sql.Tx, email string) (*domain.Customer, error) {
	return nil, apperrors.NewNotFoundError("customer not found")
}

func TestResolveCustomer_EmailRaceFallsBackToLockingRead(t *testing.T) {
	committed := &domain.Customer{ID: 7, Handle: "janedoe", Email: "jane@example.com", Name: "Jane Doe"}

	customerRepo := &mockCustomerRepo{
		FindByEmailFunc: notFoundByEmail,
		FindByEmailForUpdateFunc: func(ctx context.Context, tx *sql.Tx, email string) (*domain.Customer, error) {
			return committed, nil
		},
		HandleExistsFunc: func(ctx context.Context, tx *sql.Tx, handle string) (bool, error) {
			return false, nil
		},
		InsertFunc: func(ctx context.Context, tx *sql.Tx, c domain.Customer) (uint, error) {
			return 0, duplicateKeyError("Customers.uq_customers_email")
		},
	}

	svc := NewIdentityService(customerRepo, &mockProductRepo{}, zap.NewNop())

	c, err := svc.ResolveCustomer(context.Background(), nil, dto.CheckoutCustomer{Name: "Jane Doe", Email: "jane@example.com"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.ID != 7 {
		t.Errorf("expected the committed row from the locking read, got %+v", c)
	}
	if customerRepo.lockingReads != 1 {
		t.Errorf("expected 1 locking re-read, got %d", customerRepo.lockingReads)
	}
}

func TestResolveCustomer_HandleRaceRetriesDerivation(t *testing.T) {
	// First derivation finds janedoe free; a competing email claims it
	// before the insert lands. The retry sees the winner and moves on.
	taken := map[string]bool{}

	customerRepo := &mockCustomerRepo{}
	customerRepo.FindByEmailFunc = notFoundByEmail
	customerRepo.FindByEmailForUpdateFunc = func(ctx context.Context, tx *sql.Tx, email string) (*domain.Customer, error) {
		t.Fatal("a handle collision must not be treated as an email duplicate")
		return nil, nil
	}
	customerRepo.HandleExistsFunc = func(ctx context.Context, tx *sql.Tx, handle string) (bool, error) {
		return taken[handle], nil
	}
	customerRepo.InsertFunc = func(ctx context.Context, tx *sql.Tx, c domain.Customer) (uint, error) {
		if c.Handle == "janedoe" {
			taken["janedoe"] = true
			return 0, duplicateKeyError("Customers.uq_customers_handle")
		}
		return 9, nil
	}

	svc := NewIdentityService(customerRepo, &mockProductRepo{}, zap.NewNop())

	c, err := svc.ResolveCustomer(context.Background(), nil, dto.CheckoutCustomer{Name: "Jane Doe", Email: "jane.d@example.com"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Handle != "janedoe1" {
		t.Errorf("expected re-derived handle janedoe1, got %s", c.Handle)
	}
	if len(customerRepo.insertedHandles) != 2 {
		t.Errorf("expected 2 insert attempts, got %v", customerRepo.insertedHandles)
	}
}

func TestResolveProduct_RaceFallsBackToLockingRead(t *testing.T) {
	committed := &domain.Product{ID: 3, Name: "Honey Jar", OfferPrice: 350}

	productRepo := &mockProductRepo{
		FindByNameFunc: func(ctx context.Context, tx *sql.Tx, name string) (*domain.Product, error) {
			return nil, apperrors.NewNotFoundError("product not found")
		},
		FindByNameForUpdateFunc: func(ctx context.Context, tx *sql.Tx, name string) (*domain.Product, error) {
			return committed, nil
		},
		InsertFunc: func(ctx context.Context, tx *sql.Tx, p domain.Product) (uint, error) {
			return 0, duplicateKeyError("Products.uq_products_name")
		},
	}

	svc := NewIdentityService(&mockCustomerRepo{}, productRepo, zap.NewNop())

	p, err := svc.ResolveProduct(context.Background(), nil, dto.CheckoutItem{Name: "Honey Jar", Quantity: 1, Total: 350})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID != 3 {
		t.Errorf("expected the committed row from the locking read, got %+v", p)
	}
}

func TestResolveProduct_SKURaceRoutedByKey(t *testing.T) {
	committed := &domain.Product{ID: 4, Name: "Honey Jar"}

	productRepo := &mockProductRepo{
		FindBySKUFunc: func(ctx context.Context, tx *sql.Tx, sku string) (*domain.Product, error) {
			return nil, apperrors.NewNotFoundError("product not found")
		},
		FindBySKUForUpdateFunc: func(ctx context.Context, tx *sql.Tx, sku string) (*domain.Product, error) {
			return committed, nil
		},
		FindByNameForUpdateFunc: func(ctx context.Context, tx *sql.Tx, name string) (*domain.Product, error) {
			t.Fatal("a sku collision must re-read by sku")
			return nil, nil
		},
		InsertFunc: func(ctx context.Context, tx *sql.Tx, p domain.Product) (uint, error) {
			return 0, duplicateKeyError("Products.uq_products_sku")
		},
	}

	svc := NewIdentityService(&mockCustomerRepo{}, productRepo, zap.NewNop())

	p, err := svc.ResolveProduct(context.Background(), nil, dto.CheckoutItem{Name: "Honey Jar", SKU: "HJ-001", Quantity: 1, Total: 350})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID != 4 {
		t.Errorf("expected the committed row from the sku locking read, got %+v", p)
	}
}
