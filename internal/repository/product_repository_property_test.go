package repository

import (
	"context"
	"testing"
	"time"

	"catalog-admin/internal/domain"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// Feature: catalog-admin, Property 10: Product creation preserves attributes
func TestProperty_ProductCreationPreservesAttributes(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("creating and retrieving a product preserves all attributes", prop.ForAll(
		func(name string, description string, price float64, imageURL string, stock int) bool {
			ctx := context.Background()
			productRepo := NewProductRepository(nil)

			product := &domain.Product{
				ID:          uuid.NewString(),
				Name:        name,
				Description: description,
				Price:       price,
				Category:    "Gaming",
				ImageURL:    imageURL,
				Stock:       stock,
				CreatedAt:   time.Now(),
				UpdatedAt:   time.Now(),
			}

			if err := productRepo.Create(ctx, product); err != nil {
				t.Logf("FAIL: Failed to create product: %v", err)
				return false
			}

			retrieved, err := productRepo.FindByID(ctx, product.ID)
			if err != nil {
				t.Logf("FAIL: Failed to retrieve product: %v", err)
				return false
			}

			if *retrieved != *product {
				t.Logf("FAIL: Product mismatch. Expected %+v, got %+v", product, retrieved)
				return false
			}

			return true
		},
		gen.RegexMatch(`[A-Za-z0-9 ]{3,50}`),                      // name
		gen.RegexMatch(`[A-Za-z0-9 .,!?]{10,200}`),                // description
		gen.Float64Range(0.01, 9999.99),                           // price
		gen.RegexMatch(`https?://[a-z0-9.-]+/[a-z0-9/._-]{1,50}`), // imageURL
		gen.IntRange(0, 1000),                                     // stock
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Feature: catalog-admin, Property 14: Product updates are reflected
func TestProperty_ProductUpdatesAreReflected(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("updating a product and retrieving it shows the updated values", prop.ForAll(
		func(name1 string, name2 string, price1 float64, price2 float64, stock1 int, stock2 int) bool {
			ctx := context.Background()
			productRepo := NewProductRepository(SeedProducts(3, 1, time.Now()))

			product := &domain.Product{
				ID:        uuid.NewString(),
				Name:      name1,
				Price:     price1,
				Stock:     stock1,
				CreatedAt: time.Now(),
				UpdatedAt: time.Now(),
			}
			if err := productRepo.Create(ctx, product); err != nil {
				t.Logf("FAIL: Failed to create product: %v", err)
				return false
			}

			product.Name = name2
			product.Price = price2
			product.Stock = stock2
			product.UpdatedAt = time.Now()

			if err := productRepo.Update(ctx, product); err != nil {
				t.Logf("FAIL: Failed to update product: %v", err)
				return false
			}

			retrieved, err := productRepo.FindByID(ctx, product.ID)
			if err != nil {
				t.Logf("FAIL: Failed to retrieve product: %v", err)
				return false
			}

			if retrieved.Name != name2 || retrieved.Price != price2 || retrieved.Stock != stock2 {
				t.Logf("FAIL: Update not reflected: %+v", retrieved)
				return false
			}

			products, _ := productRepo.List(ctx)
			return len(products) == 4 && products[3].ID == product.ID
		},
		gen.RegexMatch(`[A-Za-z0-9 ]{3,50}`), // name1
		gen.RegexMatch(`[A-Za-z0-9 ]{3,50}`), // name2
		gen.Float64Range(0.01, 9999.99),      // price1
		gen.Float64Range(0.01, 9999.99),      // price2
		gen.IntRange(0, 1000),                // stock1
		gen.IntRange(0, 1000),                // stock2
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Feature: catalog-admin, Property 16: Product deletion removes from catalog
func TestProperty_ProductDeletionRemovesFromCatalog(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("deleting a product makes it not retrievable and keeps the others in order", prop.ForAll(
		func(count int, pick int) bool {
			ctx := context.Background()
			seed := SeedProducts(count, int64(count), time.Now())
			productRepo := NewProductRepository(seed)

			target := seed[pick%count]
			if err := productRepo.Delete(ctx, target.ID); err != nil {
				t.Logf("FAIL: Failed to delete product: %v", err)
				return false
			}

			if _, err := productRepo.FindByID(ctx, target.ID); err != ErrProductNotFound {
				t.Logf("FAIL: Expected ErrProductNotFound after deletion, got: %v", err)
				return false
			}

			if err := productRepo.Delete(ctx, target.ID); err != ErrProductNotFound {
				t.Logf("FAIL: Expected ErrProductNotFound on second deletion, got: %v", err)
				return false
			}

			remaining, _ := productRepo.List(ctx)
			if len(remaining) != count-1 {
				return false
			}
			j := 0
			for _, p := range seed {
				if p.ID == target.ID {
					continue
				}
				if remaining[j].ID != p.ID {
					return false
				}
				j++
			}
			return true
		},
		gen.IntRange(1, 30),
		gen.IntRange(0, 100),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestUpdateUnknownProduct(t *testing.T) {
	productRepo := NewProductRepository(nil)

	err := productRepo.Update(context.Background(), &domain.Product{ID: "9"})
	if err != ErrProductNotFound {
		t.Fatalf("Expected ErrProductNotFound, got %v", err)
	}
}

func TestCreateDuplicateProduct(t *testing.T) {
	productRepo := NewProductRepository([]domain.Product{{ID: "1"}})

	err := productRepo.Create(context.Background(), &domain.Product{ID: "1"})
	if err != ErrProductAlreadyExists {
		t.Fatalf("Expected ErrProductAlreadyExists, got %v", err)
	}
}

func TestListReturnsCopy(t *testing.T) {
	productRepo := NewProductRepository([]domain.Product{{ID: "1", Name: "original"}})

	products, _ := productRepo.List(context.Background())
	products[0].Name = "changed"

	stored, _ := productRepo.FindByID(context.Background(), "1")
	if stored.Name != "original" {
		t.Errorf("List must not expose internal storage, got name %q", stored.Name)
	}
}

func TestCanceledContext(t *testing.T) {
	productRepo := NewProductRepository(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := productRepo.List(ctx); err == nil {
		t.Error("Expected error for canceled context")
	}
}

func TestSeedProductsIsDeterministic(t *testing.T) {
	now := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	first := SeedProducts(100, 42, now)
	second := SeedProducts(100, 42, now)

	if len(first) != 100 {
		t.Fatalf("Expected 100 products, got %d", len(first))
	}

	ids := make(map[string]bool)
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("Seed output differs at %d", i)
		}
		p := first[i]
		if ids[p.ID] {
			t.Errorf("Duplicate id %s", p.ID)
		}
		ids[p.ID] = true
		if p.Price < 10 || p.Price > 1000 {
			t.Errorf("Price out of range: %f", p.Price)
		}
		if p.Stock < 0 || p.Stock >= 100 {
			t.Errorf("Stock out of range: %d", p.Stock)
		}
		if p.CreatedAt.After(now) || p.CreatedAt.Before(now.AddDate(0, 0, -30)) {
			t.Errorf("CreatedAt out of range: %s", p.CreatedAt)
		}
	}
}

func TestSeedProductsNegativeCount(t *testing.T) {
	products := SeedProducts(-1, 1, time.Now())

	if products == nil || len(products) != 0 {
		t.Errorf("Expected an empty catalog, got %v", products)
	}
}
