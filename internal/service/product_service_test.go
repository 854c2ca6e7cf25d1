package service

import (
	"context"
	"testing"

	"storefront/internal/model"

	"github.com/shopspring/decimal"
)

func newProductFixture() (ProductService, *stubProductRepo) {
	repo := &stubProductRepo{products: map[uint]*model.Product{
		1: {ID: 1, Name: "Cuaderno", Description: "Rayado", Price: decimal.NewFromInt(10), Stock: 5},
	}}
	return NewProductService(repo), repo
}

func TestProductCreateValidation(t *testing.T) {
	svc, _ := newProductFixture()

	if _, err := svc.Create(context.Background(), CreateProductRequest{Name: "X", Price: -1}); err == nil {
		t.Error("expected negative price to be rejected")
	}
	if _, err := svc.Create(context.Background(), CreateProductRequest{Name: "X", Price: 1, Stock: -2}); err == nil {
		t.Error("expected negative stock to be rejected")
	}
}

func TestProductUpdatePartial(t *testing.T) {
	svc, _ := newProductFixture()

	price := 12.5
	product, err := svc.Update(context.Background(), 1, UpdateProductRequest{Price: &price})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if !product.Price.Equal(decimal.NewFromFloat(12.5)) {
		t.Errorf("expected price 12.5, got %s", product.Price)
	}
	// Untouched fields keep their values
	if product.Name != "Cuaderno" || product.Stock != 5 {
		t.Errorf("unexpected side effects: %+v", product)
	}
}

func TestProductUpdateValidation(t *testing.T) {
	svc, _ := newProductFixture()

	if _, err := svc.Update(context.Background(), 1, UpdateProductRequest{}); err == nil {
		t.Error("expected empty update to be rejected")
	}

	empty := ""
	if _, err := svc.Update(context.Background(), 1, UpdateProductRequest{Name: &empty}); err == nil {
		t.Error("expected empty name to be rejected")
	}

	name := "Nuevo"
	if _, err := svc.Update(context.Background(), 404, UpdateProductRequest{Name: &name}); err == nil {
		t.Error("expected missing product to be rejected")
	}
}
