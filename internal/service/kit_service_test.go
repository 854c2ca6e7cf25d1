package service

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/model"
)

type stubKitRepo struct {
	kits     map[uint]*model.Kit
	nextID   uint
	replaced [][]model.KitItem
}

func newStubKitRepo() *stubKitRepo {
	return &stubKitRepo{kits: make(map[uint]*model.Kit), nextID: 1}
}

func (s *stubKitRepo) Create(ctx context.Context, kit *model.Kit) error {
	kit.ID = s.nextID
	s.nextID++
	s.kits[kit.ID] = kit
	return nil
}

func (s *stubKitRepo) Save(ctx context.Context, kit *model.Kit) error {
	s.kits[kit.ID] = kit
	return nil
}

func (s *stubKitRepo) FindByIDWithProducts(ctx context.Context, id uint) (*model.Kit, error) {
	kit, ok := s.kits[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	return kit, nil
}

func (s *stubKitRepo) List(ctx context.Context, page, limit int) ([]model.Kit, int64, error) {
	out := make([]model.Kit, 0, len(s.kits))
	for _, k := range s.kits {
		out = append(out, *k)
	}
	return out, int64(len(out)), nil
}

func (s *stubKitRepo) ReplaceItems(ctx context.Context, kitID uint, items []model.KitItem) error {
	s.replaced = append(s.replaced, items)
	if kit, ok := s.kits[kitID]; ok {
		kit.Items = items
	}
	return nil
}

func (s *stubKitRepo) Delete(ctx context.Context, id uint) error {
	delete(s.kits, id)
	return nil
}

func newKitFixture() (KitService, *stubKitRepo) {
	kitRepo := newStubKitRepo()
	productRepo := &stubProductRepo{products: map[uint]*model.Product{
		1: {ID: 1, Name: "Cuaderno"},
		2: {ID: 2, Name: "Lápiz"},
	}}
	return NewKitService(kitRepo, productRepo, stubTxManager{}), kitRepo
}

func TestKitCreate(t *testing.T) {
	svc, _ := newKitFixture()

	kit, err := svc.Create(context.Background(), SaveKitRequest{
		Name: "Kit escolar",
		Items: []KitItemPayload{
			{ProductID: 1, Quantity: 2},
			{ProductID: 2, Quantity: 0}, // raised to 1
		},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if len(kit.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(kit.Items))
	}
	if kit.Items[1].Quantity != 1 {
		t.Errorf("expected quantity raised to 1, got %d", kit.Items[1].Quantity)
	}
}

func TestKitCreateValidation(t *testing.T) {
	svc, _ := newKitFixture()

	if _, err := svc.Create(context.Background(), SaveKitRequest{Name: "Vacío"}); err == nil {
		t.Error("expected error for a kit without items")
	}

	_, err := svc.Create(context.Background(), SaveKitRequest{
		Name:  "Fantasma",
		Items: []KitItemPayload{{ProductID: 99, Quantity: 1}},
	})
	if err == nil {
		t.Error("expected error for missing product")
	}
}

func TestKitUpdateReplacesItems(t *testing.T) {
	svc, repo := newKitFixture()

	kit, err := svc.Create(context.Background(), SaveKitRequest{
		Name:  "Kit escolar",
		Items: []KitItemPayload{{ProductID: 1, Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	paper := "couché"
	updated, err := svc.Update(context.Background(), kit.ID, SaveKitRequest{
		Name:      "Kit universitario",
		PaperType: &paper,
		Items:     []KitItemPayload{{ProductID: 2, Quantity: 3}},
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if updated.Name != "Kit universitario" {
		t.Errorf("unexpected name %q", updated.Name)
	}
	if updated.PaperType == nil || *updated.PaperType != "couché" {
		t.Errorf("unexpected paper type %v", updated.PaperType)
	}
	// The old item set is gone, not merged
	if len(repo.replaced) != 1 {
		t.Fatalf("expected one wholesale replacement, got %d", len(repo.replaced))
	}
	if len(updated.Items) != 1 || updated.Items[0].ProductID != 2 {
		t.Errorf("unexpected items after update: %+v", updated.Items)
	}
}

func TestKitUpdateMissing(t *testing.T) {
	svc, _ := newKitFixture()

	_, err := svc.Update(context.Background(), 404, SaveKitRequest{
		Name:  "Nada",
		Items: []KitItemPayload{{ProductID: 1, Quantity: 1}},
	})
	if err == nil {
		t.Error("expected error for missing kit")
	}
}
