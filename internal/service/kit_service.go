package service

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/model"
	"storefront/internal/repository"
)

type KitItemPayload struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity"`
}

type SaveKitRequest struct {
	Name      string           `json:"name" binding:"required"`
	PaperType *string          `json:"paper_type"`
	Items     []KitItemPayload `json:"items" binding:"required"`
}

type KitService interface {
	Create(ctx context.Context, req SaveKitRequest) (*model.Kit, error)
	Update(ctx context.Context, id uint, req SaveKitRequest) (*model.Kit, error)
	Delete(ctx context.Context, id uint) error
	GetByID(ctx context.Context, id uint) (*model.Kit, error)
	List(ctx context.Context, page, limit int) ([]model.Kit, int64, error)
}

type kitService struct {
	kitRepo     repository.KitRepository
	productRepo repository.ProductRepository
	txManager   repository.TransactionManager
}

func NewKitService(kitRepo repository.KitRepository, productRepo repository.ProductRepository, txManager repository.TransactionManager) KitService {
	return &kitService{kitRepo: kitRepo, productRepo: productRepo, txManager: txManager}
}

// normalizeItems validates the payload and checks each referenced product
// exists. Quantities below 1 are raised to 1.
func (s *kitService) normalizeItems(ctx context.Context, payloads []KitItemPayload) ([]model.KitItem, error) {
	if len(payloads) == 0 {
		return nil, errors.New("a kit needs at least one product")
	}

	ids := make([]uint, 0, len(payloads))
	items := make([]model.KitItem, 0, len(payloads))
	for _, p := range payloads {
		qty := p.Quantity
		if qty < 1 {
			qty = 1
		}
		ids = append(ids, p.ProductID)
		items = append(items, model.KitItem{ProductID: p.ProductID, Quantity: qty})
	}

	found, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to verify products: %w", err)
	}
	existing := make(map[uint]bool, len(found))
	for _, p := range found {
		existing[p.ID] = true
	}
	for _, id := range ids {
		if !existing[id] {
			return nil, fmt.Errorf("product %d does not exist", id)
		}
	}

	return items, nil
}

func (s *kitService) Create(ctx context.Context, req SaveKitRequest) (*model.Kit, error) {
	items, err := s.normalizeItems(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	kit := &model.Kit{
		Name:      req.Name,
		PaperType: req.PaperType,
		Items:     items,
	}
	if err := s.kitRepo.Create(ctx, kit); err != nil {
		return nil, fmt.Errorf("failed to create kit: %w", err)
	}

	return s.kitRepo.FindByIDWithProducts(ctx, kit.ID)
}

func (s *kitService) Update(ctx context.Context, id uint, req SaveKitRequest) (*model.Kit, error) {
	kit, err := s.kitRepo.FindByIDWithProducts(ctx, id)
	if err != nil {
		return nil, errors.New("kit not found")
	}

	items, err := s.normalizeItems(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	// Replace items wholesale inside one transaction
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		kit.Name = req.Name
		kit.PaperType = req.PaperType
		kit.Items = nil
		if err := s.kitRepo.Save(txCtx, kit); err != nil {
			return err
		}
		return s.kitRepo.ReplaceItems(txCtx, kit.ID, items)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update kit: %w", err)
	}

	return s.kitRepo.FindByIDWithProducts(ctx, id)
}

func (s *kitService) Delete(ctx context.Context, id uint) error {
	if _, err := s.kitRepo.FindByIDWithProducts(ctx, id); err != nil {
		return errors.New("kit not found")
	}
	return s.kitRepo.Delete(ctx, id)
}

func (s *kitService) GetByID(ctx context.Context, id uint) (*model.Kit, error) {
	kit, err := s.kitRepo.FindByIDWithProducts(ctx, id)
	if err != nil {
		return nil, errors.New("kit not found")
	}
	return kit, nil
}

func (s *kitService) List(ctx context.Context, page, limit int) ([]model.Kit, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	return s.kitRepo.List(ctx, page, limit)
}
