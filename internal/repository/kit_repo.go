package repository

import (
	"context"

	"storefront/internal/model"

	"gorm.io/gorm"
)

type KitRepository interface {
	Create(ctx context.Context, kit *model.Kit) error
	Save(ctx context.Context, kit *model.Kit) error
	FindByIDWithProducts(ctx context.Context, id uint) (*model.Kit, error)
	List(ctx context.Context, page, limit int) ([]model.Kit, int64, error)
	ReplaceItems(ctx context.Context, kitID uint, items []model.KitItem) error
	Delete(ctx context.Context, id uint) error
}

type kitRepository struct {
	db *gorm.DB
}

func NewKitRepository(db *gorm.DB) KitRepository {
	return &kitRepository{db: db}
}

func (r *kitRepository) Create(ctx context.Context, kit *model.Kit) error {
	return GetDB(ctx, r.db).Create(kit).Error
}

func (r *kitRepository) Save(ctx context.Context, kit *model.Kit) error {
	return GetDB(ctx, r.db).Save(kit).Error
}

func (r *kitRepository) FindByIDWithProducts(ctx context.Context, id uint) (*model.Kit, error) {
	var kit model.Kit
	if err := GetDB(ctx, r.db).
		Preload("Items").
		Preload("Items.Product").
		First(&kit, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &kit, nil
}

func (r *kitRepository) List(ctx context.Context, page, limit int) ([]model.Kit, int64, error) {
	var kits []model.Kit
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.Kit{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.
		Preload("Items").
		Preload("Items.Product").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&kits).Error; err != nil {
		return nil, 0, err
	}

	return kits, total, nil
}

// ReplaceItems removes every item attached to the kit and inserts the new set.
func (r *kitRepository) ReplaceItems(ctx context.Context, kitID uint, items []model.KitItem) error {
	db := GetDB(ctx, r.db)
	if err := db.Where("kit_id = ?", kitID).Delete(&model.KitItem{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].KitID = kitID
	}
	return db.Create(&items).Error
}

func (r *kitRepository) Delete(ctx context.Context, id uint) error {
	db := GetDB(ctx, r.db)
	if err := db.Where("kit_id = ?", id).Delete(&model.KitItem{}).Error; err != nil {
		return err
	}
	return db.Where("id = ?", id).Delete(&model.Kit{}).Error
}
