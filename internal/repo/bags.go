package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/bag_shop/internal/catalog"
	"github.com/Skotchmaster/bag_shop/internal/models"
)

func (r *GormRepo) ListBags(ctx context.Context, q catalog.Query) (int64, []models.Bag, error) {
	var total int64
	if err := q.Filter(r.DB.WithContext(ctx).Model(&models.Bag{})).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	items := make([]models.Bag, 0, q.Limit)
	if err := q.Page(r.DB.WithContext(ctx).Model(&models.Bag{})).Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (r *GormRepo) GetBag(ctx context.Context, id uuid.UUID) (*models.Bag, error) {
	var bag models.Bag
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&bag).Error; err != nil {
		return nil, err
	}
	return &bag, nil
}

func (r *GormRepo) CreateBag(ctx context.Context, bag *models.Bag) error {
	return r.DB.WithContext(ctx).Create(bag).Error
}

func (r *GormRepo) SaveBag(ctx context.Context, bag *models.Bag) error {
	return r.DB.WithContext(ctx).Save(bag).Error
}

func (r *GormRepo) DeleteBag(ctx context.Context, id uuid.UUID) error {
	res := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.Bag{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
