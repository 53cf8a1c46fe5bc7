package repository

import (
	"context"
	"errors"

	"gamestore/internal/domain/model"
	repo "gamestore/internal/repository"

	"gorm.io/gorm"
)

type ProductGormRepository struct {
	db *gorm.DB
}

// DI
func NewProductGormRepository(db *gorm.DB) *ProductGormRepository {
	return &ProductGormRepository{db: db}
}

// 公開（is_active=true）の商品を新しい順に返す
func (r *ProductGormRepository) ListActive(ctx context.Context, limit int) ([]model.Product, error) {
	var products []model.Product

	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at desc").
		Order("id desc").
		Limit(limit).
		Find(&products).Error; err != nil {
		return []model.Product{}, err
	}
	return products, nil
}

// IDで商品を取得
func (r *ProductGormRepository) FindByID(ctx context.Context, id string) (model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Product{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Product{}, err
	}
	return p, nil
}

// 商品の作成
func (r *ProductGormRepository) Create(ctx context.Context, p model.Product) (model.Product, error) {
	if err := r.db.WithContext(ctx).Create(&p).Error; err != nil {
		return model.Product{}, err
	}
	return p, nil
}

// 商品の更新
func (r *ProductGormRepository) Update(ctx context.Context, p model.Product) error {
	res := r.db.WithContext(ctx).Model(&model.Product{}).Where("id = ?", p.ID).Updates(map[string]interface{}{
		"name":        p.Name,
		"description": p.Description,
		"price":       p.Price,
		"stock":       p.Stock,
		"category":    p.Category,
		"image":       p.Image,
		"is_active":   p.IsActive,
		"updated_at":  p.UpdatedAt,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 商品削除（論理）
func (r *ProductGormRepository) Deactivate(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("id = ?", id).
		Update("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 在庫の集計（公開中の商品だけ）
func (r *ProductGormRepository) Stats(ctx context.Context, lowStockThreshold int64) (repo.InventoryStats, error) {
	var st repo.InventoryStats

	active := r.db.WithContext(ctx).Model(&model.Product{}).Where("is_active = ?", true)

	if err := active.Session(&gorm.Session{}).Count(&st.TotalProducts).Error; err != nil {
		return repo.InventoryStats{}, err
	}

	if err := active.Session(&gorm.Session{}).
		Where("stock < ?", lowStockThreshold).
		Count(&st.LowStockProducts).Error; err != nil {
		return repo.InventoryStats{}, err
	}

	if err := active.Session(&gorm.Session{}).
		Select("COALESCE(SUM(stock), 0)::bigint").
		Row().Scan(&st.TotalStock); err != nil {
		return repo.InventoryStats{}, err
	}

	//カテゴリ別
	if err := active.Session(&gorm.Session{}).
		Select("category, COUNT(id) AS products, COALESCE(SUM(stock), 0)::bigint AS total_stock").
		Group("category").
		Order("category asc").
		Scan(&st.Categories).Error; err != nil {
		return repo.InventoryStats{}, err
	}

	return st, nil
}
