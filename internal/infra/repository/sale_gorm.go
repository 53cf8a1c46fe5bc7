package repository

import (
	"context"
	"errors"

	"gamestore/internal/domain/model"
	repo "gamestore/internal/repository"

	"gorm.io/gorm"
)

type SaleGormRepository struct {
	db *gorm.DB
}

func NewSaleGormRepository(db *gorm.DB) *SaleGormRepository {
	return &SaleGormRepository{db: db}
}

// 売上と明細をまとめてINSERT
func (r *SaleGormRepository) Create(ctx context.Context, sale model.Sale) error {
	for i := range sale.Items {
		sale.Items[i].SaleID = sale.ID
		sale.Items[i].Line = i
		//商品側は書かない
		sale.Items[i].Product = nil
	}
	sale.User = nil

	if err := r.db.WithContext(ctx).Create(&sale).Error; err != nil {
		return err
	}
	return nil
}

// 表示用に明細の商品名/カテゴリと購入者の名前/メールだけ読む
func withDisplayProjection(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Items", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("line asc")
		}).
		Preload("Items.Product", func(tx *gorm.DB) *gorm.DB {
			return tx.Select("id", "name", "category")
		}).
		Preload("User", func(tx *gorm.DB) *gorm.DB {
			return tx.Select("id", "name", "email")
		})
}

func (r *SaleGormRepository) FindByID(ctx context.Context, saleID string) (model.Sale, error) {
	var s model.Sale
	err := withDisplayProjection(r.db.WithContext(ctx)).
		Where("id = ?", saleID).
		First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Sale{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Sale{}, err
	}
	return s, nil
}

func (r *SaleGormRepository) List(ctx context.Context, userID string, limit int) ([]model.Sale, error) {
	q := withDisplayProjection(r.db.WithContext(ctx))

	//空なら全員分
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}

	var sales []model.Sale
	if err := q.Order("created_at desc").Order("id desc").Limit(limit).Find(&sales).Error; err != nil {
		return []model.Sale{}, err
	}
	return sales, nil
}

func (r *SaleGormRepository) Stats(ctx context.Context, recent int) (repo.SalesStats, error) {
	var st repo.SalesStats

	base := r.db.WithContext(ctx).Model(&model.Sale{})

	if err := base.Session(&gorm.Session{}).Count(&st.TotalSales).Error; err != nil {
		return repo.SalesStats{}, err
	}

	if err := base.Session(&gorm.Session{}).
		Select("COALESCE(SUM(total), 0)").
		Row().Scan(&st.TotalRevenue); err != nil {
		return repo.SalesStats{}, err
	}

	//支払い方法別
	if err := base.Session(&gorm.Session{}).
		Select("payment_method, COUNT(id) AS count, COALESCE(SUM(total), 0) AS total").
		Group("payment_method").
		Order("payment_method asc").
		Scan(&st.SalesByPaymentMethod).Error; err != nil {
		return repo.SalesStats{}, err
	}

	//直近の売上（購入者名つき）
	if err := r.db.WithContext(ctx).
		Preload("User", func(tx *gorm.DB) *gorm.DB {
			return tx.Select("id", "name", "email")
		}).
		Order("created_at desc").
		Limit(recent).
		Find(&st.RecentSales).Error; err != nil {
		return repo.SalesStats{}, err
	}

	if st.SalesByPaymentMethod == nil {
		st.SalesByPaymentMethod = []repo.PaymentMethodStat{}
	}
	return st, nil
}

var _ repo.SaleRepository = (*SaleGormRepository)(nil)
