package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"gamestore/internal/domain/model"
	repo "gamestore/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// 公開一覧の最大件数
const productListLimit = 100

// これ未満は在庫少
const lowStockThreshold = 10

type ProductUsecase struct {
	productRepo repo.ProductRepository
	tx          repo.TransactionManager
	ids         IDGenerator
	clock       Clock
	logger      *zap.Logger
}

// DI
func NewProductUsecase(
	productRepo repo.ProductRepository,
	tx repo.TransactionManager,
	ids IDGenerator,
	clock Clock,
	logger *zap.Logger,
) *ProductUsecase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductUsecase{
		productRepo: productRepo,
		tx:          tx,
		ids:         ids,
		clock:       clock,
		logger:      logger,
	}
}

type ProductListOutput struct {
	Items []model.Product `json:"items"`
	Total int             `json:"total"`
}

func (u *ProductUsecase) ListPublicProducts(ctx context.Context) (ProductListOutput, error) {
	items, err := u.productRepo.ListActive(ctx, productListLimit)
	if err != nil {
		u.logger.Error("failed to list products", zap.Error(err))
		return ProductListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return ProductListOutput{Items: items, Total: len(items)}, nil
}

func (u *ProductUsecase) GetProductDetail(ctx context.Context, productID string) (model.Product, error) {
	if strings.TrimSpace(productID) == "" {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	id, ok := canonicalID(productID)
	if !ok {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "not found")
	}

	p, err := u.productRepo.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if !p.IsActive {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	return p, nil
}

func (u *ProductUsecase) InventoryStats(ctx context.Context) (repo.InventoryStats, error) {
	st, err := u.productRepo.Stats(ctx, lowStockThreshold)
	if err != nil {
		u.logger.Error("failed to aggregate inventory", zap.Error(err))
		return repo.InventoryStats{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if st.Categories == nil {
		st.Categories = []repo.CategoryStat{}
	}
	return st, nil
}

type AdminProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int64
	Category    string
	Image       *string
	IsActive    *bool
}

func validateProductInput(in AdminProductInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return NewHTTPError(http.StatusBadRequest, "name required")
	}
	if strings.TrimSpace(in.Category) == "" {
		return NewHTTPError(http.StatusBadRequest, "category required")
	}
	if in.Price.IsNegative() {
		return NewHTTPError(http.StatusBadRequest, "price must be >= 0")
	}
	if !model.HasMoneyScale(in.Price) {
		return NewHTTPError(http.StatusBadRequest, "price must have at most 2 decimal places")
	}
	if !model.FitsMoney(in.Price) {
		return NewHTTPError(http.StatusBadRequest, "price must be < "+model.MaxMoney.String())
	}
	if in.Stock < 0 {
		return NewHTTPError(http.StatusBadRequest, "stock must be >= 0")
	}
	return nil
}

// 部分更新。nilの項目は現在値のまま
type AdminProductPatch struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Stock       *int64
	Category    *string
	Image       *string
	IsActive    *bool
}

func (pt AdminProductPatch) applyTo(current model.Product) AdminProductInput {
	in := AdminProductInput{
		Name:        current.Name,
		Description: current.Description,
		Price:       current.Price,
		Stock:       current.Stock,
		Category:    current.Category,
		Image:       current.Image,
		IsActive:    pt.IsActive,
	}
	if pt.Name != nil {
		in.Name = *pt.Name
	}
	if pt.Description != nil {
		in.Description = *pt.Description
	}
	if pt.Price != nil {
		in.Price = *pt.Price
	}
	if pt.Stock != nil {
		in.Stock = *pt.Stock
	}
	if pt.Category != nil {
		in.Category = *pt.Category
	}
	//空文字は画像を外す
	if pt.Image != nil {
		in.Image = pt.Image
		if *pt.Image == "" {
			in.Image = nil
		}
	}
	return in
}

func (u *ProductUsecase) AdminCreateProduct(ctx context.Context, actor Actor, in AdminProductInput) (model.Product, error) {
	if strings.TrimSpace(actor.UserID) == "" {
		return model.Product{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := validateProductInput(in); err != nil {
		return model.Product{}, err
	}

	isActive := true
	if in.IsActive != nil {
		isActive = *in.IsActive
	}

	now := u.clock.Now()
	p, err := u.productRepo.Create(ctx, model.Product{
		ID:          u.ids.NewID(),
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		Category:    strings.TrimSpace(in.Category),
		Image:       in.Image,
		IsActive:    isActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		u.logger.Error("failed to create product", zap.Error(err))
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.logger.Info("product created", zap.String("product_id", p.ID), zap.String("actor", actor.UserID))
	return p, nil
}

func (u *ProductUsecase) AdminUpdateProduct(ctx context.Context, actor Actor, productID string, patch AdminProductPatch) (model.Product, error) {
	if strings.TrimSpace(actor.UserID) == "" {
		return model.Product{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if strings.TrimSpace(productID) == "" {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	id, ok := canonicalID(productID)
	if !ok {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "not found")
	}

	current, err := u.productRepo.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	in := patch.applyTo(current)
	if err := validateProductInput(in); err != nil {
		return model.Product{}, err
	}

	//is_activeは指定されたときだけ変える
	isActive := current.IsActive
	if in.IsActive != nil {
		isActive = *in.IsActive
	}

	updated := model.Product{
		ID:          id,
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		Category:    strings.TrimSpace(in.Category),
		Image:       in.Image,
		IsActive:    isActive,
		CreatedAt:   current.CreatedAt,
		UpdatedAt:   u.clock.Now(),
	}

	err = u.productRepo.Update(ctx, updated)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		u.logger.Error("failed to update product", zap.String("product_id", id), zap.Error(err))
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return updated, nil
}

// 論理削除（is_active=false）
func (u *ProductUsecase) AdminDeleteProduct(ctx context.Context, actor Actor, productID string) error {
	if strings.TrimSpace(actor.UserID) == "" {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if strings.TrimSpace(productID) == "" {
		return NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	productID, ok := canonicalID(productID)
	if !ok {
		return NewHTTPError(http.StatusNotFound, "not found")
	}

	err := u.productRepo.Deactivate(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		u.logger.Error("failed to deactivate product", zap.String("product_id", productID), zap.Error(err))
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.logger.Info("product deactivated", zap.String("product_id", productID), zap.String("actor", actor.UserID))
	return nil
}

// 在庫の現在値を更新し、調整履歴も同じTxで残す
func (u *ProductUsecase) AdminUpdateInventory(ctx context.Context, actor Actor, productID string, newStock int64, reason string) error {
	if strings.TrimSpace(actor.UserID) == "" {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if strings.TrimSpace(productID) == "" {
		return NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	if newStock < 0 {
		return NewHTTPError(http.StatusBadRequest, "stock must be >= 0")
	}
	if strings.TrimSpace(reason) == "" {
		return NewHTTPError(http.StatusBadRequest, "reason required")
	}
	productID, ok := canonicalID(productID)
	if !ok {
		return NewHTTPError(http.StatusNotFound, "not found")
	}

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//変更前の在庫（before）
		p, err := r.Products().FindByID(ctx, productID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := r.Inventory().SetStock(ctx, productID, newStock); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusNotFound, "not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//履歴を作成（差分）
		if err := r.Inventory().CreateAdjustment(ctx, model.InventoryAdjustment{
			ProductID:   productID,
			ActorUserID: actor.UserID,
			Delta:       newStock - p.Stock,
			Reason:      strings.TrimSpace(reason),
			CreatedAt:   u.clock.Now(),
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
	if err != nil {
		if _, ok := AsHTTPError(err); ok {
			return err
		}
		u.logger.Error("inventory update failed", zap.String("product_id", productID), zap.Error(err))
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.logger.Info("stock updated",
		zap.String("product_id", productID),
		zap.Int64("stock", newStock),
		zap.String("actor", actor.UserID),
	)
	return nil
}
