package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"gamestore/internal/domain/model"
	repo "gamestore/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// 一覧は固定件数（新しい順）
const saleListLimit = 50

// ダッシュボードの直近売上件数
const recentSalesLimit = 5

// 読んだ在庫がコミット前に他の売上で変わっていた
var ErrStaleStock = errors.New("stock changed since it was read")

type SaleOptions struct {
	// trueなら送られてきた単価が商品価格と違う明細を弾く
	StrictPriceCheck bool
}

type SaleUsecase struct {
	tx        repo.TransactionManager
	products  repo.ProductRepository
	sales     repo.SaleRepository
	publisher SaleEventPublisher
	ids       IDGenerator
	clock     Clock
	logger    *zap.Logger
	opts      SaleOptions
}

func NewSaleUsecase(
	tx repo.TransactionManager,
	products repo.ProductRepository,
	sales repo.SaleRepository,
	publisher SaleEventPublisher,
	ids IDGenerator,
	clock Clock,
	logger *zap.Logger,
	opts SaleOptions,
) *SaleUsecase {
	if publisher == nil {
		publisher = NopSaleEventPublisher{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SaleUsecase{
		tx:        tx,
		products:  products,
		sales:     sales,
		publisher: publisher,
		ids:       ids,
		clock:     clock,
		logger:    logger,
		opts:      opts,
	}
}

type SaleItemInput struct {
	ProductID string
	Quantity  int64
	Price     decimal.Decimal
}

type CreateSaleInput struct {
	Items         []SaleItemInput
	PaymentMethod model.PaymentMethod
}

type ProductSummary struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

type UserSummary struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type SaleItemOutput struct {
	ID        string          `json:"id"`
	ProductID string          `json:"productId"`
	Quantity  int64           `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Product   *ProductSummary `json:"product,omitempty"`
}

type SaleOutput struct {
	ID            string           `json:"id"`
	Total         decimal.Decimal  `json:"total"`
	PaymentMethod string           `json:"paymentMethod"`
	UserID        string           `json:"userId"`
	CreatedAt     time.Time        `json:"createdAt"`
	Items         []SaleItemOutput `json:"items"`
	User          *UserSummary     `json:"user,omitempty"`
}

// 在庫の書き換え予定（同じ商品の明細はまとめる）
type stockDecrement struct {
	productID   string
	productName string
	expected    int64
	newStock    int64
}

func (d stockDecrement) quantity() int64 {
	return d.expected - d.newStock
}

type salePlan struct {
	items      []model.SaleItem
	decrements []*stockDecrement
	total      decimal.Decimal
}

// CreateSale は在庫確認 → 売上+明細の保存 → 在庫減算 を1つのトランザクションで行う。
// 失敗したときは何も残らない。リトライはしない。
func (u *SaleUsecase) CreateSale(ctx context.Context, actor Actor, in CreateSaleInput) (SaleOutput, error) {
	if strings.TrimSpace(actor.UserID) == "" {
		return SaleOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := validateCreateSale(in); err != nil {
		return SaleOutput{}, err
	}

	plan, err := u.buildPlan(ctx, in)
	if err != nil {
		return SaleOutput{}, err
	}

	sale := model.Sale{
		ID:            u.ids.NewID(),
		Total:         plan.total,
		PaymentMethod: in.PaymentMethod,
		UserID:        actor.UserID,
		CreatedAt:     u.clock.Now(),
	}
	for i := range plan.items {
		plan.items[i].SaleID = sale.ID
	}
	sale.Items = plan.items

	var created model.Sale

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := r.Sales().Create(ctx, sale); err != nil {
			return err
		}

		// 読んだ時点の在庫が変わっていない行だけ更新する
		for _, d := range plan.decrements {
			ok, err := r.Inventory().SetStockIfUnchanged(ctx, d.productID, d.expected, d.newStock)
			if err != nil {
				return err
			}
			if !ok {
				return staleStockError(ctx, r, d)
			}
		}

		s, err := r.Sales().FindByID(ctx, sale.ID)
		if err != nil {
			return err
		}
		created = s
		return nil
	})
	if err != nil {
		return SaleOutput{}, u.classifyTxError(err, actor, sale.ID)
	}

	u.logger.Info("sale created",
		zap.String("sale_id", created.ID),
		zap.String("user_id", actor.UserID),
		zap.String("total", created.Total.StringFixed(2)),
		zap.String("payment_method", string(created.PaymentMethod)),
		zap.Int("items", len(created.Items)),
	)

	// コミット済みなので、発行失敗はログだけ
	if err := u.publisher.PublishSaleCreated(ctx, model.NewSaleCreatedEvent(created)); err != nil {
		u.logger.Error("failed to publish sale event", zap.String("sale_id", created.ID), zap.Error(err))
	}

	return toSaleOutput(created), nil
}

func validateCreateSale(in CreateSaleInput) error {
	if len(in.Items) == 0 {
		return NewValidationError("items required")
	}
	if strings.TrimSpace(string(in.PaymentMethod)) == "" {
		return NewValidationError("paymentMethod required")
	}
	if !in.PaymentMethod.Valid() {
		return NewValidationError("invalid paymentMethod %q", in.PaymentMethod)
	}
	for i, it := range in.Items {
		if strings.TrimSpace(it.ProductID) == "" {
			return NewValidationError("items[%d].productId required", i)
		}
		if it.Quantity <= 0 {
			return NewValidationError("items[%d].quantity must be > 0", i)
		}
		if it.Price.IsNegative() {
			return NewValidationError("items[%d].price must be >= 0", i)
		}
		if !model.HasMoneyScale(it.Price) {
			return NewValidationError("items[%d].price must have at most 2 decimal places", i)
		}
		if !model.FitsMoney(it.Price) {
			return NewValidationError("items[%d].price must be < %s", i, model.MaxMoney.String())
		}
	}
	return nil
}

// 明細順に商品を読み、在庫・合計・減算予定を確定する（まだ何も書かない）
func (u *SaleUsecase) buildPlan(ctx context.Context, in CreateSaleInput) (salePlan, error) {
	plan := salePlan{
		items: make([]model.SaleItem, 0, len(in.Items)),
		total: decimal.Zero,
	}
	byProduct := make(map[string]*stockDecrement, len(in.Items))

	for i, it := range in.Items {
		productID, ok := canonicalID(it.ProductID)
		if !ok {
			return salePlan{}, &NotFoundError{Resource: "product", ID: it.ProductID}
		}

		d, seen := byProduct[productID]
		if !seen {
			p, err := u.products.FindByID(ctx, productID)
			if errors.Is(err, repo.ErrNotFound) {
				return salePlan{}, &NotFoundError{Resource: "product", ID: it.ProductID}
			}
			if err != nil {
				u.logger.Error("failed to read product", zap.String("product_id", productID), zap.Error(err))
				return salePlan{}, &TransactionFailure{Err: err}
			}
			//削除済み（is_active=false）は存在しない扱い
			if !p.IsActive {
				return salePlan{}, &NotFoundError{Resource: "product", ID: it.ProductID}
			}

			if !it.Price.Equal(p.Price) {
				if u.opts.StrictPriceCheck {
					return salePlan{}, NewValidationError("items[%d].price does not match current price of %s", i, p.Name)
				}
				u.logger.Warn("submitted price differs from catalog price",
					zap.String("product_id", p.ID),
					zap.String("submitted", it.Price.String()),
					zap.String("catalog", p.Price.String()),
				)
			}

			d = &stockDecrement{
				productID:   p.ID,
				productName: p.Name,
				expected:    p.Stock,
				newStock:    p.Stock,
			}
			byProduct[productID] = d
			plan.decrements = append(plan.decrements, d)
		}

		if it.Quantity > d.newStock {
			return salePlan{}, &InsufficientStockError{
				ProductID:   d.productID,
				ProductName: d.productName,
				Available:   d.newStock,
				Requested:   it.Quantity,
			}
		}
		d.newStock -= it.Quantity

		subtotal := model.LineSubtotal(it.Price, it.Quantity)
		if !model.FitsMoney(subtotal) {
			return salePlan{}, NewValidationError("items[%d] subtotal exceeds %s", i, model.MaxMoney.String())
		}
		plan.total = plan.total.Add(subtotal)
		if !model.FitsMoney(plan.total) {
			return salePlan{}, NewValidationError("total exceeds %s", model.MaxMoney.String())
		}
		plan.items = append(plan.items, model.SaleItem{
			ID:        u.ids.NewID(),
			ProductID: productID,
			Quantity:  it.Quantity,
			Price:     it.Price,
			Subtotal:  subtotal,
		})
	}

	return plan, nil
}

// 条件付き更新が0件だったときに、いまの在庫を読み直して理由を決める
func staleStockError(ctx context.Context, r repo.TxRepos, d *stockDecrement) error {
	current, err := r.Products().FindByID(ctx, d.productID)
	if errors.Is(err, repo.ErrNotFound) {
		return &NotFoundError{Resource: "product", ID: d.productID}
	}
	if err != nil {
		return err
	}
	if !current.IsActive {
		return &NotFoundError{Resource: "product", ID: d.productID}
	}
	if current.Stock < d.quantity() {
		return &InsufficientStockError{
			ProductID:   d.productID,
			ProductName: current.Name,
			Available:   current.Stock,
			Requested:   d.quantity(),
		}
	}
	return &TransactionFailure{Err: ErrStaleStock}
}

// 業務エラーはそのまま、それ以外はTransactionFailureにまとめる
func (u *SaleUsecase) classifyTxError(err error, actor Actor, saleID string) error {
	var (
		ve *ValidationError
		ne *NotFoundError
		ie *InsufficientStockError
		tf *TransactionFailure
	)
	switch {
	case errors.As(err, &ve), errors.As(err, &ne), errors.As(err, &ie):
		return err
	case errors.As(err, &tf):
		u.logger.Warn("sale transaction rolled back", zap.String("sale_id", saleID), zap.String("user_id", actor.UserID), zap.Error(err))
		return tf
	}

	fields := []zap.Field{zap.String("sale_id", saleID), zap.String("user_id", actor.UserID), zap.Error(err)}
	var se *repo.StorageError
	if errors.As(err, &se) {
		fields = append(fields, zap.String("sqlstate", se.Code), zap.Bool("retryable", se.Retryable))
	}
	u.logger.Error("sale transaction failed", fields...)
	return &TransactionFailure{Err: err}
}

func (u *SaleUsecase) ListMySales(ctx context.Context, actor Actor) ([]SaleOutput, error) {
	if strings.TrimSpace(actor.UserID) == "" {
		return []SaleOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	return u.list(ctx, actor.UserID)
}

func (u *SaleUsecase) ListAllSales(ctx context.Context, actor Actor) ([]SaleOutput, error) {
	if !actor.Role.IsStaff() {
		return []SaleOutput{}, NewHTTPError(http.StatusForbidden, "forbidden")
	}
	return u.list(ctx, "")
}

func (u *SaleUsecase) list(ctx context.Context, userID string) ([]SaleOutput, error) {
	sales, err := u.sales.List(ctx, userID, saleListLimit)
	if err != nil {
		u.logger.Error("failed to list sales", zap.String("user_id", userID), zap.Error(err))
		return []SaleOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	outs := make([]SaleOutput, 0, len(sales))
	for _, s := range sales {
		outs = append(outs, toSaleOutput(s))
	}
	return outs, nil
}

func (u *SaleUsecase) GetSale(ctx context.Context, actor Actor, saleID string) (SaleOutput, error) {
	if strings.TrimSpace(actor.UserID) == "" {
		return SaleOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if strings.TrimSpace(saleID) == "" {
		return SaleOutput{}, NewValidationError("invalid sale id")
	}
	id, ok := canonicalID(saleID)
	if !ok {
		return SaleOutput{}, &NotFoundError{Resource: "sale", ID: saleID}
	}

	s, err := u.sales.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return SaleOutput{}, &NotFoundError{Resource: "sale", ID: saleID}
	}
	if err != nil {
		u.logger.Error("failed to read sale", zap.String("sale_id", saleID), zap.Error(err))
		return SaleOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//他人の売上は「存在しない扱い」にする
	if s.UserID != actor.UserID && !actor.Role.IsStaff() {
		return SaleOutput{}, &NotFoundError{Resource: "sale", ID: saleID}
	}
	return toSaleOutput(s), nil
}

type SalesStatsOutput struct {
	TotalSales           int64                    `json:"totalSales"`
	TotalRevenue         decimal.Decimal          `json:"totalRevenue"`
	SalesByPaymentMethod []repo.PaymentMethodStat `json:"salesByPaymentMethod"`
	RecentSales          []SaleOutput             `json:"recentSales"`
	GeneratedAt          time.Time                `json:"generatedAt"`
}

func (u *SaleUsecase) SalesStats(ctx context.Context, actor Actor) (SalesStatsOutput, error) {
	if !actor.Role.IsStaff() {
		return SalesStatsOutput{}, NewHTTPError(http.StatusForbidden, "forbidden")
	}

	st, err := u.sales.Stats(ctx, recentSalesLimit)
	if err != nil {
		u.logger.Error("failed to aggregate sales", zap.Error(err))
		return SalesStatsOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	recent := make([]SaleOutput, 0, len(st.RecentSales))
	for _, s := range st.RecentSales {
		recent = append(recent, toSaleOutput(s))
	}

	return SalesStatsOutput{
		TotalSales:           st.TotalSales,
		TotalRevenue:         st.TotalRevenue,
		SalesByPaymentMethod: st.SalesByPaymentMethod,
		RecentSales:          recent,
		GeneratedAt:          u.clock.Now(),
	}, nil
}

func toSaleOutput(s model.Sale) SaleOutput {
	items := make([]SaleItemOutput, 0, len(s.Items))
	for _, it := range s.Items {
		out := SaleItemOutput{
			ID:        it.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.Price,
			Subtotal:  it.Subtotal,
		}
		if it.Product != nil {
			out.Product = &ProductSummary{Name: it.Product.Name, Category: it.Product.Category}
		}
		items = append(items, out)
	}

	out := SaleOutput{
		ID:            s.ID,
		Total:         s.Total,
		PaymentMethod: string(s.PaymentMethod),
		UserID:        s.UserID,
		CreatedAt:     s.CreatedAt,
		Items:         items,
	}
	if s.User != nil {
		out.User = &UserSummary{Name: s.User.Name, Email: s.User.Email}
	}
	return out
}
