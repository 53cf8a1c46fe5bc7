package model

import "github.com/shopspring/decimal"

// 売上明細
// priceは購入時点の価格。商品側の価格が後で変わっても変えない。
type SaleItem struct {
	ID        string          `gorm:"type:uuid;primaryKey" json:"id"`
	SaleID    string          `gorm:"type:uuid;not null;index" json:"saleId"`
	Line      int             `gorm:"not null" json:"-"` // リクエストでの明細順
	ProductID string          `gorm:"type:uuid;not null;index" json:"productId"`
	Quantity  int64           `gorm:"not null;check:quantity > 0" json:"quantity"`
	Price     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	Subtotal  decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"subtotal"`

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// 数量×単価
func LineSubtotal(price decimal.Decimal, quantity int64) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(quantity))
}
