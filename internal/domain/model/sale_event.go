package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const SaleCreatedEventType = "sale.created"

type SaleCreatedItem struct {
	ProductID string `json:"productId"`
	Quantity  int64  `json:"quantity"`
}

// 売上確定イベント（コミット後に発行）
type SaleCreatedEvent struct {
	SaleID        string            `json:"saleId"`
	UserID        string            `json:"userId"`
	Total         decimal.Decimal   `json:"total"`
	PaymentMethod PaymentMethod     `json:"paymentMethod"`
	Items         []SaleCreatedItem `json:"items"`
	CreatedAt     time.Time         `json:"createdAt"`
}

func NewSaleCreatedEvent(s Sale) SaleCreatedEvent {
	items := make([]SaleCreatedItem, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, SaleCreatedItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return SaleCreatedEvent{
		SaleID:        s.ID,
		UserID:        s.UserID,
		Total:         s.Total,
		PaymentMethod: s.PaymentMethod,
		Items:         items,
		CreatedAt:     s.CreatedAt,
	}
}
