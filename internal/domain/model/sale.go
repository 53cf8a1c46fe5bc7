package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "CASH"
	PaymentMethodCard     PaymentMethod = "CARD"
	PaymentMethodTransfer PaymentMethod = "TRANSFER"
	PaymentMethodCrypto   PaymentMethod = "CRYPTO"
)

// 受け付ける支払い方法か
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodTransfer, PaymentMethodCrypto:
		return true
	}
	return false
}

// 売上。作成後は更新しない（追記のみ）
type Sale struct {
	ID            string          `gorm:"type:uuid;primaryKey" json:"id"`
	Total         decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total"`
	PaymentMethod PaymentMethod   `gorm:"type:varchar(20);not null;index" json:"paymentMethod"`
	UserID        string          `gorm:"type:uuid;not null;index" json:"userId"`
	CreatedAt     time.Time       `gorm:"not null;autoCreateTime;index" json:"createdAt"`

	Items []SaleItem `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE" json:"items"`
	User  *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
