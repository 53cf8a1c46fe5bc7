package model

import "github.com/shopspring/decimal"

// 金額カラムは numeric(12,2)
const MoneyScale = 2

// numeric(12,2) に入らない最小の値（10^10）
var MaxMoney = decimal.New(1, 10)

// 小数点以下が2桁以内か
func HasMoneyScale(d decimal.Decimal) bool {
	return d.Equal(d.Round(MoneyScale))
}

// numeric(12,2) に収まるか
func FitsMoney(d decimal.Decimal) bool {
	return d.Abs().LessThan(MaxMoney)
}
