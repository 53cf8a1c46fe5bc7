package validator

import (
	"encoding/json"
	"errors"
	"io"
	"strconv"
	"strings"

	"gamestore/internal/domain/model"
	"gamestore/internal/usecase"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type saleItemBody struct {
	ProductID string      `json:"productId"`
	Quantity  json.Number `json:"quantity"`
	Price     json.Number `json:"price"`
}

type createSaleBody struct {
	Items         []saleItemBody `json:"items"`
	PaymentMethod string         `json:"paymentMethod"`
}

// ParseCreateSale は POST /sales のbodyを読み、型付きの入力に変換する。
// totalなど知らない項目は無視する（合計はサーバーで計算する）。
func ParseCreateSale(r io.Reader) (usecase.CreateSaleInput, error) {
	var body createSaleBody
	if err := decode(r, &body); err != nil {
		return usecase.CreateSaleInput{}, err
	}

	if len(body.Items) == 0 {
		return usecase.CreateSaleInput{}, usecase.NewValidationError("items required")
	}

	pm := strings.TrimSpace(body.PaymentMethod)
	if pm == "" {
		return usecase.CreateSaleInput{}, usecase.NewValidationError("paymentMethod required")
	}

	in := usecase.CreateSaleInput{
		Items:         make([]usecase.SaleItemInput, 0, len(body.Items)),
		PaymentMethod: model.PaymentMethod(pm),
	}
	if !in.PaymentMethod.Valid() {
		return usecase.CreateSaleInput{}, usecase.NewValidationError("invalid paymentMethod %q", pm)
	}

	for i, it := range body.Items {
		productID := strings.TrimSpace(it.ProductID)
		if productID == "" {
			return usecase.CreateSaleInput{}, usecase.NewValidationError("items[%d].productId required", i)
		}
		//idカラムはuuid型。読めないIDの商品は存在しない
		if _, err := uuid.Parse(productID); err != nil {
			return usecase.CreateSaleInput{}, &usecase.NotFoundError{Resource: "product", ID: productID}
		}

		qty, err := parseQuantity(it.Quantity)
		if err != nil {
			return usecase.CreateSaleInput{}, usecase.NewValidationError("items[%d].%s", i, err.Error())
		}

		price, err := parsePrice(it.Price)
		if err != nil {
			return usecase.CreateSaleInput{}, usecase.NewValidationError("items[%d].%s", i, err.Error())
		}

		in.Items = append(in.Items, usecase.SaleItemInput{
			ProductID: productID,
			Quantity:  qty,
			Price:     price,
		})
	}

	return in, nil
}

func decode(r io.Reader, dst any) error {
	if r == nil {
		return usecase.NewValidationError("invalid json")
	}
	if err := json.NewDecoder(r).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return usecase.NewValidationError("request body required")
		}
		return usecase.NewValidationError("invalid json")
	}
	return nil
}

// 整数かつ1以上
func parseQuantity(n json.Number) (int64, error) {
	if n == "" {
		return 0, errors.New("quantity required")
	}
	q, err := strconv.ParseInt(n.String(), 10, 64)
	if err != nil {
		return 0, errors.New("quantity must be an integer")
	}
	if q <= 0 {
		return 0, errors.New("quantity must be > 0")
	}
	return q, nil
}

// 0以上、小数2桁まで、numeric(12,2) に入る10進数
func parsePrice(n json.Number) (decimal.Decimal, error) {
	if n == "" {
		return decimal.Zero, errors.New("price required")
	}
	p, err := decimal.NewFromString(n.String())
	if err != nil {
		return decimal.Zero, errors.New("price must be a number")
	}
	if p.IsNegative() {
		return decimal.Zero, errors.New("price must be >= 0")
	}
	if !model.HasMoneyScale(p) {
		return decimal.Zero, errors.New("price must have at most 2 decimal places")
	}
	if !model.FitsMoney(p) {
		return decimal.Zero, errors.New("price must be < " + model.MaxMoney.String())
	}
	return p, nil
}
