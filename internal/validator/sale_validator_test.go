package validator_test

import (
	"strings"
	"testing"

	"gamestore/internal/domain/model"
	"gamestore/internal/usecase"
	"gamestore/internal/validator"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	p1 = "9a1e7f00-0000-4000-8000-000000000001"
	p2 = "9a1e7f00-0000-4000-8000-000000000002"
)

// bodyの "P1" "P2" を実際のUUIDに置き換える
func saleBody(s string) *strings.Reader {
	r := strings.NewReplacer(`"P1"`, `"`+p1+`"`, `"P2"`, `"`+p2+`"`)
	return strings.NewReader(r.Replace(s))
}

func TestParseCreateSale_Success(t *testing.T) {
	body := `{
		"items": [
			{"productId": "P1", "quantity": 3, "price": 10.00},
			{"productId": "P2", "quantity": 1, "price": "2.50"}
		],
		"paymentMethod": "CARD",
		"total": 999
	}`

	in, err := validator.ParseCreateSale(saleBody(body))
	require.NoError(t, err)

	assert.Equal(t, model.PaymentMethodCard, in.PaymentMethod)
	require.Len(t, in.Items, 2)
	assert.Equal(t, p1, in.Items[0].ProductID)
	assert.Equal(t, int64(3), in.Items[0].Quantity)
	assert.True(t, decimal.RequireFromString("10").Equal(in.Items[0].Price))
	assert.True(t, decimal.RequireFromString("2.5").Equal(in.Items[1].Price))
}

// 小数2桁ちょうど、上限ぎりぎりはそのまま通す
func TestParseCreateSale_PriceBounds(t *testing.T) {
	body := `{"items": [{"productId": "P1", "quantity": 1, "price": "9999999999.99"}, {"productId": "P2", "quantity": 1, "price": 0.1}], "paymentMethod": "CASH"}`

	in, err := validator.ParseCreateSale(saleBody(body))
	require.NoError(t, err)
	assert.Equal(t, "9999999999.99", in.Items[0].Price.StringFixed(2))
	assert.Equal(t, "0.10", in.Items[1].Price.StringFixed(2))
}

// 数値に変換できないものはNaNにせずその場で弾く
func TestParseCreateSale_Invalid(t *testing.T) {
	cases := []struct {
		name string
		body string
		msg  string
	}{
		{"empty body", ``, "request body required"},
		{"broken json", `{"items": [`, "invalid json"},
		{"no items", `{"items": [], "paymentMethod": "CASH"}`, "items required"},
		{"no payment method", `{"items": [{"productId": "P1", "quantity": 1, "price": 1}]}`, "paymentMethod required"},
		{"unknown payment method", `{"items": [{"productId": "P1", "quantity": 1, "price": 1}], "paymentMethod": "CHEQUE"}`, "invalid paymentMethod"},
		{"missing product id", `{"items": [{"quantity": 1, "price": 1}], "paymentMethod": "CASH"}`, "items[0].productId required"},
		{"missing quantity", `{"items": [{"productId": "P1", "price": 1}], "paymentMethod": "CASH"}`, "items[0].quantity required"},
		{"fractional quantity", `{"items": [{"productId": "P1", "quantity": 1.5, "price": 1}], "paymentMethod": "CASH"}`, "items[0].quantity must be an integer"},
		{"zero quantity", `{"items": [{"productId": "P1", "quantity": 0, "price": 1}], "paymentMethod": "CASH"}`, "items[0].quantity must be > 0"},
		{"non numeric quantity", `{"items": [{"productId": "P1", "quantity": "abc", "price": 1}], "paymentMethod": "CASH"}`, "invalid json"},
		{"missing price", `{"items": [{"productId": "P1", "quantity": 1}], "paymentMethod": "CASH"}`, "items[0].price required"},
		{"negative price", `{"items": [{"productId": "P1", "quantity": 1, "price": -5}], "paymentMethod": "CASH"}`, "items[0].price must be >= 0"},
		{"price over scale", `{"items": [{"productId": "P1", "quantity": 1, "price": 0.005}], "paymentMethod": "CASH"}`, "items[0].price must have at most 2 decimal places"},
		{"price over scale as string", `{"items": [{"productId": "P1", "quantity": 1, "price": "19.999"}], "paymentMethod": "CASH"}`, "items[0].price must have at most 2 decimal places"},
		{"price too large", `{"items": [{"productId": "P1", "quantity": 1, "price": 10000000000}], "paymentMethod": "CASH"}`, "items[0].price must be < 10000000000"},
		{"second line bad", `{"items": [{"productId": "P1", "quantity": 1, "price": 1}, {"productId": "P2", "quantity": -2, "price": 1}], "paymentMethod": "CASH"}`, "items[1].quantity must be > 0"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := validator.ParseCreateSale(saleBody(tc.body))

			var ve *usecase.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Contains(t, ve.Message, tc.msg)
		})
	}
}

// uuidとして読めない商品IDは「存在しない商品」（404）
func TestParseCreateSale_NonUUIDProductIsNotFound(t *testing.T) {
	cases := []string{"abc", "p-1", "9a1e7f00-0000-4000-8000"}

	for _, id := range cases {
		t.Run(id, func(t *testing.T) {
			body := `{"items": [{"productId": "P1", "quantity": 1, "price": 1}, {"productId": "` + id + `", "quantity": 1, "price": 1}], "paymentMethod": "CASH"}`

			_, err := validator.ParseCreateSale(saleBody(body))

			var ne *usecase.NotFoundError
			require.ErrorAs(t, err, &ne)
			assert.Equal(t, "product", ne.Resource)
			assert.Equal(t, id, ne.ID)
		})
	}
}
