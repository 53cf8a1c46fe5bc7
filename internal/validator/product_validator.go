package validator

import (
	"encoding/json"
	"io"
	"strings"

	"gamestore/internal/usecase"
)

type adminProductBody struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Price       json.Number `json:"price"`
	Stock       json.Number `json:"stock"`
	Category    string      `json:"category"`
	Image       *string     `json:"image"`
	IsActive    *bool       `json:"isActive"`
}

// ParseAdminProduct は商品の作成bodyを読む。
func ParseAdminProduct(r io.Reader) (usecase.AdminProductInput, error) {
	var body adminProductBody
	if err := decode(r, &body); err != nil {
		return usecase.AdminProductInput{}, err
	}

	price, err := parsePrice(body.Price)
	if err != nil {
		return usecase.AdminProductInput{}, usecase.NewValidationError("%s", err.Error())
	}

	//在庫は省略なら0
	var stock int64
	if body.Stock != "" {
		s, err := body.Stock.Int64()
		if err != nil {
			return usecase.AdminProductInput{}, usecase.NewValidationError("stock must be an integer")
		}
		stock = s
	}

	//空文字の画像は「なし」
	if body.Image != nil && strings.TrimSpace(*body.Image) == "" {
		body.Image = nil
	}

	return usecase.AdminProductInput{
		Name:        body.Name,
		Description: body.Description,
		Price:       price,
		Stock:       stock,
		Category:    body.Category,
		Image:       body.Image,
		IsActive:    body.IsActive,
	}, nil
}

type adminProductPatchBody struct {
	Name        *string      `json:"name"`
	Description *string      `json:"description"`
	Price       *json.Number `json:"price"`
	Stock       *json.Number `json:"stock"`
	Category    *string      `json:"category"`
	Image       *string      `json:"image"`
	IsActive    *bool        `json:"isActive"`
}

// ParseAdminProductPatch は PUT /admin/products/:id のbodyを読む。
// 送られてこなかった項目（nullも含む）は現在値のままにする。
func ParseAdminProductPatch(r io.Reader) (usecase.AdminProductPatch, error) {
	var body adminProductPatchBody
	if err := decode(r, &body); err != nil {
		return usecase.AdminProductPatch{}, err
	}

	patch := usecase.AdminProductPatch{
		Name:        body.Name,
		Description: body.Description,
		Category:    body.Category,
		Image:       body.Image,
		IsActive:    body.IsActive,
	}

	if body.Price != nil {
		price, err := parsePrice(*body.Price)
		if err != nil {
			return usecase.AdminProductPatch{}, usecase.NewValidationError("%s", err.Error())
		}
		patch.Price = &price
	}

	if body.Stock != nil {
		s, err := body.Stock.Int64()
		if err != nil {
			return usecase.AdminProductPatch{}, usecase.NewValidationError("stock must be an integer")
		}
		patch.Stock = &s
	}

	//空白だけの画像は「なし」
	if body.Image != nil && strings.TrimSpace(*body.Image) == "" {
		empty := ""
		patch.Image = &empty
	}

	return patch, nil
}

type inventoryBody struct {
	Stock  *json.Number `json:"stock"`
	Reason string       `json:"reason"`
}

type InventoryUpdate struct {
	Stock  int64
	Reason string
}

// ParseInventoryUpdate は PUT /admin/inventory/:product_id のbodyを読む。
func ParseInventoryUpdate(r io.Reader) (InventoryUpdate, error) {
	var body inventoryBody
	if err := decode(r, &body); err != nil {
		return InventoryUpdate{}, err
	}

	if body.Stock == nil || *body.Stock == "" {
		return InventoryUpdate{}, usecase.NewValidationError("stock required")
	}
	stock, err := body.Stock.Int64()
	if err != nil {
		return InventoryUpdate{}, usecase.NewValidationError("stock must be an integer")
	}

	return InventoryUpdate{Stock: stock, Reason: body.Reason}, nil
}
