package handler

import (
	"errors"
	"net/http"

	"gamestore/internal/domain/model"
	"gamestore/internal/middleware"
	"gamestore/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse は { message: string } の形。
type SuccessResponse struct {
	Message string `json:"message"`
}

// 在庫不足のときは、どの商品が何個足りないかも返す
type InsufficientStockResponse struct {
	Error       string `json:"error"`
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	Available   int64  `json:"available"`
	Requested   int64  `json:"requested"`
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}

	var (
		ve *usecase.ValidationError
		ne *usecase.NotFoundError
		ie *usecase.InsufficientStockError
		tf *usecase.TransactionFailure
	)
	switch {
	case errors.As(err, &ve):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: ve.Message})
	case errors.As(err, &ne):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: ne.Error()})
	case errors.As(err, &ie):
		return c.JSON(http.StatusBadRequest, InsufficientStockResponse{
			Error:       ie.Error(),
			ProductID:   ie.ProductID,
			ProductName: ie.ProductName,
			Available:   ie.Available,
			Requested:   ie.Requested,
		})
	case errors.As(err, &tf):
		//何もコミットされていないので、やり直してよい
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "transaction failed, please retry"})
	}

	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, ErrorResponse{Error: he.Message})
	}

	//500
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

// AuthJWT/UserGuardが入れた値から呼び出し元を作る
func actorFromContext(c echo.Context) (usecase.Actor, bool) {
	userID, ok := c.Get(middleware.CtxUserIDKey).(string)
	if !ok || userID == "" {
		return usecase.Actor{}, false
	}
	role, _ := c.Get(middleware.CtxUserRoleKey).(string)

	return usecase.Actor{UserID: userID, Role: model.Role(role)}, true
}
