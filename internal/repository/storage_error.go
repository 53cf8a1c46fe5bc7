package repository

import "fmt"

// DBドライバのエラーを分類したもの（infra側で包む）
type StorageError struct {
	Code      string // SQLSTATE
	Retryable bool   // 直列化失敗/デッドロックなど、やり直せば通る可能性がある
	Err       error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error (%s): %v", e.Code, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
