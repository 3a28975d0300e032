package dashboard

import (
	"errors"
	"fmt"
)

// Common dashboard errors
// 共通のダッシュボードエラー定義

var (
	// ErrRegionNotFound is returned when a region doesn't exist
	// 地域が存在しない場合のエラー
	ErrRegionNotFound = errors.New("地域が見つかりません")

	// ErrLocationNotFound is returned when a location doesn't exist
	// ロケーションが存在しない場合のエラー
	ErrLocationNotFound = errors.New("ロケーションが見つかりません")

	// ErrProductNotFound is returned when a product doesn't exist
	// 商品が存在しない場合のエラー
	ErrProductNotFound = errors.New("商品が見つかりません")

	// ErrSupplierNotFound is returned when a supplier doesn't exist
	// サプライヤーが存在しない場合のエラー
	ErrSupplierNotFound = errors.New("サプライヤーが見つかりません")

	// ErrInventoryNotFound is returned when an inventory record doesn't exist
	// 在庫レコードが存在しない場合のエラー
	ErrInventoryNotFound = errors.New("在庫レコードが見つかりません")

	// ErrLocationOutsideRegion is returned when a location is selected
	// whose owning region differs from the selected region
	// 選択地域外のロケーションが指定された場合のエラー
	ErrLocationOutsideRegion = errors.New("ロケーションは選択中の地域に属していません")

	// ErrInvalidOrderStatus is returned for an unknown order status
	// 未知の発注ステータスが指定された場合のエラー
	ErrInvalidOrderStatus = errors.New("無効な発注ステータスです")

	// ErrNegativeQuantity is returned when a negative quantity is provided
	// 負の数量が指定された場合のエラー
	ErrNegativeQuantity = errors.New("数量は正の値である必要があります")

	// ErrInsufficientStock is returned when a delta would drive stock negative
	// 在庫が負になる調整が要求された場合のエラー
	ErrInsufficientStock = errors.New("在庫が不足しています")
)

// ValidationError represents a validation error with details
// 詳細付きバリデーションエラーを表現
type ValidationError struct {
	Field   string `json:"field"`   // エラーフィールド
	Message string `json:"message"` // エラーメッセージ
	Value   string `json:"value"`   // 無効な値
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("バリデーションエラー [%s]: %s (値: %s)", e.Field, e.Message, e.Value)
}

// StorageError represents a storage layer error
// ストレージ層のエラーを表現
type StorageError struct {
	Operation string `json:"operation"` // 操作名
	Message   string `json:"message"`   // エラーメッセージ
	Cause     error  `json:"cause"`     // 原因エラー
}

func (e StorageError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("ストレージエラー [%s]: %s (原因: %v)", e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("ストレージエラー [%s]: %s", e.Operation, e.Message)
}

func (e StorageError) Unwrap() error {
	return e.Cause
}

// NewValidationError creates a new validation error
// 新しいバリデーションエラーを作成
func NewValidationError(field, message, value string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Value:   value,
	}
}

// NewStorageError creates a new storage error
// 新しいストレージエラーを作成
func NewStorageError(operation, message string, cause error) *StorageError {
	return &StorageError{
		Operation: operation,
		Message:   message,
		Cause:     cause,
	}
}
