package dashboard

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ValidateID IDが正の値かバリデーション
func ValidateID(field string, id int64) error {
	if id <= 0 {
		return NewValidationError(field, "IDは正の値である必要があります", fmt.Sprintf("%d", id))
	}
	return nil
}

// ValidateQuantity 数量をバリデーション
func ValidateQuantity(quantity int64) error {
	if quantity < 0 {
		return NewValidationError("quantity", "負の数量は許可されていません", fmt.Sprintf("%d", quantity))
	}
	if quantity > 999999999 {
		return NewValidationError("quantity", "数量が有効範囲を超えています", fmt.Sprintf("%d", quantity))
	}
	return nil
}

// ValidateTotalPrice 販売合計金額をバリデーション
func ValidateTotalPrice(totalPrice decimal.Decimal) error {
	if totalPrice.IsNegative() {
		return NewValidationError("total_price", "負の金額は許可されていません", totalPrice.String())
	}
	return nil
}

// ValidateOrderStatus 発注ステータスをバリデーション
func ValidateOrderStatus(status OrderStatus) error {
	if !status.IsValid() {
		return NewValidationError("status", "無効な発注ステータスです", string(status))
	}
	return nil
}

// ValidateNewSale 販売登録リクエストをバリデーション
func ValidateNewSale(sale NewSale) error {
	if err := ValidateID("location_id", sale.LocationID); err != nil {
		return err
	}
	if err := ValidateID("product_id", sale.ProductID); err != nil {
		return err
	}
	if err := ValidateQuantity(sale.Quantity); err != nil {
		return err
	}
	return ValidateTotalPrice(sale.TotalPrice)
}

// ValidateNewOrder 発注リクエストをバリデーション
func ValidateNewOrder(order NewOrder) error {
	if err := ValidateID("supplier_id", order.SupplierID); err != nil {
		return err
	}
	if err := ValidateID("location_id", order.LocationID); err != nil {
		return err
	}
	return ValidateOrderStatus(order.Status)
}

// ValidateInventoryDelta 在庫調整リクエストをバリデーション
func ValidateInventoryDelta(delta InventoryDelta) error {
	if err := ValidateID("location_id", delta.LocationID); err != nil {
		return err
	}
	if err := ValidateID("product_id", delta.ProductID); err != nil {
		return err
	}
	if delta.Delta == 0 {
		return NewValidationError("delta", "増減数量が0です", "0")
	}
	return nil
}
