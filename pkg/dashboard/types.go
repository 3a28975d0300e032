// Package dashboard provides the derived-analytics core for the retail
// operations dashboard: filtering, time-windowed metrics, stock
// classification, pricing recommendations and demand-event routing.
// 小売オペレーションダッシュボードの派生分析コアを提供
package dashboard

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Region represents a top-level geographic grouping of locations
// ロケーションを束ねる最上位の地域を表現
type Region struct {
	ID   int64  `json:"region_id" db:"region_id"` // 地域ID
	Name string `json:"name" db:"name"`           // 地域名
}

// Location represents a single store or site belonging to one region
// 1つの地域に属する店舗・拠点を表現
type Location struct {
	ID       int64  `json:"location_id" db:"location_id"` // ロケーションID
	Name     string `json:"location_name" db:"location_name"` // ロケーション名
	RegionID int64  `json:"region_id" db:"region_id"`     // 所属地域ID
}

// Supplier represents a goods supplier that orders are placed with
// 発注先のサプライヤーを表現
type Supplier struct {
	ID          int64  `json:"supplier_id" db:"supplier_id"` // サプライヤーID
	Name        string `json:"name" db:"name"`               // サプライヤー名
	ContactInfo string `json:"contact_info" db:"contact_info"` // 連絡先
}

// Product represents a sellable product
// 販売対象の商品を表現
type Product struct {
	ID            int64           `json:"product_id" db:"product_id"`         // 商品ID
	Name          string          `json:"name" db:"name"`                     // 商品名
	CategoryID    int64           `json:"category_id" db:"category_id"`       // カテゴリID
	SupplierID    int64           `json:"supplier_id" db:"supplier_id"`       // サプライヤーID
	Price         decimal.Decimal `json:"price" db:"price"`                   // 販売価格
	ShelfLifeDays int             `json:"shelf_life_days" db:"shelf_life_days"` // 賞味期限日数
	ReorderPoint  int64           `json:"reorder_point" db:"reorder_point"`   // 発注点
}

// InventoryRecord represents current stock of a product at a location.
// Location and product display names are joined in by the storage layer.
// 特定ロケーションでの商品在庫を表現（表示名はストレージ層で結合）
type InventoryRecord struct {
	InventoryID  int64     `json:"inventory_id" db:"inventory_id"`   // 在庫レコードID
	LocationID   int64     `json:"location_id" db:"location_id"`     // ロケーションID
	LocationName string    `json:"location_name" db:"location_name"` // ロケーション名
	ProductID    int64     `json:"product_id" db:"product_id"`       // 商品ID
	ProductName  string    `json:"product_name" db:"product_name"`   // 商品名
	Quantity     int64     `json:"quantity" db:"quantity"`           // 在庫数量
	LastUpdated  time.Time `json:"last_updated" db:"last_updated"`   // 最終更新日時
}

// SaleRecord represents a completed sale transaction
// 完了した販売トランザクションを表現
type SaleRecord struct {
	SaleID       int64           `json:"sale_id" db:"sale_id"`             // 販売ID
	LocationID   int64           `json:"location_id" db:"location_id"`     // ロケーションID
	LocationName string          `json:"location_name" db:"location_name"` // ロケーション名
	ProductID    int64           `json:"product_id" db:"product_id"`       // 商品ID
	ProductName  string          `json:"product_name" db:"product_name"`   // 商品名
	Quantity     int64           `json:"quantity" db:"quantity"`           // 販売数量
	TotalPrice   decimal.Decimal `json:"total_price" db:"total_price"`     // 販売合計金額
	Reference    string          `json:"reference" db:"reference"`         // 参照ID
	Timestamp    time.Time       `json:"timestamp" db:"timestamp"`         // 販売日時
}

// OrderStatus defines the lifecycle state of a supplier order
// サプライヤー発注のステータスを定義
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "Pending"   // 処理待ち
	OrderStatusShipped   OrderStatus = "Shipped"   // 出荷済み
	OrderStatusDelivered OrderStatus = "Delivered" // 納品済み
)

// IsValid reports whether the status is one of the known states
// 既知のステータスかどうかを判定
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusShipped, OrderStatusDelivered:
		return true
	}
	return false
}

// OrderRecord represents a supplier order placed for a location
// ロケーション向けのサプライヤー発注を表現
type OrderRecord struct {
	OrderID      int64       `json:"order_id" db:"order_id"`           // 発注ID
	SupplierID   int64       `json:"supplier_id" db:"supplier_id"`     // サプライヤーID
	SupplierName string      `json:"supplier_name" db:"supplier_name"` // サプライヤー名
	LocationID   int64       `json:"location_id" db:"location_id"`     // ロケーションID
	LocationName string      `json:"location_name" db:"location_name"` // ロケーション名
	Status       OrderStatus `json:"status" db:"status"`               // ステータス
	Reference    string      `json:"reference" db:"reference"`         // 参照ID
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`       // 発注日時
}

// FilterSelection holds the active (region, location) scope. A nil field
// means "no filter". Invariant: when LocationID is set, the location's
// owning region equals RegionID (enforced by FilterResolver).
// 現在アクティブな（地域、ロケーション）絞り込みを保持
type FilterSelection struct {
	RegionID   *int64 `json:"region_id,omitempty"`   // 選択中の地域ID
	LocationID *int64 `json:"location_id,omitempty"` // 選択中のロケーションID
}

// NewSale carries the fields required to record a sale
// 販売登録に必要なフィールドを保持
type NewSale struct {
	LocationID int64           `json:"location_id"` // ロケーションID
	ProductID  int64           `json:"product_id"`  // 商品ID
	Quantity   int64           `json:"quantity"`    // 販売数量
	TotalPrice decimal.Decimal `json:"total_price"` // 販売合計金額
	Reference  string          `json:"reference"`   // 参照ID（空なら自動採番）
}

// NewOrder carries the fields required to place a supplier order
// サプライヤー発注に必要なフィールドを保持
type NewOrder struct {
	SupplierID int64       `json:"supplier_id"` // サプライヤーID
	LocationID int64       `json:"location_id"` // ロケーションID
	Status     OrderStatus `json:"status"`      // 初期ステータス
	Reference  string      `json:"reference"`   // 参照ID（空なら自動採番）
}

// InventoryDelta carries a signed quantity adjustment for a product at a
// location. Positive values receive stock, negative values remove it.
// 商品在庫の増減を表現（正で入庫、負で出庫）
type InventoryDelta struct {
	LocationID int64 `json:"location_id"` // ロケーションID
	ProductID  int64 `json:"product_id"`  // 商品ID
	Delta      int64 `json:"delta"`       // 増減数量
}

// NewReference generates a reference ID for write operations
// 書き込み操作用の参照IDを生成
func NewReference() string {
	return uuid.New().String()
}
