package dashboard

import (
	"context"
	"time"
)

// DashboardManager defines the core interface the presentation layer
// consumes: derived analytics over filtered collections plus the write
// paths for sales, orders and inventory adjustments.
// 画面層が利用するダッシュボードのコアインターフェースを定義
type DashboardManager interface {
	// 派生分析 - Derived analytics
	Summary(ctx context.Context, selection FilterSelection, now time.Time) (*Summary, error)
	PriceRecommendations(ctx context.Context, selection FilterSelection, label RecommendationLabel) ([]PriceRecommendation, error)
	DemandEvents(regionID *int64) []RoutedDemandEvent

	// 参照データ - Reference data
	Regions(ctx context.Context) ([]Region, error)
	Locations(ctx context.Context) ([]Location, error)
	Suppliers(ctx context.Context) ([]Supplier, error)
	Products(ctx context.Context) ([]Product, error)

	// 絞り込み可能なコレクション - Filterable collections
	Inventory(ctx context.Context, selection FilterSelection) ([]InventoryRecord, error)
	Sales(ctx context.Context, selection FilterSelection) ([]SaleRecord, error)
	Orders(ctx context.Context, selection FilterSelection) ([]OrderRecord, error)

	// 書き込み操作 - Write operations
	RecordSale(ctx context.Context, sale NewSale) (*SaleRecord, error)
	PlaceOrder(ctx context.Context, order NewOrder) (*OrderRecord, error)
	AdjustInventory(ctx context.Context, delta InventoryDelta) (*InventoryRecord, error)
}

// Storage defines the interface for the data persistence layer
// データ永続化層のインターフェースを定義
type Storage interface {
	// Reference data
	ListRegions(ctx context.Context) ([]Region, error)
	ListLocations(ctx context.Context) ([]Location, error)
	ListSuppliers(ctx context.Context) ([]Supplier, error)
	ListProducts(ctx context.Context) ([]Product, error)

	// Filterable collections
	ListInventory(ctx context.Context, selection FilterSelection) ([]InventoryRecord, error)
	ListSales(ctx context.Context, selection FilterSelection) ([]SaleRecord, error)
	ListOrders(ctx context.Context, selection FilterSelection) ([]OrderRecord, error)

	// Writes
	CreateSale(ctx context.Context, sale NewSale) (*SaleRecord, error)
	CreateOrder(ctx context.Context, order NewOrder) (*OrderRecord, error)
	ApplyInventoryDelta(ctx context.Context, delta InventoryDelta) (*InventoryRecord, error)

	// Health check
	Ping(ctx context.Context) error
	Close() error
}

// Summary is the aggregated dashboard view for one filter selection
// 1つの絞り込みに対するダッシュボード集計を表現
type Summary struct {
	TotalRevenue       string          `json:"total_revenue"`        // 合計売上
	AverageOrderValue  string          `json:"average_order_value"`  // 平均注文金額
	NetOperatingIncome string          `json:"net_operating_income"` // 推定営業利益
	Growth             GrowthEstimate  `json:"growth"`               // 前月比成長率
	RecentOrderCount   int             `json:"recent_order_count"`   // 直近の発注件数
	RecentOrders       []OrderRecord   `json:"recent_orders"`        // 直近の発注一覧
	Overstocked        []InventoryRecord `json:"overstocked"`        // 過剰在庫
	Understocked       []InventoryRecord `json:"understocked"`       // 低在庫
	GeneratedAt        time.Time       `json:"generated_at"`         // 集計時刻
}

// RoutedDemandEvent pairs a demand event with its navigation route
// 需要イベントと遷移先のペアを表現
type RoutedDemandEvent struct {
	DemandEvent
	Route ActionRoute `json:"route"` // 遷移先
}
