package dashboard

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Service implements the DashboardManager interface over a Storage
// DashboardManagerインターフェースの実装
type Service struct {
	storage Storage        // ストレージ層
	logger  *zap.Logger    // ログ
	config  *Config        // 設定
	catalog []DemandEvent  // 需要イベントカタログ
}

// インターフェースを実装することを明示
var _ DashboardManager = (*Service)(nil)

// Config holds configuration for the dashboard service
// ダッシュボードサービスの設定を保持
type Config struct {
	RecentOrderWindow     time.Duration   `yaml:"recent_order_window"`     // 直近発注の集計ウィンドウ
	OperatingExpenseRatio decimal.Decimal `yaml:"operating_expense_ratio"` // 営業利益推定比率
	Thresholds            StockThresholds `yaml:"thresholds"`              // 在庫閾値
	Pricing               PricingRules    `yaml:"pricing"`                 // 価格推奨ルール
}

// NewService creates a new dashboard service. A nil config gets defaults;
// a nil catalog gets the seeded demand events.
// 新しいダッシュボードサービスを作成
func NewService(storage Storage, logger *zap.Logger, config *Config, catalog []DemandEvent) *Service {
	if config == nil {
		config = &Config{
			RecentOrderWindow:     DefaultRecentOrderWindow,
			OperatingExpenseRatio: DefaultOperatingExpenseRatio,
			Thresholds:            DefaultStockThresholds(),
			Pricing:               DefaultPricingRules(),
		}
	}
	if catalog == nil {
		catalog = SeedCatalog()
	}

	return &Service{
		storage: storage,
		logger:  logger,
		config:  config,
		catalog: catalog,
	}
}

// Summary computes the aggregated dashboard view for the selection at the
// given reference time. Empty collections are valid zero states: no rows
// means zero revenue and no alerts, never an error.
// 指定の絞り込みと基準時刻でダッシュボード集計を計算
func (s *Service) Summary(ctx context.Context, selection FilterSelection, now time.Time) (*Summary, error) {
	sales, err := s.storage.ListSales(ctx, selection)
	if err != nil {
		return nil, NewStorageError("list_sales", "販売データ取得に失敗しました", err)
	}

	orders, err := s.storage.ListOrders(ctx, selection)
	if err != nil {
		return nil, NewStorageError("list_orders", "発注データ取得に失敗しました", err)
	}

	inventory, err := s.storage.ListInventory(ctx, selection)
	if err != nil {
		return nil, NewStorageError("list_inventory", "在庫データ取得に失敗しました", err)
	}

	recent := OrdersWithinWindow(orders, now, s.config.RecentOrderWindow)

	summary := &Summary{
		TotalRevenue:       TotalRevenue(sales).StringFixed(2),
		AverageOrderValue:  AverageOrderValue(sales).StringFixed(2),
		NetOperatingIncome: NetOperatingIncome(sales, s.config.OperatingExpenseRatio).StringFixed(2),
		Growth:             MonthOverMonthGrowth(),
		RecentOrderCount:   len(recent),
		RecentOrders:       recent,
		Overstocked:        s.config.Thresholds.Overstocked(inventory),
		Understocked:       s.config.Thresholds.Understocked(inventory),
		GeneratedAt:        now,
	}

	s.logger.Info("ダッシュボード集計完了",
		zap.Int("sales", len(sales)),
		zap.Int("orders", len(orders)),
		zap.Int("inventory", len(inventory)),
		zap.Int("recent_orders", summary.RecentOrderCount),
		zap.Int("overstocked", len(summary.Overstocked)),
		zap.Int("understocked", len(summary.Understocked)),
	)

	return summary, nil
}

// PriceRecommendations joins filtered inventory with filtered sales and
// returns one recommendation row per inventory record, optionally
// restricted to one label.
// 絞り込み済みの在庫と販売から価格推奨を生成
func (s *Service) PriceRecommendations(ctx context.Context, selection FilterSelection, label RecommendationLabel) ([]PriceRecommendation, error) {
	inventory, err := s.storage.ListInventory(ctx, selection)
	if err != nil {
		return nil, NewStorageError("list_inventory", "在庫データ取得に失敗しました", err)
	}

	sales, err := s.storage.ListSales(ctx, selection)
	if err != nil {
		return nil, NewStorageError("list_sales", "販売データ取得に失敗しました", err)
	}

	rows := FilterByLabel(s.config.Pricing.Recommend(inventory, sales), label)

	s.logger.Info("価格推奨生成完了",
		zap.Int("inventory", len(inventory)),
		zap.Int("rows", len(rows)),
		zap.String("label", string(label)),
	)

	return rows, nil
}

// DemandEvents returns the catalog events for the region (or all events)
// with their navigation routes attached
// 地域の需要イベントを遷移先付きで返す
func (s *Service) DemandEvents(regionID *int64) []RoutedDemandEvent {
	events := EventsForRegion(s.catalog, regionID)

	routed := make([]RoutedDemandEvent, 0, len(events))
	for _, event := range events {
		routed = append(routed, RoutedDemandEvent{
			DemandEvent: event,
			Route:       RouteForAction(event.Action),
		})
	}
	return routed
}

// Regions returns the region reference data
// 地域参照データを返す
func (s *Service) Regions(ctx context.Context) ([]Region, error) {
	return s.storage.ListRegions(ctx)
}

// Locations returns the location reference data
// ロケーション参照データを返す
func (s *Service) Locations(ctx context.Context) ([]Location, error) {
	return s.storage.ListLocations(ctx)
}

// Suppliers returns the supplier reference data
// サプライヤー参照データを返す
func (s *Service) Suppliers(ctx context.Context) ([]Supplier, error) {
	return s.storage.ListSuppliers(ctx)
}

// Products returns the product reference data
// 商品参照データを返す
func (s *Service) Products(ctx context.Context) ([]Product, error) {
	return s.storage.ListProducts(ctx)
}

// Inventory returns the inventory collection narrowed by the selection
// 絞り込み済みの在庫コレクションを返す
func (s *Service) Inventory(ctx context.Context, selection FilterSelection) ([]InventoryRecord, error) {
	return s.storage.ListInventory(ctx, selection)
}

// Sales returns the sales collection narrowed by the selection
// 絞り込み済みの販売コレクションを返す
func (s *Service) Sales(ctx context.Context, selection FilterSelection) ([]SaleRecord, error) {
	return s.storage.ListSales(ctx, selection)
}

// Orders returns the orders collection narrowed by the selection
// 絞り込み済みの発注コレクションを返す
func (s *Service) Orders(ctx context.Context, selection FilterSelection) ([]OrderRecord, error) {
	return s.storage.ListOrders(ctx, selection)
}

// RecordSale validates and persists a new sale
// 新しい販売をバリデーションして登録
func (s *Service) RecordSale(ctx context.Context, sale NewSale) (*SaleRecord, error) {
	if err := ValidateNewSale(sale); err != nil {
		return nil, err
	}

	if sale.Reference == "" {
		sale.Reference = NewReference()
	}

	created, err := s.storage.CreateSale(ctx, sale)
	if err != nil {
		return nil, NewStorageError("create_sale", "販売登録に失敗しました", err)
	}

	s.logger.Info("販売登録完了",
		zap.Int64("sale_id", created.SaleID),
		zap.Int64("location_id", created.LocationID),
		zap.Int64("product_id", created.ProductID),
		zap.Int64("quantity", created.Quantity),
		zap.String("total_price", created.TotalPrice.StringFixed(2)),
		zap.String("reference", created.Reference),
	)

	return created, nil
}

// PlaceOrder validates and persists a new supplier order
// 新しいサプライヤー発注をバリデーションして登録
func (s *Service) PlaceOrder(ctx context.Context, order NewOrder) (*OrderRecord, error) {
	if err := ValidateNewOrder(order); err != nil {
		return nil, err
	}

	if order.Reference == "" {
		order.Reference = NewReference()
	}

	created, err := s.storage.CreateOrder(ctx, order)
	if err != nil {
		return nil, NewStorageError("create_order", "発注登録に失敗しました", err)
	}

	s.logger.Info("発注登録完了",
		zap.Int64("order_id", created.OrderID),
		zap.Int64("supplier_id", created.SupplierID),
		zap.Int64("location_id", created.LocationID),
		zap.String("status", string(created.Status)),
		zap.String("reference", created.Reference),
	)

	return created, nil
}

// AdjustInventory validates and applies a signed inventory delta
// 在庫の増減をバリデーションして適用
func (s *Service) AdjustInventory(ctx context.Context, delta InventoryDelta) (*InventoryRecord, error) {
	if err := ValidateInventoryDelta(delta); err != nil {
		return nil, err
	}

	updated, err := s.storage.ApplyInventoryDelta(ctx, delta)
	if err != nil {
		return nil, NewStorageError("apply_inventory_delta", "在庫調整に失敗しました", err)
	}

	s.logger.Info("在庫調整完了",
		zap.Int64("location_id", updated.LocationID),
		zap.Int64("product_id", updated.ProductID),
		zap.Int64("delta", delta.Delta),
		zap.Int64("quantity", updated.Quantity),
	)

	return updated, nil
}
