package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// MockStorage はテスト用のStorageモック
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) ListRegions(ctx context.Context) ([]Region, error) {
	args := m.Called(ctx)
	return args.Get(0).([]Region), args.Error(1)
}

func (m *MockStorage) ListLocations(ctx context.Context) ([]Location, error) {
	args := m.Called(ctx)
	return args.Get(0).([]Location), args.Error(1)
}

func (m *MockStorage) ListSuppliers(ctx context.Context) ([]Supplier, error) {
	args := m.Called(ctx)
	return args.Get(0).([]Supplier), args.Error(1)
}

func (m *MockStorage) ListProducts(ctx context.Context) ([]Product, error) {
	args := m.Called(ctx)
	return args.Get(0).([]Product), args.Error(1)
}

func (m *MockStorage) ListInventory(ctx context.Context, selection FilterSelection) ([]InventoryRecord, error) {
	args := m.Called(ctx, selection)
	return args.Get(0).([]InventoryRecord), args.Error(1)
}

func (m *MockStorage) ListSales(ctx context.Context, selection FilterSelection) ([]SaleRecord, error) {
	args := m.Called(ctx, selection)
	return args.Get(0).([]SaleRecord), args.Error(1)
}

func (m *MockStorage) ListOrders(ctx context.Context, selection FilterSelection) ([]OrderRecord, error) {
	args := m.Called(ctx, selection)
	return args.Get(0).([]OrderRecord), args.Error(1)
}

func (m *MockStorage) CreateSale(ctx context.Context, sale NewSale) (*SaleRecord, error) {
	args := m.Called(ctx, sale)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*SaleRecord), args.Error(1)
}

func (m *MockStorage) CreateOrder(ctx context.Context, order NewOrder) (*OrderRecord, error) {
	args := m.Called(ctx, order)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*OrderRecord), args.Error(1)
}

func (m *MockStorage) ApplyInventoryDelta(ctx context.Context, delta InventoryDelta) (*InventoryRecord, error) {
	args := m.Called(ctx, delta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*InventoryRecord), args.Error(1)
}

func (m *MockStorage) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockStorage) Close() error {
	args := m.Called()
	return args.Error(0)
}

// TestService_Summary はダッシュボード集計のテスト
func TestService_Summary(t *testing.T) {
	mockStorage := new(MockStorage)
	service := NewService(mockStorage, zap.NewNop(), nil, nil)

	ctx := context.Background()
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	selection := FilterSelection{}

	sales := []SaleRecord{
		{SaleID: 1, TotalPrice: decimal.NewFromFloat(100)},
		{SaleID: 2, TotalPrice: decimal.NewFromFloat(200)},
	}
	orders := []OrderRecord{
		{OrderID: 1, CreatedAt: now.Add(-24 * time.Hour)}, // ウィンドウ内
		{OrderID: 2, CreatedAt: now.Add(-96 * time.Hour)}, // ウィンドウ外
	}
	inventory := []InventoryRecord{
		{InventoryID: 1, ProductID: 1, LocationID: 1, Quantity: 500}, // 過剰在庫
		{InventoryID: 2, ProductID: 2, LocationID: 1, Quantity: 10},  // 低在庫
		{InventoryID: 3, ProductID: 3, LocationID: 1, Quantity: 100}, // 正常
	}

	mockStorage.On("ListSales", ctx, selection).Return(sales, nil)
	mockStorage.On("ListOrders", ctx, selection).Return(orders, nil)
	mockStorage.On("ListInventory", ctx, selection).Return(inventory, nil)

	summary, err := service.Summary(ctx, selection, now)

	assert.NoError(t, err)
	assert.Equal(t, "300.00", summary.TotalRevenue)
	assert.Equal(t, "150.00", summary.AverageOrderValue)
	assert.Equal(t, "90.00", summary.NetOperatingIncome) // 300 × 0.3
	assert.False(t, summary.Growth.Available)
	assert.Equal(t, 1, summary.RecentOrderCount)
	assert.Len(t, summary.Overstocked, 1)
	assert.Len(t, summary.Understocked, 1)
	assert.Equal(t, now, summary.GeneratedAt)
	mockStorage.AssertExpectations(t)
}

// TestService_SummaryEmpty はデータ0件でのゼロ状態集計のテスト
func TestService_SummaryEmpty(t *testing.T) {
	mockStorage := new(MockStorage)
	service := NewService(mockStorage, zap.NewNop(), nil, nil)

	ctx := context.Background()
	selection := FilterSelection{}

	mockStorage.On("ListSales", ctx, selection).Return([]SaleRecord{}, nil)
	mockStorage.On("ListOrders", ctx, selection).Return([]OrderRecord{}, nil)
	mockStorage.On("ListInventory", ctx, selection).Return([]InventoryRecord{}, nil)

	summary, err := service.Summary(ctx, selection, time.Now())

	// 空データはエラーではなくゼロ状態
	assert.NoError(t, err)
	assert.Equal(t, "0.00", summary.TotalRevenue)
	assert.Equal(t, "0.00", summary.AverageOrderValue)
	assert.Equal(t, "0.00", summary.NetOperatingIncome)
	assert.Equal(t, 0, summary.RecentOrderCount)
	assert.Empty(t, summary.Overstocked)
	assert.Empty(t, summary.Understocked)
	mockStorage.AssertExpectations(t)
}

// TestService_SummaryStorageError はストレージ障害時のエラーのテスト
func TestService_SummaryStorageError(t *testing.T) {
	mockStorage := new(MockStorage)
	service := NewService(mockStorage, zap.NewNop(), nil, nil)

	ctx := context.Background()
	selection := FilterSelection{}
	storageErr := errors.New("接続が切断されました")

	mockStorage.On("ListSales", ctx, selection).Return([]SaleRecord{}, storageErr)

	summary, err := service.Summary(ctx, selection, time.Now())

	assert.Nil(t, summary)
	assert.Error(t, err)

	var wrapped *StorageError
	assert.ErrorAs(t, err, &wrapped)
	assert.Equal(t, "list_sales", wrapped.Operation)
	mockStorage.AssertExpectations(t)
}

// TestService_PriceRecommendations は価格推奨生成のテスト
func TestService_PriceRecommendations(t *testing.T) {
	mockStorage := new(MockStorage)
	service := NewService(mockStorage, zap.NewNop(), nil, nil)

	ctx := context.Background()
	selection := FilterSelection{}

	inventory := []InventoryRecord{
		{ProductID: 1, LocationID: 1, Quantity: 350},
		{ProductID: 2, LocationID: 1, Quantity: 40},
	}
	sales := []SaleRecord{
		{ProductID: 1, Quantity: 5},
		{ProductID: 2, Quantity: 25},
	}

	mockStorage.On("ListInventory", ctx, selection).Return(inventory, nil)
	mockStorage.On("ListSales", ctx, selection).Return(sales, nil)

	// ラベル指定なしは全件
	rows, err := service.PriceRecommendations(ctx, selection, "")
	assert.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Equal(t, RecommendationReduce, rows[0].Recommendation)
	assert.Equal(t, RecommendationIncrease, rows[1].Recommendation)

	// ラベル指定は該当行のみ
	rows, err = service.PriceRecommendations(ctx, selection, RecommendationReduce)
	assert.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, int64(1), rows[0].ProductID)
	mockStorage.AssertExpectations(t)
}

// TestService_DemandEvents は需要イベント取得のテスト
func TestService_DemandEvents(t *testing.T) {
	service := NewService(new(MockStorage), zap.NewNop(), nil, nil)

	// 地域未選択は全件、遷移先付き
	all := service.DemandEvents(nil)
	assert.Len(t, all, 12)
	for _, event := range all {
		assert.NotEmpty(t, event.Route.Label)
	}

	// 地域選択で絞り込み
	regionID := int64(1)
	events := service.DemandEvents(&regionID)
	assert.Len(t, events, 3)
	assert.Equal(t, "Order More", events[0].Route.Label)
	assert.Equal(t, "/orders", events[0].Route.Target)
}

// TestService_RecordSale は販売登録のテスト
func TestService_RecordSale(t *testing.T) {
	mockStorage := new(MockStorage)
	service := NewService(mockStorage, zap.NewNop(), nil, nil)
	ctx := context.Background()

	sale := NewSale{
		LocationID: 1,
		ProductID:  2,
		Quantity:   3,
		TotalPrice: decimal.NewFromFloat(450.00),
	}
	created := &SaleRecord{
		SaleID:     10,
		LocationID: 1,
		ProductID:  2,
		Quantity:   3,
		TotalPrice: decimal.NewFromFloat(450.00),
		Reference:  "ref-sale",
		Timestamp:  time.Now(),
	}

	// 参照IDはサービス側で採番されるため、残りのフィールド一致で照合する
	mockStorage.On("CreateSale", ctx, mock.MatchedBy(func(got NewSale) bool {
		return got.LocationID == sale.LocationID && got.ProductID == sale.ProductID &&
			got.Quantity == sale.Quantity && got.TotalPrice.Equal(sale.TotalPrice) &&
			got.Reference != ""
	})).Return(created, nil)

	result, err := service.RecordSale(ctx, sale)
	assert.NoError(t, err)
	assert.Equal(t, int64(10), result.SaleID)
	mockStorage.AssertExpectations(t)
}

// TestService_RecordSaleReference は参照IDの自動採番と引き継ぎのテスト
func TestService_RecordSaleReference(t *testing.T) {
	mockStorage := new(MockStorage)
	service := NewService(mockStorage, zap.NewNop(), nil, nil)
	ctx := context.Background()

	// 参照ID未指定なら空でないIDが採番されてストレージに渡る
	var stamped string
	mockStorage.On("CreateSale", ctx, mock.MatchedBy(func(got NewSale) bool {
		stamped = got.Reference
		return got.Reference != ""
	})).Return(&SaleRecord{SaleID: 11}, nil).Once()

	_, err := service.RecordSale(ctx, NewSale{
		LocationID: 1, ProductID: 2, Quantity: 3,
		TotalPrice: decimal.NewFromFloat(100),
	})
	assert.NoError(t, err)
	assert.NotEmpty(t, stamped)

	// 呼び出し側が指定した参照IDはそのまま保持される
	mockStorage.On("CreateSale", ctx, mock.MatchedBy(func(got NewSale) bool {
		return got.Reference == "caller-ref"
	})).Return(&SaleRecord{SaleID: 12, Reference: "caller-ref"}, nil).Once()

	result, err := service.RecordSale(ctx, NewSale{
		LocationID: 1, ProductID: 2, Quantity: 3,
		TotalPrice: decimal.NewFromFloat(100), Reference: "caller-ref",
	})
	assert.NoError(t, err)
	assert.Equal(t, "caller-ref", result.Reference)
	mockStorage.AssertExpectations(t)
}

// TestService_RecordSaleValidation はバリデーション失敗時に永続化しないことのテスト
func TestService_RecordSaleValidation(t *testing.T) {
	mockStorage := new(MockStorage)
	service := NewService(mockStorage, zap.NewNop(), nil, nil)

	// 不正なリクエストはストレージに到達しない
	_, err := service.RecordSale(context.Background(), NewSale{
		LocationID: 0,
		ProductID:  1,
		Quantity:   1,
		TotalPrice: decimal.NewFromFloat(100),
	})

	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)
	mockStorage.AssertNotCalled(t, "CreateSale", mock.Anything, mock.Anything)
}

// TestService_PlaceOrder は発注登録のテスト
func TestService_PlaceOrder(t *testing.T) {
	mockStorage := new(MockStorage)
	service := NewService(mockStorage, zap.NewNop(), nil, nil)
	ctx := context.Background()

	order := NewOrder{SupplierID: 1, LocationID: 2, Status: OrderStatusPending}
	created := &OrderRecord{
		OrderID:    20,
		SupplierID: 1,
		LocationID: 2,
		Status:     OrderStatusPending,
		CreatedAt:  time.Now(),
	}

	mockStorage.On("CreateOrder", ctx, mock.MatchedBy(func(got NewOrder) bool {
		return got.SupplierID == order.SupplierID && got.LocationID == order.LocationID &&
			got.Status == order.Status && got.Reference != ""
	})).Return(created, nil)

	result, err := service.PlaceOrder(ctx, order)
	assert.NoError(t, err)
	assert.Equal(t, int64(20), result.OrderID)
	mockStorage.AssertExpectations(t)
}

// TestService_PlaceOrderReference は発注の参照ID引き継ぎのテスト
func TestService_PlaceOrderReference(t *testing.T) {
	mockStorage := new(MockStorage)
	service := NewService(mockStorage, zap.NewNop(), nil, nil)
	ctx := context.Background()

	mockStorage.On("CreateOrder", ctx, mock.MatchedBy(func(got NewOrder) bool {
		return got.Reference == "po-2026-001"
	})).Return(&OrderRecord{OrderID: 21, Reference: "po-2026-001"}, nil)

	result, err := service.PlaceOrder(ctx, NewOrder{
		SupplierID: 1, LocationID: 2, Status: OrderStatusPending,
		Reference: "po-2026-001",
	})
	assert.NoError(t, err)
	assert.Equal(t, "po-2026-001", result.Reference)
	mockStorage.AssertExpectations(t)
}

// TestService_PlaceOrderInvalidStatus は無効ステータスの発注拒否のテスト
func TestService_PlaceOrderInvalidStatus(t *testing.T) {
	mockStorage := new(MockStorage)
	service := NewService(mockStorage, zap.NewNop(), nil, nil)

	_, err := service.PlaceOrder(context.Background(), NewOrder{
		SupplierID: 1,
		LocationID: 1,
		Status:     "Cancelled",
	})

	assert.Error(t, err)
	mockStorage.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
}

// TestService_AdjustInventory は在庫調整のテスト
func TestService_AdjustInventory(t *testing.T) {
	mockStorage := new(MockStorage)
	service := NewService(mockStorage, zap.NewNop(), nil, nil)
	ctx := context.Background()

	delta := InventoryDelta{LocationID: 1, ProductID: 2, Delta: -5}
	updated := &InventoryRecord{
		InventoryID: 3,
		LocationID:  1,
		ProductID:   2,
		Quantity:    95,
		LastUpdated: time.Now(),
	}

	mockStorage.On("ApplyInventoryDelta", ctx, delta).Return(updated, nil)

	result, err := service.AdjustInventory(ctx, delta)
	assert.NoError(t, err)
	assert.Equal(t, int64(95), result.Quantity)
	mockStorage.AssertExpectations(t)
}

// TestService_AdjustInventoryInsufficient は在庫不足エラーの伝播のテスト
func TestService_AdjustInventoryInsufficient(t *testing.T) {
	mockStorage := new(MockStorage)
	service := NewService(mockStorage, zap.NewNop(), nil, nil)
	ctx := context.Background()

	delta := InventoryDelta{LocationID: 1, ProductID: 2, Delta: -500}
	mockStorage.On("ApplyInventoryDelta", ctx, delta).Return(nil, ErrInsufficientStock)

	_, err := service.AdjustInventory(ctx, delta)
	assert.ErrorIs(t, err, ErrInsufficientStock)
	mockStorage.AssertExpectations(t)
}

// TestService_Defaults はnil設定時のデフォルト適用のテスト
func TestService_Defaults(t *testing.T) {
	service := NewService(new(MockStorage), zap.NewNop(), nil, nil)

	assert.Equal(t, DefaultRecentOrderWindow, service.config.RecentOrderWindow)
	assert.True(t, service.config.OperatingExpenseRatio.Equal(DefaultOperatingExpenseRatio))
	assert.Equal(t, DefaultStockThresholds(), service.config.Thresholds)
	assert.Equal(t, DefaultPricingRules(), service.config.Pricing)
	assert.Len(t, service.catalog, 12)
}
