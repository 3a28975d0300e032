package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/nemonet1337/hanbaiGoDashboard/pkg/dashboard"
	"github.com/nemonet1337/hanbaiGoDashboard/pkg/dashboard/storage"
)

// Handlers holds HTTP handlers for the dashboard API
// ダッシュボードAPI用のHTTPハンドラーを保持
type Handlers struct {
	manager dashboard.DashboardManager
	cache   *storage.SummaryCache
	feed    *dashboard.LiveActivityFeed
	logger  *zap.Logger
}

// NewHandlers creates new HTTP handlers. cache may be nil when the
// summary cache is disabled.
// 新しいHTTPハンドラーを作成（cacheはキャッシュ無効時にnil）
func NewHandlers(manager dashboard.DashboardManager, cache *storage.SummaryCache, feed *dashboard.LiveActivityFeed, logger *zap.Logger) *Handlers {
	return &Handlers{
		manager: manager,
		cache:   cache,
		feed:    feed,
		logger:  logger,
	}
}

// APIResponse represents standard API response format
// 標準的なAPIレスポンス形式を表現
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// parseSelection reads region_id / location_id query parameters
// クエリパラメータから絞り込み条件を読み取る
func parseSelection(r *http.Request) (dashboard.FilterSelection, error) {
	var selection dashboard.FilterSelection

	if raw := r.URL.Query().Get("region_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return selection, err
		}
		selection.RegionID = &id
	}

	if raw := r.URL.Query().Get("location_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return selection, err
		}
		selection.LocationID = &id
	}

	return selection, nil
}

// HealthCheck handles health check requests
// ヘルスチェックリクエストを処理
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	h.sendSuccess(w, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now(),
		"service":   "hanbaiGoDashboard",
	})
}

// ListRegions handles region list requests
// 地域一覧リクエストを処理
func (h *Handlers) ListRegions(w http.ResponseWriter, r *http.Request) {
	regions, err := h.manager.Regions(r.Context())
	if err != nil {
		h.sendError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.sendSuccess(w, regions)
}

// ListLocations handles location list requests
// 拠点一覧リクエストを処理
func (h *Handlers) ListLocations(w http.ResponseWriter, r *http.Request) {
	locations, err := h.manager.Locations(r.Context())
	if err != nil {
		h.sendError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// 地域・拠点の絞り込みは一覧側でも適用する
	selection, err := parseSelection(r)
	if err != nil {
		h.sendError(w, http.StatusBadRequest, "無効な絞り込みパラメータです")
		return
	}

	h.sendSuccess(w, dashboard.FilterLocations(locations, selection))
}

// ListSuppliers handles supplier list requests
// 仕入先一覧リクエストを処理
func (h *Handlers) ListSuppliers(w http.ResponseWriter, r *http.Request) {
	suppliers, err := h.manager.Suppliers(r.Context())
	if err != nil {
		h.sendError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.sendSuccess(w, suppliers)
}

// ListProducts handles product list requests
// 商品一覧リクエストを処理
func (h *Handlers) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.manager.Products(r.Context())
	if err != nil {
		h.sendError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.sendSuccess(w, products)
}

// GetInventory handles filtered inventory list requests
// 絞り込み付き在庫一覧リクエストを処理
func (h *Handlers) GetInventory(w http.ResponseWriter, r *http.Request) {
	selection, err := parseSelection(r)
	if err != nil {
		h.sendError(w, http.StatusBadRequest, "無効な絞り込みパラメータです")
		return
	}

	inventory, err := h.manager.Inventory(r.Context(), selection)
	if err != nil {
		h.sendError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.sendSuccess(w, inventory)
}

// GetSales handles filtered sales list requests
// 絞り込み付き売上一覧リクエストを処理
func (h *Handlers) GetSales(w http.ResponseWriter, r *http.Request) {
	selection, err := parseSelection(r)
	if err != nil {
		h.sendError(w, http.StatusBadRequest, "無効な絞り込みパラメータです")
		return
	}

	sales, err := h.manager.Sales(r.Context(), selection)
	if err != nil {
		h.sendError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.sendSuccess(w, sales)
}

// GetOrders handles filtered order list requests
// 絞り込み付き発注一覧リクエストを処理
func (h *Handlers) GetOrders(w http.ResponseWriter, r *http.Request) {
	selection, err := parseSelection(r)
	if err != nil {
		h.sendError(w, http.StatusBadRequest, "無効な絞り込みパラメータです")
		return
	}

	orders, err := h.manager.Orders(r.Context(), selection)
	if err != nil {
		h.sendError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.sendSuccess(w, orders)
}

// GetSummary handles dashboard summary requests
// ダッシュボード集計リクエストを処理
func (h *Handlers) GetSummary(w http.ResponseWriter, r *http.Request) {
	selection, err := parseSelection(r)
	if err != nil {
		h.sendError(w, http.StatusBadRequest, "無効な絞り込みパラメータです")
		return
	}

	// キャッシュ確認
	if h.cache != nil {
		if cached := h.cache.Get(r.Context(), selection); cached != nil {
			h.sendSuccess(w, cached)
			return
		}
	}

	summary, err := h.manager.Summary(r.Context(), selection, time.Now())
	if err != nil {
		h.sendError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if h.cache != nil {
		h.cache.Set(r.Context(), selection, summary)
	}

	h.sendSuccess(w, summary)
}

// GetPriceRecommendations handles pricing recommendation requests
// 価格推奨リクエストを処理
func (h *Handlers) GetPriceRecommendations(w http.ResponseWriter, r *http.Request) {
	selection, err := parseSelection(r)
	if err != nil {
		h.sendError(w, http.StatusBadRequest, "無効な絞り込みパラメータです")
		return
	}

	label := dashboard.RecommendationLabel(r.URL.Query().Get("recommendation"))

	rows, err := h.manager.PriceRecommendations(r.Context(), selection, label)
	if err != nil {
		h.sendError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.sendSuccess(w, rows)
}

// GetDemandEvents handles demand event requests
// 需要イベントリクエストを処理
func (h *Handlers) GetDemandEvents(w http.ResponseWriter, r *http.Request) {
	selection, err := parseSelection(r)
	if err != nil {
		h.sendError(w, http.StatusBadRequest, "無効な絞り込みパラメータです")
		return
	}

	h.sendSuccess(w, h.manager.DemandEvents(selection.RegionID))
}

// GetLiveActivity handles live activity feed requests
// ライブアクティビティリクエストを処理
func (h *Handlers) GetLiveActivity(w http.ResponseWriter, r *http.Request) {
	h.sendSuccess(w, h.feed.Samples())
}

// CreateSale handles sale registration requests
// 売上登録リクエストを処理
func (h *Handlers) CreateSale(w http.ResponseWriter, r *http.Request) {
	var sale dashboard.NewSale
	if err := json.NewDecoder(r.Body).Decode(&sale); err != nil {
		h.sendError(w, http.StatusBadRequest, "無効なリクエスト形式です")
		return
	}

	created, err := h.manager.RecordSale(r.Context(), sale)
	if err != nil {
		h.sendError(w, writeStatus(err), err.Error())
		return
	}

	h.invalidateSummary(r)
	h.sendSuccess(w, created)
}

// CreateOrder handles order placement requests
// 発注登録リクエストを処理
func (h *Handlers) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var order dashboard.NewOrder
	if err := json.NewDecoder(r.Body).Decode(&order); err != nil {
		h.sendError(w, http.StatusBadRequest, "無効なリクエスト形式です")
		return
	}

	created, err := h.manager.PlaceOrder(r.Context(), order)
	if err != nil {
		h.sendError(w, writeStatus(err), err.Error())
		return
	}

	h.invalidateSummary(r)
	h.sendSuccess(w, created)
}

// UpdateInventory handles inventory adjustment requests
// 在庫調整リクエストを処理
func (h *Handlers) UpdateInventory(w http.ResponseWriter, r *http.Request) {
	var delta dashboard.InventoryDelta
	if err := json.NewDecoder(r.Body).Decode(&delta); err != nil {
		h.sendError(w, http.StatusBadRequest, "無効なリクエスト形式です")
		return
	}

	updated, err := h.manager.AdjustInventory(r.Context(), delta)
	if err != nil {
		h.sendError(w, writeStatus(err), err.Error())
		return
	}

	h.invalidateSummary(r)
	h.sendSuccess(w, updated)
}

// invalidateSummary drops cached summaries after a write
// 書き込み後にキャッシュ済み集計を破棄
func (h *Handlers) invalidateSummary(r *http.Request) {
	if h.cache != nil {
		h.cache.Invalidate(r.Context())
	}
}

// writeStatus maps write path errors to HTTP status codes
// 書き込みエラーをHTTPステータスコードへ変換
func writeStatus(err error) int {
	var validationErr *dashboard.ValidationError
	if errors.As(err, &validationErr) {
		return http.StatusBadRequest
	}

	switch {
	case errors.Is(err, dashboard.ErrRegionNotFound),
		errors.Is(err, dashboard.ErrLocationNotFound),
		errors.Is(err, dashboard.ErrProductNotFound),
		errors.Is(err, dashboard.ErrSupplierNotFound),
		errors.Is(err, dashboard.ErrInventoryNotFound):
		return http.StatusNotFound
	case errors.Is(err, dashboard.ErrInsufficientStock):
		return http.StatusConflict
	}

	return http.StatusInternalServerError
}

// ヘルパーメソッド

// sendSuccess sends a successful API response
// 成功APIレスポンスを送信
func (h *Handlers) sendSuccess(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	response := APIResponse{
		Success: true,
		Data:    data,
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("レスポンス送信に失敗しました", zap.Error(err))
	}
}

// sendError sends an error API response
// エラーAPIレスポンスを送信
func (h *Handlers) sendError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := APIResponse{
		Success: false,
		Error:   message,
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("エラーレスポンス送信に失敗しました", zap.Error(err))
	}
}
