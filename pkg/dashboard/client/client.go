// Package client consumes the dashboard's REST collection API. Read
// failures and unexpected response shapes are absorbed here: the analytics
// core always receives a well-formed (possibly empty) collection.
// ダッシュボードのRESTコレクションAPIを利用するクライアントを提供
// （読み取り失敗や不正な形式はここで吸収し、コアには常に整形済みコレクションを渡す）
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nemonet1337/hanbaiGoDashboard/pkg/dashboard"
)

// Client is an HTTP client for the dashboard collection API
// ダッシュボードコレクションAPI用のHTTPクライアント
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a client for the given base URL (e.g. "http://host/api/v1")
// 指定ベースURL用のクライアントを作成
func NewClient(baseURL string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// envelope is the standard API response wrapper. Plain-array responses
// from other collection sources arrive without it.
// 標準APIレスポンスのラッパーを表現（他ソースの素の配列はラッパーなし）
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

// unwrap extracts the data payload from an enveloped response, or returns
// the body unchanged when no envelope is present
// ラッパー付きレスポンスからデータ部を取り出す（ラッパーなしはそのまま）
func unwrap(raw json.RawMessage) json.RawMessage {
	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil && env.Success && len(env.Data) > 0 {
		return env.Data
	}
	return raw
}

// withFilters builds the optional filter query string
// 絞り込みクエリ文字列を組み立てる
func withFilters(selection dashboard.FilterSelection) string {
	params := url.Values{}
	if selection.RegionID != nil {
		params.Set("region_id", strconv.FormatInt(*selection.RegionID, 10))
	}
	if selection.LocationID != nil {
		params.Set("location_id", strconv.FormatInt(*selection.LocationID, 10))
	}
	if len(params) == 0 {
		return ""
	}
	return "?" + params.Encode()
}

// getCollection fetches an ordered sequence of rows. A single-object
// response is normalized to a one-element sequence; a transport failure,
// non-2xx status or non-collection shape yields an empty sequence.
// コレクションを取得（単一オブジェクトは1要素列に正規化、失敗時は空列）
func getCollection[T any](c *Client, ctx context.Context, path string, selection dashboard.FilterSelection) []T {
	target := c.baseURL + path + withFilters(selection)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		c.logger.Warn("リクエスト作成に失敗しました", zap.String("url", target), zap.Error(err))
		return []T{}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("コレクション取得に失敗しました", zap.String("url", target), zap.Error(err))
		return []T{}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("コレクション取得が失敗ステータスを返しました",
			zap.String("url", target), zap.Int("status", resp.StatusCode))
		return []T{}
	}

	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		c.logger.Warn("レスポンスの読み取りに失敗しました", zap.String("url", target), zap.Error(err))
		return []T{}
	}
	raw = unwrap(raw)

	// nullは空列として扱う
	if string(raw) == "null" {
		return []T{}
	}

	var rows []T
	if err := json.Unmarshal(raw, &rows); err == nil {
		return rows
	}

	// 単一オブジェクトを1要素列に正規化
	var single T
	if err := json.Unmarshal(raw, &single); err == nil {
		return []T{single}
	}

	c.logger.Warn("予期しないレスポンス形式です", zap.String("url", target))
	return []T{}
}

// Regions fetches the region reference data
// 地域参照データを取得
func (c *Client) Regions(ctx context.Context) []dashboard.Region {
	return getCollection[dashboard.Region](c, ctx, "/regions", dashboard.FilterSelection{})
}

// Locations fetches the location reference data
// ロケーション参照データを取得
func (c *Client) Locations(ctx context.Context) []dashboard.Location {
	return getCollection[dashboard.Location](c, ctx, "/locations", dashboard.FilterSelection{})
}

// Suppliers fetches the supplier reference data
// サプライヤー参照データを取得
func (c *Client) Suppliers(ctx context.Context) []dashboard.Supplier {
	return getCollection[dashboard.Supplier](c, ctx, "/suppliers", dashboard.FilterSelection{})
}

// Products fetches the product reference data
// 商品参照データを取得
func (c *Client) Products(ctx context.Context) []dashboard.Product {
	return getCollection[dashboard.Product](c, ctx, "/products", dashboard.FilterSelection{})
}

// Inventory fetches inventory records narrowed by the selection
// 絞り込み済みの在庫レコードを取得
func (c *Client) Inventory(ctx context.Context, selection dashboard.FilterSelection) []dashboard.InventoryRecord {
	return getCollection[dashboard.InventoryRecord](c, ctx, "/inventory", selection)
}

// Sales fetches sale records narrowed by the selection
// 絞り込み済みの販売レコードを取得
func (c *Client) Sales(ctx context.Context, selection dashboard.FilterSelection) []dashboard.SaleRecord {
	return getCollection[dashboard.SaleRecord](c, ctx, "/sales", selection)
}

// Orders fetches supplier orders narrowed by the selection
// 絞り込み済みの発注レコードを取得
func (c *Client) Orders(ctx context.Context, selection dashboard.FilterSelection) []dashboard.OrderRecord {
	return getCollection[dashboard.OrderRecord](c, ctx, "/orders", selection)
}

// write sends a JSON payload and decodes the created/updated row. Write
// failures surface as errors; they are not absorbed like read failures.
// 書き込みリクエストを送信（読み取りと異なり、失敗はエラーとして返す）
func write[T any](c *Client, ctx context.Context, method, path string, payload interface{}) (*T, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("リクエストの直列化に失敗しました: %w", err)
	}

	target := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, target, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("リクエスト作成に失敗しました: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("書き込みリクエストに失敗しました: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("書き込みが失敗ステータスを返しました: %s %s -> %d", method, path, resp.StatusCode)
	}

	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("レスポンスの読み取りに失敗しました: %w", err)
	}

	var row T
	if err := json.Unmarshal(unwrap(raw), &row); err != nil {
		return nil, fmt.Errorf("レスポンスの解析に失敗しました: %w", err)
	}
	return &row, nil
}

// CreateSale records a new sale
// 新しい販売を登録
func (c *Client) CreateSale(ctx context.Context, sale dashboard.NewSale) (*dashboard.SaleRecord, error) {
	return write[dashboard.SaleRecord](c, ctx, http.MethodPost, "/sales", sale)
}

// CreateOrder places a new supplier order
// 新しいサプライヤー発注を登録
func (c *Client) CreateOrder(ctx context.Context, order dashboard.NewOrder) (*dashboard.OrderRecord, error) {
	return write[dashboard.OrderRecord](c, ctx, http.MethodPost, "/orders", order)
}

// UpdateInventory applies an inventory delta
// 在庫の増減を適用
func (c *Client) UpdateInventory(ctx context.Context, delta dashboard.InventoryDelta) (*dashboard.InventoryRecord, error) {
	return write[dashboard.InventoryRecord](c, ctx, http.MethodPut, "/inventory", delta)
}
