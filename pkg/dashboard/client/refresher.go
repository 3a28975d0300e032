package client

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/nemonet1337/hanbaiGoDashboard/pkg/dashboard"
)

// Snapshot holds the filterable collections fetched for one selection
// 1つの絞り込みに対して取得したコレクション一式を保持
type Snapshot struct {
	Selection dashboard.FilterSelection    `json:"selection"` // 取得時の絞り込み
	Inventory []dashboard.InventoryRecord  `json:"inventory"` // 在庫
	Sales     []dashboard.SaleRecord       `json:"sales"`     // 販売
	Orders    []dashboard.OrderRecord      `json:"orders"`    // 発注
}

// Fetcher is the collection source a Refresher pulls from
// Refresherが利用するコレクション取得元を定義
type Fetcher interface {
	Inventory(ctx context.Context, selection dashboard.FilterSelection) []dashboard.InventoryRecord
	Sales(ctx context.Context, selection dashboard.FilterSelection) []dashboard.SaleRecord
	Orders(ctx context.Context, selection dashboard.FilterSelection) []dashboard.OrderRecord
}

// Refresher fetches collection snapshots with a generation guard: when the
// filter changes while a fetch is in flight, the stale response is
// discarded instead of overwriting the newer snapshot. "Last request
// started wins" is not enough; only the newest started refresh may apply.
// 世代ガード付きでコレクションスナップショットを取得
// （絞り込み変更中に届いた古い応答は破棄し、最新の取得のみを反映）
type Refresher struct {
	fetcher Fetcher
	logger  *zap.Logger

	mu         sync.Mutex
	generation uint64
	current    *Snapshot
}

// NewRefresher creates a refresher over the given fetcher
// 指定の取得元に対するRefresherを作成
func NewRefresher(fetcher Fetcher, logger *zap.Logger) *Refresher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Refresher{
		fetcher: fetcher,
		logger:  logger,
	}
}

// Refresh fetches a snapshot for the selection. The returned bool reports
// whether the snapshot was applied; false means a newer refresh started
// while this one was in flight and its result was discarded.
// 絞り込みに対するスナップショットを取得（falseは古い応答として破棄）
func (r *Refresher) Refresh(ctx context.Context, selection dashboard.FilterSelection) (*Snapshot, bool) {
	r.mu.Lock()
	r.generation++
	generation := r.generation
	r.mu.Unlock()

	snapshot := &Snapshot{
		Selection: selection,
		Inventory: r.fetcher.Inventory(ctx, selection),
		Sales:     r.fetcher.Sales(ctx, selection),
		Orders:    r.fetcher.Orders(ctx, selection),
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if generation != r.generation {
		r.logger.Debug("古いスナップショットを破棄しました",
			zap.Uint64("generation", generation),
			zap.Uint64("current", r.generation),
		)
		return nil, false
	}

	r.current = snapshot
	return snapshot, true
}

// Current returns the most recently applied snapshot, or nil before the
// first successful refresh
// 最後に反映されたスナップショットを返す（初回取得前はnil）
func (r *Refresher) Current() *Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}
