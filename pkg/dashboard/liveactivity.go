package dashboard

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultLiveActivityInterval is the sample generation interval
// サンプル生成の標準間隔
const DefaultLiveActivityInterval = 5 * time.Second

// ActivitySample is one point of the simulated activity stream
// シミュレーション活動ストリームの1サンプルを表現
type ActivitySample struct {
	Timestamp time.Time `json:"timestamp"` // サンプル時刻
	Count     int       `json:"count"`     // 累積カウント
}

// LiveActivityFeed produces a simulated increasing counter stream for
// visualization while no real-time order feed exists. The ticker is
// acquired on Start and released exactly once on Stop or context
// cancellation; restarting resets the sequence.
// 可視化用のシミュレーション活動ストリームを生成
// （タイマーはStartで取得、Stopまたはコンテキスト終了で必ず1回だけ解放）
type LiveActivityFeed struct {
	interval time.Duration
	logger   *zap.Logger

	mu      sync.Mutex
	samples []ActivitySample
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewLiveActivityFeed creates a feed with the given interval. A
// non-positive interval falls back to the default.
// 指定間隔でフィードを作成（0以下はデフォルト間隔）
func NewLiveActivityFeed(interval time.Duration, logger *zap.Logger) *LiveActivityFeed {
	if interval <= 0 {
		interval = DefaultLiveActivityInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LiveActivityFeed{
		interval: interval,
		logger:   logger,
	}
}

// Start begins producing samples until Stop is called or ctx is cancelled.
// A running feed is stopped first; the sequence resets on every start.
// サンプル生成を開始（再開時はシーケンスをリセット）
func (f *LiveActivityFeed) Start(ctx context.Context) {
	f.Stop()

	f.mu.Lock()
	f.samples = nil
	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	f.cancel = cancel
	f.done = done
	f.mu.Unlock()

	go f.run(runCtx, done)
}

// run owns the ticker for its lifetime
// タイマーの取得と解放を一手に担う
func (f *LiveActivityFeed) run(ctx context.Context, done chan struct{}) {
	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()
	defer close(done)

	for {
		select {
		case <-ctx.Done():
			f.logger.Debug("活動フィードを停止しました")
			return
		case now := <-ticker.C:
			f.append(now)
		}
	}
}

// append records one sample: count is the previous length plus one
// サンプルを1件追記（カウントは直前の件数+1）
func (f *LiveActivityFeed) append(now time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.samples = append(f.samples, ActivitySample{
		Timestamp: now,
		Count:     len(f.samples) + 1,
	})
}

// Stop cancels the feed. Safe to call multiple times and on a feed that
// was never started; it returns after the producing goroutine has exited.
// フィードを停止（多重呼び出し・未開始でも安全）
func (f *LiveActivityFeed) Stop() {
	f.mu.Lock()
	cancel := f.cancel
	done := f.done
	f.cancel = nil
	f.done = nil
	f.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Samples returns a copy of the sequence generated so far
// これまでに生成されたサンプル列のコピーを返す
func (f *LiveActivityFeed) Samples() []ActivitySample {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]ActivitySample, len(f.samples))
	copy(out, f.samples)
	return out
}
