package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// TestLiveActivityFeed_Samples はサンプル生成と累積カウントのテスト
func TestLiveActivityFeed_Samples(t *testing.T) {
	feed := NewLiveActivityFeed(10*time.Millisecond, zap.NewNop())

	feed.Start(context.Background())
	time.Sleep(65 * time.Millisecond)
	feed.Stop()

	samples := feed.Samples()
	assert.NotEmpty(t, samples)

	// カウントは1から始まる単調増加
	for i, sample := range samples {
		assert.Equal(t, i+1, sample.Count)
		assert.False(t, sample.Timestamp.IsZero())
	}
}

// TestLiveActivityFeed_StopIdempotent はStopの多重呼び出しのテスト
func TestLiveActivityFeed_StopIdempotent(t *testing.T) {
	feed := NewLiveActivityFeed(10*time.Millisecond, zap.NewNop())

	// 未開始のStopも安全
	feed.Stop()

	feed.Start(context.Background())
	feed.Stop()
	feed.Stop()

	// 停止後はサンプルが増えない
	count := len(feed.Samples())
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, count, len(feed.Samples()))
}

// TestLiveActivityFeed_RestartResets は再開時のシーケンスリセットのテスト
func TestLiveActivityFeed_RestartResets(t *testing.T) {
	feed := NewLiveActivityFeed(10*time.Millisecond, zap.NewNop())

	feed.Start(context.Background())
	time.Sleep(35 * time.Millisecond)
	feed.Stop()
	assert.NotEmpty(t, feed.Samples())

	// 再開でシーケンスは最初から
	feed.Start(context.Background())
	time.Sleep(15 * time.Millisecond)
	feed.Stop()

	samples := feed.Samples()
	assert.NotEmpty(t, samples)
	assert.Equal(t, 1, samples[0].Count)
}

// TestLiveActivityFeed_ContextCancel はコンテキスト終了で停止することのテスト
func TestLiveActivityFeed_ContextCancel(t *testing.T) {
	feed := NewLiveActivityFeed(10*time.Millisecond, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	feed.Start(ctx)
	time.Sleep(25 * time.Millisecond)
	cancel()

	// 終了後はサンプルが増えない
	time.Sleep(30 * time.Millisecond)
	count := len(feed.Samples())
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, count, len(feed.Samples()))

	// 停止済みフィードへのStopも安全
	feed.Stop()
}

// TestLiveActivityFeed_DefaultInterval は不正な間隔のフォールバックのテスト
func TestLiveActivityFeed_DefaultInterval(t *testing.T) {
	feed := NewLiveActivityFeed(0, nil)
	assert.Equal(t, DefaultLiveActivityInterval, feed.interval)

	feed = NewLiveActivityFeed(-time.Second, nil)
	assert.Equal(t, DefaultLiveActivityInterval, feed.interval)
}
