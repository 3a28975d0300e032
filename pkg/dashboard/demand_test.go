package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestClassifyAction は推奨アクション分類のテスト
func TestClassifyAction(t *testing.T) {
	assert.Equal(t, ActionOrder, ClassifyAction("Order more beverages"))
	assert.Equal(t, ActionMonitor, ClassifyAction("Monitor inventory for produce"))
	assert.Equal(t, ActionPricing, ClassifyAction("Check price adjustments on snacks"))
	assert.Equal(t, ActionGeneric, ClassifyAction("Prepare staffing plan"))
}

// TestClassifyAction_CaseInsensitive は大文字小文字を無視することのテスト
func TestClassifyAction_CaseInsensitive(t *testing.T) {
	assert.Equal(t, ActionOrder, ClassifyAction("ORDER MORE DRINKS"))
	assert.Equal(t, ActionPricing, ClassifyAction("CHECK PRICE adjustments"))
}

// TestClassifyAction_Priority は分類の優先順のテスト
func TestClassifyAction_Priority(t *testing.T) {
	// "order" が "monitor" より優先される
	assert.Equal(t, ActionOrder, ClassifyAction("Monitor and order more stock"))
	// "monitor" が "check price" より優先される
	assert.Equal(t, ActionMonitor, ClassifyAction("Monitor inventory and check price"))
}

// TestRouteForAction はアクション分類から遷移先へのマッピングのテスト
func TestRouteForAction(t *testing.T) {
	route := RouteForAction(ActionOrder)
	assert.Equal(t, "Order More", route.Label)
	assert.Equal(t, "/orders", route.Target)

	route = RouteForAction(ActionMonitor)
	assert.Equal(t, "Monitor Inventory", route.Label)
	assert.Equal(t, "/inventory", route.Target)

	route = RouteForAction(ActionPricing)
	assert.Equal(t, "Check Pricing", route.Label)
	assert.Equal(t, "/pricing-adjustments", route.Target)

	// 汎用アクションは遷移先なし
	route = RouteForAction(ActionGeneric)
	assert.Equal(t, "Take Action", route.Label)
	assert.Empty(t, route.Target)
}

// TestEventsForRegion は地域によるイベント絞り込みのテスト
func TestEventsForRegion(t *testing.T) {
	catalog := SeedCatalog()

	// 地域未選択は全件
	assert.Len(t, EventsForRegion(catalog, nil), 12)

	// 各地域3件ずつ
	for _, regionID := range []int64{1, 2, 3, 4} {
		id := regionID
		events := EventsForRegion(catalog, &id)
		assert.Len(t, events, 3)
		for _, event := range events {
			assert.Equal(t, regionID, event.RegionID)
		}
	}

	// 存在しない地域は空
	missing := int64(99)
	assert.Empty(t, EventsForRegion(catalog, &missing))
}

// TestSeedCatalog はシードカタログの内容のテスト
func TestSeedCatalog(t *testing.T) {
	catalog := SeedCatalog()
	assert.Len(t, catalog, 12)

	// 全イベントに分類済みアクションが付与されている
	for _, event := range catalog {
		assert.NotEmpty(t, event.Action, "event %d", event.ID)
		assert.Equal(t, ClassifyAction(event.RecommendedAction), event.Action)
	}

	// イベント4は南地域に属する
	assert.Equal(t, int64(2), catalog[3].RegionID)
	assert.Equal(t, "South", catalog[3].RegionName)
}
