package dashboard

import "strings"

// ActionKind is the tagged classification of a demand event's recommended
// action. Seeded catalog entries carry their kind from authoring time;
// ClassifyAction exists for free-text events from external sources.
// 需要イベントの推奨アクションの分類を表現
type ActionKind string

const (
	ActionOrder   ActionKind = "order"   // 追加発注
	ActionMonitor ActionKind = "monitor" // 在庫監視
	ActionPricing ActionKind = "pricing" // 価格確認
	ActionGeneric ActionKind = "generic" // 汎用アクション
)

// DemandEvent describes an anticipated regional event with a suggested
// response action
// 地域の需要イベントと推奨対応アクションを表現
type DemandEvent struct {
	ID                int64      `json:"id"`                 // イベントID
	RegionID          int64      `json:"region_id"`          // 対象地域ID
	RegionName        string     `json:"region"`             // 対象地域名
	Event             string     `json:"event"`              // イベント名
	Description       string     `json:"description"`        // 説明
	RecommendedAction string     `json:"recommended_action"` // 推奨アクション（自由記述）
	Action            ActionKind `json:"action"`             // 分類済みアクション
}

// ActionRoute is the navigation target derived from an action kind
// アクション分類から導出される遷移先を表現
type ActionRoute struct {
	Label  string `json:"label"`  // ボタンラベル
	Target string `json:"target"` // 遷移先パス（汎用アクションは空）
}

// ClassifyAction classifies a free-text recommended action by
// case-insensitive substring match, in priority order. Best-effort
// heuristic: arbitrary text outside the known phrasings falls through to
// the generic kind.
// 自由記述の推奨アクションを部分一致で分類（優先順あり、ベストエフォート）
func ClassifyAction(recommendedAction string) ActionKind {
	text := strings.ToLower(recommendedAction)
	switch {
	case strings.Contains(text, "order"):
		return ActionOrder
	case strings.Contains(text, "monitor"):
		return ActionMonitor
	case strings.Contains(text, "check price"):
		return ActionPricing
	default:
		return ActionGeneric
	}
}

// RouteForAction maps an action kind to its navigation target
// アクション分類を遷移先にマッピング
func RouteForAction(kind ActionKind) ActionRoute {
	switch kind {
	case ActionOrder:
		return ActionRoute{Label: "Order More", Target: "/orders"}
	case ActionMonitor:
		return ActionRoute{Label: "Monitor Inventory", Target: "/inventory"}
	case ActionPricing:
		return ActionRoute{Label: "Check Pricing", Target: "/pricing-adjustments"}
	default:
		return ActionRoute{Label: "Take Action"}
	}
}

// EventsForRegion returns all events when regionID is nil, else only the
// events tagged with that region. Catalog order is preserved.
// 地域未選択時は全イベント、選択時は該当地域のイベントのみを返す
func EventsForRegion(catalog []DemandEvent, regionID *int64) []DemandEvent {
	if regionID == nil {
		return catalog
	}

	filtered := make([]DemandEvent, 0, len(catalog))
	for _, event := range catalog {
		if event.RegionID == *regionID {
			filtered = append(filtered, event)
		}
	}
	return filtered
}

// SeedCatalog returns the static demand-event catalog: three events per
// region. Each entry's Action is decided here at authoring time.
// 静的な需要イベントカタログを返す（地域ごとに3件）
func SeedCatalog() []DemandEvent {
	events := []DemandEvent{
		{ID: 1, RegionID: 1, RegionName: "North", Event: "North Concert",
			Description:       "A major concert in the North, expected increase in beverage demand.",
			RecommendedAction: "Order more beverages"},
		{ID: 2, RegionID: 1, RegionName: "North", Event: "North Sports Event",
			Description:       "A sports event in the North, high demand for snacks.",
			RecommendedAction: "Order more snacks"},
		{ID: 3, RegionID: 1, RegionName: "North", Event: "North Festival",
			Description:       "A festival in the North, check price adjustments on produce.",
			RecommendedAction: "Check price adjustments on produce"},
		{ID: 4, RegionID: 2, RegionName: "South", Event: "South Concert",
			Description:       "Concert in the South, expected high demand for drinks.",
			RecommendedAction: "Order more drinks"},
		{ID: 5, RegionID: 2, RegionName: "South", Event: "South Sports Event",
			Description:       "Sports event in the South, require extra snacks.",
			RecommendedAction: "Order more snacks"},
		{ID: 6, RegionID: 2, RegionName: "South", Event: "South Festival",
			Description:       "Festival in the South, monitor inventory for beverages.",
			RecommendedAction: "Monitor inventory for beverages"},
		{ID: 7, RegionID: 3, RegionName: "East", Event: "East Concert",
			Description:       "Concert in the East, increased demand for beverages.",
			RecommendedAction: "Order more beverages"},
		{ID: 8, RegionID: 3, RegionName: "East", Event: "East Sports Event",
			Description:       "Sports event in the East, check price adjustments for snacks.",
			RecommendedAction: "Check price adjustments on snacks"},
		{ID: 9, RegionID: 3, RegionName: "East", Event: "East Festival",
			Description:       "Festival in the East, monitor inventory for fresh produce.",
			RecommendedAction: "Monitor inventory for produce"},
		{ID: 10, RegionID: 4, RegionName: "West", Event: "West Concert",
			Description:       "Concert in the West, expected surge in drink orders.",
			RecommendedAction: "Order more drinks"},
		{ID: 11, RegionID: 4, RegionName: "West", Event: "West Sports Event",
			Description:       "Sports event in the West, require extra snack supplies.",
			RecommendedAction: "Order more snacks"},
		{ID: 12, RegionID: 4, RegionName: "West", Event: "West Festival",
			Description:       "Festival in the West, check price adjustments on regional items.",
			RecommendedAction: "Check price adjustments on regional items"},
	}

	for i := range events {
		events[i].Action = ClassifyAction(events[i].RecommendedAction)
	}
	return events
}
