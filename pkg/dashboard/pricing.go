package dashboard

// RecommendationLabel is the price action suggested for a product-location
// 商品×ロケーションに対する価格アクションを表現
type RecommendationLabel string

const (
	RecommendationReduce   RecommendationLabel = "Reduce Price"   // 値下げ
	RecommendationIncrease RecommendationLabel = "Increase Price" // 値上げ
	RecommendationMaintain RecommendationLabel = "Maintain Price" // 現状維持
)

// PricingRules holds the bounds the recommendation engine applies. Rule 1
// (high stock, slow sales) wins over rule 2 (low stock, fast sales); the
// conditions are disjoint but the order is part of the contract.
// 価格推奨エンジンの判定境界を保持（ルール1がルール2に優先）
type PricingRules struct {
	HighStock int64 `yaml:"high_stock"` // これを超える在庫は過剰とみなす
	LowStock  int64 `yaml:"low_stock"`  // これを下回る在庫は僅少とみなす
	SlowSales int64 `yaml:"slow_sales"` // これを下回る販売数は低調とみなす
	FastSales int64 `yaml:"fast_sales"` // これを超える販売数は好調とみなす
}

// DefaultPricingRules returns the standard rule bounds
// 標準の判定境界を返す
func DefaultPricingRules() PricingRules {
	return PricingRules{
		HighStock: 300,
		LowStock:  50,
		SlowSales: 10,
		FastSales: 20,
	}
}

// PriceRecommendation is one engine output row per inventory record
// 在庫レコードごとの価格推奨行を表現
type PriceRecommendation struct {
	ProductID      int64               `json:"product_id"`     // 商品ID
	ProductName    string              `json:"product_name"`   // 商品名
	LocationID     int64               `json:"location_id"`    // ロケーションID
	LocationName   string              `json:"location_name"`  // ロケーション名
	Quantity       int64               `json:"quantity"`       // 在庫数量
	SalesCount     int64               `json:"sales_count"`    // 集計販売数量
	Recommendation RecommendationLabel `json:"recommendation"` // 推奨アクション
}

// SalesByProduct aggregates sold quantity per product across all sales
// 商品ごとの販売数量を集計
func SalesByProduct(sales []SaleRecord) map[int64]int64 {
	totals := make(map[int64]int64, len(sales))
	for _, sale := range sales {
		totals[sale.ProductID] += sale.Quantity
	}
	return totals
}

// Recommend joins inventory with aggregated sales and applies the rules in
// priority order: high stock with slow sales suggests a price reduction,
// low stock with fast sales suggests an increase, anything else maintains
// the current price. One row per inventory record, input order preserved.
// 在庫と販売集計を結合し、優先順に価格推奨を判定
func (r PricingRules) Recommend(inventory []InventoryRecord, sales []SaleRecord) []PriceRecommendation {
	salesByProduct := SalesByProduct(sales)

	recommendations := make([]PriceRecommendation, 0, len(inventory))
	for _, record := range inventory {
		salesCount := salesByProduct[record.ProductID]

		label := RecommendationMaintain
		switch {
		case record.Quantity > r.HighStock && salesCount < r.SlowSales:
			label = RecommendationReduce
		case record.Quantity < r.LowStock && salesCount > r.FastSales:
			label = RecommendationIncrease
		}

		recommendations = append(recommendations, PriceRecommendation{
			ProductID:      record.ProductID,
			ProductName:    record.ProductName,
			LocationID:     record.LocationID,
			LocationName:   record.LocationName,
			Quantity:       record.Quantity,
			SalesCount:     salesCount,
			Recommendation: label,
		})
	}
	return recommendations
}

// FilterByLabel restricts rows to one recommendation label. An empty label
// returns all rows.
// 指定の推奨ラベルの行のみを返す（空ラベルは全件）
func FilterByLabel(rows []PriceRecommendation, label RecommendationLabel) []PriceRecommendation {
	if label == "" {
		return rows
	}

	filtered := make([]PriceRecommendation, 0, len(rows))
	for _, row := range rows {
		if row.Recommendation == label {
			filtered = append(filtered, row)
		}
	}
	return filtered
}
