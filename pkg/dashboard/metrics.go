package dashboard

import (
	"time"

	"github.com/shopspring/decimal"
)

// Aggregation defaults
// 集計デフォルト値

// DefaultRecentOrderWindow is the trailing window for the recent-order count
// 「直近の発注」の集計ウィンドウ
const DefaultRecentOrderWindow = 72 * time.Hour

// DefaultOperatingExpenseRatio is the fixed ratio applied to revenue when
// estimating net operating income. Placeholder until a real cost model
// feeds the dashboard.
// 営業利益推定に使う固定比率（実コストモデル導入までのプレースホルダー）
var DefaultOperatingExpenseRatio = decimal.NewFromFloat(0.3)

// TotalRevenue sums total_price over all sales. Zero for an empty slice.
// 全販売の合計金額を集計（空の場合は0）
func TotalRevenue(sales []SaleRecord) decimal.Decimal {
	total := decimal.Zero
	for _, sale := range sales {
		total = total.Add(sale.TotalPrice)
	}
	return total
}

// AverageOrderValue returns total revenue divided by the number of sales,
// rounded to two decimal places. Zero for an empty slice.
// 平均注文金額を計算（小数点以下2桁、空の場合は0）
func AverageOrderValue(sales []SaleRecord) decimal.Decimal {
	if len(sales) == 0 {
		return decimal.Zero
	}
	return TotalRevenue(sales).Div(decimal.NewFromInt(int64(len(sales)))).Round(2)
}

// NetOperatingIncome estimates operating income as total revenue multiplied
// by the given ratio. The ratio is applied directly to revenue, treating it
// as the retained-income fraction.
// 営業利益を推定（合計売上 × 比率）
func NetOperatingIncome(sales []SaleRecord, ratio decimal.Decimal) decimal.Decimal {
	return TotalRevenue(sales).Mul(ratio).Round(2)
}

// OrdersWithinWindow returns the orders created strictly after now-window.
// An order created exactly window ago is excluded. Order is preserved.
// now-window より後に作成された発注のみを返す（境界は含まない）
func OrdersWithinWindow(orders []OrderRecord, now time.Time, window time.Duration) []OrderRecord {
	cutoff := now.Add(-window)

	recent := make([]OrderRecord, 0, len(orders))
	for _, order := range orders {
		if order.CreatedAt.After(cutoff) {
			recent = append(recent, order)
		}
	}
	return recent
}

// GrowthEstimate represents a month-over-month revenue growth figure. The
// zero value means the figure is not yet computed: growth needs a
// historical comparison data source the dashboard does not have yet, so no
// number is fabricated in the meantime.
// 前月比売上成長率を表現（ゼロ値は「未算出」を意味する）
type GrowthEstimate struct {
	Available bool            `json:"available"` // 算出済みかどうか
	Percent   decimal.Decimal `json:"percent"`   // 成長率（％）
}

// MonthOverMonthGrowth returns the growth placeholder. It reports
// unavailable until a historical revenue source is wired in.
// 前月比成長率を返す（履歴データソース導入までは常に未算出）
func MonthOverMonthGrowth() GrowthEstimate {
	return GrowthEstimate{Available: false}
}
