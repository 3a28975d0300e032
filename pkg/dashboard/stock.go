package dashboard

// StockThresholds holds the overstock / understock boundaries. Quantities
// strictly above Overstock are overstocked, strictly below Understock are
// understocked; the boundary values themselves are normal.
// 過剰在庫・低在庫の閾値を保持（境界値そのものは正常域）
type StockThresholds struct {
	Overstock  int64 `yaml:"overstock"`  // 過剰在庫閾値
	Understock int64 `yaml:"understock"` // 低在庫閾値
}

// DefaultStockThresholds returns the standard thresholds
// 標準の閾値を返す
func DefaultStockThresholds() StockThresholds {
	return StockThresholds{
		Overstock:  400,
		Understock: 20,
	}
}

// Overstocked returns the inventory records with quantity strictly above
// the overstock threshold. Duplicate (product, location) rows are summed
// before comparison.
// 過剰在庫のレコードを返す（重複行は合算してから判定）
func (t StockThresholds) Overstocked(inventory []InventoryRecord) []InventoryRecord {
	return classify(inventory, func(quantity int64) bool {
		return quantity > t.Overstock
	})
}

// Understocked returns the inventory records with quantity strictly below
// the understock threshold. Duplicate (product, location) rows are summed
// before comparison.
// 低在庫のレコードを返す（重複行は合算してから判定）
func (t StockThresholds) Understocked(inventory []InventoryRecord) []InventoryRecord {
	return classify(inventory, func(quantity int64) bool {
		return quantity < t.Understock
	})
}

// classify merges duplicate (product, location) rows by summing their
// quantities, then keeps the rows matching the predicate. First-seen order
// is preserved.
// 重複レコードを合算した上で条件に一致する行を返す
func classify(inventory []InventoryRecord, match func(int64) bool) []InventoryRecord {
	type pairKey struct {
		productID  int64
		locationID int64
	}

	merged := make(map[pairKey]int, len(inventory))
	rows := make([]InventoryRecord, 0, len(inventory))

	for _, record := range inventory {
		key := pairKey{productID: record.ProductID, locationID: record.LocationID}
		if idx, ok := merged[key]; ok {
			rows[idx].Quantity += record.Quantity
			continue
		}
		merged[key] = len(rows)
		rows = append(rows, record)
	}

	matched := make([]InventoryRecord, 0, len(rows))
	for _, record := range rows {
		if match(record.Quantity) {
			matched = append(matched, record)
		}
	}
	return matched
}
