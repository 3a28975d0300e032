package dashboard

import "fmt"

// FilterResolver owns the active (region, location) selection and enforces
// the containment invariant between them: a location can only be selected
// inside its owning region, and changing the region always clears the
// location.
// アクティブな（地域、ロケーション）選択を保持し、包含関係を保証
type FilterResolver struct {
	selection FilterSelection
	locations map[int64]Location // ロケーションIDからの参照インデックス
}

// NewFilterResolver creates a resolver over the given reference locations
// 参照ロケーション一覧から新しいリゾルバを作成
func NewFilterResolver(locations []Location) *FilterResolver {
	index := make(map[int64]Location, len(locations))
	for _, loc := range locations {
		index[loc.ID] = loc
	}
	return &FilterResolver{locations: index}
}

// Selection returns a copy of the current selection
// 現在の選択のコピーを返す
func (r *FilterResolver) Selection() FilterSelection {
	sel := FilterSelection{}
	if r.selection.RegionID != nil {
		id := *r.selection.RegionID
		sel.RegionID = &id
	}
	if r.selection.LocationID != nil {
		id := *r.selection.LocationID
		sel.LocationID = &id
	}
	return sel
}

// SetRegion sets the selected region and unconditionally clears the
// location: a location selection is region-scoped and cannot survive a
// region change. Passing nil clears the region filter.
// 地域を設定し、ロケーション選択を必ずクリアする
func (r *FilterResolver) SetRegion(regionID *int64) {
	r.selection.LocationID = nil
	if regionID == nil {
		r.selection.RegionID = nil
		return
	}
	id := *regionID
	r.selection.RegionID = &id
}

// SetLocation sets the selected location. A location outside the currently
// selected region is rejected with ErrLocationOutsideRegion; an unknown
// location is rejected with ErrLocationNotFound. Passing nil clears the
// location filter.
// ロケーションを設定する（選択地域外のロケーションは拒否）
func (r *FilterResolver) SetLocation(locationID *int64) error {
	if locationID == nil {
		r.selection.LocationID = nil
		return nil
	}

	loc, ok := r.locations[*locationID]
	if !ok {
		return ErrLocationNotFound
	}

	if r.selection.RegionID != nil && loc.RegionID != *r.selection.RegionID {
		return fmt.Errorf("ロケーション %d (地域 %d): %w", loc.ID, loc.RegionID, ErrLocationOutsideRegion)
	}

	id := *locationID
	r.selection.LocationID = &id
	return nil
}

// FilterLocations returns the subsequence of locations whose region matches
// the selection, or all locations when no region is selected. Order is
// preserved.
// 選択地域に属するロケーションのみを返す（地域未選択時は全件）
func FilterLocations(locations []Location, selection FilterSelection) []Location {
	if selection.RegionID == nil {
		return locations
	}

	filtered := make([]Location, 0, len(locations))
	for _, loc := range locations {
		if loc.RegionID == *selection.RegionID {
			filtered = append(filtered, loc)
		}
	}
	return filtered
}
