package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// テスト用のロケーション一覧
func testLocations() []Location {
	return []Location{
		{ID: 1, Name: "North Store 1", RegionID: 1},
		{ID: 2, Name: "North Store 2", RegionID: 1},
		{ID: 3, Name: "South Store 1", RegionID: 2},
		{ID: 4, Name: "South Store 2", RegionID: 2},
	}
}

// TestFilterResolver_SetRegion は地域選択でロケーションがクリアされることのテスト
func TestFilterResolver_SetRegion(t *testing.T) {
	resolver := NewFilterResolver(testLocations())

	regionID := int64(1)
	locationID := int64(2)

	resolver.SetRegion(&regionID)
	err := resolver.SetLocation(&locationID)
	assert.NoError(t, err)

	// 地域を変更するとロケーション選択は必ずクリアされる
	newRegionID := int64(2)
	resolver.SetRegion(&newRegionID)

	selection := resolver.Selection()
	assert.Equal(t, int64(2), *selection.RegionID)
	assert.Nil(t, selection.LocationID)
}

// TestFilterResolver_SetRegionSame は同一地域の再選択でもクリアされることのテスト
func TestFilterResolver_SetRegionSame(t *testing.T) {
	resolver := NewFilterResolver(testLocations())

	regionID := int64(1)
	locationID := int64(1)

	resolver.SetRegion(&regionID)
	assert.NoError(t, resolver.SetLocation(&locationID))

	// 同じ地域を再設定してもロケーションはクリアされる
	resolver.SetRegion(&regionID)

	selection := resolver.Selection()
	assert.Equal(t, int64(1), *selection.RegionID)
	assert.Nil(t, selection.LocationID)
}

// TestFilterResolver_SetLocationOutsideRegion は地域外ロケーション拒否のテスト
func TestFilterResolver_SetLocationOutsideRegion(t *testing.T) {
	resolver := NewFilterResolver(testLocations())

	regionID := int64(1)
	resolver.SetRegion(&regionID)

	// 地域2のロケーションは選択できない
	locationID := int64(3)
	err := resolver.SetLocation(&locationID)
	assert.ErrorIs(t, err, ErrLocationOutsideRegion)

	// 選択は変更されない
	selection := resolver.Selection()
	assert.Nil(t, selection.LocationID)
}

// TestFilterResolver_SetLocationUnknown は未知のロケーション拒否のテスト
func TestFilterResolver_SetLocationUnknown(t *testing.T) {
	resolver := NewFilterResolver(testLocations())

	locationID := int64(999)
	err := resolver.SetLocation(&locationID)
	assert.ErrorIs(t, err, ErrLocationNotFound)
}

// TestFilterResolver_SetLocationWithoutRegion は地域未選択時のロケーション選択テスト
func TestFilterResolver_SetLocationWithoutRegion(t *testing.T) {
	resolver := NewFilterResolver(testLocations())

	// 地域未選択ならどのロケーションでも選択可能
	locationID := int64(3)
	err := resolver.SetLocation(&locationID)
	assert.NoError(t, err)

	selection := resolver.Selection()
	assert.Nil(t, selection.RegionID)
	assert.Equal(t, int64(3), *selection.LocationID)
}

// TestFilterResolver_ClearFilters はnil指定によるクリアのテスト
func TestFilterResolver_ClearFilters(t *testing.T) {
	resolver := NewFilterResolver(testLocations())

	regionID := int64(1)
	locationID := int64(1)
	resolver.SetRegion(&regionID)
	assert.NoError(t, resolver.SetLocation(&locationID))

	assert.NoError(t, resolver.SetLocation(nil))
	resolver.SetRegion(nil)

	selection := resolver.Selection()
	assert.Nil(t, selection.RegionID)
	assert.Nil(t, selection.LocationID)
}

// TestFilterResolver_SelectionCopy は選択のコピーが独立していることのテスト
func TestFilterResolver_SelectionCopy(t *testing.T) {
	resolver := NewFilterResolver(testLocations())

	regionID := int64(1)
	resolver.SetRegion(&regionID)

	selection := resolver.Selection()
	*selection.RegionID = 99

	// コピー側の変更は内部状態に影響しない
	assert.Equal(t, int64(1), *resolver.Selection().RegionID)
}

// TestFilterLocations は地域によるロケーション絞り込みのテスト
func TestFilterLocations(t *testing.T) {
	locations := testLocations()

	// 地域未選択は全件
	all := FilterLocations(locations, FilterSelection{})
	assert.Len(t, all, 4)

	// 地域1は2件、順序維持
	regionID := int64(1)
	filtered := FilterLocations(locations, FilterSelection{RegionID: &regionID})
	assert.Len(t, filtered, 2)
	assert.Equal(t, int64(1), filtered[0].ID)
	assert.Equal(t, int64(2), filtered[1].ID)

	// 存在しない地域は空
	missing := int64(99)
	assert.Empty(t, FilterLocations(locations, FilterSelection{RegionID: &missing}))
}
