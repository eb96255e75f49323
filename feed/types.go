package feed

import "encoding/json"

// WeekFeed is the vendor's weekly menu response for one (hall, meal) pair.
// Only the fields the pipeline depends on are declared; everything else in
// the payload is carried opaquely in the raw body.
type WeekFeed struct {
	SchoolSlug string    `json:"school_slug"`
	Days       []FeedDay `json:"days"`
}

// FeedDay is one calendar day of a weekly feed.
type FeedDay struct {
	Date      string                 `json:"date"`
	MenuItems []FeedItem             `json:"menu_items"`
	MenuInfo  map[string]SectionInfo `json:"menu_info"`
}

// SectionInfo describes one menu section. The feed keys sections by the
// stringified menu ID that items reference through their menu_id field.
type SectionInfo struct {
	SectionOptions SectionOptions `json:"section_options"`
}

// SectionOptions carries the section's display settings.
type SectionOptions struct {
	DisplayName string `json:"display_name"`
}

// FeedItem is one row of a day's menu. Rows without a food payload are
// placeholders; rows flagged as section titles are headings, not items.
type FeedItem struct {
	MenuID         json.Number `json:"menu_id"`
	IsSectionTitle bool        `json:"is_section_title"`
	Food           *Food       `json:"food"`
}

// Food is the vendor's food record attached to a menu item.
type Food struct {
	Name                 string          `json:"name"`
	Description          string          `json:"description"`
	FileURL              string          `json:"file_url"`
	ImageURL             string          `json:"image_url"`
	SyncedID             json.Number     `json:"synced_id"`
	ServingSizeInfo      ServingSizeInfo `json:"serving_size_info"`
	RoundedNutritionInfo NutritionInfo   `json:"rounded_nutrition_info"`
	Icons                FoodIcons       `json:"icons"`
}

// ServingSizeInfo carries the vendor's serving size fields.
type ServingSizeInfo struct {
	Amount json.Number `json:"serving_size_amount"`
	Unit   string      `json:"serving_size_unit"`
	Grams  *float64    `json:"serving_size_grams"`
}

// NutritionInfo carries the vendor's rounded nutrition facts.
// Pointers distinguish absent values from zero.
type NutritionInfo struct {
	Calories   *float64 `json:"calories"`
	Protein    *float64 `json:"g_protein"`
	Fat        *float64 `json:"g_fat"`
	Carbs      *float64 `json:"g_carbs"`
	Sodium     *float64 `json:"mg_sodium"`
	Fiber      *float64 `json:"g_fiber"`
	Sugar      *float64 `json:"g_sugar"`
	AddedSugar *float64 `json:"g_added_sugar"`
}

// FoodIcons groups the vendor's dietary icon annotations.
type FoodIcons struct {
	FoodIcons []FoodIcon `json:"food_icons"`
}

// FoodIcon is one dietary annotation. Only icons marked as filters or
// highlights map to dietary tags.
type FoodIcon struct {
	Slug        string `json:"slug"`
	SyncedName  string `json:"synced_name"`
	IsFilter    bool   `json:"is_filter"`
	IsHighlight bool   `json:"is_highlight"`
}

// Empty reports whether the week contains no real menu data: every item on
// every day lacks a named food payload. The vendor serves such weeks for
// halls that are closed, sometimes with empty food objects in place of
// missing ones.
func (w *WeekFeed) Empty() bool {
	for _, day := range w.Days {
		for _, item := range day.MenuItems {
			if item.Food != nil && item.Food.Name != "" {
				return false
			}
		}
	}
	return true
}

// TagSlug returns the icon's dietary tag slug, preferring the explicit slug
// over the synced name.
func (i FoodIcon) TagSlug() string {
	if i.Slug != "" {
		return i.Slug
	}
	return i.SyncedName
}
