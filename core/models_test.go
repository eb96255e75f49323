package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIDFromContent_Deterministic(t *testing.T) {
	id1 := IDFromContent("menus_2025-08-05/four-lakes-market_lunch_grill_2025-08-05")
	id2 := IDFromContent("menus_2025-08-05/four-lakes-market_lunch_grill_2025-08-05")
	assert.Equal(t, id1, id2, "same content must produce same ID")

	other := IDFromContent("menus_2025-08-06/four-lakes-market_lunch_grill_2025-08-06")
	assert.NotEqual(t, id1, other, "different content must produce different IDs")
}

func TestMenuKey_Filename(t *testing.T) {
	key := MenuKey{
		Hall:    "four-lakes-market",
		Meal:    "lunch",
		Section: "The Grill House",
		Date:    "2025-08-05",
	}
	assert.Equal(t, "four-lakes-market_lunch_the_grill_house_2025-08-05.jsonld", key.Filename())
	assert.Equal(t, "four-lakes-market_lunch_the_grill_house_2025-08-05", key.DocID())
}

func TestSiteTag(t *testing.T) {
	assert.Equal(t, "menus_2025-08-05", SiteTag("2025-08-05"))
}

func TestLoadState_Marking(t *testing.T) {
	state := &LoadState{Date: "2025-08-05"}

	state.MarkLoaded("a.jsonld")
	state.MarkLoaded("a.jsonld")
	assert.Equal(t, []string{"a.jsonld"}, state.Loaded, "duplicates ignored")
	assert.True(t, state.IsLoaded("a.jsonld"))
	assert.False(t, state.IsLoaded("b.jsonld"))

	state.MarkFailed("b.jsonld")
	state.MarkFailed("b.jsonld")
	assert.Equal(t, []string{"b.jsonld"}, state.Failed)
}

func TestLoadState_Status(t *testing.T) {
	tests := []struct {
		name   string
		loaded []string
		failed []string
		want   RunStatus
	}{
		{"all loaded", []string{"a", "b"}, nil, StatusSuccess},
		{"mixed", []string{"a"}, []string{"b"}, StatusPartial},
		{"none loaded", nil, []string{"a", "b"}, StatusFailed},
		{"empty run", nil, nil, StatusSuccess},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := &LoadState{Loaded: tt.loaded, Failed: tt.failed}
			assert.Equal(t, tt.want, state.Status())
		})
	}
}

func TestMenuKey_Validate(t *testing.T) {
	valid := MenuKey{Hall: "h", Meal: "lunch", Section: "Grill", Date: "2025-08-05"}
	assert.NoError(t, valid.Validate())

	missing := MenuKey{Hall: "h", Meal: "lunch", Date: "2025-08-05"}
	assert.ErrorIs(t, missing.Validate(), ErrInvalidKey)

	badDate := MenuKey{Hall: "h", Meal: "lunch", Section: "Grill", Date: "08/05/2025"}
	assert.ErrorIs(t, badDate.Validate(), ErrInvalidDate)
}
