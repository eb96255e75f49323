package canonical

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"The Grill House", "the-grill-house"},
		{"Mac & Cheese!", "mac-cheese"},
		{"  spaces  ", "spaces"},
		{"Item 2 Go", "item-2-go"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}

func TestCleanDescription(t *testing.T) {
	boilerplate := []string{"prep time", "cook time"}

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"strips boilerplate", "Grilled patty. Prep Time: 10 min", "Grilled patty. : 10 min"},
		{"case insensitive", "COOK TIME 5m, delicious", "5m, delicious"},
		{"collapses whitespace", "a  b\n\tc", "a b c"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanDescription(tt.in, boilerplate))
		})
	}
}

func TestOzToGrams(t *testing.T) {
	g, ok := OzToGrams("2")
	assert.True(t, ok)
	assert.Equal(t, 56.7, g)

	g, ok = OzToGrams("1")
	assert.True(t, ok)
	assert.Equal(t, 28.3, g)

	_, ok = OzToGrams("two")
	assert.False(t, ok)

	_, ok = OzToGrams("")
	assert.False(t, ok)
}

func TestMapDietTags(t *testing.T) {
	assert.Equal(t,
		[]string{"https://schema.org/VegetarianDiet", "https://schema.org/GlutenFreeDiet"},
		MapDietTags([]string{"Vegetarian", "GlutenFree"}))
	assert.Nil(t, MapDietTags(nil))
}
