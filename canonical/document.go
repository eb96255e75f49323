package canonical

import (
	"github.com/poiesic/menusync/core"
)

const schemaContext = "https://schema.org"

// Menu is the canonical document for one menu section on one day,
// serialized as schema.org JSON-LD. The structured key is the source of
// truth for the document's identity; the storage filename is derived from
// it, never parsed back out.
type Menu struct {
	Key core.MenuKey `json:"-"`

	Context       string        `json:"@context"`
	Type          string        `json:"@type"`
	Name          string        `json:"name"`
	DatePublished string        `json:"datePublished"`
	Hall          string        `json:"hall"`
	Meal          string        `json:"meal"`
	Sections      []MenuSection `json:"hasMenuSection"`
}

// MenuSection groups the items of one named section.
type MenuSection struct {
	Type  string     `json:"@type"`
	Name  string     `json:"name"`
	Items []MenuItem `json:"hasMenuItem"`
}

// MenuItem is one food item with normalized text, serving and nutrition
// fields.
type MenuItem struct {
	Type            string    `json:"@type"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	URL             string    `json:"url"`
	Image           string    `json:"image"`
	ServingSize     string    `json:"servingSize"`
	ServingWeight   float64   `json:"servingWeight,omitempty"`
	VendorID        string    `json:"vendorID,omitempty"`
	Hall            string    `json:"hall"`
	Meal            string    `json:"meal"`
	DietTags        []string  `json:"dietTags,omitempty"`
	SuitableForDiet []string  `json:"suitableForDiet,omitempty"`
	Nutrition       Nutrition `json:"nutrition"`
}

// Nutrition carries schema.org nutrition facts. Pointers distinguish absent
// values from zero.
type Nutrition struct {
	Type       string   `json:"@type"`
	Calories   *float64 `json:"calories"`
	Protein    *float64 `json:"proteinContent"`
	Fat        *float64 `json:"fatContent"`
	Carbs      *float64 `json:"carbohydrateContent"`
	Sodium     *float64 `json:"sodiumContent"`
	Fiber      *float64 `json:"fiberContent"`
	Sugar      *float64 `json:"sugarContent"`
	AddedSugar *float64 `json:"addedSugarContent"`
}

// NewMenu creates an empty canonical menu document for the given key.
func NewMenu(key core.MenuKey) *Menu {
	return &Menu{
		Key:           key,
		Context:       schemaContext,
		Type:          "Menu",
		Name:          key.Section + " – " + key.Date,
		DatePublished: key.Date,
		Hall:          key.Hall,
		Meal:          key.Meal,
		Sections: []MenuSection{{
			Type: "MenuSection",
			Name: key.Section,
		}},
	}
}
