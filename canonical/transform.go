package canonical

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/poiesic/menusync/core"
	"github.com/poiesic/menusync/feed"
)

// defaultBoilerplate lists the description substrings stripped from every
// item.
var defaultBoilerplate = []string{"prep time", "cook time"}

// exclusionMarker flags serving-size texts that denote per-customer station
// rows rather than real items.
const exclusionMarker = "customer"

// Transformer converts raw weekly feed payloads into canonical menu
// documents, one per (hall, meal, section, date). The transform is a
// single-threaded batch scan and is safe to re-run: output filenames are
// deterministic, so a second run overwrites the first.
type Transformer struct {
	raw         *feed.RawStore
	store       *Store
	boilerplate []string
	logger      *slog.Logger
}

// TransformerOption configures a Transformer.
type TransformerOption func(*Transformer)

// WithBoilerplate overrides the description substrings stripped from items.
func WithBoilerplate(phrases []string) TransformerOption {
	return func(t *Transformer) {
		t.boilerplate = phrases
	}
}

// WithTransformerLogger sets a custom logger. Default is slog.Default().
func WithTransformerLogger(logger *slog.Logger) TransformerOption {
	return func(t *Transformer) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// NewTransformer creates a transformer reading raw payloads and writing
// canonical documents.
func NewTransformer(raw *feed.RawStore, store *Store, opts ...TransformerOption) (*Transformer, error) {
	if raw == nil {
		return nil, ErrRawStoreRequired
	}
	if store == nil {
		return nil, ErrDocStoreRequired
	}

	t := &Transformer{
		raw:         raw,
		store:       store,
		boilerplate: defaultBoilerplate,
		logger:      slog.Default().With("component", "transformer"),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// TransformWeek converts every raw payload of the given week into canonical
// documents. Unparseable payloads are logged and skipped. Returns the number
// of documents written.
func (t *Transformer) TransformWeek(weekStart time.Time) (int, error) {
	files, err := t.raw.List(weekStart)
	if err != nil {
		return 0, fmt.Errorf("listing raw payloads: %w", err)
	}

	written := 0
	for _, rf := range files {
		week, err := t.raw.Read(rf)
		if err != nil {
			t.logger.Error("error reading raw payload", "path", rf.Path, "err", err)
			continue
		}

		for _, menu := range t.transformWeek(week, rf.Hall, rf.Meal) {
			path, err := t.store.Write(menu)
			if err != nil {
				t.logger.Error("error writing document", "doc", menu.Key.DocID(), "err", err)
				continue
			}
			t.logger.Debug("wrote document", "path", path)
			written++
		}
	}

	t.logger.Info("transform complete", "week", core.DateString(weekStart), "documents", written)
	return written, nil
}

// transformWeek produces one menu document per (section, date) present in a
// raw weekly payload.
func (t *Transformer) transformWeek(week *feed.WeekFeed, hall, meal string) []*Menu {
	var menus []*Menu
	for _, day := range week.Days {
		date := day.Date
		if date == "" {
			date = "unknown-date"
		}

		// Bucket items by section id, skipping heading rows.
		bySection := make(map[string][]feed.FeedItem)
		for _, item := range day.MenuItems {
			if item.IsSectionTitle {
				continue
			}
			bySection[item.MenuID.String()] = append(bySection[item.MenuID.String()], item)
		}

		for menuID, info := range day.MenuInfo {
			section := info.SectionOptions.DisplayName
			if section == "" {
				continue
			}
			items := bySection[menuID]
			if len(items) == 0 {
				continue
			}

			menu := NewMenu(core.MenuKey{Hall: hall, Meal: meal, Section: section, Date: date})
			for _, item := range items {
				if mi, ok := t.transformItem(item, menu.Key); ok {
					menu.Sections[0].Items = append(menu.Sections[0].Items, mi)
				}
			}
			menus = append(menus, menu)
		}
	}
	return menus
}

// transformItem normalizes one feed item. Returns false for excluded rows:
// items without a food payload, header rows whose name repeats the section
// name, and per-customer station rows.
func (t *Transformer) transformItem(item feed.FeedItem, key core.MenuKey) (MenuItem, bool) {
	food := item.Food
	if food == nil {
		return MenuItem{}, false
	}

	name := strings.TrimSpace(food.Name)
	if strings.EqualFold(name, strings.TrimSpace(key.Section)) {
		return MenuItem{}, false
	}

	size := food.ServingSizeInfo
	servingText := ""
	if amount := size.Amount.String(); amount != "" && amount != "0" {
		servingText = strings.TrimSpace(amount + " " + strings.TrimSpace(size.Unit))
	}
	if strings.Contains(strings.ToLower(servingText), exclusionMarker) {
		return MenuItem{}, false
	}

	// Serving weight: explicit grams win, ounce amounts convert, anything
	// else leaves the field unset.
	var grams float64
	if size.Grams != nil && *size.Grams != 0 {
		grams = *size.Grams
	} else if strings.HasPrefix(strings.ToLower(size.Unit), "oz") {
		if g, ok := OzToGrams(size.Amount.String()); ok {
			grams = g
		}
	}

	var tags []string
	for _, icon := range food.Icons.FoodIcons {
		if !icon.IsFilter && !icon.IsHighlight {
			continue
		}
		if slug := icon.TagSlug(); slug != "" {
			tags = append(tags, slug)
		}
	}

	url := strings.TrimSpace(food.FileURL)
	if url == "" {
		url = fmt.Sprintf("menuitem://%s/%s/%s/%s/%s",
			key.Hall, key.Meal, key.Date, Slugify(key.Section), Slugify(name))
	}

	nut := food.RoundedNutritionInfo
	return MenuItem{
		Type:            "MenuItem",
		Name:            name,
		Description:     CleanDescription(food.Description, t.boilerplate),
		URL:             url,
		Image:           food.ImageURL,
		ServingSize:     servingText,
		ServingWeight:   grams,
		VendorID:        food.SyncedID.String(),
		Hall:            key.Hall,
		Meal:            key.Meal,
		DietTags:        tags,
		SuitableForDiet: MapDietTags(tags),
		Nutrition: Nutrition{
			Type:       "NutritionInformation",
			Calories:   nut.Calories,
			Protein:    nut.Protein,
			Fat:        nut.Fat,
			Carbs:      nut.Carbs,
			Sodium:     nut.Sodium,
			Fiber:      nut.Fiber,
			Sugar:      nut.Sugar,
			AddedSugar: nut.AddedSugar,
		},
	}, true
}
