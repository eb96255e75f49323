package feed

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func weekStart() time.Time {
	return time.Date(2025, 8, 3, 0, 0, 0, 0, time.UTC) // a Sunday
}

func openWeekJSON(slug string) string {
	return fmt.Sprintf(`{
		"school_slug": %q,
		"days": [{
			"date": "2025-08-03",
			"menu_items": [{"menu_id": 1849, "food": {"name": "Cheeseburger"}}],
			"menu_info": {"1849": {"section_options": {"display_name": "Grill"}}}
		}]
	}`, slug)
}

const emptyWeekJSON = `{
	"school_slug": "four-lakes-market",
	"days": [{
		"date": "2025-08-03",
		"menu_items": [{"menu_id": 1849, "food": null}, {"menu_id": 1849}, {"menu_id": 1850, "food": {}}]
	}]
}`

func newTestFetcher(t *testing.T, handler http.Handler, halls, meals []string) (*Fetcher, string) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(srv.URL)
	require.NoError(t, err)

	root := t.TempDir()
	store, err := NewRawStore(root)
	require.NoError(t, err)

	fetcher, err := NewFetcher(client, store, halls, meals)
	require.NoError(t, err)
	return fetcher, root
}

func rawPath(root, hall, meal string) string {
	return filepath.Join(root, "2025-08-03", fmt.Sprintf("%s_%s_2025-08-03.json", hall, meal))
}

func TestFetcher_SavesOpenHall(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/menu/api/weeks/school/four-lakes-market/menu-type/lunch/2025/08/03/", r.URL.Path)
		fmt.Fprint(w, openWeekJSON("four-lakes-market"))
	})

	fetcher, root := newTestFetcher(t, handler, []string{"four-lakes-market"}, []string{"lunch"})

	report, err := fetcher.FetchWeek(context.Background(), weekStart())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Saved)
	assert.Equal(t, 0, report.Closed)
	assert.FileExists(t, rawPath(root, "four-lakes-market", "lunch"))
}

func TestFetcher_ClosedOnHTTPError(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	})

	fetcher, root := newTestFetcher(t, handler, []string{"four-lakes-market"}, []string{"lunch"})

	report, err := fetcher.FetchWeek(context.Background(), weekStart())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Closed)
	assert.NoFileExists(t, rawPath(root, "four-lakes-market", "lunch"))
}

func TestFetcher_ClosedOnEmptyMenu(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, emptyWeekJSON)
	})

	fetcher, root := newTestFetcher(t, handler, []string{"four-lakes-market"}, []string{"lunch"})

	report, err := fetcher.FetchWeek(context.Background(), weekStart())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Closed, "a week with no populated food items is closed")
	assert.NoFileExists(t, rawPath(root, "four-lakes-market", "lunch"))
}

func TestWeekFeed_Empty(t *testing.T) {
	empty := WeekFeed{Days: []FeedDay{{
		Date: "2025-08-03",
		MenuItems: []FeedItem{
			{Food: nil},
			{Food: &Food{}},
		},
	}}}
	assert.True(t, empty.Empty(), "nil and empty food objects both count as unpopulated")

	open := WeekFeed{Days: []FeedDay{{
		Date:      "2025-08-03",
		MenuItems: []FeedItem{{Food: &Food{Name: "Cheeseburger"}}},
	}}}
	assert.False(t, open.Empty())
}

func TestFetcher_ClosedOnFallbackSlug(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, openWeekJSON("gordon-avenue-market"))
	})

	fetcher, root := newTestFetcher(t, handler, []string{"four-lakes-market"}, []string{"lunch"})

	report, err := fetcher.FetchWeek(context.Background(), weekStart())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Closed, "a response for a different hall is closed")
	assert.NoFileExists(t, rawPath(root, "four-lakes-market", "lunch"))
}

func TestFetcher_FailureDoesNotAbortSiblings(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "broken-hall") {
			fmt.Fprint(w, `{"days": [{`) // malformed body
			return
		}
		fmt.Fprint(w, openWeekJSON("four-lakes-market"))
	})

	fetcher, root := newTestFetcher(t, handler, []string{"broken-hall", "four-lakes-market"}, []string{"lunch"})

	report, err := fetcher.FetchWeek(context.Background(), weekStart())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 1, report.Saved)
	assert.FileExists(t, rawPath(root, "four-lakes-market", "lunch"))
}

func TestNewFetcher_Validation(t *testing.T) {
	client, err := NewClient("http://example.com")
	require.NoError(t, err)
	store, err := NewRawStore(t.TempDir())
	require.NoError(t, err)

	_, err = NewFetcher(nil, store, []string{"h"}, []string{"m"})
	assert.ErrorIs(t, err, ErrClientRequired)

	_, err = NewFetcher(client, nil, []string{"h"}, []string{"m"})
	assert.ErrorIs(t, err, ErrStoreRequired)

	_, err = NewFetcher(client, store, nil, []string{"m"})
	assert.ErrorIs(t, err, ErrNoHalls)

	_, err = NewFetcher(client, store, []string{"h"}, nil)
	assert.ErrorIs(t, err, ErrNoMeals)
}

func TestRawStore_SaveAndList(t *testing.T) {
	store, err := NewRawStore(t.TempDir())
	require.NoError(t, err)

	body := []byte(openWeekJSON("four-lakes-market"))
	_, err = store.Save("four-lakes-market", "lunch", weekStart(), body)
	require.NoError(t, err)
	_, err = store.Save("gordon-avenue-market", "dinner", weekStart(), body)
	require.NoError(t, err)

	// A different week should not be listed.
	_, err = store.Save("four-lakes-market", "lunch", weekStart().AddDate(0, 0, -7), body)
	require.NoError(t, err)

	files, err := store.List(weekStart())
	require.NoError(t, err)
	require.Len(t, files, 2)

	for _, rf := range files {
		assert.Equal(t, "2025-08-03", rf.WeekStart)
		week, err := store.Read(rf)
		require.NoError(t, err)
		assert.Equal(t, "four-lakes-market", week.SchoolSlug)
	}
}

func TestRawStore_ListMissingRoot(t *testing.T) {
	store, err := NewRawStore(filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err)

	files, err := store.List(weekStart())
	require.NoError(t, err)
	assert.Empty(t, files)
}
