package loader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/poiesic/menusync/ai/mock"
	"github.com/poiesic/menusync/canonical"
	"github.com/poiesic/menusync/core"
	"github.com/poiesic/menusync/vector"
	vectormock "github.com/poiesic/menusync/vector/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustReadFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func writeMenus(t *testing.T, store *canonical.Store, date string, count int) {
	t.Helper()
	for i := 0; i < count; i++ {
		menu := canonical.NewMenu(core.MenuKey{
			Hall:    fmt.Sprintf("hall-%02d", i),
			Meal:    "lunch",
			Section: "Grill",
			Date:    date,
		})
		menu.Sections[0].Items = []canonical.MenuItem{{
			Type: "MenuItem", Name: "Cheeseburger", Description: "Juicy patty",
		}}
		_, err := store.Write(menu)
		require.NoError(t, err)
	}
}

func newTestLoader(t *testing.T, index vector.Index, opts ...LoaderOption) (*Loader, *canonical.Store) {
	t.Helper()
	store, err := canonical.NewStore(t.TempDir())
	require.NoError(t, err)
	l, err := NewLoader(store, mock.NewMockEmbedder(), index, opts...)
	require.NoError(t, err)
	return l, store
}

func TestNewLoader_Validation(t *testing.T) {
	store, err := canonical.NewStore(t.TempDir())
	require.NoError(t, err)
	index := vectormock.NewMockIndex()
	embedder := mock.NewMockEmbedder()

	_, err = NewLoader(nil, embedder, index)
	assert.ErrorIs(t, err, ErrStoreRequired)
	_, err = NewLoader(store, nil, index)
	assert.ErrorIs(t, err, ErrEmbedderRequired)
	_, err = NewLoader(store, embedder, nil)
	assert.ErrorIs(t, err, ErrIndexRequired)
}

func TestLoadDay(t *testing.T) {
	index := vectormock.NewMockIndex()
	l, store := newTestLoader(t, index, WithDimension(8))
	writeMenus(t, store, "2025-08-05", 3)

	report, err := l.LoadDay(context.Background(), "2025-08-05")
	require.NoError(t, err)

	assert.Equal(t, &LoadReport{Loaded: 3}, report)
	assert.Equal(t, 3, index.PointCount())
	assert.Equal(t, 8, index.Dimension())
	assert.True(t, index.FieldIndexed())
}

func TestLoadDay_SkipsExisting(t *testing.T) {
	index := vectormock.NewMockIndex()
	l, store := newTestLoader(t, index)
	writeMenus(t, store, "2025-08-05", 3)

	first, err := l.LoadDay(context.Background(), "2025-08-05")
	require.NoError(t, err)
	assert.Equal(t, 3, first.Loaded)

	second, err := l.LoadDay(context.Background(), "2025-08-05")
	require.NoError(t, err)
	assert.Equal(t, &LoadReport{Skipped: 3}, second, "re-run embeds nothing")
	assert.Equal(t, 3, index.PointCount(), "no duplicate points")
}

func TestLoadDay_BatchesUpserts(t *testing.T) {
	index := vectormock.NewMockIndex()
	l, store := newTestLoader(t, index, WithBatchSize(2))
	writeMenus(t, store, "2025-08-05", 5)

	report, err := l.LoadDay(context.Background(), "2025-08-05")
	require.NoError(t, err)
	assert.Equal(t, 5, report.Loaded)

	batches := index.Upserts()
	require.Len(t, batches, 3)
	assert.Len(t, batches[0], 2)
	assert.Len(t, batches[1], 2)
	assert.Len(t, batches[2], 1, "remainder flushed at the end")
}

func TestLoadDay_EmbedderErrorSkipsFile(t *testing.T) {
	index := vectormock.NewMockIndex()
	store, err := canonical.NewStore(t.TempDir())
	require.NoError(t, err)
	writeMenus(t, store, "2025-08-05", 2)

	embedder := mock.NewMockEmbedder()
	calls := 0
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("embedding service unavailable")
		}
		return []float32{0.1, 0.2}, nil
	}

	l, err := NewLoader(store, embedder, index)
	require.NoError(t, err)

	report, err := l.LoadDay(context.Background(), "2025-08-05")
	require.NoError(t, err)
	assert.Equal(t, &LoadReport{Loaded: 1, Failed: 1}, report)
	assert.Equal(t, 1, index.PointCount())
}

func TestLoadDay_UpsertFailureFailsWholeBatch(t *testing.T) {
	index := vectormock.NewMockIndex()
	index.UpsertFunc = func(ctx context.Context, points []vector.Point) error {
		return errors.New("index unavailable")
	}
	l, store := newTestLoader(t, index, WithBatchSize(2))
	writeMenus(t, store, "2025-08-05", 3)

	report, err := l.LoadDay(context.Background(), "2025-08-05")
	require.Error(t, err)
	assert.Equal(t, &LoadReport{Failed: 3}, report, "every file whose point was dropped counts as failed")
	assert.Equal(t, 0, index.PointCount())
}

func TestLoadDay_TransientUpsertFailure(t *testing.T) {
	index := vectormock.NewMockIndex()
	calls := 0
	index.UpsertFunc = func(ctx context.Context, points []vector.Point) error {
		calls++
		if calls == 1 {
			return errors.New("index unavailable")
		}
		index.UpsertFunc = nil
		return index.Upsert(ctx, points)
	}
	l, store := newTestLoader(t, index, WithBatchSize(2))
	writeMenus(t, store, "2025-08-05", 3)

	report, err := l.LoadDay(context.Background(), "2025-08-05")
	require.NoError(t, err)
	assert.Equal(t, &LoadReport{Loaded: 1, Failed: 2}, report, "first batch lost, remainder flushed")
	assert.Equal(t, 1, index.PointCount())
}

func TestFlush_ErrorCarriesBatchDocs(t *testing.T) {
	index := vectormock.NewMockIndex()
	index.UpsertFunc = func(ctx context.Context, points []vector.Point) error {
		return errors.New("index unavailable")
	}
	l, store := newTestLoader(t, index)
	writeMenus(t, store, "2025-08-05", 2)
	ctx := context.Background()

	files, err := l.Files("2025-08-05")
	require.NoError(t, err)
	for _, path := range files {
		loaded, err := l.LoadFile(ctx, path)
		require.NoError(t, err)
		require.True(t, loaded)
	}

	err = l.Flush(ctx)
	var flushErr *FlushError
	require.ErrorAs(t, err, &flushErr)
	assert.Equal(t, []string{
		"hall-00_lunch_grill_2025-08-05",
		"hall-01_lunch_grill_2025-08-05",
	}, flushErr.Docs)

	assert.NoError(t, l.Flush(ctx), "failed batch is not retried by a later flush")
}

func TestLoadFile_PayloadAndID(t *testing.T) {
	index := vectormock.NewMockIndex()
	l, store := newTestLoader(t, index)

	menu := canonical.NewMenu(core.MenuKey{
		Hall: "four-lakes-market", Meal: "lunch", Section: "Grill", Date: "2025-08-05",
	})
	menu.Sections[0].Items = []canonical.MenuItem{{Type: "MenuItem", Name: "Cheeseburger"}}
	path, err := store.Write(menu)
	require.NoError(t, err)

	loaded, err := l.LoadFile(context.Background(), path)
	require.NoError(t, err)
	require.True(t, loaded)
	require.NoError(t, l.Flush(context.Background()))

	batches := index.Upserts()
	require.Len(t, batches, 1)
	point := batches[0][0]

	docID := "four-lakes-market_lunch_grill_2025-08-05"
	assert.Equal(t, core.IDFromContent("menus_2025-08-05/"+docID), point.ID)
	assert.Equal(t, "menus_2025-08-05", point.Payload.SiteTag)
	assert.Equal(t, "four-lakes-market", point.Payload.Site)
	assert.Equal(t, "Grill – 2025-08-05", point.Payload.Name)
	assert.Equal(t, "lunch", point.Payload.Meal)
	assert.Equal(t, "2025-08-05", point.Payload.Date)
	assert.Equal(t, "nutrislice", point.Payload.Source)
	assert.Equal(t, "menu", point.Payload.Kind)
	assert.Equal(t, docID, point.Payload.DocID)
	assert.Equal(t, "menu://four-lakes-market/lunch/2025-08-05/grill", point.Payload.URL)
	assert.JSONEq(t, mustReadFile(t, path), point.Payload.SchemaJSON)
	assert.NotEmpty(t, point.Vector)
}

func TestRetireDate(t *testing.T) {
	index := vectormock.NewMockIndex()
	l, store := newTestLoader(t, index)
	writeMenus(t, store, "2025-08-04", 2)
	writeMenus(t, store, "2025-08-05", 2)
	ctx := context.Background()

	_, err := l.LoadDay(ctx, "2025-08-04")
	require.NoError(t, err)
	_, err = l.LoadDay(ctx, "2025-08-05")
	require.NoError(t, err)
	require.Equal(t, 4, index.PointCount())

	require.NoError(t, l.RetireDate(ctx, "2025-08-04"))
	assert.Equal(t, []string{"menus_2025-08-04"}, index.Deletions())
	assert.Equal(t, 2, index.PointCount(), "only yesterday's partition removed")
}
