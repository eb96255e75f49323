package storage

import (
	"testing"
	"time"

	"github.com/poiesic/menusync/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadStateRoundTrip(t *testing.T) {
	state := &core.LoadState{
		RunID:   "a2b9d8f0-0000-4000-8000-000000000000",
		Date:    "2025-08-05",
		SiteTag: "menus_2025-08-05",
		Loaded: []string{
			"hall-a_lunch_grill_2025-08-05.jsonld",
			"hall-b_dinner_soup_2025-08-05.jsonld",
		},
		Failed:    []string{"hall-c_lunch_deli_2025-08-05.jsonld"},
		Total:     5,
		UpdatedAt: time.Date(2025, 8, 5, 14, 30, 0, 123456000, time.UTC),
	}

	data := MarshalLoadState(state)
	got, err := UnmarshalLoadState(data)
	require.NoError(t, err)
	assert.Equal(t, state, got)
}

func TestLoadStateRoundTrip_Empty(t *testing.T) {
	state := &core.LoadState{
		Date:      "2025-08-05",
		UpdatedAt: time.UnixMicro(0).UTC(),
	}

	got, err := UnmarshalLoadState(MarshalLoadState(state))
	require.NoError(t, err)
	assert.Equal(t, state.Date, got.Date)
	assert.Empty(t, got.Loaded)
	assert.Empty(t, got.Failed)
}

func TestLoadStateUnmarshal_Truncated(t *testing.T) {
	state := &core.LoadState{
		RunID:     "run",
		Date:      "2025-08-05",
		SiteTag:   "menus_2025-08-05",
		Loaded:    []string{"a.jsonld"},
		Total:     1,
		UpdatedAt: time.Now().UTC(),
	}

	data := MarshalLoadState(state)
	_, err := UnmarshalLoadState(data[:len(data)/2])
	assert.ErrorIs(t, err, ErrSerializationFailed)
}

func TestLoadStateSkip(t *testing.T) {
	state := core.LoadState{
		RunID:     "run",
		Date:      "2025-08-05",
		SiteTag:   "menus_2025-08-05",
		Loaded:    []string{"a.jsonld", "b.jsonld"},
		Failed:    []string{"c.jsonld"},
		Total:     3,
		UpdatedAt: time.Now().UTC(),
	}

	data := MarshalLoadState(&state)
	n, err := LoadStateMUS.Skip(data)
	require.NoError(t, err)
	assert.Equal(t, len(data), n)
}
