package api_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aryan-Kanada/FSMFINAL/internal/api"
	"github.com/Aryan-Kanada/FSMFINAL/internal/queue"
	"github.com/Aryan-Kanada/FSMFINAL/internal/rack"
)

func TestFromPosition(t *testing.T) {
	storedAt := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	view := api.FromPosition(rack.Position{
		ID:        8,
		Row:       2,
		Column:    1,
		State:     rack.StateOccupied,
		ProductID: "WIDGET",
		StoredAt:  storedAt,
		LEDShadow: true,
	})

	assert.Equal(t, 8, view.ID)
	assert.Equal(t, "P08", view.Name)
	assert.Equal(t, "occupied", view.State)
	assert.Equal(t, "WIDGET", view.ProductID)
	assert.Equal(t, storedAt, view.StoredAt)
	assert.True(t, view.LEDShadow)
	assert.False(t, view.ButtonShadow)
}

func TestFromTask(t *testing.T) {
	task := queue.NewStoreTask("GEAR", 4)
	view := api.FromTask(*task)

	assert.Equal(t, task.ID, view.ID)
	assert.Equal(t, "store", view.Kind)
	assert.Equal(t, 4, view.Position)
	assert.Equal(t, "GEAR", view.ProductID)
	assert.Equal(t, "pending", view.Status)
	assert.True(t, view.StartedAt.IsZero())
}

func TestFromStatistics(t *testing.T) {
	store, err := rack.NewStore(rack.Layout{Positions: 4, Rows: 2, Columns: 2})
	require.NoError(t, err)
	require.NoError(t, store.Store(1, "A"))

	view := api.FromStatistics(store.Statistics())
	assert.Equal(t, 4, view.Total)
	assert.Equal(t, 1, view.Occupied)
	assert.Equal(t, 3, view.Empty)
	assert.InDelta(t, 25.0, view.OccupancyPercent, 0.001)
	assert.Equal(t, 1, view.UniqueProducts)
}
