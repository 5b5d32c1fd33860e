package firestore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	cartdom "botparts/internal/domain/cart"
)

func TestRecordFromDataCurrentShape(t *testing.T) {
	raw := map[string]any{
		"updatedAt": time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		"version":   int64(4),
		"items": []any{
			map[string]any{"productId": "p1", "quantity": int64(2)},
			map[string]any{"productId": "p2", "quantity": int64(1)},
		},
	}

	rec := recordFromData("u1", raw)
	require.Equal(t, "u1", rec.UserID)
	require.Equal(t, int64(4), rec.Version)
	require.Equal(t, []cartdom.LineRef{
		{ProductID: "p1", Quantity: 2},
		{ProductID: "p2", Quantity: 1},
	}, rec.Items)
}

func TestRecordFromDataLegacyMapShape(t *testing.T) {
	// older writers stored items keyed by productId, either as objects or
	// bare quantities; order is recovered by sorting ids
	raw := map[string]any{
		"updatedAt": "2026-03-01T12:00:00Z",
		"items": map[string]any{
			"p3": map[string]any{"quantity": int64(5)},
			"p1": float64(2),
		},
	}

	rec := recordFromData("u1", raw)
	require.Equal(t, []cartdom.LineRef{
		{ProductID: "p1", Quantity: 2},
		{ProductID: "p3", Quantity: 5},
	}, rec.Items)
	require.Equal(t, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), rec.UpdatedAt.UTC())
	require.Zero(t, rec.Version, "legacy docs have no version field")
}

func TestRecordFromDataDropsMalformedLines(t *testing.T) {
	raw := map[string]any{
		"items": []any{
			map[string]any{"productId": "p1", "quantity": int64(0)},
			map[string]any{"productId": "  ", "quantity": int64(3)},
			"not-a-map",
			map[string]any{"productId": "p2", "quantity": int64(1)},
			map[string]any{"productId": "p2", "quantity": int64(2)},
		},
	}

	rec := recordFromData("u1", raw)
	require.Equal(t, []cartdom.LineRef{{ProductID: "p2", Quantity: 3}}, rec.Items,
		"zero quantities and blank ids are dropped, duplicates merge")
}

func TestRecordFromDataNil(t *testing.T) {
	rec := recordFromData("u1", nil)
	require.Equal(t, "u1", rec.UserID)
	require.Empty(t, rec.Items)
}

func TestValueCoercions(t *testing.T) {
	require.Equal(t, 3, asInt(int64(3)))
	require.Equal(t, 3, asInt(float64(3)))
	require.Equal(t, 0, asInt("3"))

	require.Equal(t, int64(9), asInt64(9))
	require.Equal(t, 4.5, asFloat(4.5))
	require.Equal(t, 2.0, asFloat(int64(2)))

	require.True(t, asBool(true))
	require.False(t, asBool("true"))

	tt, ok := asTime("2026-03-01T12:00:00Z")
	require.True(t, ok)
	require.Equal(t, 2026, tt.Year())
	_, ok = asTime("not a time")
	require.False(t, ok)
}
