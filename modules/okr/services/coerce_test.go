package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoercePriority(t *testing.T) {
	assert.Equal(t, "high", CoercePriority("Alta"))
	assert.Equal(t, "high", CoercePriority("HIGH"))
	assert.Equal(t, "low", CoercePriority("baja"))
	assert.Equal(t, "medium", CoercePriority(""))
	assert.Equal(t, "medium", CoercePriority("urgentísima"))
}

func TestCoerceStatus(t *testing.T) {
	assert.Equal(t, "in_progress", CoerceStatus("En Progreso"))
	assert.Equal(t, "completed", CoerceStatus("done"))
	assert.Equal(t, "on_hold", CoerceStatus("en pausa"))
	assert.Equal(t, "not_started", CoerceStatus(""))
	assert.Equal(t, "not_started", CoerceStatus("???"))
}

func TestCoerceBool(t *testing.T) {
	for _, v := range []string{"true", "YES", "1", "sí", "Si", "2.5"} {
		assert.True(t, CoerceBool(v), "input %q", v)
	}
	for _, v := range []string{"", "no", "false", "0", "0.0", "maybe"} {
		assert.False(t, CoerceBool(v), "input %q", v)
	}
}

func TestCoerceProgress(t *testing.T) {
	assert.True(t, CoerceProgress("45").Equal(decimal.NewFromInt(45)))
	assert.True(t, CoerceProgress("45%").Equal(decimal.NewFromInt(45)))
	assert.True(t, CoerceProgress("12,5").Equal(decimal.RequireFromString("12.5")))
	assert.True(t, CoerceProgress("150").Equal(decimal.NewFromInt(100)))
	assert.True(t, CoerceProgress("-3").Equal(decimal.Zero))
	assert.True(t, CoerceProgress("").Equal(decimal.Zero))
	assert.True(t, CoerceProgress("n/a").Equal(decimal.Zero))
}

func TestCoerceDate(t *testing.T) {
	want := time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC)

	for _, v := range []string{"2026-03-15", "15/03/2026", "2026/03/15", "15-03-2026", "2026-03-15T10:30:00Z"} {
		got := CoerceDate(v)
		require.NotNil(t, got, "input %q", v)
		assert.Equal(t, want, *got, "input %q", v)
	}

	assert.Nil(t, CoerceDate(""))
	assert.Nil(t, CoerceDate("mañana"))
	assert.Nil(t, CoerceDate("2026-13-45"))
}
