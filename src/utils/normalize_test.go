package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeExpiry(t *testing.T) {
	now := time.Date(2025, time.June, 5, 14, 30, 0, 0, time.UTC)

	t.Run("month/day defaults to current year", func(t *testing.T) {
		expiry, err := NormalizeExpiry("6/6", now)
		require.NoError(t, err)
		assert.Equal(t, "20250606", expiry)
	})

	t.Run("month/day in the past rolls to next year", func(t *testing.T) {
		expiry, err := NormalizeExpiry("1/17", now)
		require.NoError(t, err)
		assert.Equal(t, "20260117", expiry)
	})

	t.Run("same day does not roll", func(t *testing.T) {
		expiry, err := NormalizeExpiry("6/5", now)
		require.NoError(t, err)
		assert.Equal(t, "20250605", expiry)
	})

	t.Run("two digit year", func(t *testing.T) {
		expiry, err := NormalizeExpiry("6/6/25", now)
		require.NoError(t, err)
		assert.Equal(t, "20250606", expiry)
	})

	t.Run("four digit year", func(t *testing.T) {
		expiry, err := NormalizeExpiry("12/19/2025", now)
		require.NoError(t, err)
		assert.Equal(t, "20251219", expiry)
	})

	t.Run("already normalized", func(t *testing.T) {
		expiry, err := NormalizeExpiry("20250606", now)
		require.NoError(t, err)
		assert.Equal(t, "20250606", expiry)
	})

	t.Run("zero padded input", func(t *testing.T) {
		expiry, err := NormalizeExpiry("06/06", now)
		require.NoError(t, err)
		assert.Equal(t, "20250606", expiry)
	})

	t.Run("missing expiry", func(t *testing.T) {
		_, err := NormalizeExpiry("N/A", now)
		assert.Error(t, err)

		_, err = NormalizeExpiry("", now)
		assert.Error(t, err)
	})

	t.Run("invalid month", func(t *testing.T) {
		_, err := NormalizeExpiry("13/6", now)
		assert.Error(t, err)
	})
}

func TestParseStrike(t *testing.T) {
	t.Run("plain number", func(t *testing.T) {
		strike, err := ParseStrike("705")
		require.NoError(t, err)
		assert.Equal(t, 705.0, strike)
	})

	t.Run("dollar sign", func(t *testing.T) {
		strike, err := ParseStrike("$705.5")
		require.NoError(t, err)
		assert.Equal(t, 705.5, strike)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := ParseStrike("N/A")
		assert.Error(t, err)
	})

	t.Run("negative", func(t *testing.T) {
		_, err := ParseStrike("-5")
		assert.Error(t, err)
	})
}

func TestParsePrice(t *testing.T) {
	t.Run("present", func(t *testing.T) {
		price, err := ParsePrice("$1.87")
		require.NoError(t, err)
		require.NotNil(t, price)
		assert.Equal(t, 1.87, *price)
	})

	t.Run("absent returns nil without error", func(t *testing.T) {
		price, err := ParsePrice("N/A")
		require.NoError(t, err)
		assert.Nil(t, price)

		price, err = ParsePrice("")
		require.NoError(t, err)
		assert.Nil(t, price)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := ParsePrice("one dollar")
		assert.Error(t, err)
	})
}

func TestNormalizeOptionType(t *testing.T) {
	for _, raw := range []string{"C", "c", "call", "CALLS"} {
		optionType, err := NormalizeOptionType(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, "C", optionType)
	}

	for _, raw := range []string{"P", "p", "Put", "puts"} {
		optionType, err := NormalizeOptionType(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, "P", optionType)
	}

	_, err := NormalizeOptionType("straddle")
	assert.Error(t, err)
}
