package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type positionRow struct {
	Symbol   string  `json:"symbol"`
	Quantity float64 `json:"quantity"`
}

func TestParseBrokerResponse(t *testing.T) {
	t.Run("multiple rows", func(t *testing.T) {
		payload := []byte(`{"positions":{"position":[{"symbol":"META250606C00705000","quantity":2},{"symbol":"AAPL250620P00200000","quantity":1}]}}`)

		rows, err := ParseBrokerResponse[positionRow](payload)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "META250606C00705000", rows[0].Symbol)
		assert.Equal(t, 1.0, rows[1].Quantity)
	})

	t.Run("single row collapses to object", func(t *testing.T) {
		payload := []byte(`{"positions":{"position":{"symbol":"META250606C00705000","quantity":2}}}`)

		rows, err := ParseBrokerResponse[positionRow](payload)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, 2.0, rows[0].Quantity)
	})

	t.Run("empty account returns null literal", func(t *testing.T) {
		rows, err := ParseBrokerResponse[positionRow]([]byte(`{"positions":"null"}`))
		require.NoError(t, err)
		assert.Len(t, rows, 0)
	})

	t.Run("unexpected second header key", func(t *testing.T) {
		_, err := ParseBrokerResponse[positionRow]([]byte(`{"positions":{},"errors":{}}`))
		assert.Error(t, err)
	})
}
