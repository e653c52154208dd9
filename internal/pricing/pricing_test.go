package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"greencycle/internal/domain"
)

func TestEstimate_RateTable(t *testing.T) {
	cases := []struct {
		wasteType domain.WasteType
		qty       float64
		value     float64
		coins     int64
	}{
		{domain.WasteTypePaper, 1, 8, 16},
		{domain.WasteTypePlastic, 5, 60, 120},
		{domain.WasteTypeMetal, 2, 60, 120},
		{domain.WasteTypeEWaste, 4, 100, 200},
		{domain.WasteTypeOrganic, 10, 20, 40},
		{domain.WasteTypeMixed, 3, 15, 30},
		{domain.WasteTypeCardboard, 2.5, 25, 50},
		{domain.WasteTypeGlass, 0.5, 3, 6},
	}

	for _, tc := range cases {
		t.Run(string(tc.wasteType), func(t *testing.T) {
			value, coins, err := Estimate(tc.wasteType, tc.qty)
			require.NoError(t, err)
			assert.Equal(t, tc.value, value)
			assert.Equal(t, tc.coins, coins)
		})
	}
}

func TestEstimate_UnknownTypeUsesDefaultRate(t *testing.T) {
	value, coins, err := Estimate(domain.WasteType("styrofoam"), 4)
	require.NoError(t, err)
	assert.Equal(t, 20.0, value)
	assert.Equal(t, int64(40), coins)
}

func TestEstimate_RejectsNonPositiveQuantity(t *testing.T) {
	for _, qty := range []float64{0, -1, -0.01} {
		_, _, err := Estimate(domain.WasteTypePlastic, qty)
		assert.ErrorIs(t, err, ErrInvalidQuantity, "qty=%v", qty)
	}
}

func TestEstimate_Deterministic(t *testing.T) {
	v1, c1, err := Estimate(domain.WasteTypeGlass, 3.7)
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		v2, c2, err := Estimate(domain.WasteTypeGlass, 3.7)
		require.NoError(t, err)
		assert.Equal(t, v1, v2)
		assert.Equal(t, c1, c2)
	}
}

func TestEstimate_CoinsFloorIsExact(t *testing.T) {
	// 0.3 kg of paper is 2.4 rupees; coins must floor to 4, and the decimal
	// path must not suffer float drift (0.3*8*2 = 4.8000000000000007 in
	// float64).
	value, coins, err := Estimate(domain.WasteTypePaper, 0.3)
	require.NoError(t, err)
	assert.InDelta(t, 2.4, value, 1e-9)
	assert.Equal(t, int64(4), coins)
}

func TestCoinsFor_MatchesEstimate(t *testing.T) {
	value, coins, err := Estimate(domain.WasteTypeMetal, 1.25)
	require.NoError(t, err)
	assert.Equal(t, coins, CoinsFor(value))
}

func TestEcoScoreDelta(t *testing.T) {
	cases := []struct {
		qty   float64
		delta int64
	}{
		{5, 2},
		{4, 2},
		{1, 0},
		{2, 1},
		{10.9, 5},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.delta, EcoScoreDelta(tc.qty), "qty=%v", tc.qty)
	}
}
