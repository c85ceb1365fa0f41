package services

import (
	"testing"

	"github.com/dgotpservice/dg-social-panel/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyCommission(t *testing.T) {
	assert.InDelta(t, 20.0, ApplyCommission(20, 0), 1e-9)
	assert.InDelta(t, 22.0, ApplyCommission(20, 10), 1e-9)
	assert.InDelta(t, 40.0, ApplyCommission(20, 100), 1e-9)
	assert.InDelta(t, 10.25, ApplyCommission(10, 2.5), 1e-9)
}

func TestApplyCommissionNeverLowersPrice(t *testing.T) {
	rates := []float64{0.01, 1, 19.99, 500}
	commissions := []float64{0, 0.5, 10, 55, 100}

	for _, rate := range rates {
		prev := 0.0
		for _, commission := range commissions {
			marked := ApplyCommission(rate, commission)
			assert.GreaterOrEqual(t, marked, rate, "commission %v lowered rate %v", commission, rate)
			assert.GreaterOrEqual(t, marked, prev)
			prev = marked
		}
	}
}

func TestComputeOrderTotal(t *testing.T) {
	// 500 units at ₹22 per 1000 is ₹11.00.
	assert.InDelta(t, 11.00, ComputeOrderTotal(22, 500), 1e-9)
	assert.InDelta(t, 22.00, ComputeOrderTotal(22, 1000), 1e-9)

	// Rounded to the paisa, matching stored balances.
	assert.InDelta(t, 0.33, ComputeOrderTotal(6.666, 50), 1e-9)
	assert.InDelta(t, 0.01, ComputeOrderTotal(1, 10), 1e-9)
}

func TestValidateOrderInput(t *testing.T) {
	tests := []struct {
		name     string
		link     string
		quantity int
		min      int
		max      int
		total    float64
		wantErr  string
	}{
		{"valid", "https://instagram.com/someuser", 500, 100, 10000, 11.0, ""},
		{"valid without bounds", "someuser", 10, 0, 0, 0.01, ""},
		{"blank link", "  ", 500, 0, 0, 11.0, "please enter a valid link or username"},
		{"quantity below floor", "someuser", 5, 0, 0, 1.0, "quantity must be at least 10"},
		{"quantity below service min", "someuser", 50, 100, 10000, 1.0, "quantity must be at least 100 for this service"},
		{"quantity above service max", "someuser", 20000, 100, 10000, 400.0, "quantity must be at most 10000 for this service"},
		{"zero total", "someuser", 500, 0, 0, 0, "total price must be greater than 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOrderInput(tt.link, tt.quantity, tt.min, tt.max, tt.total)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Equal(t, tt.wantErr, err.Error())
			}
		})
	}
}

func TestPriceCatalog(t *testing.T) {
	raw := []provider.Service{
		{ID: "1", Name: "Instagram Followers", Category: "Instagram", Rate: 20, Min: 100, Max: 10000, Refill: true},
		{ID: "2", Name: "YouTube Views", Category: "YouTube", Rate: 50, Min: 500, Max: 100000},
	}

	priced := PriceCatalog(raw, 10)
	require.Len(t, priced, 2)

	assert.Equal(t, "1", priced[0].ID)
	assert.InDelta(t, 22.0, priced[0].Rate, 1e-9)
	assert.Equal(t, 100, priced[0].Min)
	assert.True(t, priced[0].Refill)

	assert.InDelta(t, 55.0, priced[1].Rate, 1e-9)
	assert.False(t, priced[1].Refill)
}

func TestPriceCatalogEmpty(t *testing.T) {
	priced := PriceCatalog(nil, 10)
	assert.NotNil(t, priced)
	assert.Empty(t, priced)
}

func TestReferralReward(t *testing.T) {
	assert.InDelta(t, 25.00, ReferralReward(500), 1e-9)
	assert.InDelta(t, 5.00, ReferralReward(100), 1e-9)
	assert.InDelta(t, 0.50, ReferralReward(9.99), 1e-9)
}
