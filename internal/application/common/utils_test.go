package common

import (
	"context"
	"testing"
	"time"

	"portal/internal/appers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecimalFromString2Strict(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		set     bool
		wantErr error
	}{
		{in: "", set: false},
		{in: "   ", set: false},
		{in: "1299", want: "1299.00", set: true},
		{in: "1299,9", want: "1299.90", set: true},
		{in: " +0.99 ", want: "0.99", set: true},
		{in: "-10.5", want: "-10.50", set: true},
		{in: "000042.10", want: "42.10", set: true},
		{in: "1.999", wantErr: appers.ErrScale},
		{in: "12345678901234567", wantErr: appers.ErrPrecision},
		{in: "12a", wantErr: appers.ErrFormat},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			d, set, err := DecimalFromString2Strict(tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.set, set)
			if set {
				assert.Equal(t, tt.want, d.String())
			}
		})
	}
}

func TestNextBackoffWithJitter_Bounds(t *testing.T) {
	for attempt := 0; attempt < 30; attempt++ {
		base := time.Second << min(attempt, 20)
		if base > 30*time.Minute {
			base = 30 * time.Minute
		}
		for i := 0; i < 20; i++ {
			d := NextBackoffWithJitter(attempt)
			assert.GreaterOrEqual(t, d, base/2)
			assert.Less(t, d, base)
		}
	}
	assert.Less(t, NextBackoffWithJitter(-3), time.Second)
}

func TestSleepCtx(t *testing.T) {
	assert.NoError(t, SleepCtx(context.Background(), 0))
	assert.NoError(t, SleepCtx(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, SleepCtx(ctx, time.Hour), context.Canceled)
}

func TestPgInterval(t *testing.T) {
	assert.Equal(t, "90 seconds", PgInterval(90*time.Second+300*time.Millisecond))
}

func TestLoadLocation(t *testing.T) {
	assert.Equal(t, time.UTC, LoadLocation(""))
	assert.Equal(t, time.UTC, LoadLocation("Nowhere/Land"))
	assert.Equal(t, "Europe/Paris", LoadLocation("Europe/Paris").String())
}
