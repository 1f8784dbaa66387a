package taxcalc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSchedule(t *testing.T) {
	s, err := ParseSchedule("1000000", []string{"5000000", "10000000"}, []string{"1.0", "1.5", "2.0"})
	require.NoError(t, err)

	def := DefaultSchedule()
	assert.True(t, def.Allowance.Equal(s.Allowance))
	require.Len(t, s.Rates, 3)
	for i := range def.Rates {
		assert.True(t, def.Rates[i].Equal(s.Rates[i]), "rate %d", i)
	}
	for i := range def.Bounds {
		assert.True(t, def.Bounds[i].Equal(s.Bounds[i]), "bound %d", i)
	}
}

func TestParseSchedule_Errors(t *testing.T) {
	tests := []struct {
		name      string
		allowance string
		bounds    []string
		rates     []string
		wantErr   string
	}{
		{"bad allowance", "lots", nil, []string{"1"}, "parse allowance"},
		{"bad bound", "0", []string{"x"}, []string{"1", "2"}, "parse band bound"},
		{"bad rate", "0", nil, []string{"y"}, "parse band rate"},
		{"rate count", "0", []string{"100"}, []string{"1"}, "needs 2 rates"},
		{"unsorted", "0", []string{"200", "100"}, []string{"1", "2", "3"}, "must be greater"},
		{"negative rate", "0", nil, []string{"-1"}, "must not be negative"},
		{"negative allowance", "-5", nil, []string{"1"}, "allowance must not be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSchedule(tt.allowance, tt.bounds, tt.rates)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
