package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRupiah(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{in: "899000", want: 899000},
		{in: "Rp 1.250.000", want: 1250000},
		{in: "IDR 1.000.001", want: 1000001},
		{in: "899.000,50", want: 899001},
		{in: "-15.000", want: -15000},
		{in: " 250.000 ", want: 250000},
		{in: "", wantErr: true},
		{in: "Rp", wantErr: true},
		{in: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRupiah(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatRupiah(t *testing.T) {
	assert.Equal(t, "Rp 0", FormatRupiah(0))
	assert.Equal(t, "Rp 999", FormatRupiah(999))
	assert.Equal(t, "Rp 1.000", FormatRupiah(1000))
	assert.Equal(t, "Rp 250.000", FormatRupiah(250000))
	assert.Equal(t, "Rp 1.000.001", FormatRupiah(1000001))
	assert.Equal(t, "-Rp 15.000", FormatRupiah(-15000))
}
