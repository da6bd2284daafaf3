package smarthome

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseID(t *testing.T) {
	tests := []struct {
		in      string
		want    ID
		wantErr bool
	}{
		{in: "DE-80331-MAR12-01", want: ID{"DE", "80331", "MAR", "12", "01"}},
		{in: " fr-75001-rue5-01 ", want: ID{"FR", "75001", "RUE", "5", "01"}},
		{in: "US-123-ABC12345-99", want: ID{"US", "123", "ABC", "12345", "99"}},
		{in: "", wantErr: true},
		{in: "DEU-80331-MAR12-01", wantErr: true},
		{in: "DE-80-MAR12-01", wantErr: true},
		{in: "DE-80331-MA12-01", wantErr: true},
		{in: "DE-80331-MAR-01", wantErr: true},
		{in: "DE-80331-MAR12-1", wantErr: true},
		{in: "DE-80331-MAR123456-01", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseID(tc.in)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidID)
				assert.ErrorIs(t, ValidateID(tc.in), ErrInvalidID)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, Normalize(tc.in), got.String())
			assert.NoError(t, ValidateID(tc.in))
		})
	}
}
