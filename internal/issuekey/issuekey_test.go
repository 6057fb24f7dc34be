package issuekey

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"TAPS-212", "TAPS-212", false},
		{" taps-212 ", "TAPS-212", false},
		{"AB2_C-1", "AB2_C-1", false},
		{"p-1", "P-1", false},
		{"TAPS212", "", true},
		{"TAPS-", "", true},
		{"1AB-3", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := Normalize(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalid)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValid(t *testing.T) {
	t.Parallel()

	assert.True(t, Valid("RT-100"))
	assert.False(t, Valid("rt-100"), "keys are reported upper case")
}
