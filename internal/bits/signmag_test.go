package bits

import "testing"

func TestSignMagnitude(t *testing.T) {
	tests := []struct {
		x    uint64
		n    uint
		want int64
	}{
		{0b0000000000, 10, 0},
		{0b0000000001, 10, 1},
		{0b0111111111, 10, 511},
		{0b1000000000, 10, 0},
		{0b1000000001, 10, -1},
		{0b1111111111, 10, -511},
	}
	for _, tc := range tests {
		if got := SignMagnitude(tc.x, tc.n); got != tc.want {
			t.Errorf("SignMagnitude(%b, %d) = %d, want %d", tc.x, tc.n, got, tc.want)
		}
	}
}
