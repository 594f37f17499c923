package eth

import "testing"

func TestConfirmationCount(t *testing.T) {
	cases := []struct {
		head     uint64
		included uint64
		expected uint64
	}{
		{100, 81, 19},
		{100, 100, 0},
		{0, 0, 0},
		// A block mined past the measured head must count as zero,
		// not wrap the unsigned subtraction into a huge value that
		// would pass the confirmation threshold.
		{100, 101, 0},
		{0, 1, 0},
	}

	for _, c := range cases {
		if got := confirmationCount(c.head, c.included); got != c.expected {
			t.Fatalf("head %d included %d: expected %d, got %d",
				c.head, c.included, c.expected, got)
		}
	}
}
