package postgres

import "testing"

func TestMaxLimit(t *testing.T) {
	cases := []struct {
		in, want int
	}{
		{0, MAX_LIMIT},
		{-3, MAX_LIMIT},
		{10, 10},
		{MAX_LIMIT + 1, MAX_LIMIT},
	}
	for _, c := range cases {
		limit := c.in
		maxLimit(&limit)
		if limit != c.want {
			t.Fatalf("maxLimit(%d) = %d, want %d", c.in, limit, c.want)
		}
	}
}
