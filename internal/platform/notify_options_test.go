package platform

import (
	"testing"
	"time"
)

func TestExpireMillis(t *testing.T) {
	cases := []struct {
		opts Options
		want int32
	}{
		{Options{}, -1},
		{Options{Timeout: 1500 * time.Millisecond}, 1500},
		{Options{Urgent: true, Timeout: time.Second}, 0},
	}
	for _, c := range cases {
		if got := c.opts.expireMillis(); got != c.want {
			t.Errorf("%+v: got %d, want %d", c.opts, got, c.want)
		}
	}
}
