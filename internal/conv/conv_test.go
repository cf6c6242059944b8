package conv

import (
	"math"
	"strconv"
	"testing"
)

type int64ToIntCase struct {
	in     int64
	want   int
	wantOK bool
}

func TestInt64ToInt(t *testing.T) {
	tests := []int64ToIntCase{
		{0, 0, true},
		{1, 1, true},
		{4096, 4096, true},
		{-1, 0, false},
		{math.MinInt64, 0, false},
	}
	if strconv.IntSize == 64 {
		tests = append(tests, int64ToIntCase{math.MaxInt64, math.MaxInt, true})
	} else {
		tests = append(tests, int64ToIntCase{math.MaxInt32 + 1, 0, false})
	}

	for _, tt := range tests {
		got, ok := Int64ToInt(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("Int64ToInt(%d) = (%d, %v), want (%d, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}
