package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStrSliceToUInt64Slice(t *testing.T) {
	out, err := StrSliceToUInt64Slice([]string{"1", "42", "9000"})
	require.NoError(t, err)
	assert.Equal(t, []uint64{1, 42, 9000}, out)

	_, err = StrSliceToUInt64Slice([]string{"1", "abc"})
	assert.Error(t, err)
}

func TestStartOfDayUTC(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*3600)
	// 东八区凌晨两点仍属于前一 UTC 日
	in := time.Date(2026, 3, 14, 2, 0, 0, 0, loc)
	got := StartOfDayUTC(in)
	assert.Equal(t, time.Date(2026, 3, 13, 0, 0, 0, 0, time.UTC), got)
}
