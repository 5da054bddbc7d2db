package conn

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCPUAccountingRecordTracksTotalMinMax(t *testing.T) {
	var a CPUAccounting
	a.Record(10 * time.Millisecond)
	a.Record(2 * time.Millisecond)
	a.Record(30 * time.Millisecond)

	require.Equal(t, 42*time.Millisecond, a.Total)
	require.Equal(t, 2*time.Millisecond, a.Min)
	require.Equal(t, 30*time.Millisecond, a.Max)
}
