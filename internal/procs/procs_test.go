package procs

import (
	"context"
	"os"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"macmon/internal/model"
)

func sampleRecords() []model.ProcessRecord {
	return []model.ProcessRecord{
		{PID: 30, Name: "Zsh", CPUPercent: 1.5, MemoryPercent: 0.4},
		{PID: 10, Name: "alpha", CPUPercent: 90.0, MemoryPercent: 2.0},
		{PID: 20, Name: "Beta", CPUPercent: 5.0, MemoryPercent: 8.0},
		{PID: 40, Name: "beta-helper", CPUPercent: 5.0, MemoryPercent: 1.0},
	}
}

func TestParseSortKey(t *testing.T) {
	tests := []struct {
		in      string
		want    SortKey
		wantErr bool
	}{
		{in: "cpu", want: SortCPU},
		{in: "memory", want: SortMemory},
		{in: "pid", want: SortPID},
		{in: "name", want: SortName},
		{in: "CPU", want: SortCPU},
		{in: "rss", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run("key "+tt.in, func(t *testing.T) {
			got, err := ParseSortKey(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSortRecords(t *testing.T) {
	t.Run("cpu descending", func(t *testing.T) {
		recs := sampleRecords()
		sortRecords(recs, SortCPU)
		assert.True(t, sort.SliceIsSorted(recs, func(i, j int) bool {
			return recs[i].CPUPercent > recs[j].CPUPercent
		}))
	})

	t.Run("memory descending", func(t *testing.T) {
		recs := sampleRecords()
		sortRecords(recs, SortMemory)
		assert.True(t, sort.SliceIsSorted(recs, func(i, j int) bool {
			return recs[i].MemoryPercent > recs[j].MemoryPercent
		}))
	})

	t.Run("pid ascending", func(t *testing.T) {
		recs := sampleRecords()
		sortRecords(recs, SortPID)
		assert.True(t, sort.SliceIsSorted(recs, func(i, j int) bool {
			return recs[i].PID < recs[j].PID
		}))
	})

	t.Run("name ascending case-insensitive", func(t *testing.T) {
		recs := sampleRecords()
		sortRecords(recs, SortName)
		names := make([]string, len(recs))
		for i, r := range recs {
			names[i] = strings.ToLower(r.Name)
		}
		assert.True(t, sort.StringsAreSorted(names), "got order %v", names)
	})

	t.Run("cpu sort is stable for ties", func(t *testing.T) {
		recs := sampleRecords()
		sortRecords(recs, SortCPU)
		// Beta (pid 20) enumerated before beta-helper (pid 40) at equal CPU.
		var tied []int32
		for _, r := range recs {
			if r.CPUPercent == 5.0 {
				tied = append(tied, r.PID)
			}
		}
		assert.Equal(t, []int32{20, 40}, tied)
	})
}

func TestListHonorsLimit(t *testing.T) {
	m := NewManager(zap.NewNop())
	ctx := context.Background()

	for _, limit := range []int{0, 1, 5, 10000} {
		records, err := m.List(ctx, SortCPU, limit)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(records), limit)
	}
}

func TestListNegativeLimit(t *testing.T) {
	m := NewManager(zap.NewNop())
	records, err := m.List(context.Background(), SortPID, -3)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestListFieldsPopulated(t *testing.T) {
	m := NewManager(zap.NewNop())
	records, err := m.List(context.Background(), SortCPU, 25)
	require.NoError(t, err)
	require.NotEmpty(t, records)

	for _, r := range records {
		assert.GreaterOrEqual(t, r.PID, int32(0))
		assert.NotEmpty(t, r.Name)
		assert.NotEmpty(t, r.Status)
		assert.NotEmpty(t, r.Cmdline)
	}
}

func TestLookupSelf(t *testing.T) {
	m := NewManager(zap.NewNop())
	self := int32(os.Getpid())

	rec, outcome := m.Lookup(context.Background(), self)
	require.Equal(t, Found, outcome)
	assert.Equal(t, self, rec.PID)
	assert.NotEmpty(t, rec.Name)
}

func TestLookupNonexistent(t *testing.T) {
	m := NewManager(zap.NewNop())

	// PIDs are well below this on any real system.
	_, outcome := m.Lookup(context.Background(), 1<<30)
	assert.Equal(t, NotFound, outcome)
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "found", Found.String())
	assert.Equal(t, "not found", NotFound.String())
	assert.Equal(t, "access denied", AccessDenied.String())
	assert.Equal(t, "zombie", Zombie.String())
}
