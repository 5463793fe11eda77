package collect

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"macmon/internal/model"
	"macmon/internal/procs"
)

type stubSystem struct {
	cpu    model.CPUInfo
	cpuErr error
	mem    model.MemoryInfo
	memErr error
	disk   model.DiskIOInfo
	net    model.NetworkInfo
}

func (s *stubSystem) CPU(context.Context) (model.CPUInfo, error)       { return s.cpu, s.cpuErr }
func (s *stubSystem) Memory(context.Context) (model.MemoryInfo, error) { return s.mem, s.memErr }
func (s *stubSystem) DiskIO(context.Context) model.DiskIOInfo          { return s.disk }
func (s *stubSystem) Network(context.Context) model.NetworkInfo        { return s.net }

type stubProcs struct {
	records []model.ProcessRecord
	err     error
}

func (s *stubProcs) List(context.Context, procs.SortKey, int) ([]model.ProcessRecord, error) {
	return s.records, s.err
}

type stubThermal struct {
	info model.TemperatureInfo
}

func (s *stubThermal) Read(context.Context) model.TemperatureInfo { return s.info }

func healthySources() (*stubSystem, *stubProcs, *stubThermal) {
	sys := &stubSystem{
		cpu:  model.CPUInfo{OverallPercent: 12.5, LogicalCores: 8},
		mem:  model.MemoryInfo{Total: 16 << 30, Used: 8 << 30},
		disk: model.DiskIOInfo{ReadBytes: 100, WriteBytes: 200},
		net:  model.NetworkInfo{BytesSent: 300, BytesRecv: 400},
	}
	ps := &stubProcs{records: []model.ProcessRecord{{PID: 1, Name: "launchd"}}}
	th := &stubThermal{info: model.TemperatureInfo{Available: true, Sensors: map[string]float64{}}}
	return sys, ps, th
}

func TestCollectAllSourcesHealthy(t *testing.T) {
	sys, ps, th := healthySources()
	a := New(sys, ps, th, zap.NewNop())

	snap := a.Collect(context.Background(), procs.SortCPU, 10)

	require.NotNil(t, snap.CPU)
	assert.Equal(t, 12.5, snap.CPU.OverallPercent)
	require.NotNil(t, snap.Memory)
	assert.Equal(t, uint64(16<<30), snap.Memory.Total)
	require.NotNil(t, snap.DiskIO)
	require.NotNil(t, snap.Network)
	require.NotNil(t, snap.Temperature)
	assert.True(t, snap.Temperature.Available)
	require.Len(t, snap.Processes, 1)
	assert.False(t, snap.Timestamp.IsZero())
}

func TestCollectCPUFailureDegradesOnlyCPU(t *testing.T) {
	sys, ps, th := healthySources()
	sys.cpuErr = errors.New("sampler broke")

	core, logs := observer.New(zapcore.WarnLevel)
	a := New(sys, ps, th, zap.New(core))

	snap := a.Collect(context.Background(), procs.SortCPU, 10)

	assert.Nil(t, snap.CPU)
	assert.NotNil(t, snap.Memory)
	assert.NotNil(t, snap.DiskIO)
	assert.NotNil(t, snap.Network)
	assert.NotNil(t, snap.Temperature)
	assert.NotNil(t, snap.Processes)

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "cpu unavailable this tick", logs.All()[0].Message)
}

func TestCollectMemoryFailureDegradesOnlyMemory(t *testing.T) {
	sys, ps, th := healthySources()
	sys.memErr = errors.New("vm_stat broke")
	a := New(sys, ps, th, zap.NewNop())

	snap := a.Collect(context.Background(), procs.SortMemory, 5)

	assert.Nil(t, snap.Memory)
	assert.NotNil(t, snap.CPU)
	assert.NotNil(t, snap.Processes)
}

func TestCollectProcessFailureLeavesNilSlice(t *testing.T) {
	sys, ps, th := healthySources()
	ps.err = errors.New("table unreadable")
	a := New(sys, ps, th, zap.NewNop())

	snap := a.Collect(context.Background(), procs.SortCPU, 10)

	assert.Nil(t, snap.Processes)
	assert.NotNil(t, snap.CPU)
}

func TestCollectEmptyProcessListIsNotNil(t *testing.T) {
	sys, ps, th := healthySources()
	ps.records = nil
	a := New(sys, ps, th, zap.NewNop())

	snap := a.Collect(context.Background(), procs.SortCPU, 0)

	// Empty but successful: distinguishable from an unavailable table.
	require.NotNil(t, snap.Processes)
	assert.Empty(t, snap.Processes)
}

// panickingSystem blows up in the CPU source goroutine; everything else
// behaves.
type panickingSystem struct{ *stubSystem }

func (p *panickingSystem) CPU(context.Context) (model.CPUInfo, error) {
	panic("sysctl exploded")
}

type panickingThermal struct{}

func (panickingThermal) Read(context.Context) model.TemperatureInfo {
	panic("smc read exploded")
}

func TestCollectSourcePanicCostsOnlyItsField(t *testing.T) {
	sys, ps, th := healthySources()
	core, logs := observer.New(zapcore.ErrorLevel)
	a := New(&panickingSystem{sys}, ps, th, zap.New(core))

	var snap model.Snapshot
	require.NotPanics(t, func() {
		snap = a.Collect(context.Background(), procs.SortCPU, 10)
	})

	assert.Nil(t, snap.CPU)
	assert.NotNil(t, snap.Memory)
	assert.NotNil(t, snap.DiskIO)
	assert.NotNil(t, snap.Network)
	assert.NotNil(t, snap.Temperature)
	assert.NotNil(t, snap.Processes)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "metric source panicked", entry.Message)
	assert.Equal(t, "cpu", entry.ContextMap()["metric"])
}

func TestCollectThermalPanicCostsOnlyTemperature(t *testing.T) {
	sys, ps, _ := healthySources()
	a := New(sys, ps, panickingThermal{}, zap.NewNop())

	var snap model.Snapshot
	require.NotPanics(t, func() {
		snap = a.Collect(context.Background(), procs.SortCPU, 10)
	})

	assert.Nil(t, snap.Temperature)
	assert.NotNil(t, snap.CPU)
	assert.NotNil(t, snap.Processes)
}

func TestCollectEverythingFailing(t *testing.T) {
	sys := &stubSystem{cpuErr: errors.New("down"), memErr: errors.New("down")}
	ps := &stubProcs{err: errors.New("down")}
	th := &stubThermal{info: model.TemperatureInfo{Sensors: map[string]float64{}}}
	a := New(sys, ps, th, zap.NewNop())

	var snap model.Snapshot
	assert.NotPanics(t, func() {
		snap = a.Collect(context.Background(), procs.SortCPU, 10)
	})

	assert.Nil(t, snap.CPU)
	assert.Nil(t, snap.Memory)
	assert.Nil(t, snap.Processes)
	require.NotNil(t, snap.Temperature)
	assert.False(t, snap.Temperature.Available)
}
