// Package metrics reads system-wide CPU, memory, disk and network figures
// through gopsutil. CPU and memory are hard sources: their errors surface as
// a typed CollectError. Disk and network are soft sources: errors are
// absorbed into an all-zero record with a logged warning.
package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/net"
	"go.uber.org/zap"

	"macmon/internal/model"
)

// Sampling windows for the CPU percentage reads. The aggregate window
// dominates the tick latency, so the refresh cadence must exceed it.
const (
	OverallWindow = time.Second
	PerCoreWindow = 100 * time.Millisecond
)

// CollectError identifies which metric kind failed and wraps the cause.
type CollectError struct {
	Metric string
	Err    error
}

func (e *CollectError) Error() string {
	return fmt.Sprintf("collect %s metrics: %v", e.Metric, e.Err)
}

func (e *CollectError) Unwrap() error { return e.Err }

// Collector reads system-wide metrics. It holds no cached state: core
// counts, frequencies and totals are read fresh on every call.
type Collector struct {
	log *zap.Logger
}

// New returns a Collector logging through log. A nil log disables logging.
func New(log *zap.Logger) *Collector {
	if log == nil {
		log = zap.NewNop()
	}
	return &Collector{log: log}
}

// CPU samples CPU usage. The call blocks for the aggregate window (~1s)
// plus the per-core window (~100ms); the two windows differ, so per-core
// figures are not reconcilable against the aggregate.
func (c *Collector) CPU(ctx context.Context) (model.CPUInfo, error) {
	overall, err := cpu.PercentWithContext(ctx, OverallWindow, false)
	if err != nil {
		return model.CPUInfo{}, &CollectError{Metric: "cpu", Err: err}
	}
	info := model.CPUInfo{}
	if len(overall) > 0 {
		info.OverallPercent = overall[0]
	}

	// Shorter window keeps the per-core read from doubling the tick cost.
	perCore, err := cpu.PercentWithContext(ctx, PerCoreWindow, true)
	if err != nil {
		return model.CPUInfo{}, &CollectError{Metric: "cpu", Err: err}
	}
	info.PerCorePercent = perCore

	count, err := cpu.CountsWithContext(ctx, true)
	if err != nil {
		return model.CPUInfo{}, &CollectError{Metric: "cpu", Err: err}
	}
	info.LogicalCores = count

	// Frequency is best-effort: gopsutil reports only the nominal clock on
	// darwin, and nothing at all on Apple Silicon. Zero means unknown.
	if stats, err := cpu.InfoWithContext(ctx); err == nil && len(stats) > 0 {
		info.Frequency.CurrentMHz = stats[0].Mhz
	}

	return info, nil
}

// Memory reads RAM and swap usage.
func (c *Collector) Memory(ctx context.Context) (model.MemoryInfo, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return model.MemoryInfo{}, &CollectError{Metric: "memory", Err: err}
	}
	swap, err := mem.SwapMemoryWithContext(ctx)
	if err != nil {
		return model.MemoryInfo{}, &CollectError{Metric: "memory", Err: err}
	}
	return model.MemoryInfo{
		Total:       vm.Total,
		Available:   vm.Available,
		Used:        vm.Used,
		UsedPercent: vm.UsedPercent,
		SwapTotal:   swap.Total,
		SwapUsed:    swap.Used,
	}, nil
}

// DiskIO sums cumulative disk counters across block devices. Failures and
// device-less hosts both yield a zero record; this source never errors.
func (c *Collector) DiskIO(ctx context.Context) model.DiskIOInfo {
	counters, err := disk.IOCountersWithContext(ctx)
	if err != nil {
		c.log.Warn("disk I/O counters unavailable, reporting zeros", zap.Error(err))
		return model.DiskIOInfo{}
	}
	var info model.DiskIOInfo
	for _, st := range counters {
		info.ReadBytes += st.ReadBytes
		info.WriteBytes += st.WriteBytes
		info.ReadCount += st.ReadCount
		info.WriteCount += st.WriteCount
	}
	return info
}

// Network reads cumulative network counters aggregated over all interfaces.
// Failures and interface-less hosts both yield a zero record; this source
// never errors.
func (c *Collector) Network(ctx context.Context) model.NetworkInfo {
	counters, err := net.IOCountersWithContext(ctx, false)
	if err != nil {
		c.log.Warn("network counters unavailable, reporting zeros", zap.Error(err))
		return model.NetworkInfo{}
	}
	if len(counters) == 0 {
		return model.NetworkInfo{}
	}
	agg := counters[0]
	return model.NetworkInfo{
		BytesSent:   agg.BytesSent,
		BytesRecv:   agg.BytesRecv,
		PacketsSent: agg.PacketsSent,
		PacketsRecv: agg.PacketsRecv,
	}
}
