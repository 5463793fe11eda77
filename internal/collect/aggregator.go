// Package collect assembles one immutable snapshot per tick from the
// independent metric sources. Graceful degradation is the rule: a failing
// source marks its own field unavailable and must never prevent the other
// fields from being collected.
package collect

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"macmon/internal/model"
	"macmon/internal/procs"
)

// SystemSource supplies the system-wide hard and soft metrics.
type SystemSource interface {
	CPU(ctx context.Context) (model.CPUInfo, error)
	Memory(ctx context.Context) (model.MemoryInfo, error)
	DiskIO(ctx context.Context) model.DiskIOInfo
	Network(ctx context.Context) model.NetworkInfo
}

// ProcessSource supplies the process table.
type ProcessSource interface {
	List(ctx context.Context, key procs.SortKey, limit int) ([]model.ProcessRecord, error)
}

// TemperatureSource supplies thermal readings.
type TemperatureSource interface {
	Read(ctx context.Context) model.TemperatureInfo
}

// Aggregator fans out to all metric sources and merges the results.
type Aggregator struct {
	system  SystemSource
	process ProcessSource
	thermal TemperatureSource
	log     *zap.Logger
}

// New wires an Aggregator from its sources. A nil log disables logging.
func New(system SystemSource, process ProcessSource, thermal TemperatureSource, log *zap.Logger) *Aggregator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Aggregator{system: system, process: process, thermal: thermal, log: log}
}

// Collect gathers every metric once and returns a complete snapshot. CPU and
// memory failures are caught here and mapped to nil fields; disk, network,
// temperature and process failures are already absorbed at their sources. A
// source that panics loses only its own field. Collect itself never fails.
//
// Sources run concurrently: the CPU sampling window alone takes over a
// second, and serializing it with the 5s-bounded temperature helper would
// blow the tick budget.
func (a *Aggregator) Collect(ctx context.Context, key procs.SortKey, limit int) model.Snapshot {
	snap := model.Snapshot{Timestamp: time.Now()}

	var wg sync.WaitGroup

	a.fetch(&wg, "cpu", func() {
		cpu, err := a.system.CPU(ctx)
		if err != nil {
			a.log.Warn("cpu unavailable this tick", zap.Error(err))
			return
		}
		snap.CPU = &cpu
	})
	a.fetch(&wg, "memory", func() {
		mem, err := a.system.Memory(ctx)
		if err != nil {
			a.log.Warn("memory unavailable this tick", zap.Error(err))
			return
		}
		snap.Memory = &mem
	})
	a.fetch(&wg, "disk", func() {
		io := a.system.DiskIO(ctx)
		snap.DiskIO = &io
	})
	a.fetch(&wg, "network", func() {
		nw := a.system.Network(ctx)
		snap.Network = &nw
	})
	a.fetch(&wg, "temperature", func() {
		t := a.thermal.Read(ctx)
		snap.Temperature = &t
	})
	a.fetch(&wg, "processes", func() {
		records, err := a.process.List(ctx, key, limit)
		if err != nil {
			a.log.Warn("process table unavailable this tick", zap.Error(err))
			return
		}
		if records == nil {
			records = []model.ProcessRecord{}
		}
		snap.Processes = records
	})

	wg.Wait()
	return snap
}

// fetch runs one source in its own goroutine behind a panic guard. A recover
// only works inside the goroutine that panicked, so the guard has to live
// here, per source: the sources lean on third-party OS plumbing, and a panic
// in one of them must cost its own field, never the tick or the process.
func (a *Aggregator) fetch(wg *sync.WaitGroup, metric string, fn func()) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer func() {
			if r := recover(); r != nil {
				a.log.Error("metric source panicked",
					zap.String("metric", metric), zap.Any("panic", r))
			}
		}()
		fn()
	}()
}
