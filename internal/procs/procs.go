// Package procs enumerates the OS process table and serves point lookups.
// Process tables are inherently racy: a process may vanish, be inaccessible,
// or be a zombie at any point during enumeration. Those are normal outcomes
// here, never errors.
package procs

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/shirou/gopsutil/v3/process"
	"go.uber.org/zap"

	"macmon/internal/model"
)

// Placeholders substituted for individual fields a process refuses to
// report. Records are kept, not dropped, when only some fields are missing.
const (
	PlaceholderName   = "N/A"
	PlaceholderOwner  = "N/A"
	PlaceholderStatus = "unknown"
)

// SortKey selects the ordering of List results.
type SortKey string

const (
	SortCPU    SortKey = "cpu"
	SortMemory SortKey = "memory"
	SortPID    SortKey = "pid"
	SortName   SortKey = "name"
)

// ParseSortKey validates a user-supplied sort key.
func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(strings.ToLower(s)); k {
	case SortCPU, SortMemory, SortPID, SortName:
		return k, nil
	default:
		return "", fmt.Errorf("unknown sort key %q (want cpu, memory, pid or name)", s)
	}
}

// Outcome classifies a Lookup result. Only Found carries a usable record;
// the rest are expected conditions of a racy process table, not errors.
type Outcome int

const (
	Found Outcome = iota
	NotFound
	AccessDenied
	Zombie
)

// String returns a human-readable outcome name.
func (o Outcome) String() string {
	switch o {
	case Found:
		return "found"
	case NotFound:
		return "not found"
	case AccessDenied:
		return "access denied"
	case Zombie:
		return "zombie"
	default:
		return "unknown"
	}
}

// Manager lists and looks up processes.
type Manager struct {
	log *zap.Logger
}

// NewManager returns a Manager logging through log. A nil log disables
// logging.
func NewManager(log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{log: log}
}

// List enumerates all processes, sorts them by key, and returns at most
// limit records. Vanished, inaccessible and zombie processes are silently
// skipped; partial results are expected and correct. Sorting sees the full
// set before truncation. A negative limit is treated as zero.
func (m *Manager) List(ctx context.Context, key SortKey, limit int) ([]model.ProcessRecord, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("enumerate processes: %w", err)
	}

	records := make([]model.ProcessRecord, 0, len(procs))
	for _, p := range procs {
		rec, ok := m.read(ctx, p)
		if !ok {
			continue
		}
		records = append(records, rec)
	}

	sortRecords(records, key)

	if limit < 0 {
		limit = 0
	}
	if len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

// Lookup fetches a single process by pid. The outcome distinguishes the
// expected non-Found conditions; callers should treat all of them as
// "absent", not as failures.
func (m *Manager) Lookup(ctx context.Context, pid int32) (model.ProcessRecord, Outcome) {
	p, err := process.NewProcessWithContext(ctx, pid)
	if err != nil {
		return model.ProcessRecord{}, NotFound
	}
	if status, err := p.StatusWithContext(ctx); err == nil && isZombie(status) {
		return model.ProcessRecord{}, Zombie
	}
	rec, ok := m.read(ctx, p)
	if !ok {
		// The process exists but every field read failed: either it died
		// between NewProcess and here, or we lack permission to read it.
		if _, err := p.NameWithContext(ctx); err != nil {
			if running, rerr := p.IsRunningWithContext(ctx); rerr == nil && !running {
				return model.ProcessRecord{}, NotFound
			}
			return model.ProcessRecord{}, AccessDenied
		}
		return model.ProcessRecord{}, NotFound
	}
	return rec, Found
}

// read assembles a record for one process, defaulting missing fields to
// placeholders. It returns false when the process should be skipped
// entirely: gone, fully unreadable, or a zombie.
func (m *Manager) read(ctx context.Context, p *process.Process) (model.ProcessRecord, bool) {
	name, nameErr := p.NameWithContext(ctx)
	cpuPct, cpuErr := p.CPUPercentWithContext(ctx)
	if nameErr != nil && cpuErr != nil {
		// Nothing readable at all: the process vanished mid-enumeration or
		// is off-limits. Skip without logging; this is the common race.
		return model.ProcessRecord{}, false
	}

	status := PlaceholderStatus
	if st, err := p.StatusWithContext(ctx); err == nil && len(st) > 0 {
		if isZombie(st) {
			return model.ProcessRecord{}, false
		}
		status = st[0]
	}

	rec := model.ProcessRecord{
		PID:        p.Pid,
		Name:       PlaceholderName,
		CPUPercent: cpuPct,
		Status:     status,
		Owner:      PlaceholderOwner,
	}
	if nameErr == nil && name != "" {
		rec.Name = name
	}
	if memPct, err := p.MemoryPercentWithContext(ctx); err == nil {
		rec.MemoryPercent = float64(memPct)
	}
	if memInfo, err := p.MemoryInfoWithContext(ctx); err == nil && memInfo != nil {
		rec.MemoryBytes = memInfo.RSS
	}
	if owner, err := p.UsernameWithContext(ctx); err == nil && owner != "" {
		rec.Owner = owner
	}
	if cmd, err := p.CmdlineWithContext(ctx); err == nil && cmd != "" {
		rec.Cmdline = cmd
	} else {
		rec.Cmdline = rec.Name
	}
	return rec, true
}

// sortRecords orders records by key: cpu and memory descending, pid
// ascending, name ascending case-insensitively. The sort is stable so that
// ties keep enumeration order.
func sortRecords(records []model.ProcessRecord, key SortKey) {
	switch key {
	case SortCPU:
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].CPUPercent > records[j].CPUPercent
		})
	case SortMemory:
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].MemoryPercent > records[j].MemoryPercent
		})
	case SortPID:
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].PID < records[j].PID
		})
	case SortName:
		sort.SliceStable(records, func(i, j int) bool {
			return strings.ToLower(records[i].Name) < strings.ToLower(records[j].Name)
		})
	}
}

func isZombie(status []string) bool {
	for _, s := range status {
		if strings.EqualFold(s, process.Zombie) {
			return true
		}
	}
	return false
}
