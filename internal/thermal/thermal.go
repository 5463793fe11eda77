// Package thermal reads the CPU temperature through external helper tools.
// Two mechanisms exist: osx-cpu-temp (fast, unprivileged) and powermetrics
// (Apple's privileged sampler). Neither is guaranteed installed or
// permitted, so availability is probed once at construction and every
// invocation carries a hard timeout.
package thermal

import (
	"context"
	"os/exec"
	"regexp"
	"strconv"
	"time"

	"go.uber.org/zap"

	"macmon/internal/model"
)

const (
	cpuTempTool      = "osx-cpu-temp"
	powermetricsTool = "powermetrics"

	// invokeTimeout bounds each helper run. powermetrics takes one SMC
	// sample and exits; anything slower than this is treated as absent.
	invokeTimeout = 5 * time.Second
)

// InstallHint is surfaced to the user when no helper is available. Guidance,
// not a stack trace.
const InstallHint = "temperature monitoring unavailable; install osx-cpu-temp (brew install osx-cpu-temp)"

var (
	// osx-cpu-temp prints a single token like "61.8°C".
	celsiusRe = regexp.MustCompile(`([\d.]+)°?C`)
	// powermetrics --samplers smc emits a labeled line in its report.
	dieTempRe = regexp.MustCompile(`CPU die temperature:\s*([\d.]+)\s*C`)
)

// runner executes an external command and returns its combined output.
// Injected so tests can fake helper behavior.
type runner func(ctx context.Context, name string, args ...string) (string, error)

func runCmd(ctx context.Context, name string, args ...string) (string, error) {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	return string(out), err
}

// Monitor reads CPU temperature through whichever helper was detected at
// construction. The two availability booleans are cached for the Monitor's
// lifetime: helpers do not appear or disappear mid-run, and re-probing every
// tick would waste the tick's time budget.
type Monitor struct {
	log *zap.Logger
	run runner

	hasCPUTemp      bool
	hasPowermetrics bool
}

// Option customizes a Monitor, used by tests to stub out the environment.
type Option func(*Monitor)

// WithRunner replaces the external command runner.
func WithRunner(r runner) Option { return func(m *Monitor) { m.run = r } }

// WithTools overrides helper detection instead of consulting PATH.
func WithTools(cpuTemp, powermetrics bool) Option {
	return func(m *Monitor) {
		m.hasCPUTemp = cpuTemp
		m.hasPowermetrics = powermetrics
	}
}

// New probes helper availability and returns a Monitor. A nil log disables
// logging.
func New(log *zap.Logger, opts ...Option) *Monitor {
	if log == nil {
		log = zap.NewNop()
	}
	m := &Monitor{
		log:             log,
		run:             runCmd,
		hasCPUTemp:      toolOnPath(cpuTempTool),
		hasPowermetrics: toolOnPath(powermetricsTool),
	}
	for _, opt := range opts {
		opt(m)
	}
	if !m.Available() {
		m.log.Info(InstallHint)
	}
	return m
}

func toolOnPath(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// Available reports whether any temperature mechanism was detected.
func (m *Monitor) Available() bool {
	return m.hasCPUTemp || m.hasPowermetrics
}

// Read returns the current temperature info. It never fails: when neither
// helper is available, or both fail to produce a parseable value, the result
// is marked unavailable with every reading unknown. GPU, battery and
// auxiliary sensors are never parsed and stay nil.
func (m *Monitor) Read(ctx context.Context) model.TemperatureInfo {
	if !m.Available() {
		return model.TemperatureInfo{Sensors: map[string]float64{}}
	}
	info := model.TemperatureInfo{
		Available: true,
		Sensors:   map[string]float64{},
	}
	info.CPUTemp = m.cpuTemperature(ctx)
	return info
}

// cpuTemperature walks the fallback chain: osx-cpu-temp first, then
// powermetrics. First parse success wins; nil means unknown.
func (m *Monitor) cpuTemperature(ctx context.Context) *float64 {
	if m.hasCPUTemp {
		if t := m.fromCPUTempTool(ctx); t != nil {
			return t
		}
	}
	if m.hasPowermetrics {
		if t := m.fromPowermetrics(ctx); t != nil {
			return t
		}
	}
	return nil
}

func (m *Monitor) fromCPUTempTool(ctx context.Context) *float64 {
	ctx, cancel := context.WithTimeout(ctx, invokeTimeout)
	defer cancel()
	out, err := m.run(ctx, cpuTempTool)
	if err != nil {
		m.log.Debug("osx-cpu-temp failed", zap.Error(err))
		return nil
	}
	return parseMatch(celsiusRe, out)
}

func (m *Monitor) fromPowermetrics(ctx context.Context) *float64 {
	ctx, cancel := context.WithTimeout(ctx, invokeTimeout)
	defer cancel()
	// One sample, one iteration of the SMC sensor group.
	out, err := m.run(ctx, powermetricsTool, "--samplers", "smc", "-i", "1", "-n", "1")
	if err != nil {
		m.log.Debug("powermetrics failed", zap.Error(err))
		return nil
	}
	return parseMatch(dieTempRe, out)
}

func parseMatch(re *regexp.Regexp, out string) *float64 {
	match := re.FindStringSubmatch(out)
	if match == nil {
		return nil
	}
	v, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return nil
	}
	return &v
}
