package main

import (
	"context"
	"log"
	"time"
)

// probeSet holds one probe per snapshot section. Tests swap individual
// fields to simulate failing or synthetic sensors.
type probeSet struct {
	system      func(ctx context.Context) (SystemSection, error)
	cpu         func(ctx context.Context) (CPUSection, error)
	temperature func(ctx context.Context) (float64, error)
	memory      func(ctx context.Context) (MemorySection, error)
	storage     func(ctx context.Context) (StorageSection, error)
	network     func(ctx context.Context) (NetworkSection, error)
	processes   func(ctx context.Context) ([]ProcessInfo, error)
}

func defaultProbes() probeSet {
	return probeSet{
		system:      collectSystem,
		cpu:         collectCPU,
		temperature: collectTemperature,
		memory:      collectMemory,
		storage:     collectStorage,
		network:     collectNetwork,
		processes:   collectProcesses,
	}
}

// Builder runs every probe once per cycle and assembles one Snapshot. A
// failed probe marks its own section unavailable and never touches the
// others; Build itself always returns a complete Snapshot.
type Builder struct {
	probes       probeSet
	processLimit int
	breakpoints  []float64
}

func newBuilder(cfg *Config) *Builder {
	return &Builder{
		probes:       defaultProbes(),
		processLimit: cfg.ProcessLimit,
		breakpoints:  cfg.TempBreakpoints,
	}
}

func (b *Builder) Build(ctx context.Context) *Snapshot {
	snap := &Snapshot{Timestamp: time.Now()}

	if sec, err := b.probes.system(ctx); err != nil {
		b.fail("system", &snap.System.SectionStatus, err)
	} else {
		snap.System = sec
		snap.System.OK = true
	}

	if sec, err := b.probes.cpu(ctx); err != nil {
		b.fail("cpu", &snap.CPU.SectionStatus, err)
	} else {
		snap.CPU = sec
		snap.CPU.OK = true
		snap.CPU.Usage = clampPercent(snap.CPU.Usage)
		for i := range snap.CPU.Cores {
			snap.CPU.Cores[i] = clampPercent(snap.CPU.Cores[i])
		}
	}

	if temp, err := b.probes.temperature(ctx); err != nil {
		b.fail("temperature", &snap.Temperature.SectionStatus, err)
	} else {
		status, class := temperatureStatus(temp, b.breakpoints)
		snap.Temperature = TemperatureSection{Celsius: temp, Status: status, StatusClass: class}
		snap.Temperature.OK = true
	}

	if sec, err := b.probes.memory(ctx); err != nil {
		b.fail("memory", &snap.Memory.SectionStatus, err)
	} else {
		snap.Memory = sec
		snap.Memory.OK = true
	}

	if sec, err := b.probes.storage(ctx); err != nil {
		b.fail("storage", &snap.Storage.SectionStatus, err)
	} else {
		snap.Storage = sec
		snap.Storage.OK = true
	}

	if sec, err := b.probes.network(ctx); err != nil {
		b.fail("network", &snap.Network.SectionStatus, err)
	} else {
		snap.Network = sec
		snap.Network.OK = true
	}

	if entries, err := b.probes.processes(ctx); err != nil {
		b.fail("processes", &snap.Processes.SectionStatus, err)
	} else {
		snap.Processes = ProcessSection{Top: topProcesses(entries, b.processLimit)}
		snap.Processes.OK = true
	}

	return snap
}

func (b *Builder) fail(section string, status *SectionStatus, err error) {
	status.markUnavailable(err)
	if status.ErrorKind != FailUnsupportedPlatform {
		// Unsupported sensors would log identically every cycle.
		log.Printf("collect %s: %v", section, err)
	}
}

var temperatureStatusNames = [...]string{"Cool", "Warm", "Warning", "Critical"}
var temperatureStatusClasses = [...]string{"success", "info", "warning", "danger"}

// temperatureStatus maps degrees onto the qualitative scale using ordered
// breakpoints; temperatures above the last breakpoint are Critical.
func temperatureStatus(t float64, breakpoints []float64) (status, class string) {
	idx := 0
	for _, bp := range breakpoints {
		if t > bp {
			idx++
		}
	}
	if idx >= len(temperatureStatusNames) {
		idx = len(temperatureStatusNames) - 1
	}
	return temperatureStatusNames[idx], temperatureStatusClasses[idx]
}
