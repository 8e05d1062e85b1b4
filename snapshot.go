package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// FailureKind classifies why a section could not be collected.
type FailureKind string

const (
	FailPermissionDenied    FailureKind = "permission-denied"
	FailUnsupportedPlatform FailureKind = "unsupported-platform"
	FailProbeError          FailureKind = "probe-error"
)

// probeError tags a collector failure with its kind. Collectors return it
// instead of raising; the builder records it on the section and moves on.
type probeError struct {
	kind FailureKind
	err  error
}

func (e *probeError) Error() string { return fmt.Sprintf("%s: %v", e.kind, e.err) }

func (e *probeError) Unwrap() error { return e.err }

func unsupportedf(format string, args ...any) error {
	return &probeError{kind: FailUnsupportedPlatform, err: fmt.Errorf(format, args...)}
}

// classifyFailure maps an arbitrary collector error onto the failure
// taxonomy. gopsutil reports unimplemented platforms with a sentinel error
// message rather than an exported value, hence the string check.
func classifyFailure(err error) FailureKind {
	var pe *probeError
	if errors.As(err, &pe) {
		return pe.kind
	}
	if errors.Is(err, os.ErrPermission) {
		return FailPermissionDenied
	}
	if strings.Contains(err.Error(), "not implemented") {
		return FailUnsupportedPlatform
	}
	return FailProbeError
}

// SectionStatus is embedded in every top-level section. A section is either
// populated with OK set, or unavailable with a reason — never both.
type SectionStatus struct {
	OK        bool        `json:"ok"`
	Error     string      `json:"error,omitempty"`
	ErrorKind FailureKind `json:"error_kind,omitempty"`
}

func (s *SectionStatus) markUnavailable(err error) {
	s.OK = false
	s.Error = err.Error()
	s.ErrorKind = classifyFailure(err)
}

// Snapshot is one immutable point-in-time capture of every monitored
// section. It is built once per cycle and never mutated after publish.
type Snapshot struct {
	Timestamp   time.Time          `json:"timestamp"`
	System      SystemSection      `json:"system"`
	CPU         CPUSection         `json:"cpu"`
	Temperature TemperatureSection `json:"temperature"`
	Memory      MemorySection      `json:"memory"`
	Storage     StorageSection     `json:"storage"`
	Network     NetworkSection     `json:"network"`
	Processes   ProcessSection     `json:"processes"`
}

type SystemSection struct {
	SectionStatus
	Hostname   string `json:"hostname,omitempty"`
	Model      string `json:"model,omitempty"`
	OS         string `json:"os,omitempty"`
	BootTime   string `json:"boot_time,omitempty"`
	UptimeSecs uint64 `json:"uptime_secs,omitempty"`
	Uptime     string `json:"uptime,omitempty"`
}

type CPUFreq struct {
	Current float64 `json:"current"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
}

type CPUSection struct {
	SectionStatus
	Usage float64   `json:"usage"`
	Cores []float64 `json:"cores,omitempty"`
	Count int       `json:"count,omitempty"`
	Freq  *CPUFreq  `json:"freq,omitempty"`
}

type TemperatureSection struct {
	SectionStatus
	Celsius     float64 `json:"temperature,omitempty"`
	Status      string  `json:"status,omitempty"`
	StatusClass string  `json:"status_class,omitempty"`
}

type VirtualMemoryInfo struct {
	Total        uint64  `json:"total"`
	Available    uint64  `json:"available"`
	Used         uint64  `json:"used"`
	Free         uint64  `json:"free"`
	Percent      float64 `json:"percent"`
	TotalFmt     string  `json:"total_fmt"`
	AvailableFmt string  `json:"available_fmt"`
	UsedFmt      string  `json:"used_fmt"`
	FreeFmt      string  `json:"free_fmt"`
}

type SwapInfo struct {
	Total    uint64  `json:"total"`
	Used     uint64  `json:"used"`
	Free     uint64  `json:"free"`
	Percent  float64 `json:"percent"`
	TotalFmt string  `json:"total_fmt"`
	UsedFmt  string  `json:"used_fmt"`
	FreeFmt  string  `json:"free_fmt"`
}

type MemorySection struct {
	SectionStatus
	Virtual VirtualMemoryInfo `json:"virtual"`
	Swap    SwapInfo          `json:"swap"`
}

type MountInfo struct {
	Device     string  `json:"device"`
	Mountpoint string  `json:"mountpoint"`
	Fstype     string  `json:"fstype"`
	Total      uint64  `json:"total"`
	Used       uint64  `json:"used"`
	Free       uint64  `json:"free"`
	Percent    float64 `json:"percent"`
	TotalFmt   string  `json:"total_fmt"`
	UsedFmt    string  `json:"used_fmt"`
	FreeFmt    string  `json:"free_fmt"`
}

type StorageSection struct {
	SectionStatus
	Mounts []MountInfo `json:"mounts"`
}

type InterfaceAddr struct {
	Name string `json:"name"`
	IP   string `json:"ip"`
}

type NetworkSection struct {
	SectionStatus
	BytesSent     uint64          `json:"bytes_sent"`
	BytesRecv     uint64          `json:"bytes_recv"`
	PacketsSent   uint64          `json:"packets_sent"`
	PacketsRecv   uint64          `json:"packets_recv"`
	BytesSentFmt  string          `json:"bytes_sent_fmt"`
	BytesRecvFmt  string          `json:"bytes_recv_fmt"`
	Interfaces    []InterfaceAddr `json:"interfaces"`
}

type ProcessInfo struct {
	PID        int32   `json:"pid"`
	Name       string  `json:"name"`
	Username   string  `json:"username"`
	CPUPercent float64 `json:"cpu_percent"`
	MemPercent float64 `json:"memory_percent"`
	Status     string  `json:"status"`
}

type ProcessSection struct {
	SectionStatus
	Top []ProcessInfo `json:"top"`
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// usedPercent derives a clamped percentage from a used/total byte pair.
func usedPercent(used, total uint64) float64 {
	if total == 0 {
		return 0
	}
	return clampPercent(float64(used) / float64(total) * 100)
}

func formatBytes(v uint64) string {
	return humanize.IBytes(v)
}

// formatUptime renders seconds as "3d 4h 17m", dropping the day part below
// one day, matching the dashboard's display format.
func formatUptime(secs uint64) string {
	days := secs / 86400
	hours := (secs % 86400) / 3600
	minutes := (secs % 3600) / 60
	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
	}
	return fmt.Sprintf("%dh %dm", hours, minutes)
}
