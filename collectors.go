package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
	psnet "github.com/shirou/gopsutil/v4/net"
	"github.com/shirou/gopsutil/v4/process"
)

// Collectors probe ambient OS state and return one section each. They never
// panic past their boundary; a failed probe comes back as an error for the
// builder to record on the section.

func collectSystem(ctx context.Context) (SystemSection, error) {
	info, err := host.InfoWithContext(ctx)
	if err != nil {
		return SystemSection{}, err
	}
	osName := strings.TrimSpace(fmt.Sprintf("%s %s %s", info.OS, info.Platform, info.PlatformVersion))
	return SystemSection{
		Hostname:   info.Hostname,
		Model:      hardwareModel(ctx),
		OS:         osName,
		BootTime:   bootTimeString(info.BootTime),
		UptimeSecs: info.Uptime,
		Uptime:     formatUptime(info.Uptime),
	}, nil
}

func bootTimeString(epoch uint64) string {
	return time.Unix(int64(epoch), 0).Format("2006-01-02 15:04:05")
}

// hardwareModel prefers the board model from /proc/cpuinfo (the "Model" line
// a Raspberry Pi exposes), falling back to the CPU model name.
func hardwareModel(ctx context.Context) string {
	if data, err := os.ReadFile("/proc/cpuinfo"); err == nil {
		for _, line := range strings.Split(string(data), "\n") {
			if strings.HasPrefix(line, "Model") {
				if _, v, ok := strings.Cut(line, ":"); ok {
					return strings.TrimSpace(v)
				}
			}
		}
	}
	if infos, err := cpu.InfoWithContext(ctx); err == nil && len(infos) > 0 && infos[0].ModelName != "" {
		return infos[0].ModelName
	}
	return "Unknown"
}

// collectCPU reads overall usage, per-core usage and frequency within one
// probe call so the three never come from different sampling windows.
func collectCPU(ctx context.Context) (CPUSection, error) {
	overall, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil {
		return CPUSection{}, err
	}
	perCore, err := cpu.PercentWithContext(ctx, 0, true)
	if err != nil {
		return CPUSection{}, err
	}

	sec := CPUSection{Cores: perCore}
	if len(overall) > 0 {
		sec.Usage = overall[0]
	}
	if count, err := cpu.CountsWithContext(ctx, true); err == nil {
		sec.Count = count
	}
	sec.Freq = collectCPUFreq(ctx)
	return sec, nil
}

// collectCPUFreq returns nil when no frequency source is available, which
// the dashboard renders as "unknown". Current/min/max come from cpufreq
// sysfs when present (the values gopsutil does not expose), otherwise the
// static MHz from cpuinfo.
func collectCPUFreq(ctx context.Context) *CPUFreq {
	cur := readSysfsMHz("/sys/devices/system/cpu/cpu0/cpufreq/scaling_cur_freq")
	min := readSysfsMHz("/sys/devices/system/cpu/cpu0/cpufreq/scaling_min_freq")
	max := readSysfsMHz("/sys/devices/system/cpu/cpu0/cpufreq/scaling_max_freq")
	if cur > 0 {
		return &CPUFreq{Current: cur, Min: min, Max: max}
	}
	if infos, err := cpu.InfoWithContext(ctx); err == nil && len(infos) > 0 && infos[0].Mhz > 0 {
		return &CPUFreq{Current: infos[0].Mhz}
	}
	return nil
}

// readSysfsMHz reads a cpufreq value in kHz and converts to MHz; 0 on any
// failure.
func readSysfsMHz(path string) float64 {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0
	}
	khz, err := strconv.ParseFloat(strings.TrimSpace(string(data)), 64)
	if err != nil {
		return 0
	}
	return khz / 1000
}

func collectMemory(ctx context.Context) (MemorySection, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return MemorySection{}, err
	}

	sec := MemorySection{
		Virtual: VirtualMemoryInfo{
			Total:        vm.Total,
			Available:    vm.Available,
			Used:         vm.Used,
			Free:         vm.Free,
			Percent:      usedPercent(vm.Used, vm.Total),
			TotalFmt:     formatBytes(vm.Total),
			AvailableFmt: formatBytes(vm.Available),
			UsedFmt:      formatBytes(vm.Used),
			FreeFmt:      formatBytes(vm.Free),
		},
	}

	// Swap is best-effort: hosts without a swap device report zeros, not a
	// section failure.
	if swap, err := mem.SwapMemoryWithContext(ctx); err == nil {
		sec.Swap = SwapInfo{
			Total:    swap.Total,
			Used:     swap.Used,
			Free:     swap.Free,
			Percent:  usedPercent(swap.Used, swap.Total),
			TotalFmt: formatBytes(swap.Total),
			UsedFmt:  formatBytes(swap.Used),
			FreeFmt:  formatBytes(swap.Free),
		}
	}
	return sec, nil
}

func collectStorage(ctx context.Context) (StorageSection, error) {
	parts, err := disk.PartitionsWithContext(ctx, false)
	if err != nil {
		return StorageSection{}, err
	}

	mounts := make([]MountInfo, 0, len(parts))
	for _, p := range parts {
		usage, err := disk.UsageWithContext(ctx, p.Mountpoint)
		if err != nil {
			// Unreadable mounts (permission, stale) are skipped, not fatal.
			continue
		}
		mounts = append(mounts, MountInfo{
			Device:     p.Device,
			Mountpoint: p.Mountpoint,
			Fstype:     p.Fstype,
			Total:      usage.Total,
			Used:       usage.Used,
			Free:       usage.Free,
			Percent:    usedPercent(usage.Used, usage.Total),
			TotalFmt:   formatBytes(usage.Total),
			UsedFmt:    formatBytes(usage.Used),
			FreeFmt:    formatBytes(usage.Free),
		})
	}
	return StorageSection{Mounts: mounts}, nil
}

func collectNetwork(ctx context.Context) (NetworkSection, error) {
	counters, err := psnet.IOCountersWithContext(ctx, false)
	if err != nil {
		return NetworkSection{}, err
	}
	if len(counters) == 0 {
		return NetworkSection{}, fmt.Errorf("no aggregate network counters")
	}

	agg := counters[0]
	sec := NetworkSection{
		BytesSent:    agg.BytesSent,
		BytesRecv:    agg.BytesRecv,
		PacketsSent:  agg.PacketsSent,
		PacketsRecv:  agg.PacketsRecv,
		BytesSentFmt: formatBytes(agg.BytesSent),
		BytesRecvFmt: formatBytes(agg.BytesRecv),
	}

	ifaces, err := psnet.InterfacesWithContext(ctx)
	if err != nil {
		// Totals alone are still a usable section.
		return sec, nil
	}
	for _, iface := range ifaces {
		for _, addr := range iface.Addrs {
			if ip := ipv4From(addr.Addr); ip != "" {
				sec.Interfaces = append(sec.Interfaces, InterfaceAddr{Name: iface.Name, IP: ip})
			}
		}
	}
	return sec, nil
}

// ipv4From extracts the IPv4 address from "a.b.c.d/nn" or a bare address;
// empty string for IPv6 or unparseable input.
func ipv4From(s string) string {
	if ip, _, err := net.ParseCIDR(s); err == nil {
		if ip.To4() != nil {
			return ip.String()
		}
		return ""
	}
	if ip := net.ParseIP(s); ip != nil && ip.To4() != nil {
		return ip.String()
	}
	return ""
}

// collectProcesses enumerates all processes with the fields the dashboard
// shows. Processes that vanish mid-enumeration are skipped. Sorting and the
// top-N cap are applied by the builder.
func collectProcesses(ctx context.Context) ([]ProcessInfo, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]ProcessInfo, 0, len(procs))
	for _, p := range procs {
		name, err := p.NameWithContext(ctx)
		if err != nil {
			continue
		}
		entry := ProcessInfo{PID: p.Pid, Name: name}
		entry.Username, _ = p.UsernameWithContext(ctx)
		entry.CPUPercent, _ = p.CPUPercentWithContext(ctx)
		if memPct, err := p.MemoryPercentWithContext(ctx); err == nil {
			entry.MemPercent = float64(memPct)
		}
		if status, err := p.StatusWithContext(ctx); err == nil && len(status) > 0 {
			entry.Status = status[0]
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// topProcesses sorts descending by CPU percent (stable, so ties keep
// enumeration order) and truncates to limit.
func topProcesses(entries []ProcessInfo, limit int) []ProcessInfo {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CPUPercent > entries[j].CPUPercent
	})
	if limit >= 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	for i := range entries {
		entries[i].CPUPercent = clampPercent(entries[i].CPUPercent)
		entries[i].MemPercent = clampPercent(entries[i].MemPercent)
	}
	return entries
}
