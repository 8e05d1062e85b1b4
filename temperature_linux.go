//go:build linux

package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

const thermalZonePath = "/sys/class/thermal/thermal_zone0/temp"

// collectTemperature reads the SoC temperature in degrees Celsius. The
// thermal zone is the normal path on a Raspberry Pi; vcgencmd covers setups
// where the zone is missing or unreadable.
func collectTemperature(ctx context.Context) (float64, error) {
	data, err := os.ReadFile(thermalZonePath)
	if err == nil {
		milli, perr := strconv.ParseFloat(strings.TrimSpace(string(data)), 64)
		if perr == nil {
			return milli / 1000, nil
		}
		err = perr
	}

	if temp, verr := vcgencmdTemp(ctx); verr == nil {
		return temp, nil
	}

	if os.IsPermission(err) {
		return 0, &probeError{kind: FailPermissionDenied, err: err}
	}
	return 0, &probeError{kind: FailProbeError, err: err}
}

// vcgencmdTemp parses `vcgencmd measure_temp` output, e.g. "temp=48.3'C".
func vcgencmdTemp(ctx context.Context) (float64, error) {
	out, err := exec.CommandContext(ctx, "vcgencmd", "measure_temp").Output()
	if err != nil {
		return 0, err
	}
	s := strings.TrimSpace(string(out))
	_, v, ok := strings.Cut(s, "=")
	if !ok {
		return 0, fmt.Errorf("unexpected vcgencmd output %q", s)
	}
	v, _, _ = strings.Cut(v, "'")
	return strconv.ParseFloat(v, 64)
}
