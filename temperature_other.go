//go:build !linux

package main

import (
	"context"
	"strings"

	"github.com/shirou/gopsutil/v4/sensors"
)

// collectTemperature picks a CPU-looking sensor from the host's temperature
// sensors. Many platforms expose none, or require elevated privileges; both
// degrade to an unavailable temperature section.
func collectTemperature(ctx context.Context) (float64, error) {
	readings, err := sensors.TemperaturesWithContext(ctx)
	if err != nil {
		return 0, err
	}

	var fallback *sensors.TemperatureStat
	for i, r := range readings {
		if r.Temperature <= 0 {
			continue
		}
		key := strings.ToLower(r.SensorKey)
		if strings.Contains(key, "cpu") || strings.Contains(key, "coretemp") || strings.Contains(key, "soc") {
			return r.Temperature, nil
		}
		if fallback == nil {
			fallback = &readings[i]
		}
	}
	if fallback != nil {
		return fallback.Temperature, nil
	}
	return 0, unsupportedf("no temperature sensors exposed")
}
