package main

import (
	"errors"
	"fmt"
	"os"
	"testing"
)

func TestClampPercent(t *testing.T) {
	cases := []struct{ in, out float64 }{
		{-1, 0},
		{0, 0},
		{42.5, 42.5},
		{100, 100},
		{101.3, 100},
	}
	for _, c := range cases {
		if got := clampPercent(c.in); got != c.out {
			t.Fatalf("clampPercent(%v) = %v, want %v", c.in, got, c.out)
		}
	}
}

func TestUsedPercent(t *testing.T) {
	const mb = uint64(1024 * 1024)
	if got := usedPercent(400*mb, 1000*mb); got != 40 {
		t.Fatalf("usedPercent(400MB, 1000MB) = %v, want 40", got)
	}
	if got := usedPercent(10, 0); got != 0 {
		t.Fatalf("zero total should yield 0, got %v", got)
	}
}

func TestFormatUptime(t *testing.T) {
	cases := []struct {
		secs uint64
		want string
	}{
		{90061, "1d 1h 1m"},
		{3660, "1h 1m"},
		{59, "0h 0m"},
	}
	for _, c := range cases {
		if got := formatUptime(c.secs); got != c.want {
			t.Fatalf("formatUptime(%d) = %q, want %q", c.secs, got, c.want)
		}
	}
}

func TestClassifyFailure(t *testing.T) {
	cases := []struct {
		err  error
		want FailureKind
	}{
		{&probeError{kind: FailPermissionDenied, err: errors.New("no")}, FailPermissionDenied},
		{&probeError{kind: FailUnsupportedPlatform, err: errors.New("no")}, FailUnsupportedPlatform},
		{fmt.Errorf("open: %w", os.ErrPermission), FailPermissionDenied},
		{errors.New("not implemented yet"), FailUnsupportedPlatform},
		{errors.New("transient hiccup"), FailProbeError},
	}
	for _, c := range cases {
		if got := classifyFailure(c.err); got != c.want {
			t.Fatalf("classifyFailure(%v) = %s, want %s", c.err, got, c.want)
		}
	}
}

func TestMarkUnavailable(t *testing.T) {
	var st SectionStatus
	st.OK = true
	st.markUnavailable(&probeError{kind: FailProbeError, err: errors.New("boom")})
	if st.OK || st.Error == "" || st.ErrorKind != FailProbeError {
		t.Fatalf("unexpected status after markUnavailable: %+v", st)
	}
}
