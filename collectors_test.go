package main

import "testing"

func TestIPv4From(t *testing.T) {
	cases := []struct{ in, want string }{
		{"192.168.1.5/24", "192.168.1.5"},
		{"10.0.0.1", "10.0.0.1"},
		{"fe80::1/64", ""},
		{"::1", ""},
		{"garbage", ""},
	}
	for _, c := range cases {
		if got := ipv4From(c.in); got != c.want {
			t.Fatalf("ipv4From(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestTopProcessesStableTies(t *testing.T) {
	entries := []ProcessInfo{
		{PID: 1, Name: "first", CPUPercent: 10},
		{PID: 2, Name: "hog", CPUPercent: 90},
		{PID: 3, Name: "second", CPUPercent: 10},
		{PID: 4, Name: "idle", CPUPercent: 0},
	}

	top := topProcesses(entries, 3)

	if len(top) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(top))
	}
	if top[0].Name != "hog" {
		t.Fatalf("expected hog first, got %s", top[0].Name)
	}
	// Equal CPU keeps enumeration order.
	if top[1].Name != "first" || top[2].Name != "second" {
		t.Fatalf("tie order not stable: [%s %s]", top[1].Name, top[2].Name)
	}
}

func TestTopProcessesClampsPercents(t *testing.T) {
	top := topProcesses([]ProcessInfo{{Name: "x", CPUPercent: 250, MemPercent: -3}}, 15)
	if top[0].CPUPercent != 100 || top[0].MemPercent != 0 {
		t.Fatalf("percents not clamped: %+v", top[0])
	}
}

func TestTopProcessesNoLimit(t *testing.T) {
	entries := []ProcessInfo{{Name: "a"}, {Name: "b"}}
	if got := topProcesses(entries, 15); len(got) != 2 {
		t.Fatalf("cap above length must keep all entries, got %d", len(got))
	}
}
