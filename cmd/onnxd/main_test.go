package main

import "testing"

func TestSplitAddr(t *testing.T) {
	cases := []struct {
		in       string
		wantHost string
		wantPort int
	}{
		{":8080", "", 8080},
		{"0.0.0.0:9000", "0.0.0.0", 9000},
		{"localhost:1", "localhost", 1},
		{"noport", "noport", 0},
	}
	for _, c := range cases {
		host, port := splitAddr(c.in)
		if host != c.wantHost || port != c.wantPort {
			t.Errorf("splitAddr(%q) = (%q, %d), want (%q, %d)", c.in, host, port, c.wantHost, c.wantPort)
		}
	}
}

func TestAtoiOrZero(t *testing.T) {
	cases := map[string]int{"8080": 8080, "0": 0, "": 0, "abc": 0, "12a": 0}
	for in, want := range cases {
		if got := atoiOrZero(in); got != want {
			t.Errorf("atoiOrZero(%q) = %d, want %d", in, got, want)
		}
	}
}
