package main

import "testing"

func TestResolvePort_Default(t *testing.T) {
	got := resolvePort(func(string) string { return "" })
	if got != "18920" {
		t.Fatalf("expected default port 18920, got %q", got)
	}
}

func TestResolvePort_FromEnv(t *testing.T) {
	got := resolvePort(func(k string) string {
		if k == "PORT" {
			return "12345"
		}
		return ""
	})
	if got != "12345" {
		t.Fatalf("expected port 12345, got %q", got)
	}
}
