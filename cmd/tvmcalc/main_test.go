package main

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestRun_FutureValue(t *testing.T) {
	var stdout, stderr bytes.Buffer

	code := run([]string{"-target", "fv", "-n", "10", "-r", "0.05", "-pmt", "100"}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit %d: %s %s", code, stdout.String(), stderr.String())
	}

	var out struct {
		Rounded string `json:"rounded"`
	}
	if err := json.Unmarshal(stdout.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Rounded != "1257.79" {
		t.Errorf("expected 1257.79, got %s", out.Rounded)
	}
}

func TestRun_UnsetFlagIsAbsent(t *testing.T) {
	var stdout, stderr bytes.Buffer

	// -r sin pasar: la tasa falta, no vale 0
	code := run([]string{"-target", "pv", "-n", "10", "-fv", "100"}, &stdout, &stderr)
	if code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}

	var out errorOutput
	if err := json.Unmarshal(stdout.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Kind != "invalid_input" {
		t.Errorf("expected invalid_input, got %+v", out)
	}
}

func TestRun_BadFlag(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run([]string{"-bogus"}, &stdout, &stderr); code != 2 {
		t.Errorf("expected exit 2, got %d", code)
	}
}
