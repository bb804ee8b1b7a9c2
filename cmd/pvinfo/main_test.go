package main

import (
	"bytes"
	"math"
	"strings"
	"testing"
)

func TestParseSizes(t *testing.T) {
	sizes, err := parseSizes(nil)
	if err != nil || len(sizes) != len(defaultSizes) {
		t.Fatalf("parseSizes(nil) = %v, %v", sizes, err)
	}

	sizes, err = parseSizes([]string{"512", "64"})
	if err != nil || len(sizes) != 2 || sizes[0] != 512 || sizes[1] != 64 {
		t.Fatalf("parseSizes() = %v, %v", sizes, err)
	}

	if _, err := parseSizes([]string{"big"}); err == nil {
		t.Fatal("expected error for non-numeric size")
	}
}

func TestDescribe(t *testing.T) {
	g, err := describe(1024, 44100)
	if err != nil {
		t.Fatalf("describe() error = %v", err)
	}

	if g.size != 1024 || g.hop != 256 || g.latency != 1024 {
		t.Fatalf("geometry = %+v", g)
	}

	if math.Abs(g.latencyMS-23.2199546) > 1e-6 {
		t.Fatalf("latencyMS = %v", g.latencyMS)
	}

	if math.Abs(g.olaGain-1.49853515625) > 1e-9 {
		t.Fatalf("olaGain = %v", g.olaGain)
	}

	if math.Abs(g.normalize*g.olaGain-1) > 1e-12 {
		t.Fatalf("normalize = %v", g.normalize)
	}

	if g.rippledB <= 0 || g.rippledB > 0.01 {
		t.Fatalf("rippledB = %v", g.rippledB)
	}
}

func TestDescribeRejectsInvalidInput(t *testing.T) {
	for _, size := range []int{0, 2, 1000} {
		if _, err := describe(size, 44100); err == nil {
			t.Fatalf("describe(%d) succeeded", size)
		}
	}

	if _, err := describe(1024, 0); err == nil {
		t.Fatal("describe with zero rate succeeded")
	}
}

func TestPrintTable(t *testing.T) {
	g, err := describe(256, 48000)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := printTable(&buf, []geometry{g}); err != nil {
		t.Fatalf("printTable() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines:\n%s", len(lines), buf.String())
	}

	fields := strings.Fields(lines[2])
	if fields[0] != "256" || fields[1] != "64" || fields[2] != "256" || fields[3] != "5.33" {
		t.Fatalf("row = %q", lines[2])
	}

	if fields[4] != "1.494141" {
		t.Fatalf("OLA gain column = %q", fields[4])
	}
}
