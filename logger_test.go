package kconv

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestNopHandler_Enabled(t *testing.T) {
	h := nopHandler{}
	for _, level := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError} {
		if h.Enabled(context.Background(), level) {
			t.Errorf("nopHandler.Enabled(%v) = true, want false", level)
		}
	}
}

func TestNopHandler_WithAttrsAndGroup(t *testing.T) {
	h := nopHandler{}
	if _, ok := h.WithAttrs([]slog.Attr{slog.String("key", "val")}).(nopHandler); !ok {
		t.Error("nopHandler.WithAttrs() should return nopHandler")
	}
	if _, ok := h.WithGroup("group").(nopHandler); !ok {
		t.Error("nopHandler.WithGroup() should return nopHandler")
	}
	if err := h.Handle(context.Background(), slog.Record{}); err != nil {
		t.Errorf("nopHandler.Handle() = %v, want nil", err)
	}
}

func TestLoggerDefaultSilent(t *testing.T) {
	l := Logger()
	if l == nil {
		t.Fatal("Logger() returned nil")
	}
	for _, level := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn} {
		if l.Enabled(context.Background(), level) {
			t.Errorf("default logger should not be enabled for %v", level)
		}
	}
}

func TestSetLogger(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	var buf bytes.Buffer
	custom := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	SetLogger(custom)

	if Logger() != custom {
		t.Fatal("Logger() did not return the custom logger set via SetLogger")
	}

	// Engines without an explicit logger pick up the package logger.
	eng, err := NewEngine(WithStrategy(Shared), WithWorkers(2))
	if err != nil {
		t.Fatalf("NewEngine() = %v", err)
	}
	defer eng.Close()

	img := mustRaster(t, 8, 8, 1, Interleaved, gradient)
	if _, err := eng.Convolve(img, BoxBlur(), PadZero); err != nil {
		t.Fatalf("Convolve() = %v", err)
	}

	if !strings.Contains(buf.String(), "kconv: convolve") {
		t.Errorf("expected debug output from engine, got: %s", buf.String())
	}
}

func TestSetLoggerNilRestoresSilent(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	SetLogger(slog.Default())
	SetLogger(nil)

	l := Logger()
	if l == nil {
		t.Fatal("SetLogger(nil) should set nop logger, not nil")
	}
	if l.Enabled(context.Background(), slog.LevelError) {
		t.Error("SetLogger(nil) should produce a disabled logger")
	}
}

func TestWithLoggerOverridesPackageLogger(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	eng, err := NewEngine(WithStrategy(Pipelined), WithWorkers(2), WithLogger(l))
	if err != nil {
		t.Fatalf("NewEngine() = %v", err)
	}
	defer eng.Close()

	img := mustRaster(t, 8, 8, 1, Interleaved, gradient)
	if _, err := eng.Convolve(img, BoxBlur(), PadZero); err != nil {
		t.Fatalf("Convolve() = %v", err)
	}

	if !strings.Contains(buf.String(), "partitions joined") {
		t.Errorf("expected pipeline debug output, got: %s", buf.String())
	}
}

func TestPartitionClampWarns(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))

	eng, err := NewEngine(WithStrategy(Pipelined), WithPartitions(4), WithLogger(l))
	if err != nil {
		t.Fatalf("NewEngine() = %v", err)
	}
	defer eng.Close()

	img := mustRaster(t, 8, 2, 1, Interleaved, gradient)
	if _, err := eng.Convolve(img, BoxBlur(), PadZero); err != nil {
		t.Fatalf("Convolve() = %v", err)
	}

	if !strings.Contains(buf.String(), "fewer rows than partitions") {
		t.Errorf("expected partition warning, got: %s", buf.String())
	}
}
