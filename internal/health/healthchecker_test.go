package health

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type fakeChecker struct {
	name string
	err  error
	wait time.Duration
}

func (f *fakeChecker) Name() string { return f.name }
func (f *fakeChecker) Probe(ctx context.Context) error {
	if f.wait > 0 {
		select {
		case <-time.After(f.wait):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return f.err
}

func TestServiceHealthChecker_AllHealthy(t *testing.T) {
	svc := NewServiceHealthChecker(zerolog.Nop(), time.Second, &fakeChecker{name: "a"}, &fakeChecker{name: "b"})
	rep := svc.Check(context.Background())
	if !rep.Healthy || len(rep.Checks) != 2 {
		t.Fatalf("unexpected report: %+v", rep)
	}
	if rep.Checks[0].Name != "a" || rep.Checks[1].Name != "b" {
		t.Fatalf("checks out of order: %+v", rep.Checks)
	}
}

func TestServiceHealthChecker_OneFailing(t *testing.T) {
	svc := NewServiceHealthChecker(zerolog.Nop(), time.Second,
		&fakeChecker{name: "a"},
		&fakeChecker{name: "b", err: errors.New("down")},
	)
	rep := svc.Check(context.Background())
	if rep.Healthy {
		t.Fatalf("expected unhealthy")
	}
	if rep.Checks[1].Error != "down" {
		t.Fatalf("missing error detail: %+v", rep.Checks[1])
	}
}

func TestServiceHealthChecker_ProbeTimeout(t *testing.T) {
	svc := NewServiceHealthChecker(zerolog.Nop(), 20*time.Millisecond, &fakeChecker{name: "slow", wait: time.Second})
	start := time.Now()
	rep := svc.Check(context.Background())
	if rep.Healthy {
		t.Fatalf("expected timeout to mark unhealthy")
	}
	if time.Since(start) > 500*time.Millisecond {
		t.Fatalf("probe timeout not applied")
	}
}

func TestDirChecker(t *testing.T) {
	dir := t.TempDir()
	if err := NewDirChecker("data_dir", dir).Probe(context.Background()); err != nil {
		t.Fatalf("expected writable dir: %v", err)
	}

	file := filepath.Join(dir, "file")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := NewDirChecker("data_dir", file).Probe(context.Background()); err == nil {
		t.Fatalf("expected error for regular file")
	}
	if err := NewDirChecker("data_dir", filepath.Join(dir, "missing")).Probe(context.Background()); err == nil {
		t.Fatalf("expected error for missing dir")
	}
}
