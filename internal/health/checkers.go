package health

import (
	"context"
	"fmt"
	"os"
)

// DirChecker verifies that a directory exists and accepts new files.
type DirChecker struct {
	name string
	dir  string
}

func NewDirChecker(name, dir string) *DirChecker { return &DirChecker{name: name, dir: dir} }

func (c *DirChecker) Name() string { return c.name }

func (c *DirChecker) Probe(ctx context.Context) error {
	st, err := os.Stat(c.dir)
	if err != nil {
		return err
	}
	if !st.IsDir() {
		return fmt.Errorf("%s is not a directory", c.dir)
	}
	f, err := os.CreateTemp(c.dir, ".healthcheck-*")
	if err != nil {
		return fmt.Errorf("%s not writable: %w", c.dir, err)
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(name)
}

// Pinger is anything with a connectivity probe, such as the upstream client.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingChecker adapts a Pinger.
type PingChecker struct {
	name string
	p    Pinger
}

func NewPingChecker(name string, p Pinger) *PingChecker { return &PingChecker{name: name, p: p} }

func (c *PingChecker) Name() string { return c.name }

func (c *PingChecker) Probe(ctx context.Context) error { return c.p.Ping(ctx) }
