// Package app provides application-level glue: the custom theme and the
// development-time binary reloader.
package app

import (
	"os"
	"path/filepath"
	"syscall"
	"time"
)

// Reloader polls the running binary's modification time and reports when
// a newer build has replaced it, so a development session can offer to
// restart instead of running stale code.
type Reloader struct {
	execPath string
	baseline time.Time
	interval time.Duration
	stopCh   chan struct{}

	onTick      func()
	onNewBinary func()
}

// NewReloader watches the current executable. Returns nil when the
// executable path cannot be resolved, which callers treat as "feature
// unavailable" rather than an error.
func NewReloader(interval time.Duration) *Reloader {
	execPath, err := os.Executable()
	if err != nil {
		return nil
	}
	// go build writes a fresh file; follow the symlink so we stat the
	// real one.
	if real, err := filepath.EvalSymlinks(execPath); err == nil {
		execPath = real
	}

	info, err := os.Stat(execPath)
	if err != nil {
		return nil
	}

	return &Reloader{
		execPath: execPath,
		baseline: info.ModTime(),
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// OnTick registers a callback invoked on every poll, from a background
// goroutine. The window uses it to flush settings periodically.
func (r *Reloader) OnTick(callback func()) {
	r.onTick = callback
}

// OnNewBinary registers the callback invoked once when a newer binary is
// detected. It runs on a background goroutine.
func (r *Reloader) OnNewBinary(callback func()) {
	r.onNewBinary = callback
}

// Start begins polling in a background goroutine.
func (r *Reloader) Start() {
	r.stopCh = make(chan struct{})
	go r.loop()
}

// Stop ends polling.
func (r *Reloader) Stop() {
	close(r.stopCh)
}

func (r *Reloader) loop() {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopCh:
			return
		case <-ticker.C:
			if r.onTick != nil {
				r.onTick()
			}
			if r.updated() && r.onNewBinary != nil {
				// Report once, then stop. A declined restart calls
				// ResetBaseline and Start to resume watching.
				r.onNewBinary()
				return
			}
		}
	}
}

func (r *Reloader) updated() bool {
	info, err := os.Stat(r.execPath)
	if err != nil {
		return false
	}
	return info.ModTime().After(r.baseline)
}

// ExecPath returns the watched executable path.
func (r *Reloader) ExecPath() string {
	return r.execPath
}

// ResetBaseline accepts the current binary as the new baseline so a
// declined restart is not re-prompted.
func (r *Reloader) ResetBaseline() {
	if info, err := os.Stat(r.execPath); err == nil {
		r.baseline = info.ModTime()
	}
}

// Restart replaces the current process with a fresh instance of the
// binary, preserving arguments and environment. Does not return on
// success.
func (r *Reloader) Restart() error {
	return syscall.Exec(r.execPath, os.Args, os.Environ())
}
