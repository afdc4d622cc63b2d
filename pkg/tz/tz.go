// Package tz resolves the timezone used to display event dates.
package tz

import (
	"fmt"
	"sync"
	"time"
)

var (
	mu      sync.RWMutex
	display = time.UTC
)

// Load resolves an IANA zone name. An empty name is UTC.
func Load(name string) (*time.Location, error) {
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("tz: load %s: %w", name, err)
	}
	return loc, nil
}

// SetDisplay sets the zone returned by Display.
func SetDisplay(name string) error {
	loc, err := Load(name)
	if err != nil {
		return err
	}
	mu.Lock()
	display = loc
	mu.Unlock()
	return nil
}

// Display is the zone event dates are rendered in for humans.
func Display() *time.Location {
	mu.RLock()
	defer mu.RUnlock()
	return display
}
