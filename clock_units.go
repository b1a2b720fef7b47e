// clock_units.go - Frequency unit catalog and wall-clock phase derivation

/*
  ___                           _          __        __
 / _ \   _   _    __ _   _ __  | |_   ____ \ \      / /   __ _  __   __   ___
| | | | | | | |  / _` | | '__| | __| |_  /  \ \ /\ / /   / _` | \ \ / /  / _ \
| |_| | | |_| | | (_| | | |    | |_   / /    \ V  V /   | (_| |  \ V /  |  __/
 \__\_\  \__,_|  \__,_| |_|     \__| /___|    \_/\_/     \__,_|   \_/    \___|

(c) 2025 - 2026 The QuartzWave Authors
https://github.com/quartzwave/QuartzWaveEngine
License: GPLv3 or later
*/

package main

import (
	"fmt"
	"image/color"
	"math"
	"time"
)

// UnitID identifies one time-scale oscillator. The four fixed identifiers derive
// their phase from calendar fields; identifiers at UnitCustomBase and above belong
// to script-defined units and fall back to the frame-driven clock.
type UnitID int

const (
	UnitSecond UnitID = iota
	UnitMinute
	UnitHour
	UnitDay
	UnitCustomBase
)

func (id UnitID) String() string {
	switch id {
	case UnitSecond:
		return "seconds"
	case UnitMinute:
		return "minutes"
	case UnitHour:
		return "hours"
	case UnitDay:
		return "days"
	}
	return fmt.Sprintf("custom%d", int(id-UnitCustomBase))
}

const (
	TWO_PI       = 2 * math.Pi
	PHASE_OFFSET = math.Pi / 2 // quarter-cycle offset so waves start at their positive peak
)

// Fixed catalog amplitudes. Their sum defines the normalization window for the
// composite signal, so it stays CATALOG_AMPLITUDE even when units are removed.
const (
	AMP_SECONDS = 150.0
	AMP_MINUTES = 100.0
	AMP_HOURS   = 75.0
	AMP_DAYS    = 50.0

	CATALOG_AMPLITUDE = AMP_SECONDS + AMP_MINUTES + AMP_HOURS + AMP_DAYS // 375
)

// FrequencyUnit is one time-scale oscillator.
type FrequencyUnit struct {
	ID        UnitID
	Label     string
	Frequency float64 // base cycle frequency in Hz; only used as phase fallback for custom units
	Amplitude float64 // drawing weight and audio-energy weight
	Color     color.RGBA
	Phase     float64 // radians, overwritten every tick, never persisted
}

func (u *FrequencyUnit) IsCustom() bool {
	return u.ID >= UnitCustomBase
}

// UpdatePhase recomputes the unit's phase for the given instant. For the four
// fixed units phase is a pure function of wall-clock time: each completes exactly
// one cycle per its named period, independent of frame timing. Custom units use
// the render loop's own elapsed time, which is a weaker guarantee since it is
// subject to frame-rate variance.
func (u *FrequencyUnit) UpdatePhase(now time.Time, elapsed float64) {
	fsec := float64(now.Nanosecond()) / 1e9
	fmin := (float64(now.Second()) + fsec) / 60
	fhour := (float64(now.Minute()) + fmin) / 60

	var fraction float64
	switch u.ID {
	case UnitSecond:
		fraction = fsec
	case UnitMinute:
		fraction = fmin
	case UnitHour:
		fraction = fhour
	case UnitDay:
		fraction = (float64(now.Hour()) + fhour) / 24
	default:
		u.Phase = elapsed*u.Frequency*TWO_PI + PHASE_OFFSET
		return
	}
	u.Phase = fraction*TWO_PI + PHASE_OFFSET
}

// UnitCatalog holds every known frequency unit, partitioned into the active set
// and the removed (available) set. The two sets are always disjoint: a unit is
// either sounding/drawing or parked, never both.
type UnitCatalog struct {
	units  map[UnitID]*FrequencyUnit
	order  []UnitID // creation order, for stable iteration
	active map[UnitID]bool
}

// NewUnitCatalog builds the fixed four-entry catalog with every unit active.
func NewUnitCatalog() *UnitCatalog {
	c := &UnitCatalog{
		units:  make(map[UnitID]*FrequencyUnit),
		active: make(map[UnitID]bool),
	}
	fixed := []*FrequencyUnit{
		{ID: UnitSecond, Label: "Seconds", Frequency: 1, Amplitude: AMP_SECONDS, Color: color.RGBA{255, 99, 71, 255}},
		{ID: UnitMinute, Label: "Minutes", Frequency: 1.0 / 60, Amplitude: AMP_MINUTES, Color: color.RGBA{255, 215, 0, 255}},
		{ID: UnitHour, Label: "Hours", Frequency: 1.0 / 3600, Amplitude: AMP_HOURS, Color: color.RGBA{64, 224, 208, 255}},
		{ID: UnitDay, Label: "Days", Frequency: 1.0 / 86400, Amplitude: AMP_DAYS, Color: color.RGBA{147, 112, 219, 255}},
	}
	for _, u := range fixed {
		c.units[u.ID] = u
		c.order = append(c.order, u.ID)
		c.active[u.ID] = true
	}
	return c
}

// AddCustom registers a script-defined unit. It starts in the removed set.
func (c *UnitCatalog) AddCustom(u *FrequencyUnit) error {
	if u.ID < UnitCustomBase {
		return fmt.Errorf("custom unit %q: identifier %d collides with the fixed range", u.Label, u.ID)
	}
	if _, dup := c.units[u.ID]; dup {
		return fmt.Errorf("custom unit %q: identifier %d already registered", u.Label, u.ID)
	}
	c.units[u.ID] = u
	c.order = append(c.order, u.ID)
	return nil
}

// NextCustomID returns the first unused identifier in the custom range.
func (c *UnitCatalog) NextCustomID() UnitID {
	id := UnitCustomBase
	for {
		if _, taken := c.units[id]; !taken {
			return id
		}
		id++
	}
}

// Lookup tolerates absent identifiers: callers skip rather than fail.
func (c *UnitCatalog) Lookup(id UnitID) (*FrequencyUnit, bool) {
	u, ok := c.units[id]
	return u, ok
}

func (c *UnitCatalog) IsActive(id UnitID) bool {
	return c.active[id]
}

// Activate moves a unit from the removed set into the active set. Returns false
// when the identifier is unknown or already active.
func (c *UnitCatalog) Activate(id UnitID) bool {
	if _, ok := c.units[id]; !ok || c.active[id] {
		return false
	}
	c.active[id] = true
	return true
}

// Deactivate moves a unit from the active set into the removed set. Returns
// false when the identifier is unknown or already removed, so stale cleanup
// timers are harmless.
func (c *UnitCatalog) Deactivate(id UnitID) bool {
	if !c.active[id] {
		return false
	}
	delete(c.active, id)
	return true
}

// Active returns the active units in catalog order.
func (c *UnitCatalog) Active() []*FrequencyUnit {
	var out []*FrequencyUnit
	for _, id := range c.order {
		if c.active[id] {
			out = append(out, c.units[id])
		}
	}
	return out
}

// Removed returns the parked units in catalog order.
func (c *UnitCatalog) Removed() []*FrequencyUnit {
	var out []*FrequencyUnit
	for _, id := range c.order {
		if !c.active[id] {
			out = append(out, c.units[id])
		}
	}
	return out
}

// All returns every catalog unit in catalog order, active or not.
func (c *UnitCatalog) All() []*FrequencyUnit {
	out := make([]*FrequencyUnit, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.units[id])
	}
	return out
}

// UpdatePhases recomputes the phase of every active unit. An empty active set
// is valid and produces no phases.
func (c *UnitCatalog) UpdatePhases(now time.Time, elapsed float64) {
	for _, u := range c.Active() {
		u.UpdatePhase(now, elapsed)
	}
}
