package fancurve

import (
	"fmt"
	"strings"
)

// Entry is one raw (temperature, fan percentage) pair.
// It is only meaningful in the context of a table position.
type Entry struct {
	Degrees    uint8
	FanPercent uint8
}

func NewEntry(degrees, fanPercent uint8) Entry {
	return Entry{Degrees: degrees, FanPercent: fanPercent}
}

func (e Entry) String() string {
	return fmt.Sprintf("%dc:%d%%", e.Degrees, e.FanPercent)
}

// Table is an eight point fan curve for one device.
// The raw layout matches the wire format: eight temperature bytes followed by
// eight percentage bytes.
type Table struct {
	device Device
	raw    [2 * EntryCount]byte
}

func (t Table) Device() Device {
	return t.device
}

func (t Table) Entry(index Index) Entry {
	return Entry{
		Degrees:    t.raw[index.ordinal],
		FanPercent: t.raw[index.ordinal+EntryCount],
	}
}

// Entries returns the points in index order.
func (t Table) Entries() [EntryCount]Entry {
	var entries [EntryCount]Entry
	for _, index := range Indices() {
		entries[index.ordinal] = t.Entry(index)
	}

	return entries
}

// Bytes returns the sixteen raw bytes as sent to the hardware.
func (t Table) Bytes() [2 * EntryCount]byte {
	return t.raw
}

func (t *Table) set(index Index, entry Entry) {
	t.raw[index.ordinal] = entry.Degrees
	t.raw[index.ordinal+EntryCount] = entry.FanPercent
}

// IsValid reports whether every point lies in its temperature bucket, meets
// the device floor and does not lower the fan speed of the previous point.
func (t Table) IsValid() bool {
	var lastPercent uint8
	for _, index := range Indices() {
		entry := t.Entry(index)
		if entry.Degrees < index.MinDegrees() || entry.Degrees > index.MaxDegrees() {
			return false
		}
		if entry.FanPercent < index.MinPercent(t.device) || entry.FanPercent < lastPercent {
			return false
		}
		lastPercent = entry.FanPercent
	}

	return true
}

// Violations lists every rule the table breaks, in index order.
func (t Table) Violations() []Violation {
	var violations []Violation
	var lastPercent uint8
	for _, index := range Indices() {
		entry := t.Entry(index)
		if entry.Degrees < index.MinDegrees() || entry.Degrees > index.MaxDegrees() {
			violations = append(violations, Violation{Index: index, Kind: DegreesOutOfRange, Entry: entry})
		}
		if floor := index.MinPercent(t.device); entry.FanPercent < floor {
			violations = append(violations, Violation{Index: index, Kind: BelowFloor, Entry: entry, Limit: floor})
		}
		if entry.FanPercent < lastPercent {
			violations = append(violations, Violation{Index: index, Kind: Decreasing, Entry: entry, Limit: lastPercent})
		}
		lastPercent = entry.FanPercent
	}

	return violations
}

// String renders the table in the textual curve format, e.g. "39c:0%,49c:0%,...".
func (t Table) String() string {
	var b strings.Builder
	for _, index := range Indices() {
		if index.ordinal > 0 {
			b.WriteByte(',')
		}
		b.WriteString(t.Entry(index).String())
	}

	return b.String()
}

// autoFix raises every point to the nearest compliant value. The monotonic
// floor of a point is the already fixed percentage of the point before it,
// so the fold has to run left to right.
func (t *Table) autoFix() {
	var lastPercent uint8
	for _, index := range Indices() {
		fixed := fixEntry(index, t.device, t.Entry(index), lastPercent)
		t.set(index, fixed)
		lastPercent = fixed.FanPercent
	}
}

func fixEntry(index Index, device Device, entry Entry, lastPercent uint8) Entry {
	degrees := entry.Degrees
	if degrees < index.MinDegrees() {
		degrees = index.MinDegrees()
	}
	if degrees > index.MaxDegrees() {
		degrees = index.MaxDegrees()
	}

	percent := max(entry.FanPercent, index.MinPercent(device))
	percent = max(percent, lastPercent)

	return Entry{Degrees: degrees, FanPercent: percent}
}
