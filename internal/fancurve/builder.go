package fancurve

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"codeberg.org/mutker/atkctl/internal/errors"
)

// MinimumSpec is used in place of a blank curve. Auto-fixing it yields the
// lowest curve the device accepts.
const MinimumSpec = "0c:0%,0c:0%,0c:0%,0c:0%,0c:0%,0c:0%,0c:0%,0c:0%"

var entryPattern = regexp.MustCompile(`^\s*(\d{1,3})c:(\d{1,3})%\s*$`)

// Builder stages a table that may still break the curve rules.
type Builder struct {
	table Table
}

// NewBuilder starts from an all-zero table.
func NewBuilder(device Device) *Builder {
	return &Builder{table: Table{device: device}}
}

// Parse reads a comma separated curve of at most eight "<degrees>c:<percent>%"
// entries into a builder. Entry n populates point n. A blank text is read as
// MinimumSpec. Nothing is returned unless every entry parses.
func Parse(device Device, text string) (*Builder, error) {
	errFactory := errors.New()

	if strings.TrimSpace(text) == "" {
		text = MinimumSpec
	}

	tokens := strings.Split(text, ",")
	if len(tokens) > EntryCount {
		return nil, errFactory.WithMessage(ErrTooManyEntries, fmt.Sprintf(
			"too many entries for fan curve table, cannot have more than %d entries", EntryCount))
	}

	builder := NewBuilder(device)
	for ordinal, token := range tokens {
		entry, ok := parseEntry(token)
		if !ok {
			return nil, errFactory.WithMessage(ErrCurveSyntax, fmt.Sprintf(
				"unable to parse '%s': it must look like this: <DEGREES>c:<PERCENT>%%, "+
					"examples: 35c:45%% or 55c:75%% (while degrees must be <=255 and percent within 0-100)", token))
		}
		index, _ := IndexFromOrdinal(ordinal)
		builder.Set(index, entry)
	}

	return builder, nil
}

func parseEntry(token string) (Entry, bool) {
	match := entryPattern.FindStringSubmatch(token)
	if match == nil {
		return Entry{}, false
	}

	degrees, err := strconv.ParseUint(match[1], 10, 8)
	if err != nil {
		return Entry{}, false
	}
	percent, err := strconv.ParseUint(match[2], 10, 8)
	if err != nil {
		return Entry{}, false
	}

	return NewEntry(uint8(degrees), uint8(percent)), true
}

func (b *Builder) Device() Device {
	return b.table.device
}

func (b *Builder) Set(index Index, entry Entry) {
	b.table.set(index, entry)
}

func (b *Builder) Entry(index Index) Entry {
	return b.table.Entry(index)
}

func (b *Builder) IsValid() bool {
	return b.table.IsValid()
}

func (b *Builder) Violations() []Violation {
	return b.table.Violations()
}

// String renders the staged, unfixed curve.
func (b *Builder) String() string {
	return b.table.String()
}

// AutoFixBuild returns the staged table repaired to satisfy every curve rule.
// It never rejects: call IsValid first to learn whether a repair happened.
// The builder itself is left untouched.
func (b *Builder) AutoFixBuild() Table {
	table := b.table
	table.autoFix()

	return table
}

// Minimum returns the lowest compliant curve for device.
func Minimum(device Device) Table {
	return NewBuilder(device).AutoFixBuild()
}
