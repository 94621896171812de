package fancurve

import (
	"strings"
	"testing"

	"codeberg.org/mutker/atkctl/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	validCPUSpec = "39c:0%,49c:0%,59c:0%,69c:0%,79c:31%,89c:49%,99c:56%,109c:56%"
	hotSpec      = "150c:0%,150c:0%,150c:0%,150c:0%,150c:0%,150c:0%,150c:0%,150c:0%"
)

func TestIndexBounds(t *testing.T) {
	for ordinal := 0; ordinal < EntryCount; ordinal++ {
		index, ok := IndexFromOrdinal(ordinal)
		require.True(t, ok)
		assert.Equal(t, ordinal, index.Ordinal())
		assert.Equal(t, uint8(ordinal*10+30), index.MinDegrees())
		assert.Equal(t, uint8(ordinal*10+39), index.MaxDegrees())
	}

	_, ok := IndexFromOrdinal(EntryCount)
	assert.False(t, ok)
	_, ok = IndexFromOrdinal(-1)
	assert.False(t, ok)
}

func TestIndexFloors(t *testing.T) {
	cpu := []uint8{0, 0, 0, 0, 31, 49, 56, 56}
	gpu := []uint8{0, 0, 0, 0, 34, 51, 61, 61}

	for i, index := range Indices() {
		assert.Equal(t, cpu[i], index.MinPercent(CPU), "cpu floor at %d", i)
		assert.Equal(t, gpu[i], index.MinPercent(GPU), "gpu floor at %d", i)
	}
}

func TestParseDevice(t *testing.T) {
	device, err := ParseDevice(" GPU ")
	require.NoError(t, err)
	assert.Equal(t, GPU, device)

	device, err = ParseDevice("cpu")
	require.NoError(t, err)
	assert.Equal(t, CPU, device)

	_, err = ParseDevice("fan")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, ErrInvalidDevice))
}

func TestValidCurveIsKept(t *testing.T) {
	builder, err := Parse(CPU, validCPUSpec)
	require.NoError(t, err)
	assert.True(t, builder.IsValid())
	assert.Empty(t, builder.Violations())

	table := builder.AutoFixBuild()
	assert.Equal(t, validCPUSpec, table.String())
}

func TestAutoFixClampsToMinimum(t *testing.T) {
	tests := []struct {
		name   string
		device Device
		want   string
	}{
		{"cpu", CPU, "39c:0%,49c:0%,59c:0%,69c:0%,79c:31%,89c:49%,99c:56%,109c:56%"},
		{"gpu", GPU, "39c:0%,49c:0%,59c:0%,69c:0%,79c:34%,89c:51%,99c:61%,109c:61%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			builder, err := Parse(tt.device, hotSpec)
			require.NoError(t, err)
			assert.False(t, builder.IsValid())

			table := builder.AutoFixBuild()
			assert.Equal(t, tt.want, table.String())
			assert.True(t, table.IsValid())
			assert.Equal(t, tt.device, table.Device())
		})
	}
}

func TestBlankUsesMinimum(t *testing.T) {
	for _, device := range Devices() {
		for _, blank := range []string{"", "   "} {
			builder, err := Parse(device, blank)
			require.NoError(t, err)
			assert.Equal(t, MinimumSpec, builder.String())

			table := builder.AutoFixBuild()
			assert.True(t, table.IsValid())
			assert.Equal(t, Minimum(device), table)

			for _, index := range Indices() {
				entry := table.Entry(index)
				assert.Equal(t, index.MinDegrees(), entry.Degrees)
				assert.Equal(t, index.MinPercent(device), entry.FanPercent)
			}
		}
	}
}

func TestParseRejectsTooManyEntries(t *testing.T) {
	_, err := Parse(CPU, validCPUSpec+",119c:60%")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, ErrTooManyEntries))
	assert.Contains(t, err.Error(), "8 entries")
}

func TestParseRejectsMalformedToken(t *testing.T) {
	tests := []string{
		"abc",
		"39c:0%,abc",
		"39c0%",
		"1234c:0%",
		"39c:0",
		"x39c:0%",
		"256c:0%",
		"39c:256%",
	}

	for _, text := range tests {
		t.Run(text, func(t *testing.T) {
			_, err := Parse(CPU, text)
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, ErrCurveSyntax))
		})
	}

	_, err := Parse(CPU, "abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "'abc'")
}

func TestParseToleratesWhitespace(t *testing.T) {
	builder, err := Parse(CPU, strings.ReplaceAll(validCPUSpec, ",", " ,\t"))
	require.NoError(t, err)
	assert.Equal(t, validCPUSpec, builder.String())
}

func TestParseShortCurve(t *testing.T) {
	builder, err := Parse(GPU, "35c:20%,45c:30%")
	require.NoError(t, err)

	index, _ := IndexFromOrdinal(1)
	assert.Equal(t, NewEntry(45, 30), builder.Entry(index))

	index, _ = IndexFromOrdinal(2)
	assert.Equal(t, Entry{}, builder.Entry(index))
	assert.False(t, builder.IsValid())

	table := builder.AutoFixBuild()
	assert.Equal(t, "35c:20%,45c:30%,50c:30%,60c:30%,70c:34%,80c:51%,90c:61%,100c:61%", table.String())
}

func TestAutoFixNeverLowers(t *testing.T) {
	builder, err := Parse(CPU, "35c:80%,45c:20%,55c:100%,65c:10%,75c:10%,85c:10%,95c:10%,105c:200%")
	require.NoError(t, err)

	table := builder.AutoFixBuild()
	assert.Equal(t, "35c:80%,45c:80%,55c:100%,65c:100%,75c:100%,85c:100%,95c:100%,105c:200%", table.String())
}

func TestAutoFixBuildLeavesBuilder(t *testing.T) {
	builder, err := Parse(CPU, hotSpec)
	require.NoError(t, err)

	_ = builder.AutoFixBuild()
	assert.Equal(t, hotSpec, builder.String())
}

func TestBuilderSet(t *testing.T) {
	builder, err := Parse(CPU, validCPUSpec)
	require.NoError(t, err)

	index, _ := IndexFromOrdinal(5)
	builder.Set(index, NewEntry(85, 10))
	assert.False(t, builder.IsValid())

	violations := builder.Violations()
	require.Len(t, violations, 2)
	assert.Equal(t, BelowFloor, violations[0].Kind)
	assert.Equal(t, uint8(49), violations[0].Limit)
	assert.Equal(t, Decreasing, violations[1].Kind)
	assert.Equal(t, uint8(31), violations[1].Limit)
	assert.Equal(t, "point 6: 10% is below the minimum of 49%", violations[0].String())
}

func TestTableBytesLayout(t *testing.T) {
	builder, err := Parse(CPU, validCPUSpec)
	require.NoError(t, err)

	raw := builder.AutoFixBuild().Bytes()
	assert.Equal(t, [16]byte{
		39, 49, 59, 69, 79, 89, 99, 109,
		0, 0, 0, 0, 31, 49, 56, 56,
	}, raw)
}

func TestInvariantsHoldAfterAutoFix(t *testing.T) {
	inputs := []string{
		"",
		hotSpec,
		validCPUSpec,
		"0c:100%,0c:0%,0c:50%,255c:0%",
		"30c:5%,41c:4%,52c:3%,63c:2%,74c:1%,85c:0%,96c:0%,107c:0%",
		"200c:99%,10c:1%",
	}

	for _, device := range Devices() {
		for _, input := range inputs {
			builder, err := Parse(device, input)
			require.NoError(t, err)
			table := builder.AutoFixBuild()

			assert.True(t, table.IsValid(), "input %q", input)
			assert.Empty(t, table.Violations())

			var last uint8
			for _, index := range Indices() {
				entry := table.Entry(index)
				assert.GreaterOrEqual(t, entry.FanPercent, last)
				assert.GreaterOrEqual(t, entry.FanPercent, index.MinPercent(device))
				assert.GreaterOrEqual(t, entry.Degrees, index.MinDegrees())
				assert.LessOrEqual(t, entry.Degrees, index.MaxDegrees())
				last = entry.FanPercent
			}

			// round-trip
			again, err := Parse(device, table.String())
			require.NoError(t, err)
			assert.True(t, again.IsValid())
			assert.Equal(t, table, again.AutoFixBuild())
		}
	}
}

func TestConvert(t *testing.T) {
	conversion, err := Convert(CPU, validCPUSpec, false)
	require.NoError(t, err)
	assert.False(t, conversion.Adjusted)
	assert.False(t, conversion.Minimum)
	assert.Equal(t, validCPUSpec, conversion.Table.String())

	conversion, err = Convert(GPU, hotSpec, false)
	require.NoError(t, err)
	assert.True(t, conversion.Adjusted)
	assert.NotEmpty(t, conversion.Violations)
	assert.True(t, conversion.Table.IsValid())

	conversion, err = Convert(GPU, "", true)
	require.NoError(t, err)
	assert.True(t, conversion.Minimum)
	assert.False(t, conversion.Adjusted)
	assert.Equal(t, Minimum(GPU), conversion.Table)
}

func TestConvertStrict(t *testing.T) {
	_, err := Convert(CPU, hotSpec, true)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, ErrCurveRejected))
	assert.Contains(t, err.Error(), "point 1")

	conversion, err := Convert(CPU, validCPUSpec, true)
	require.NoError(t, err)
	assert.False(t, conversion.Adjusted)

	_, err = Convert(CPU, "abc", false)
	assert.True(t, errors.HasCode(err, ErrCurveSyntax))
}
