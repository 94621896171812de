package atk

import (
	"math"

	"codeberg.org/mutker/atkctl/internal/errors"
	"codeberg.org/mutker/atkctl/internal/fancurve"
)

const (
	// DeviceFile is the ATK ACPI device on Windows.
	DeviceFile = `\\.\ATKACPI`
	// ControlCode is sent with every command.
	ControlCode uint32 = 2237452
	// ResponseSize is the capacity of the discarded response buffer.
	ResponseSize = 1024

	powerPlanOffset   = 12
	curveDeviceOffset = 8
	curveTableOffset  = 12

	cpuCurveByte = 0x24
	gpuCurveByte = 0x25
)

var magic = [4]byte{'D', 'E', 'V', 'S'}

var powerPlanTemplate = PowerPlanCommand{
	0x44, 0x45, 0x56, 0x53, 0x08, 0x00, 0x00, 0x00, 0x75, 0x00, 0x12, 0x00, 0x00, 0x00, 0x00, 0x00,
}

var fanCurveTemplate = FanCurveCommand{
	0x44, 0x45, 0x56, 0x53, 0x14, 0x00, 0x00, 0x00, 0xFF, 0x00, 0x11, 0x00, 0xFF, 0xFF, 0xFF, 0xFF,
	0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF,
}

// PowerPlanCommand is the 16 byte buffer that selects a power plan.
type PowerPlanCommand [16]byte

func NewPowerPlanCommand(plan PowerPlan) PowerPlanCommand {
	command := powerPlanTemplate
	command[powerPlanOffset] = plan.Byte()

	return command
}

func (c PowerPlanCommand) Magic() [4]byte {
	return [4]byte(c[:4])
}

func (c PowerPlanCommand) PlanByte() byte {
	return c[powerPlanOffset]
}

func (c PowerPlanCommand) Bytes() []byte {
	return c[:]
}

// FanCurveCommand is the 28 byte buffer that uploads one fan curve.
type FanCurveCommand [28]byte

func NewFanCurveCommand(table fancurve.Table) FanCurveCommand {
	command := fanCurveTemplate
	command[curveDeviceOffset] = DeviceByte(table.Device())
	raw := table.Bytes()
	copy(command[curveTableOffset:], raw[:])

	return command
}

func (c FanCurveCommand) Magic() [4]byte {
	return [4]byte(c[:4])
}

func (c FanCurveCommand) DeviceByte() byte {
	return c[curveDeviceOffset]
}

// Table returns the eight temperature bytes followed by the eight percentage bytes.
func (c FanCurveCommand) Table() [16]byte {
	return [16]byte(c[curveTableOffset:])
}

func (c FanCurveCommand) Bytes() []byte {
	return c[:]
}

// DeviceByte selects the fan a curve command targets.
func DeviceByte(device fancurve.Device) byte {
	if device == fancurve.GPU {
		return gpuCurveByte
	}

	return cpuCurveByte
}

// bufferSize converts a buffer length to the width the control call expects.
func bufferSize(n int) (uint32, error) {
	if n < 0 || uint64(n) > math.MaxUint32 {
		return 0, errors.New().WithData(ErrBufferOverflow, n)
	}

	return uint32(n), nil
}
