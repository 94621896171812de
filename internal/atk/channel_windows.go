//go:build windows

package atk

import (
	"sync"

	"codeberg.org/mutker/atkctl/internal/errors"
	"golang.org/x/sys/windows"
)

const (
	genericReadWrite = windows.GENERIC_READ | windows.GENERIC_WRITE
	shareReadWrite   = windows.FILE_SHARE_READ | windows.FILE_SHARE_WRITE
)

type deviceChannel struct {
	name   string
	handle windows.Handle
	mu     sync.Mutex
}

// OpenChannel opens the device file for control transfers.
func OpenChannel(name string) (Channel, error) {
	errFactory := errors.New()

	path, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return nil, errFactory.Wrap(ErrOpenDevice, err)
	}

	handle, err := windows.CreateFile(path, genericReadWrite, shareReadWrite, nil, windows.OPEN_EXISTING, 0, 0)
	if err != nil {
		return nil, errFactory.Wrap(ErrOpenDevice, err).WithData(name)
	}

	return &deviceChannel{name: name, handle: handle}, nil
}

func (c *deviceChannel) Control(code uint32, in []byte, outCap int) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	errFactory := errors.New()

	if c.handle == windows.InvalidHandle {
		return nil, errFactory.New(ErrChannelClosed)
	}

	inSize, err := bufferSize(len(in))
	if err != nil {
		return nil, err
	}
	outSize, err := bufferSize(outCap)
	if err != nil {
		return nil, err
	}

	out := make([]byte, outCap)
	var inPtr, outPtr *byte
	if len(in) > 0 {
		inPtr = &in[0]
	}
	if outCap > 0 {
		outPtr = &out[0]
	}

	var written uint32
	if err := windows.DeviceIoControl(c.handle, code, inPtr, inSize, outPtr, outSize, &written, nil); err != nil {
		return nil, errFactory.Wrap(ErrControlFailed, err).WithData(map[string]any{
			"code": code,
			"in":   in,
		})
	}

	return out[:written], nil
}

func (c *deviceChannel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.handle == windows.InvalidHandle {
		return nil
	}

	err := windows.CloseHandle(c.handle)
	c.handle = windows.InvalidHandle
	if err != nil {
		return errors.New().Wrap(ErrControlFailed, err)
	}

	return nil
}
