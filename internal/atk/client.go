package atk

import (
	"sync"

	"codeberg.org/mutker/atkctl/internal/errors"
	"codeberg.org/mutker/atkctl/internal/fancurve"
	"codeberg.org/mutker/atkctl/internal/logger"
)

// Client encodes commands and sends them over a channel, one at a time.
type Client struct {
	channel Channel
	mu      sync.Mutex
}

// Open connects to the device file. An empty name selects DeviceFile.
func Open(name string) (*Client, error) {
	if name == "" {
		name = DeviceFile
	}

	channel, err := OpenChannel(name)
	if err != nil {
		return nil, err
	}
	logger.Debug().Str("device", name).Msg("Opened device channel")

	return NewClient(channel), nil
}

func NewClient(channel Channel) *Client {
	return &Client{channel: channel}
}

func (c *Client) SetPowerPlan(plan PowerPlan) error {
	command := NewPowerPlanCommand(plan)
	if err := c.control(command.Bytes()); err != nil {
		return err
	}
	logger.Debug().Str("plan", plan.String()).Msg("Power plan set")

	return nil
}

func (c *Client) SetFanCurve(table fancurve.Table) error {
	command := NewFanCurveCommand(table)
	if err := c.control(command.Bytes()); err != nil {
		return err
	}
	logger.Debug().
		Str("device", table.Device().String()).
		Str("curve", table.String()).
		Msg("Fan curve set")

	return nil
}

func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.channel == nil {
		return nil
	}
	err := c.channel.Close()
	c.channel = nil

	return err
}

// control sends in and discards the response; success only means the
// transfer completed.
func (c *Client) control(in []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.channel == nil {
		return errors.New().New(ErrChannelClosed)
	}

	if _, err := c.channel.Control(ControlCode, in, ResponseSize); err != nil {
		if errors.HasCode(err, ErrControlFailed) {
			return err
		}
		return errors.New().Wrap(ErrControlFailed, err)
	}

	return nil
}
