package history

import (
	"context"
	"time"
)

// Recorder stores the outcome of every apply.
type Recorder interface {
	Record(ctx context.Context, record *Record) error
	Recent(ctx context.Context, limit int) ([]Record, error)
	Close() error
	Enabled() bool
}

// Repository defines the interface for history data storage
type Repository interface {
	Insert(ctx context.Context, record *Record) error
	Recent(ctx context.Context, limit int) ([]Record, error)
	Close() error
}

// Source tells what started an apply.
type Source string

const (
	SourceCLI     Source = "cli"
	SourceDaemon  Source = "daemon"
	SourceRefresh Source = "refresh"
	SourceAPI     Source = "api"
)

// Record is one attempt to push a plan, and possibly fan curves, to the hardware.
type Record struct {
	ID          string    `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	Source      Source    `json:"source"`
	PlanName    string    `json:"planName"`
	PowerPlan   string    `json:"powerPlan"`
	CPUCurve    string    `json:"cpuCurve,omitempty"`
	GPUCurve    string    `json:"gpuCurve,omitempty"`
	CPUAdjusted bool      `json:"cpuAdjusted"`
	GPUAdjusted bool      `json:"gpuAdjusted"`
	Success     bool      `json:"success"`
	Error       string    `json:"error,omitempty"`
}
