package logger

import (
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// dailyWriter rotates the underlying log file when the local date changes.
type dailyWriter struct {
	mu  sync.Mutex
	out *lumberjack.Logger
	now func() time.Time
	day string
}

func newDailyWriter(out *lumberjack.Logger) *dailyWriter {
	return &dailyWriter{out: out, now: time.Now}
}

// open creates the log file up front so a bad path fails Init.
func (w *dailyWriter) open() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.day = w.now().Format(time.DateOnly)
	_, err := w.out.Write(nil)

	return err
}

func (w *dailyWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	day := w.now().Format(time.DateOnly)
	if w.day != "" && day != w.day {
		if err := w.out.Rotate(); err != nil {
			return 0, err
		}
	}
	w.day = day

	return w.out.Write(p)
}

func (w *dailyWriter) rotate() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.out.Rotate()
}

func (w *dailyWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.out.Close()
}
