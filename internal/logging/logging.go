// Package logging configures the process-wide zerolog logger.
package logging

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	mu     sync.Mutex
	output io.Writer = os.Stderr
)

// Init sets the global level and sends human-readable output to w
func Init(level string, w io.Writer) error {
	lvl, err := ParseLevel(level)
	if err != nil {
		return err
	}

	mu.Lock()
	defer mu.Unlock()

	zerolog.SetGlobalLevel(lvl)
	output = w
	log.Logger = newLogger(w)
	return nil
}

func newLogger(w io.Writer) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.TimeOnly,
	}).With().Timestamp().Logger()
}

// Hold keeps log lines in memory while a full-screen view owns the
// terminal. The returned release restores the logger and writes the held
// lines, in order, to the output given to Init.
func Hold() (release func()) {
	mu.Lock()
	defer mu.Unlock()

	prev, out := log.Logger, output
	held := &heldLines{}
	log.Logger = newLogger(held)

	var once sync.Once
	return func() {
		once.Do(func() {
			mu.Lock()
			log.Logger = prev
			mu.Unlock()
			held.flushTo(out)
		})
	}
}

// heldLines buffers formatted log lines from concurrent writers
type heldLines struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (h *heldLines) Write(p []byte) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.buf.Write(p)
}

func (h *heldLines) flushTo(w io.Writer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.buf.Len() > 0 {
		_, _ = w.Write(h.buf.Bytes())
		h.buf.Reset()
	}
}

// ParseLevel maps a level name to a zerolog level. Empty means warn.
func ParseLevel(level string) (zerolog.Level, error) {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "" {
		return zerolog.WarnLevel, nil
	}
	if level == "warning" {
		level = "warn"
	}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return lvl, nil
}
