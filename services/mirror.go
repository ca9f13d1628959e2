package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"frtutracker/logger"
	"frtutracker/models"
)

var (
	// ErrMirrorQueueFull is reported to the sink when an entry is dropped.
	ErrMirrorQueueFull = errors.New("mirror queue full")
	// ErrMirrorClosed is reported to the sink for entries submitted after Close.
	ErrMirrorClosed = errors.New("mirror closed")
)

// Mirror forwards committed audit entries to the spreadsheet copy.
// Submit must never block and never fail.
type Mirror interface {
	Submit(entry models.HistoryLog)
}

// DiagnosticSink observes mirror failures. It must not panic.
type DiagnosticSink func(entry models.HistoryLog, err error)

// LogSink writes mirror failures as warnings.
func LogSink(entry models.HistoryLog, err error) {
	logger.WithFields(map[string]interface{}{
		"log_id": entry.ID,
		"serial": entry.FRTUSerial,
		"error":  err.Error(),
	}).Warn("Failed to log to sheet")
}

// NopMirror discards entries. Used when no endpoint is configured.
type NopMirror struct{}

func (NopMirror) Submit(models.HistoryLog) {}

// MirrorConfig configures an AsyncMirror.
type MirrorConfig struct {
	Endpoint  string
	Timeout   time.Duration
	QueueSize int
	Client    *http.Client
	Sink      DiagnosticSink
}

// AsyncMirror posts entries to the remote append endpoint from a single
// worker goroutine. Delivery is at most once: failures are reported to the
// sink and dropped.
type AsyncMirror struct {
	endpoint string
	timeout  time.Duration
	client   *http.Client
	sink     DiagnosticSink

	mu     sync.RWMutex
	closed bool
	queue  chan models.HistoryLog
	done   chan struct{}
}

// NewAsyncMirror starts the worker.
func NewAsyncMirror(cfg MirrorConfig) *AsyncMirror {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 64
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Client == nil {
		cfg.Client = &http.Client{}
	}
	if cfg.Sink == nil {
		cfg.Sink = LogSink
	}

	m := &AsyncMirror{
		endpoint: cfg.Endpoint,
		timeout:  cfg.Timeout,
		client:   cfg.Client,
		sink:     cfg.Sink,
		queue:    make(chan models.HistoryLog, cfg.QueueSize),
		done:     make(chan struct{}),
	}
	go m.run()
	return m
}

// Submit enqueues the entry without waiting.
func (m *AsyncMirror) Submit(entry models.HistoryLog) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		m.report(entry, ErrMirrorClosed)
		return
	}

	select {
	case m.queue <- entry:
	default:
		m.report(entry, ErrMirrorQueueFull)
	}
}

// Close stops intake and waits for queued entries until ctx is done.
func (m *AsyncMirror) Close(ctx context.Context) error {
	m.mu.Lock()
	if !m.closed {
		m.closed = true
		close(m.queue)
	}
	m.mu.Unlock()

	select {
	case <-m.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *AsyncMirror) run() {
	defer close(m.done)
	for entry := range m.queue {
		if err := m.send(entry); err != nil {
			m.report(entry, err)
		}
	}
}

func (m *AsyncMirror) send(entry models.HistoryLog) error {
	body, err := json.Marshal(models.SheetRecordOf(entry))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, bytes.NewReader(body))
	if err != nil {
		return &TransientNetworkError{Op: "POST", URL: m.endpoint, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", entry.ID)

	resp, err := m.client.Do(req)
	if err != nil {
		return &TransientNetworkError{Op: "POST", URL: m.endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &TransientNetworkError{
			Op:  "POST",
			URL: m.endpoint,
			Err: fmt.Errorf("unexpected status %d: %s", resp.StatusCode, bytes.TrimSpace(msg)),
		}
	}
	io.Copy(io.Discard, resp.Body)
	return nil
}

// report shields the caller from a misbehaving sink.
func (m *AsyncMirror) report(entry models.HistoryLog, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Mirror diagnostic sink panicked: %v", r)
		}
	}()
	m.sink(entry, err)
}
