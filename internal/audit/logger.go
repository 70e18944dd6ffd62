package audit

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventType represents the type of ledger event
type EventType string

const (
	EventRunStart     EventType = "RUN_START"
	EventFieldSkipped EventType = "FIELD_SKIPPED"
	EventRunComplete  EventType = "RUN_COMPLETE"
	EventError        EventType = "ERROR"
)

// Event is a single ledger entry
type Event struct {
	ID        string                 `json:"id"`
	Timestamp time.Time              `json:"timestamp"`
	Type      EventType              `json:"type"`
	RunID     string                 `json:"run_id"`
	Command   string                 `json:"command,omitempty"`
	Field     string                 `json:"field,omitempty"`
	Checksum  string                 `json:"checksum,omitempty"`
	Details   map[string]interface{} `json:"details,omitempty"`
	Error     string                 `json:"error,omitempty"`
}

// Logger appends run events to a JSON-lines ledger
type Logger struct {
	mu        sync.Mutex
	file      *os.File
	filepath  string
	maxSize   int64
	encoder   *json.Encoder
	eventChan chan *Event
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closed    bool
}

// Config represents ledger configuration
type Config struct {
	FilePath string
	MaxSize  int64 // Rotate once the file grows past this many bytes
}

// NewLogger opens the ledger and starts its writer
func NewLogger(config Config) (*Logger, error) {
	if config.FilePath == "" {
		return nil, fmt.Errorf("audit log path cannot be empty")
	}

	if dir := filepath.Dir(config.FilePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create audit log directory: %w", err)
		}
	}

	file, err := os.OpenFile(config.FilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit log file: %w", err)
	}

	logger := &Logger{
		file:      file,
		filepath:  config.FilePath,
		maxSize:   config.MaxSize,
		encoder:   json.NewEncoder(file),
		eventChan: make(chan *Event, 100),
		stopChan:  make(chan struct{}),
	}

	logger.wg.Add(1)
	go logger.worker()

	return logger, nil
}

// Log queues an event for writing
func (l *Logger) Log(event *Event) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	select {
	case l.eventChan <- event:
	case <-time.After(time.Second):
		fmt.Fprintf(os.Stderr, "Failed to log audit event: timeout\n")
	}
}

// Run groups the events of one command invocation under a shared ID
type Run struct {
	ID      string
	Command string
	logger  *Logger
}

// StartRun records RUN_START and returns the run handle
func (l *Logger) StartRun(command string, details map[string]interface{}) *Run {
	run := &Run{ID: uuid.NewString(), Command: command, logger: l}
	run.log(&Event{Type: EventRunStart, Details: details})
	return run
}

// FieldSkipped records a field left unextended
func (r *Run) FieldSkipped(field string, err error) {
	event := &Event{Type: EventFieldSkipped, Field: field}
	if err != nil {
		event.Error = err.Error()
	}
	r.log(event)
}

// Complete records RUN_COMPLETE with the checksum of the written output
func (r *Run) Complete(checksum string, details map[string]interface{}) {
	r.log(&Event{Type: EventRunComplete, Checksum: checksum, Details: details})
}

// Fail records the error that ended the run
func (r *Run) Fail(err error) {
	r.log(&Event{Type: EventError, Error: err.Error()})
}

func (r *Run) log(event *Event) {
	if r == nil || r.logger == nil {
		return
	}
	event.RunID = r.ID
	event.Command = r.Command
	r.logger.Log(event)
}

// worker writes queued events until stopped, then drains the queue
func (l *Logger) worker() {
	defer l.wg.Done()

	for {
		select {
		case event := <-l.eventChan:
			l.writeEvent(event)

		case <-l.stopChan:
			for {
				select {
				case event := <-l.eventChan:
					l.writeEvent(event)
				default:
					return
				}
			}
		}
	}
}

func (l *Logger) writeEvent(event *Event) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.encoder.Encode(event); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write audit event: %v\n", err)
	}

	if l.maxSize > 0 {
		if info, err := l.file.Stat(); err == nil && info.Size() > l.maxSize {
			l.rotate()
		}
	}
}

// rotate moves the current ledger aside and starts a new file
func (l *Logger) rotate() {
	_ = l.file.Close()

	timestamp := time.Now().Format("20060102-150405.000000000")
	_ = os.Rename(l.filepath, fmt.Sprintf("%s.%s", l.filepath, timestamp))

	file, err := os.OpenFile(l.filepath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open new audit log file: %v\n", err)
		return
	}

	l.file = file
	l.encoder = json.NewEncoder(file)
}

// Close flushes queued events and closes the ledger
func (l *Logger) Close() error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.closed = true
	l.mu.Unlock()

	close(l.stopChan)
	l.wg.Wait()

	l.mu.Lock()
	defer l.mu.Unlock()

	return l.file.Close()
}

// Query filters ledger events
type Query struct {
	RunID      string
	EventTypes []EventType
	Since      time.Time
	Limit      int
}

// Search reads matching events from a ledger file in the order they were written
func Search(path string, query Query) ([]*Event, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit log: %w", err)
	}
	defer file.Close()

	var events []*Event
	decoder := json.NewDecoder(file)

	for {
		var event Event
		if err := decoder.Decode(&event); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return events, fmt.Errorf("failed to decode audit log: %w", err)
		}

		if query.RunID != "" && event.RunID != query.RunID {
			continue
		}
		if len(query.EventTypes) > 0 && !contains(query.EventTypes, event.Type) {
			continue
		}
		if !query.Since.IsZero() && event.Timestamp.Before(query.Since) {
			continue
		}

		events = append(events, &event)

		if query.Limit > 0 && len(events) >= query.Limit {
			break
		}
	}

	return events, nil
}

func contains(slice []EventType, item EventType) bool {
	for _, v := range slice {
		if v == item {
			return true
		}
	}
	return false
}
