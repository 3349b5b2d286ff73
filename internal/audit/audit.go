// Package audit records the requests ebctl makes against each cloud.
// Events are stored as JSON Lines (JSONL) files, one per cloud.
package audit

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gsanchezu/elasticbox-plugin/internal/config"
)

// EventType classifies an audit event.
type EventType string

const (
	EventRequest EventType = "request"
	EventCheck   EventType = "check"
	EventWait    EventType = "wait"
	EventError   EventType = "error"
)

// Event represents a single audit log entry.
type Event struct {
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	Type      EventType `json:"type" yaml:"type"`
	Cloud     string    `json:"cloud" yaml:"cloud"`
	Target    string    `json:"target,omitempty" yaml:"target,omitempty"`
	Details   string    `json:"details,omitempty" yaml:"details,omitempty"`
}

// Logger writes and reads audit events for clouds.
// Events are stored in {dir}/{cloud}.events.jsonl.
type Logger struct {
	dir string
	mu  sync.Mutex
}

// NewLogger creates a new audit logger rooted at dir.
func NewLogger(dir string) *Logger {
	return &Logger{dir: dir}
}

// eventPath returns the path to the JSONL event log for a cloud.
func (l *Logger) eventPath(cloud string) (string, error) {
	if err := config.ValidateCloudName(cloud); err != nil {
		return "", err
	}
	return filepath.Join(l.dir, cloud+".events.jsonl"), nil
}

// Log appends an event to the cloud's audit log.
func (l *Logger) Log(event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	path, err := l.eventPath(event.Cloud)
	if err != nil {
		return fmt.Errorf("invalid audit log: %w", err)
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(l.dir, 0755); err != nil {
		return fmt.Errorf("failed to create audit log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}

	return nil
}

// LogEvent is a convenience method that creates and logs an event.
func (l *Logger) LogEvent(eventType EventType, cloud, target, details string) error {
	return l.Log(Event{
		Timestamp: time.Now(),
		Type:      eventType,
		Cloud:     cloud,
		Target:    target,
		Details:   details,
	})
}

// Events reads all events for a cloud in chronological order.
func (l *Logger) Events(cloud string) ([]Event, error) {
	path, err := l.eventPath(cloud)
	if err != nil {
		return nil, fmt.Errorf("invalid audit log: %w", err)
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	var events []Event
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var event Event
		if err := json.Unmarshal(line, &event); err != nil {
			continue // Skip malformed lines
		}
		events = append(events, event)
	}

	if err := scanner.Err(); err != nil {
		return events, fmt.Errorf("error reading audit log: %w", err)
	}

	return events, nil
}

// Remove deletes the audit log for a cloud.
func (l *Logger) Remove(cloud string) error {
	path, err := l.eventPath(cloud)
	if err != nil {
		return fmt.Errorf("invalid audit log: %w", err)
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
