// Package audit persists inventory audit events as an append-only JSON Lines
// file. It consumes events from the bus rather than being called directly, so
// a failing log never aborts the mutation that produced the event.
package audit

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"

	domainevents "github.com/ghuser/stockledger/services/inventory/domain/events"
)

// Entry is one line of the audit log.
type Entry struct {
	Timestamp time.Time `json:"timestamp"`
	Action    string    `json:"action"`
	Detail    string    `json:"detail"`
}

// FileLog appends entries to a JSON Lines file. It is safe for concurrent use.
type FileLog struct {
	mu   sync.Mutex
	path string
}

// NewFileLog returns a log writing to path. The file is created on first append.
func NewFileLog(path string) *FileLog {
	return &FileLog{path: path}
}

// Path returns the log file location.
func (l *FileLog) Path() string {
	return l.path
}

// Append writes e as one line. The file is opened per call so that external
// rotation is picked up.
func (l *FileLog) Append(e Entry) error {
	line, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("audit: encode entry: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("audit: create dir: %w", err)
	}
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("audit: open %s: %w", l.path, err)
	}
	if _, err := f.Write(append(line, '\n')); err != nil {
		f.Close()
		return fmt.Errorf("audit: write %s: %w", l.path, err)
	}
	return f.Close()
}

// Handler returns a bus handler that decodes AuditEvent payloads and appends
// them. Undecodable payloads are returned as errors so the bus reports them.
func (l *FileLog) Handler() func(context.Context, *message.Message) error {
	return func(_ context.Context, msg *message.Message) error {
		var evt domainevents.AuditEvent
		if err := json.Unmarshal(msg.Payload, &evt); err != nil {
			return fmt.Errorf("audit: decode event %s: %w", msg.UUID, err)
		}
		return l.Append(Entry{
			Timestamp: evt.OccurredAt,
			Action:    evt.LogAction(),
			Detail:    evt.Detail,
		})
	}
}

// Tail returns up to n of the most recent entries, oldest first. n <= 0
// returns every entry. A missing file yields no entries.
func (l *FileLog) Tail(n int) ([]Entry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.Open(l.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("audit: open %s: %w", l.path, err)
	}
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var e Entry
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			return nil, fmt.Errorf("audit: %s line %d: %w", l.path, lineNo, err)
		}
		entries = append(entries, e)
		if n > 0 && len(entries) > n {
			entries = entries[1:]
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("audit: read %s: %w", l.path, err)
	}
	return entries, nil
}
