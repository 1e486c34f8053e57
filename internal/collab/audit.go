// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package collab holds the narrow seams to the supervisor's external
// collaborators: the audit-logging subsystem, the configuration
// validator, the case-sensitivity probe and the shutdown flush. Their
// internal logic lives outside this module; the seams only invoke them
// and keep every failure except validation non-fatal.
package collab

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// AuditLogger accepts structured audit records. Implementations must
// never fail the boot sequence; persistence and rotation are the
// subsystem's concern.
type AuditLogger interface {
	Log(category, severity, message string, fields map[string]string)
}

// Flusher is a sink with pending writes that can be flushed best-effort
// at shutdown.
type Flusher interface {
	Flush() error
}

type auditRecord struct {
	Time     time.Time         `json:"time"`
	Category string            `json:"category"`
	Severity string            `json:"severity"`
	Message  string            `json:"message"`
	Fields   map[string]string `json:"fields,omitempty"`
}

// FileAuditLogger appends JSON-encoded audit records to a file. Encoding
// or write failures are swallowed; audit logging is advisory.
type FileAuditLogger struct {
	mu   sync.Mutex
	file *os.File
	enc  *json.Encoder
}

// NewFileAuditLogger opens the audit log file for appending, creating
// missing parent directories.
func NewFileAuditLogger(path string) (*FileAuditLogger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("audit log directory: %w", err)
	}

	file, err := os.OpenFile(path,
		os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o640)
	if err != nil {
		return nil, fmt.Errorf("open audit log: %w", err)
	}

	return &FileAuditLogger{file: file, enc: json.NewEncoder(file)}, nil
}

// Log appends one record.
func (l *FileAuditLogger) Log(
	category, severity, message string,
	fields map[string]string,
) {
	l.mu.Lock()
	defer l.mu.Unlock()

	_ = l.enc.Encode(auditRecord{
		Time:     time.Now().UTC(),
		Category: category,
		Severity: severity,
		Message:  message,
		Fields:   fields,
	})
}

// Flush forces pending records to stable storage.
func (l *FileAuditLogger) Flush() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.file.Sync(); err != nil {
		return fmt.Errorf("sync audit log: %w", err)
	}

	return nil
}

// Close flushes and closes the log file.
func (l *FileAuditLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.file.Close(); err != nil {
		return fmt.Errorf("close audit log: %w", err)
	}

	return nil
}

// NopAuditLogger discards all records. Used when audit logging is
// disabled or its sink cannot be opened.
type NopAuditLogger struct{}

func (NopAuditLogger) Log(string, string, string, map[string]string) {}
