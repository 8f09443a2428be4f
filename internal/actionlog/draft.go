// Package actionlog captures action-log entries typed by the user. Entries are
// traced to the debug log and then discarded; nothing is kept or persisted.
package actionlog

import (
	"go.uber.org/zap"
)

// Draft is the transient text of the entry being typed.
type Draft struct {
	value string
	log   *zap.Logger
}

// NewDraft creates an empty draft that traces submissions to log.
func NewDraft(log *zap.Logger) *Draft {
	if log == nil {
		log = zap.NewNop()
	}
	return &Draft{log: log.Named("actionlog")}
}

// Set replaces the draft text, typically on every keystroke.
func (d *Draft) Set(v string) { d.value = v }

// Value returns the current draft text.
func (d *Draft) Value() string { return d.value }

// Submit traces the draft and clears it. An empty draft is ignored and
// Submit returns false. No validation beyond emptiness is applied.
func (d *Draft) Submit() (string, bool) {
	if d.value == "" {
		return "", false
	}
	entry := d.value
	d.log.Debug("Adding log entry", zap.String("entry", entry))
	d.value = ""
	return entry, true
}

// Reset discards the draft without tracing it.
func (d *Draft) Reset() { d.value = "" }
