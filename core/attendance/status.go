package attendance

import (
	"fmt"

	"github.com/akademflow/backend/core"
)

// Status is the canonical attendance status of a student for a day.
type Status string

const (
	Present Status = "present"
	Absent  Status = "absent"
	Excused Status = "excused"
)

// Statuses lists every canonical Status.
var Statuses = []Status{Present, Absent, Excused}

// statusAliases maps accepted (lower-cased) tokens to their canonical Status.
var statusAliases = map[string]Status{
	"keldi":   Present,
	"kelmadi": Absent,
	"sababli": Excused,
	"present": Present,
	"absent":  Absent,
	"excused": Excused,
}

// InvalidStatusError is returned for status tokens missing from the alias table.
type InvalidStatusError struct {
	Token   string
	Student string
}

func (err *InvalidStatusError) Error() string {
	if err.Student == "" {
		return fmt.Sprintf("invalid status: %q", err.Token)
	}
	return fmt.Sprintf("invalid status: %q (student: %s)", err.Token, err.Student)
}

// NormalizeStatus maps a free-form status token to its canonical Status.
func NormalizeStatus(raw string) (Status, error) {
	if st, ok := statusAliases[core.CleanString(raw, true /* lower */)]; ok {
		return st, nil
	}
	return "", &InvalidStatusError{Token: raw}
}

// StatusLabels renders canonical statuses for storage in the ledger.
type StatusLabels map[Status]string

// DefaultStatusLabels are the Uzbek labels used by the ledgers.
var DefaultStatusLabels = StatusLabels{
	Present: "keldi",
	Absent:  "kelmadi",
	Excused: "sababli",
}

// NewStatusLabels builds StatusLabels from a {canonical: label} mapping, falling back to DefaultStatusLabels.
func NewStatusLabels(labels map[string]string) StatusLabels {
	sl := make(StatusLabels, len(Statuses))
	for _, st := range Statuses {
		if label := core.CleanString(labels[string(st)]); label != "" {
			sl[st] = label
		} else {
			sl[st] = DefaultStatusLabels[st]
		}
	}
	return sl
}

// Label returns the display string of `st`.
func (sl StatusLabels) Label(st Status) string {
	if label, ok := sl[st]; ok {
		return label
	}
	return string(st)
}
