package attendance

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/akademflow/backend/core"
)

const (
	dateLayout         = "2006-01-02"
	timeLayout         = "15:04"
	anonymousSubmitter = "Anonim"
)

var errEntriesNotObject = errors.New("attendance must be an object of {student: status}")

// Entry is a raw (student, status) observation as submitted.
type Entry struct {
	Student string `json:"student" validate:"notblank"`
	Status  string `json:"status"`
}

// Entries keeps the submission order of a {student: status} JSON object.
type Entries []Entry

func (es *Entries) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return errors.Wrap(err, "reading attendance")
	}
	if tok == nil { // null
		*es = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errEntriesNotObject
	}

	entries := make(Entries, 0)
	for dec.More() {
		tok, err = dec.Token()
		if err != nil {
			return errors.Wrap(err, "reading attendance student")
		}
		student, ok := tok.(string)
		if !ok {
			return errEntriesNotObject
		}
		var status *string
		if err = dec.Decode(&status); err != nil {
			return errors.Wrapf(err, "reading status of %q", student)
		}
		entry := Entry{Student: student}
		if status != nil {
			entry.Status = *status
		}
		entries = append(entries, entry)
	}
	if _, err = dec.Token(); err != nil {
		return errors.Wrap(err, "reading attendance")
	}
	*es = entries
	return nil
}

func (es Entries) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range es {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Student)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(e.Status)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Mark is a normalized (student, status) observation.
type Mark struct {
	Student string
	Status  Status
}

// Normalize maps every entry's status to its canonical Status.
// It fails on the first invalid token; no partial result is returned.
func (es Entries) Normalize() ([]Mark, error) {
	marks := make([]Mark, 0, len(es))
	for _, e := range es {
		st, err := NormalizeStatus(e.Status)
		if err != nil {
			var invErr *InvalidStatusError
			if errors.As(err, &invErr) {
				invErr.Student = e.Student
			}
			return nil, err
		}
		marks = append(marks, Mark{Student: e.Student, Status: st})
	}
	return marks, nil
}

// Submission is one attendance sheet sent by a client for a stage, field and date.
type Submission struct {
	Stage          string  `json:"stage" validate:"required"`
	Specialization string  `json:"specialization,omitempty"` // older clients send "first" | "second" here
	Field          string  `json:"field" validate:"required"`
	Date           string  `json:"date" validate:"required,isodate"`
	Time           string  `json:"time" validate:"required"`
	Submitter      string  `json:"submitter,omitempty"`
	Username       string  `json:"username,omitempty"`
	Attendance     Entries `json:"attendance" validate:"required,min=1,dive"`
}

// Clean trims the submission and fills in server-side defaults (date, time, submitter) from `now`.
func (s *Submission) Clean(now time.Time) {
	s.Stage = core.FirstNonEmpty(s.Stage, s.Specialization)
	s.Field = core.CleanString(s.Field)
	s.Date = core.CleanString(s.Date)
	if s.Date == "" {
		s.Date = now.Format(dateLayout)
	}
	s.Time = core.CleanString(s.Time)
	if s.Time == "" {
		s.Time = now.Format(timeLayout)
	}
	s.Submitter = core.FirstNonEmpty(s.Submitter, s.Username, anonymousSubmitter)
}

// Validate checks the submission and normalizes its statuses, fail-fast.
func (s *Submission) Validate(validate *validator.Validate) ([]Mark, error) {
	if err := validate.Struct(s); err != nil {
		return nil, err
	}
	marks, err := s.Attendance.Normalize()
	if err != nil {
		var invErr *InvalidStatusError
		if errors.As(err, &invErr) {
			return nil, core.NewValidationError(err, core.FieldError{Field: "attendance." + invErr.Student, Error: err.Error()})
		}
		return nil, core.NewValidationError(err)
	}
	return marks, nil
}

// Actor returns the submitter as a logging core.Actor.
func (s *Submission) Actor() core.Actor {
	return core.Actor{Name: s.Submitter}
}

// SyncResult is the outcome of a ledger synchronization.
// Missing students are not an error; the caller decides whether they matter.
type SyncResult struct {
	Updated     int               `json:"updated"`
	Missing     []string          `json:"missing"`
	Suggestions map[string]string `json:"suggestions,omitempty"`
}

// Result is returned to clients after a submission was saved.
type Result struct {
	OK    bool         `json:"ok"`
	Stage core.StageID `json:"stage"`
	Field string       `json:"field"`
	Date  string       `json:"date"`
	Time  string       `json:"time"`
	SyncResult
}
