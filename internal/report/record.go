package report

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/ZebulonRouseFrantzich/flexsdk/internal/binary"
)

// ErrorRecord is the JSON document written to the error log.
type ErrorRecord struct {
	RunID      string      `json:"run_id,omitempty"`
	Phase      string      `json:"phase"`
	Message    string      `json:"message"`
	Chain      []string    `json:"chain"`
	Time       time.Time   `json:"time"`
	StatusCode int         `json:"status_code,omitempty"`
	URL        string      `json:"url,omitempty"`
	Headers    http.Header `json:"headers,omitempty"`
	Stack      string      `json:"stack,omitempty"`
}

// stacker is implemented by errors that carry a goroutine stack, such as a
// recovered panic.
type stacker interface {
	Stack() string
}

// NewRecord builds the record for err raised during phase.
func NewRecord(phase string, err error, now time.Time) ErrorRecord {
	rec := ErrorRecord{
		Phase: phase,
		Time:  now.UTC(),
		Chain: chain(err),
	}
	if err != nil {
		rec.Message = err.Error()
	}

	var se *binary.StatusError
	if errors.As(err, &se) {
		rec.StatusCode = se.StatusCode
		rec.URL = se.URL
		rec.Headers = se.Header
	}

	var st stacker
	if errors.As(err, &st) {
		rec.Stack = st.Stack()
	}

	return rec
}

// Marshal returns the indented JSON form of the record.
func (r ErrorRecord) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// chain lists the messages of err and everything it wraps, outermost
// first. Joined errors end the chain.
func chain(err error) []string {
	var msgs []string
	for err != nil {
		msgs = append(msgs, err.Error())
		err = errors.Unwrap(err)
	}
	return msgs
}
