package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// LogFileMode is the permission of the error-log file.
const LogFileMode os.FileMode = 0o644

// Sink reports the outcome of a run.
type Sink struct {
	logger  *log.Logger
	out     io.Writer
	logFile string
	runID   string
	now     func() time.Time
}

// NewSink creates a sink printing the success line to out and writing
// failure records to logFile.
func NewSink(logger *log.Logger, out io.Writer, logFile string) *Sink {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if out == nil {
		out = io.Discard
	}
	return &Sink{
		logger:  logger,
		out:     out,
		logFile: logFile,
		runID:   uuid.NewString(),
		now:     time.Now,
	}
}

// RunID identifies this run in the error record and the console log.
func (s *Sink) RunID() string {
	return s.runID
}

// LogFile returns the error-log path.
func (s *Sink) LogFile() string {
	return s.logFile
}

// Success prints the success line naming the directory holding the SDK
// launchers.
func (s *Sink) Success(binDir string) {
	s.logger.Info("Installation complete", "bin", binDir)
	fmt.Fprintf(s.out, "Flex SDK installed: %s\n", binDir)
}

// Failure logs err and replaces the error log with its record. The
// returned error is only about writing the log; err itself has already
// been reported on the console.
func (s *Sink) Failure(phase string, err error) error {
	s.logger.Error("Installation failed", "phase", phase, "run", s.runID, "err", err)

	rec := NewRecord(phase, err, s.now())
	rec.RunID = s.runID
	if rec.Stack != "" {
		s.logger.Debug("Fault stack", "stack", rec.Stack)
	}

	data, merr := rec.Marshal()
	if merr != nil {
		return fmt.Errorf("encode error record: %w", merr)
	}

	if err := os.MkdirAll(filepath.Dir(s.logFile), 0o755); err != nil {
		return fmt.Errorf("create error log directory: %w", err)
	}
	if err := writeAtomic(s.logFile, data, LogFileMode); err != nil {
		return fmt.Errorf("write error log %s: %w", s.logFile, err)
	}

	s.logger.Info("Error details written", "path", s.logFile)
	return nil
}
