package diag

import (
	"fmt"
	"os"
	"sync"

	"acph/internal/errutil"
)

// StatsLog is an append-only CSV log of per-build slot occupancy, meant for
// tuning runs that sweep many key sets and want a single file to chart
// afterward rather than console output per run.
type StatsLog struct {
	mu   sync.Mutex
	path string
}

// OpenStatsLog returns a StatsLog writing to path. The file is created if
// missing and appended to otherwise; it is never truncated, so repeated
// tuning runs accumulate in one place.
func OpenStatsLog(path string) *StatsLog {
	return &StatsLog{path: path}
}

// LogSlotCounts appends one CSV line: label, followed by the slot count of
// every node visited in the report, in report order. A tuning sweep that
// can't write its own log is broken, not degraded, so failures here are
// fatal rather than silently dropped.
func (l *StatsLog) LogSlotCounts(label string, report TreeReport) {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	errutil.FatalIf(err)
	defer f.Close()

	line := label
	report.walkSlotCounts(&line)
	_, err = fmt.Fprintln(f, line)
	errutil.FatalIf(err)
}

func (r TreeReport) walkSlotCounts(line *string) {
	*line += fmt.Sprintf(",%d", r.SlotCount)
	for _, c := range r.Children {
		c.walkSlotCounts(line)
	}
}

// Clear removes the log file, discarding any accumulated history.
func (l *StatsLog) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	os.Remove(l.path)
}
