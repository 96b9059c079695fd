package reembed

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// fakeClock advances by step on every reading.
func fakeClock(step time.Duration) func() time.Time {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		now = now.Add(step)
		return now
	}
}

func newTestTracker(buf *bytes.Buffer, total, interval int) *ProgressTracker {
	tracker := NewProgressTracker(buf, total, interval)
	tracker.now = fakeClock(time.Second)
	return tracker
}

func TestProgressTracker_ReportsAtInterval(t *testing.T) {
	var buf bytes.Buffer
	tracker := newTestTracker(&buf, 100, 50)
	tracker.Start()

	tracker.Update(20)
	assert.Empty(t, buf.String(), "below the interval nothing is written")

	tracker.Update(50)
	assert.Contains(t, buf.String(), "50/100 (50.0%)")

	tracker.Update(80)
	assert.NotContains(t, buf.String(), "80/100")
}

func TestProgressTracker_Finish(t *testing.T) {
	var buf bytes.Buffer
	tracker := newTestTracker(&buf, 10, 100)
	tracker.Start()
	tracker.Update(3)
	tracker.Finish()

	out := buf.String()
	assert.Contains(t, out, "10/10 (100.0%)")
	assert.True(t, strings.HasSuffix(out, "\n"))
	assert.NotContains(t, out, "eta")
}

func TestProgressTracker_CapsAtTotal(t *testing.T) {
	var buf bytes.Buffer
	tracker := newTestTracker(&buf, 10, 1)
	tracker.Start()
	tracker.Update(25)

	assert.Contains(t, buf.String(), "10/10")
}

func TestProgressTracker_ETA(t *testing.T) {
	var buf bytes.Buffer
	tracker := newTestTracker(&buf, 100, 10)
	tracker.Start()
	tracker.Update(10)

	// 10 docs in 1s leaves 90 docs at 10 docs/s
	assert.Contains(t, buf.String(), "10.0 docs/s")
	assert.Contains(t, buf.String(), "eta 9s")
}

func TestProgressTracker_ZeroTotal(t *testing.T) {
	var buf bytes.Buffer
	tracker := newTestTracker(&buf, 0, 10)
	tracker.Start()
	tracker.Finish()

	assert.Contains(t, buf.String(), "0/0 (100.0%)")
}

func TestProgressTracker_NotStarted(t *testing.T) {
	var buf bytes.Buffer
	tracker := newTestTracker(&buf, 100, 1)

	tracker.Update(50)
	tracker.Finish()

	assert.Empty(t, buf.String())
	assert.Equal(t, time.Duration(0), tracker.Elapsed())
}
