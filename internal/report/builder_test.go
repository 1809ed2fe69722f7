package report

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func build(src *fakeSource) Report {
	return NewBuilder(src, BuilderConfig{DetailConcurrency: 2}, nil).Build(context.Background(), testToday)
}

func TestBuildNoActiveProperties(t *testing.T) {
	src := newFakeSource()
	src.addProperty(1, "Closed", "inactive")

	r := build(src)
	want := strings.Join([]string{
		"Today’s Cleaning Summary (2026-10-15)",
		"",
		"Check-ins today:",
		"No check-ins today.",
		"",
		"Check-outs today:",
		"No check-outs today.",
		"",
		"Pending cleanings:",
		"No pending cleanings today.",
		"",
		"Yesterday’s Cleaning Summary (2026-10-14)",
		"No cleanings yesterday.",
	}, "\n")
	assert.Equal(t, want, r.String())
}

func TestBuildPendingCleaningWithoutReservations(t *testing.T) {
	src := newFakeSource()
	src.addProperty(1, "P1", "active")
	src.addTask(10, 1, "housekeeping", day(0), "", "Mid-stay clean", assignment{name: "Ana", status: "assigned"})

	r := build(src)
	assert.Nil(t, r.CheckOuts)
	assert.Equal(t, []string{"P1 - Mid-stay clean - Ana - assigned"}, r.Pending)
	assert.Contains(t, r.String(), "Check-outs today:\nNo check-outs today.")
	assert.Contains(t, r.String(), "Pending cleanings:\nP1 - Mid-stay clean - Ana - assigned")
}

func TestBuildCheckInReadyAfterEarlierCheckout(t *testing.T) {
	src := newFakeSource()
	src.addProperty(2, "P2", "active")
	src.addReservation(2, day(0), day(4))
	src.addReservation(2, day(-7), day(-3))
	src.addTask(20, 2, "housekeeping", day(-1), "2026-10-14T15:00:00Z", "Turnover", assignment{name: "Bo", status: "completed"})

	r := build(src)
	assert.Equal(t, []string{"- P2 - Ready - Turnover - Cleaned by Bo - 2026-10-14"}, r.CheckIns)
}

func TestBuildCheckInDirtyAfterSameDayCheckout(t *testing.T) {
	src := newFakeSource()
	src.addProperty(3, "P3", "active")
	src.addReservation(3, day(-4), day(0))
	src.addReservation(3, day(0), day(5))
	// Finished before today's departure, so it does not count.
	src.addTask(30, 3, "housekeeping", day(-1), "2026-10-14T15:00:00Z", "Turnover", assignment{name: "Bo"})
	src.addTask(31, 3, "housekeeping", day(0), "", "Turnover", assignment{name: "Cy", status: "assigned"})

	r := build(src)
	assert.Equal(t, []string{"- P3 - Dirty"}, r.CheckIns)
	assert.Equal(t, []string{"- P3 - Turnover - Cy - assigned"}, r.CheckOuts)
	assert.Nil(t, r.Pending)
}

func TestBuildDeduplicatesCheckIns(t *testing.T) {
	src := newFakeSource()
	src.addProperty(4, "P4", "active")
	src.addReservation(4, day(0), day(2))
	src.addReservation(4, day(0), day(3))

	r := build(src)
	assert.Equal(t, []string{"- P4 - Dirty"}, r.CheckIns)
}

func TestBuildSkipsUnknownProperties(t *testing.T) {
	src := newFakeSource()
	src.addProperty(5, "Inactive", "inactive")
	src.addReservation(5, day(0), day(2))
	src.addReservation(99, day(-2), day(0))

	r := build(src)
	assert.NotNil(t, r.CheckIns)
	assert.Empty(t, r.CheckIns)
	assert.Empty(t, r.CheckOuts)
	assert.Contains(t, r.String(), "Check-ins today:\n\nCheck-outs today:\n\nPending cleanings:")
}

func TestBuildCheckOutsAndPending(t *testing.T) {
	src := newFakeSource()
	src.addProperty(1, "Alpha", "active")
	src.addProperty(2, "Bravo", "active")
	src.addProperty(3, "Charlie", "active")
	src.addReservation(1, day(-3), day(0))
	src.addReservation(3, day(-2), day(0))
	src.addTask(10, 1, "housekeeping", day(0), "", "Turnover", assignment{name: "Ana", status: "accepted"}, assignment{})
	src.addTask(11, 1, "maintenance", day(0), "", "Filter change", assignment{name: "Max"})
	src.addTask(20, 2, "housekeeping", day(0), "", "Mid-stay")

	r := build(src)
	assert.Equal(t, []string{
		"- Alpha - Turnover - Ana - accepted",
		"- Alpha - Turnover - Not assigned - Unknown",
		"- Charlie",
	}, r.CheckOuts)
	assert.Equal(t, []string{"Bravo - Mid-stay - Not assigned"}, r.Pending)
	for _, line := range r.Pending {
		assert.NotContains(t, line, "Alpha")
		assert.NotContains(t, line, "Charlie")
	}
}

func TestBuildYesterdaySummary(t *testing.T) {
	src := newFakeSource()
	src.addProperty(1, "Alpha", "active")
	src.addProperty(2, "Bravo", "active")
	src.addTask(10, 1, "housekeeping", day(-1), "", "Turnover",
		assignment{name: "Ana", status: "completed"}, assignment{name: "Bo", status: "accepted"})
	src.addTask(11, 1, "housekeeping", day(-1), "", "Unassigned clean")
	src.addTask(20, 2, "housekeeping", day(-1), "2026-10-14T17:00:00Z", "Deep clean", assignment{status: "accepted"})
	src.addTask(21, 2, "maintenance", day(-1), "", "Repair", assignment{name: "Max"})

	r := build(src)
	assert.Equal(t, []string{
		"- Alpha - Turnover - Ana - Completed",
		"- Alpha - Turnover - Bo - Not completed",
		"- Bravo - Deep clean - Unknown - Completed",
	}, r.YesterdayLines)
}

func TestBuildSurvivesFailingSource(t *testing.T) {
	src := newFakeSource()
	src.addProperty(1, "Alpha", "active")
	src.addReservation(1, day(0), day(2))
	src.failPage["public/inventory/v1/reservation"] = 1

	r := build(src)
	require.Nil(t, r.CheckIns)
	assert.Contains(t, r.String(), "No check-ins today.")
}
