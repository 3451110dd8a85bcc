// Package layout positions calendar events on a day/week time grid. All
// geometry is percentage-based: vertical position and height are fractions
// of a 24-hour column, horizontal slot and width are fractions of the
// column width. The engine is pure; it holds no state between calls and
// has no failure channel.
package layout

import (
	"sort"
	"time"

	"github.com/sandeepkv93/daygrid/internal/model"
)

const minutesPerDay = 24 * 60

// PositionedEvent is an event plus its computed grid slot. Values are a
// rendering projection, recomputed on every layout call and never stored.
type PositionedEvent struct {
	model.Event

	// Percent of the 24-hour column.
	Top    float64
	Height float64

	// Percent of the column width.
	Left  float64
	Width float64

	Column  int
	Cluster int
}

// DayColumn holds one calendar day's positioned events, in layout order.
type DayColumn struct {
	Date   time.Time
	Events []PositionedEvent
}

// DayRange enumerates days consecutive calendar dates starting at the day
// containing start, normalized to midnight in start's location. A
// non-positive count yields an empty range.
func DayRange(start time.Time, days int) []time.Time {
	if days <= 0 {
		return []time.Time{}
	}
	y, m, d := start.Date()
	first := time.Date(y, m, d, 0, 0, 0, 0, start.Location())
	out := make([]time.Time, days)
	for i := range out {
		out[i] = first.AddDate(0, 0, i)
	}
	return out
}

// LayoutDayRange assigns every timed event a non-overlapping slot in its
// day column. Events are attributed to the day their start falls on;
// spans crossing midnight are not split onto later days. All-day events
// and events without a start time are excluded from the grid.
func LayoutDayRange(events []model.Event, dates []time.Time) []DayColumn {
	columns := make([]DayColumn, 0, len(dates))
	for _, date := range dates {
		columns = append(columns, DayColumn{
			Date:   date,
			Events: layoutDay(events, date),
		})
	}
	return columns
}

func layoutDay(events []model.Event, date time.Time) []PositionedEvent {
	day := eventsOnDay(events, date)
	if len(day) == 0 {
		return []PositionedEvent{}
	}
	sortEvents(day)

	out := make([]PositionedEvent, 0, len(day))
	clusterIdx := 0
	for start := 0; start < len(day); {
		end := clusterEnd(day, start)
		size := end - start
		width := 100.0 / float64(size)
		for i := start; i < end; i++ {
			column := i - start
			pos := PositionedEvent{
				Event:   day[i],
				Left:    float64(column) * width,
				Width:   width,
				Column:  column,
				Cluster: clusterIdx,
			}
			pos.Top, pos.Height = verticalSpan(day[i])
			out = append(out, pos)
		}
		clusterIdx++
		start = end
	}
	return out
}

// clusterEnd walks the chain-overlap rule forward from start: an event
// joins the cluster while its start is strictly before the running
// maximum end seen so far.
func clusterEnd(day []model.Event, start int) int {
	maxEnd := clampedEnd(day[start])
	end := start + 1
	for end < len(day) {
		if !day[end].Start.Before(maxEnd) {
			break
		}
		if ce := clampedEnd(day[end]); ce.After(maxEnd) {
			maxEnd = ce
		}
		end++
	}
	return end
}

// clampedEnd treats a malformed event (end before start) as zero-length
// at its start point.
func clampedEnd(ev model.Event) time.Time {
	if ev.End.Before(ev.Start) {
		return ev.Start
	}
	return ev.End
}

func verticalSpan(ev model.Event) (top, height float64) {
	startMin := float64(ev.Start.Hour()*60+ev.Start.Minute()) + float64(ev.Start.Second())/60
	durMin := clampedEnd(ev).Sub(ev.Start).Minutes()

	top = startMin / minutesPerDay * 100
	height = durMin / minutesPerDay * 100
	if top+height > 100 {
		height = 100 - top
	}
	return top, height
}

func eventsOnDay(events []model.Event, date time.Time) []model.Event {
	y, m, d := date.Date()
	out := make([]model.Event, 0)
	for _, ev := range events {
		if ev.AllDay || ev.Start.IsZero() {
			continue
		}
		ey, em, ed := ev.Start.In(date.Location()).Date()
		if ey == y && em == m && ed == d {
			out = append(out, ev)
		}
	}
	return out
}

// sortEvents orders by start ascending, ties broken by end ascending so
// shorter events come first.
func sortEvents(events []model.Event) {
	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].Start.Equal(events[j].Start) {
			return events[i].Start.Before(events[j].Start)
		}
		return clampedEnd(events[i]).Before(clampedEnd(events[j]))
	})
}
