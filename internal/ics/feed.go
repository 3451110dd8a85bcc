// Package ics imports events from subscribed ICS calendar feeds so
// externally hosted calendars show up on the day grid alongside local
// events.
package ics

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/sirupsen/logrus"
	"github.com/teambition/rrule-go"

	"github.com/sandeepkv93/daygrid/internal/model"
)

// Feed is a single ICS subscription.
type Feed struct {
	Name  string
	URL   string
	Color string
}

type Client struct {
	http *http.Client
	log  *logrus.Entry
}

func NewClient(log *logrus.Entry) *Client {
	return &Client{
		http: &http.Client{Timeout: 15 * time.Second},
		log:  log,
	}
}

// Events fetches the feed and returns its occurrences inside the window
// [from, until), recurrences expanded.
func (c *Client) Events(ctx context.Context, feed Feed, from, until time.Time) ([]model.Event, error) {
	if strings.TrimSpace(feed.URL) == "" {
		return nil, errors.New("ics: feed url is empty")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feed.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("ics: build request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ics: fetch %s: %w", feed.Name, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ics: fetch %s: status %d", feed.Name, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("ics: read %s: %w", feed.Name, err)
	}
	events, err := Parse(feed, body, from, until)
	if err != nil {
		return nil, err
	}
	c.log.WithFields(logrus.Fields{"feed": feed.Name, "events": len(events)}).Debug("ics feed imported")
	return events, nil
}

// Parse expands an ICS payload into events within [from, until).
// Malformed VEVENTs are skipped; a payload that is not a calendar at all
// is an error.
func Parse(feed Feed, body []byte, from, until time.Time) ([]model.Event, error) {
	if len(body) == 0 {
		return nil, errors.New("ics: empty payload")
	}
	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("ics: parse %s: %w", feed.Name, err)
	}

	out := make([]model.Event, 0)
	for _, ve := range cal.Events() {
		out = append(out, expandVEvent(feed, ve, from, until)...)
	}
	return out, nil
}

func expandVEvent(feed Feed, ve *ical.VEvent, from, until time.Time) []model.Event {
	uidProp := ve.GetProperty(ical.ComponentPropertyUniqueId)
	if uidProp == nil || uidProp.Value == "" {
		return nil
	}
	uid := uidProp.Value

	start, err := ve.GetStartAt()
	if err != nil {
		return nil
	}
	end, endErr := ve.GetEndAt()
	if endErr != nil || end.Before(start) {
		end = start
	}

	title := uid
	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil && p.Value != "" {
		title = p.Value
	}
	allDay := isAllDay(ve)

	var rawRule string
	if p := ve.GetProperty(ical.ComponentPropertyRrule); p != nil {
		rawRule = p.Value
	}

	if rawRule == "" {
		if start.Before(from) || !start.Before(until) {
			return nil
		}
		return []model.Event{feedEvent(feed, uid, title, start, end, allDay)}
	}

	rule, err := rrule.StrToRRule(rawRule)
	if err != nil {
		return nil
	}
	rule.DTStart(start)

	duration := end.Sub(start)
	times := rule.Between(from.In(start.Location()), until.In(start.Location()), true)
	out := make([]model.Event, 0, len(times))
	for _, occStart := range times {
		if !occStart.Before(until) {
			continue
		}
		ev := feedEvent(feed, fmt.Sprintf("%s-%d", uid, occStart.Unix()), title, occStart, occStart.Add(duration), allDay)
		out = append(out, ev)
	}
	return out
}

func isAllDay(ve *ical.VEvent) bool {
	p := ve.GetProperty(ical.ComponentPropertyDtStart)
	if p == nil {
		return false
	}
	if params := p.ICalParameters; params != nil {
		if vs, ok := params["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
			return true
		}
	}
	return !strings.Contains(p.Value, "T")
}

func feedEvent(feed Feed, id, title string, start, end time.Time, allDay bool) model.Event {
	return model.Event{
		ID:     "ics-" + feed.Name + "-" + id,
		Title:  title,
		Start:  start,
		End:    end,
		Color:  feed.Color,
		AllDay: allDay,
	}
}
