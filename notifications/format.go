// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package notifications

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// SubjectPrefix starts every notification title.
const SubjectPrefix = "[watchmen]"

const (
	day   = 24 * time.Hour
	month = 2629746 * time.Second // 30.436875 days
	year  = 12 * month
)

// downtimeRounding lists, per unit, the largest rounded duration still
// expressed in that unit. A duration is rounded to the nearest unit of the
// first step it stays below once rounded.
var downtimeRounding = []struct {
	unit  time.Duration
	below time.Duration
}{
	{unit: time.Second, below: 45 * time.Second},
	{unit: time.Minute, below: 45 * time.Minute},
	{unit: time.Hour, below: 22 * time.Hour},
	{unit: day, below: 26 * day},
	{unit: month, below: 11 * month},
}

// Phrases for durations already rounded by roundDowntime.
var downtimeMagnitudes = []humanize.RelTimeMagnitude{
	{D: 45 * time.Second, Format: "a few seconds", DivBy: time.Second},
	{D: 2 * time.Minute, Format: "a minute", DivBy: time.Minute},
	{D: 45 * time.Minute, Format: "%d minutes", DivBy: time.Minute},
	{D: 2 * time.Hour, Format: "an hour", DivBy: time.Hour},
	{D: 22 * time.Hour, Format: "%d hours", DivBy: time.Hour},
	{D: 2 * day, Format: "a day", DivBy: day},
	{D: 26 * day, Format: "%d days", DivBy: day},
	{D: 2 * month, Format: "a month", DivBy: month},
	{D: 11 * month, Format: "%d months", DivBy: month},
	{D: 2 * year, Format: "a year", DivBy: year},
	{D: math.MaxInt64, Format: "%d years", DivBy: year},
}

// Format renders the notification for the given event. It never fails:
// missing fields render as empty values and unknown kinds get a generic
// message.
func Format(kind EventKind, svc MonitoredService, outage Outage) Message {
	switch kind {
	case OutageStarted:
		return Message{
			Title: fmt.Sprintf("%s %s is down!", SubjectPrefix, svc.Name),
			Body:  fmt.Sprintf("%s is down!. Reason: %s", svc.Name, Stringify(outage.Error)),
		}
	case ServiceRecovered:
		return Message{
			Title: fmt.Sprintf("%s %s is back!", SubjectPrefix, svc.Name),
			Body:  fmt.Sprintf("%s down for %s. Error: %s", svc.Name, HumanizeDuration(outage.Duration()), Stringify(outage.Error)),
		}
	default:
		return Message{
			Title: fmt.Sprintf("%s %s: %s", SubjectPrefix, svc.Name, kind),
			Body:  fmt.Sprintf("%s: %s. Details: %s", svc.Name, kind, Stringify(outage.Error)),
		}
	}
}

// HumanizeDuration returns an approximate phrase such as "2 minutes" or
// "an hour" for d.
func HumanizeDuration(d time.Duration) string {
	var origin time.Time
	return humanize.CustomRelTime(origin, origin.Add(roundDowntime(d)), "", "", downtimeMagnitudes)
}

func roundDowntime(d time.Duration) time.Duration {
	if d < 0 {
		d = -d
		if d < 0 {
			d = math.MaxInt64
		}
	}
	for _, r := range downtimeRounding {
		if rounded := roundTo(d, r.unit); rounded < r.below {
			return rounded
		}
	}

	return roundTo(d, year)
}

// roundTo rounds d half up to a multiple of unit, truncating where
// rounding up would overflow.
func roundTo(d, unit time.Duration) time.Duration {
	if d > math.MaxInt64-unit/2 {
		return d.Truncate(unit)
	}

	return (d + unit/2).Truncate(unit)
}

// Stringify returns the JSON form of v. Errors without a JSON form render
// as their message, nil renders as null and values JSON can't represent
// fall back to their default format.
func Stringify(v any) string {
	if err, ok := v.(error); ok {
		if _, ok := v.(json.Marshaler); !ok {
			v = err.Error()
		}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Sprintf("%v", v)
	}

	return strings.TrimSuffix(buf.String(), "\n")
}
