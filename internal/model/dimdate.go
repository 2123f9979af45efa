//-------------------------------------------------------------------------
//
// HiloTools Data Pipeline
//
// Copyright (c) 2025 - 2026, Rafa Marin Systems
// This software is released under The MIT License
//
//-------------------------------------------------------------------------

package model

import "time"

// BuildDimDate generates the calendar dimension covering the observed sale
// dates. Zero (missing) dates are dropped; an empty input produces an empty
// dimension, not an error. The output is one row per day between the
// minimum and maximum observed date, inclusive, with no gaps.
func BuildDimDate(dates []time.Time) []DimDateRow {
	var minDate, maxDate time.Time
	for _, d := range dates {
		if d.IsZero() {
			continue
		}
		d = truncateDay(d)
		if minDate.IsZero() || d.Before(minDate) {
			minDate = d
		}
		if maxDate.IsZero() || d.After(maxDate) {
			maxDate = d
		}
	}
	if minDate.IsZero() {
		return []DimDateRow{}
	}

	var rows []DimDateRow
	for d := minDate; !d.After(maxDate); d = d.AddDate(0, 0, 1) {
		dow := isoWeekday(d)
		rows = append(rows, DimDateRow{
			DateID:     DateKey(d),
			Date:       d,
			Year:       d.Year(),
			Quarter:    (int(d.Month())-1)/3 + 1,
			Month:      int(d.Month()),
			DayOfMonth: d.Day(),
			DayOfWeek:  dow,
			IsWeekend:  dow >= 6,
		})
	}
	return rows
}

// DateKey formats a calendar date as an integer YYYYMMDD key.
// A zero date maps to the sentinel key.
func DateKey(t time.Time) int64 {
	if t.IsZero() {
		return SentinelKey
	}
	return int64(t.Year())*10000 + int64(t.Month())*100 + int64(t.Day())
}

// isoWeekday numbers days Monday=1 through Sunday=7.
func isoWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
