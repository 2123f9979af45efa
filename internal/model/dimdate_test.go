//-------------------------------------------------------------------------
//
// HiloTools Data Pipeline
//
// Copyright (c) 2025 - 2026, Rafa Marin Systems
// This software is released under The MIT License
//
//-------------------------------------------------------------------------

package model

import (
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestBuildDimDateContiguous(t *testing.T) {
	rows := BuildDimDate([]time.Time{
		day(2024, time.January, 10),
		day(2024, time.January, 3),
		day(2024, time.January, 7),
	})

	if len(rows) != 8 {
		t.Fatalf("Expected 8 contiguous days, got %d", len(rows))
	}
	if rows[0].DateID != 20240103 {
		t.Errorf("First date id = %d, want 20240103", rows[0].DateID)
	}
	if rows[7].DateID != 20240110 {
		t.Errorf("Last date id = %d, want 20240110", rows[7].DateID)
	}
	for i := 1; i < len(rows); i++ {
		if !rows[i].Date.Equal(rows[i-1].Date.AddDate(0, 0, 1)) {
			t.Errorf("Gap between %v and %v", rows[i-1].Date, rows[i].Date)
		}
	}
}

func TestBuildDimDateWeekend(t *testing.T) {
	// 2024-01-05 is a Friday, 2024-01-07 a Sunday.
	rows := BuildDimDate([]time.Time{
		day(2024, time.January, 5),
		day(2024, time.January, 7),
	})
	if len(rows) != 3 {
		t.Fatalf("Expected 3 rows, got %d", len(rows))
	}

	tests := []struct {
		idx     int
		dow     int
		weekend bool
	}{
		{0, 5, false}, // Friday
		{1, 6, true},  // Saturday
		{2, 7, true},  // Sunday
	}
	for _, tt := range tests {
		if rows[tt.idx].DayOfWeek != tt.dow {
			t.Errorf("Row %d day_of_week = %d, want %d", tt.idx, rows[tt.idx].DayOfWeek, tt.dow)
		}
		if rows[tt.idx].IsWeekend != tt.weekend {
			t.Errorf("Row %d is_weekend = %v, want %v", tt.idx, rows[tt.idx].IsWeekend, tt.weekend)
		}
	}
}

func TestBuildDimDateQuarters(t *testing.T) {
	rows := BuildDimDate([]time.Time{day(2024, time.March, 31), day(2024, time.April, 1)})
	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(rows))
	}
	if rows[0].Quarter != 1 || rows[1].Quarter != 2 {
		t.Errorf("Quarters = %d, %d, want 1, 2", rows[0].Quarter, rows[1].Quarter)
	}
}

func TestBuildDimDateEmpty(t *testing.T) {
	if rows := BuildDimDate(nil); len(rows) != 0 {
		t.Errorf("Expected empty dimension for no dates, got %d rows", len(rows))
	}
	// Zero dates are dropped, not expanded.
	if rows := BuildDimDate([]time.Time{{}}); len(rows) != 0 {
		t.Errorf("Expected empty dimension for only-zero dates, got %d rows", len(rows))
	}
}

func TestDateKey(t *testing.T) {
	if got := DateKey(day(2024, time.January, 5)); got != 20240105 {
		t.Errorf("DateKey = %d, want 20240105", got)
	}
	if got := DateKey(time.Time{}); got != SentinelKey {
		t.Errorf("DateKey of zero date = %d, want %d", got, SentinelKey)
	}
}
