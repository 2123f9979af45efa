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

	"github.com/rafamarinsys/hilotools/internal/staging"
	"github.com/rafamarinsys/hilotools/internal/testutil"
)

func TestDefaultReference(t *testing.T) {
	sales := []staging.SalesRecord{
		testutil.Sale(1, day(2024, time.June, 10), 1, 1, 1),
		testutil.Sale(2, day(2024, time.June, 28), 1, 1, 1),
		testutil.Sale(3, day(2024, time.June, 3), 2, 1, 1),
	}
	got := DefaultReference(sales)
	want := day(2024, time.June, 29)
	if !got.Equal(want) {
		t.Errorf("DefaultReference = %v, want %v", got, want)
	}

	if ref := DefaultReference(nil); !ref.IsZero() {
		t.Errorf("DefaultReference of no sales should be zero, got %v", ref)
	}
}

func TestSegmentCustomersMonetaryScores(t *testing.T) {
	date := day(2024, time.June, 1)
	var sales []staging.SalesRecord
	for i, amount := range []float64{100, 200, 300, 400, 500} {
		s := testutil.Sale(int64(i+1), date, int64(i+1), 1, 1)
		sales = append(sales, testutil.SaleAmount(s, amount))
	}

	records := SegmentCustomers(sales, day(2024, time.June, 2))
	if len(records) != 5 {
		t.Fatalf("Expected 5 records, got %d", len(records))
	}

	// Distinct monetary values across five customers land one per quintile.
	for i, r := range records {
		if r.MScore != i+1 {
			t.Errorf("Customer %d m_score = %d, want %d", r.CustomerID, r.MScore, i+1)
		}
	}
	// All share the same recency and frequency, so those scores are equal.
	for _, r := range records {
		if r.RScore != records[0].RScore {
			t.Errorf("Customer %d r_score = %d, expected uniform %d",
				r.CustomerID, r.RScore, records[0].RScore)
		}
		if r.FScore != 1 {
			t.Errorf("Customer %d f_score = %d, want 1 (single purchase each)",
				r.CustomerID, r.FScore)
		}
		if r.SegmentScore != r.RScore+r.FScore+r.MScore {
			t.Errorf("Customer %d segment_score = %d, want sum of parts",
				r.CustomerID, r.SegmentScore)
		}
	}
}

func TestSegmentCustomersRecency(t *testing.T) {
	reference := day(2024, time.July, 1)
	sales := []staging.SalesRecord{
		testutil.Sale(1, day(2024, time.June, 30), 1, 1, 1), // 1 day ago
		testutil.Sale(2, day(2024, time.June, 1), 2, 1, 1),  // 30 days ago
	}
	records := SegmentCustomers(sales, reference)
	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}
	if records[0].RecencyDays != 1 || records[1].RecencyDays != 30 {
		t.Errorf("Recency days = %d, %d, want 1, 30",
			records[0].RecencyDays, records[1].RecencyDays)
	}
	if records[0].RScore <= records[1].RScore {
		t.Errorf("More recent customer should score higher: %d vs %d",
			records[0].RScore, records[1].RScore)
	}
}

func TestSegmentCustomersSingleCustomer(t *testing.T) {
	sales := []staging.SalesRecord{
		testutil.Sale(1, day(2024, time.June, 1), 42, 1, 1),
	}
	records := SegmentCustomers(sales, day(2024, time.June, 10))
	if len(records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(records))
	}
	r := records[0]
	// All quintile boundaries collapse to the single observation, and the
	// inclusive comparisons give the first-match score.
	if r.RScore != 5 || r.FScore != 1 || r.MScore != 1 {
		t.Errorf("Degenerate scores = %d/%d/%d, want 5/1/1", r.RScore, r.FScore, r.MScore)
	}
}

func TestSegmentCustomersSkipsUndated(t *testing.T) {
	dated := testutil.Sale(1, day(2024, time.June, 1), 1, 1, 1)
	undated := testutil.Sale(2, time.Time{}, 2, 1, 1)
	records := SegmentCustomers([]staging.SalesRecord{dated, undated}, day(2024, time.June, 2))

	if len(records) != 1 {
		t.Fatalf("Expected only the dated customer, got %d records", len(records))
	}
	if records[0].CustomerID != 1 {
		t.Errorf("Surviving customer = %d, want 1", records[0].CustomerID)
	}
}

func TestSegmentLabels(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{15, "VIP"},
		{12, "VIP"},
		{11, "Loyal"},
		{9, "Loyal"},
		{8, "Regular"},
		{6, "Regular"},
		{5, "At Risk"},
		{3, "At Risk"},
	}
	for _, tt := range tests {
		if got := segmentLabel(tt.score); got != tt.want {
			t.Errorf("segmentLabel(%d) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestQuantileInterpolation(t *testing.T) {
	sorted := []float64{10, 20, 30, 40, 50}
	tests := []struct {
		p    float64
		want float64
	}{
		{0.2, 18}, // 0.2 * 4 = 0.8 -> 10 + 0.8*10
		{0.4, 26},
		{0.6, 34},
		{0.8, 42},
	}
	for _, tt := range tests {
		if got := quantile(sorted, tt.p); got != tt.want {
			t.Errorf("quantile(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
	if got := quantile([]float64{7}, 0.5); got != 7 {
		t.Errorf("quantile of single value = %v, want 7", got)
	}
}

func TestBuildDimCustomerNaturalIDZero(t *testing.T) {
	sales := []staging.SalesRecord{
		testutil.Sale(1, day(2024, time.June, 1), 0, 1, 1),
		testutil.Sale(2, day(2024, time.June, 1), 5, 1, 1),
	}
	rows := BuildDimCustomer(sales, day(2024, time.June, 2))

	// Key 0 occurs in the data, so no extra sentinel is prepended.
	var zeros int
	for _, r := range rows {
		if r.CustomerKey == SentinelKey {
			zeros++
		}
	}
	if zeros != 1 {
		t.Errorf("Key 0 appears %d times, want exactly once", zeros)
	}
	if len(rows) != 2 {
		t.Errorf("Expected 2 rows, got %d", len(rows))
	}
	// The data-derived key 0 row is a real segmented customer.
	if rows[0].SegmentLabel == "UNKNOWN" || !rows[0].Frequency.Valid {
		t.Errorf("Data-derived key 0 row = %+v, want real segmentation", rows[0])
	}
}

func TestBuildDimCustomerSentinel(t *testing.T) {
	sales := []staging.SalesRecord{
		testutil.Sale(1, day(2024, time.June, 1), 10, 1, 1),
	}
	rows := BuildDimCustomer(sales, day(2024, time.June, 2))

	if len(rows) != 2 {
		t.Fatalf("Expected sentinel + 1 customer, got %d rows", len(rows))
	}
	if rows[0].CustomerKey != SentinelKey || rows[0].SegmentLabel != "UNKNOWN" {
		t.Errorf("Sentinel row = %+v", rows[0])
	}
	if rows[0].RecencyDays.Valid || rows[0].Monetary.Valid {
		t.Error("Sentinel metrics should be null")
	}
	if rows[1].CustomerKey != 10 {
		t.Errorf("Customer key = %d, want 10", rows[1].CustomerKey)
	}
}
