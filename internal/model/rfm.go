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
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rafamarinsys/hilotools/internal/staging"
)

// RFMRecord is the segmentation result for one customer.
type RFMRecord struct {
	CustomerID   int64
	RecencyDays  int64
	Frequency    int64
	Monetary     decimal.Decimal
	RScore       int
	FScore       int
	MScore       int
	SegmentScore int
	SegmentLabel string
}

// DefaultReference returns the segmentation reference date derived from the
// sales data: one day after the most recent sale. Zero when no sale has a
// date.
func DefaultReference(sales []staging.SalesRecord) time.Time {
	var maxDate time.Time
	for _, r := range sales {
		if !r.SaleDate.IsZero() && r.SaleDate.After(maxDate) {
			maxDate = r.SaleDate
		}
	}
	if maxDate.IsZero() {
		return time.Time{}
	}
	return truncateDay(maxDate).AddDate(0, 0, 1)
}

// SegmentCustomers computes recency/frequency/monetary metrics per customer
// and assigns quantile-binned scores. The reference date is explicit so
// results are reproducible; callers normally pass DefaultReference.
//
// Scoring: the 20/40/60/80th percentiles of each metric are computed across
// all customers (linear interpolation). Recency scores 5 for the lowest
// quintile down to 1; frequency and monetary score 1 for the lowest up to 5.
// Boundaries are inclusive, so ties at a percentile share a score, and a
// single customer degenerates to all boundaries equal without error.
func SegmentCustomers(sales []staging.SalesRecord, reference time.Time) []RFMRecord {
	type group struct {
		latest   time.Time
		count    int64
		monetary decimal.Decimal
	}

	groups := make(map[int64]*group)
	for _, r := range sales {
		if !r.CustomerID.Valid {
			continue
		}
		g := groups[r.CustomerID.Int64]
		if g == nil {
			g = &group{}
			groups[r.CustomerID.Int64] = g
		}
		g.count++
		if r.SalesAmount.Valid {
			g.monetary = g.monetary.Add(r.SalesAmount.Decimal)
		}
		if !r.SaleDate.IsZero() && r.SaleDate.After(g.latest) {
			g.latest = r.SaleDate
		}
	}

	refDay := truncateDay(reference)
	records := make([]RFMRecord, 0, len(groups))
	for id, g := range groups {
		if g.latest.IsZero() {
			// No dated sale: recency is undefined, the customer cannot
			// be scored.
			continue
		}
		records = append(records, RFMRecord{
			CustomerID:  id,
			RecencyDays: int64(refDay.Sub(truncateDay(g.latest)).Hours() / 24),
			Frequency:   g.count,
			Monetary:    g.monetary,
		})
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].CustomerID < records[j].CustomerID
	})
	if len(records) == 0 {
		return records
	}

	recency := make([]float64, len(records))
	frequency := make([]float64, len(records))
	monetary := make([]float64, len(records))
	for i, r := range records {
		recency[i] = float64(r.RecencyDays)
		frequency[i] = float64(r.Frequency)
		monetary[i] = r.Monetary.InexactFloat64()
	}

	rq := quintileBoundaries(recency)
	fq := quintileBoundaries(frequency)
	mq := quintileBoundaries(monetary)

	for i := range records {
		r := &records[i]
		r.RScore = recencyScore(float64(r.RecencyDays), rq)
		r.FScore = valueScore(float64(r.Frequency), fq)
		r.MScore = valueScore(r.Monetary.InexactFloat64(), mq)
		r.SegmentScore = r.RScore + r.FScore + r.MScore
		r.SegmentLabel = segmentLabel(r.SegmentScore)
	}
	return records
}

// quintileBoundaries returns the 20/40/60/80th percentiles of values.
func quintileBoundaries(values []float64) [4]float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	return [4]float64{
		quantile(sorted, 0.2),
		quantile(sorted, 0.4),
		quantile(sorted, 0.6),
		quantile(sorted, 0.8),
	}
}

// quantile computes the p-quantile of sorted values with linear
// interpolation between closest ranks. Hand-rolled because the scoring
// contract pins this exact interpolation; gonum's stat.Quantile exposes
// other cumulant definitions.
func quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if n == 1 {
		return sorted[0]
	}
	pos := p * float64(n-1)
	lo := int(math.Floor(pos))
	if lo >= n-1 {
		return sorted[n-1]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

// recencyScore bins recency against the quintile boundaries; lower is
// better. Boundaries are inclusive and checked in ascending order.
func recencyScore(x float64, q [4]float64) int {
	switch {
	case x <= q[0]:
		return 5
	case x <= q[1]:
		return 4
	case x <= q[2]:
		return 3
	case x <= q[3]:
		return 2
	default:
		return 1
	}
}

// valueScore bins frequency or monetary against the quintile boundaries;
// higher is better.
func valueScore(x float64, q [4]float64) int {
	switch {
	case x <= q[0]:
		return 1
	case x <= q[1]:
		return 2
	case x <= q[2]:
		return 3
	case x <= q[3]:
		return 4
	default:
		return 5
	}
}

func segmentLabel(score int) string {
	switch {
	case score >= 12:
		return "VIP"
	case score >= 9:
		return "Loyal"
	case score >= 6:
		return "Regular"
	default:
		return "At Risk"
	}
}

// BuildDimCustomer wraps the segmentation into the customer dimension,
// using the customer natural id as surrogate key and prepending a sentinel
// row unless the data already contains key 0.
func BuildDimCustomer(sales []staging.SalesRecord, reference time.Time) []DimCustomerRow {
	segments := SegmentCustomers(sales, reference)

	rows := make([]DimCustomerRow, 0, len(segments)+1)
	hasSentinel := false
	for _, s := range segments {
		if s.CustomerID == SentinelKey {
			hasSentinel = true
		}
		rows = append(rows, DimCustomerRow{
			CustomerKey:  s.CustomerID,
			RecencyDays:  staging.Int(s.RecencyDays),
			Frequency:    staging.Int(s.Frequency),
			Monetary:     staging.Dec(s.Monetary),
			RScore:       staging.Int(int64(s.RScore)),
			FScore:       staging.Int(int64(s.FScore)),
			MScore:       staging.Int(int64(s.MScore)),
			SegmentScore: staging.Int(int64(s.SegmentScore)),
			SegmentLabel: s.SegmentLabel,
		})
	}
	if !hasSentinel {
		sentinel := DimCustomerRow{CustomerKey: SentinelKey, SegmentLabel: "UNKNOWN"}
		rows = append([]DimCustomerRow{sentinel}, rows...)
	}
	return rows
}
