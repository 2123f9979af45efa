//-------------------------------------------------------------------------
//
// HiloTools Data Pipeline
//
// Copyright (c) 2025 - 2026, Rafa Marin Systems
// This software is released under The MIT License
//
//-------------------------------------------------------------------------

// Package analytics computes the monthly KPI feature matrix from the
// warehouse and summarizes it with a PCA decomposition.
package analytics

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/rafamarinsys/hilotools/internal/logging"
	"github.com/rafamarinsys/hilotools/internal/staging"
	"github.com/rafamarinsys/hilotools/internal/warehouse"
)

// FeatureMatrix is the month-by-feature KPI matrix. Missing entries are NaN
// until FillMedians runs.
type FeatureMatrix struct {
	Months  []time.Time
	Columns []string
	Data    [][]float64
}

// Feature column order. Sales KPIs, then HR, then inventory.
var featureColumns = []string{
	"sales_amount_total",
	"sales_qty_total",
	"avg_discount",
	"avg_profit_margin",
	"perf_score_avg",
	"hours_worked_avg",
	"overtime_ratio",
	"salary_avg",
	"bonus_avg",
	"inv_stock_avg",
	"inv_stockouts",
	"inv_reorder_gap_avg",
	"unit_cost_avg",
	"inv_value_total",
}

type monthAgg struct {
	sums   map[string]float64
	counts map[string]int
}

func newMonthAgg() *monthAgg {
	return &monthAgg{sums: make(map[string]float64), counts: make(map[string]int)}
}

func (a *monthAgg) add(col string, v float64) {
	a.sums[col] += v
	a.counts[col]++
}

// BuildFeatures queries the warehouse facts and the HR staging dataset and
// assembles the monthly feature matrix. HR staging may legitimately be
// absent (analytics run against a foreign warehouse); its columns are then
// zero-filled.
func BuildFeatures(ctx context.Context, store warehouse.Store, hr []staging.HRRecord) (*FeatureMatrix, error) {
	months := make(map[time.Time]*monthAgg)
	agg := func(m time.Time) *monthAgg {
		a := months[m]
		if a == nil {
			a = newMonthAgg()
			months[m] = a
		}
		return a
	}

	// Sales KPIs from fact_sales.
	_, rows, err := store.Query(ctx, `
        SELECT date_id, quantity, discount_percent, sales_amount, profit_margin
        FROM `+"fact_sales")
	if err != nil {
		return nil, fmt.Errorf("could not read fact_sales: %w", err)
	}
	for _, row := range rows {
		m, ok := monthOfDateID(row[0])
		if !ok {
			continue
		}
		a := agg(m)
		if v, ok := toFloat(row[3]); ok {
			a.add("sales_amount_total", v)
		}
		if v, ok := toFloat(row[1]); ok {
			a.add("sales_qty_total", v)
		}
		if v, ok := toFloat(row[2]); ok {
			a.add("avg_discount", v)
		}
		if v, ok := toFloat(row[4]); ok {
			a.add("avg_profit_margin", v)
		}
	}

	// Inventory KPIs from fact_inventory_snapshot.
	_, rows, err = store.Query(ctx, `
        SELECT date_id, stock_qty, reorder_level, unit_cost, total_value
        FROM `+"fact_inventory_snapshot")
	if err != nil {
		return nil, fmt.Errorf("could not read fact_inventory_snapshot: %w", err)
	}
	for _, row := range rows {
		m, ok := monthOfDateID(row[0])
		if !ok {
			continue
		}
		a := agg(m)
		stock, hasStock := toFloat(row[1])
		if hasStock {
			a.add("inv_stock_avg", stock)
			if stock <= 0 {
				a.add("inv_stockouts", 1)
			} else {
				a.add("inv_stockouts", 0)
			}
			if reorder, ok := toFloat(row[2]); ok {
				a.add("inv_reorder_gap_avg", stock-reorder)
			}
		}
		if v, ok := toFloat(row[3]); ok {
			a.add("unit_cost_avg", v)
		}
		if v, ok := toFloat(row[4]); ok {
			a.add("inv_value_total", v)
		}
	}

	// HR KPIs from staging, keyed by review month.
	hrMonths := make(map[time.Time]*monthAgg)
	for _, r := range hr {
		if r.ReviewDate.IsZero() {
			continue
		}
		m := monthFloor(r.ReviewDate)
		a := hrMonths[m]
		if a == nil {
			a = newMonthAgg()
			hrMonths[m] = a
		}
		if r.PerformanceScore.Valid {
			a.add("perf_score_avg", r.PerformanceScore.Decimal.InexactFloat64())
		}
		if r.HoursWorked.Valid {
			a.add("hours_worked_avg", r.HoursWorked.Decimal.InexactFloat64())
		}
		if r.OvertimeHours.Valid {
			a.add("overtime_hours", r.OvertimeHours.Decimal.InexactFloat64())
		}
		if r.Salary.Valid {
			a.add("salary_avg", r.Salary.Decimal.InexactFloat64())
		}
		if r.Bonus.Valid {
			a.add("bonus_avg", r.Bonus.Decimal.InexactFloat64())
		}
	}
	for m := range hrMonths {
		if _, ok := months[m]; !ok {
			months[m] = newMonthAgg()
		}
	}

	keys := make([]time.Time, 0, len(months))
	for m := range months {
		keys = append(keys, m)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Before(keys[j]) })

	fm := &FeatureMatrix{Months: keys, Columns: featureColumns}
	for _, m := range keys {
		a := months[m]
		h := hrMonths[m]
		row := make([]float64, len(featureColumns))
		for i, col := range featureColumns {
			row[i] = featureValue(a, h, col)
		}
		fm.Data = append(fm.Data, row)
	}

	logging.Debug().
		Int("months", len(fm.Months)).
		Int("features", len(fm.Columns)).
		Msg("Built monthly feature matrix")
	return fm, nil
}

func featureValue(sales, hr *monthAgg, col string) float64 {
	switch col {
	case "sales_amount_total", "sales_qty_total", "inv_value_total", "inv_stockouts":
		return sum(sales, col)
	case "avg_discount", "avg_profit_margin", "inv_stock_avg",
		"inv_reorder_gap_avg", "unit_cost_avg":
		return mean(sales, col)
	case "perf_score_avg", "hours_worked_avg", "salary_avg", "bonus_avg":
		return mean(hr, col)
	case "overtime_ratio":
		hours := mean(hr, "hours_worked_avg")
		overtime := mean(hr, "overtime_hours")
		if math.IsNaN(hours) || math.IsNaN(overtime) {
			return math.NaN()
		}
		return overtime / (hours + overtime + 1e-9)
	default:
		return math.NaN()
	}
}

func sum(a *monthAgg, col string) float64 {
	if a == nil || a.counts[col] == 0 {
		return math.NaN()
	}
	return a.sums[col]
}

func mean(a *monthAgg, col string) float64 {
	if a == nil || a.counts[col] == 0 {
		return math.NaN()
	}
	return a.sums[col] / float64(a.counts[col])
}

// FillMedians replaces NaN entries with their column median, or 0 for
// columns with no observed values at all.
func (fm *FeatureMatrix) FillMedians() {
	for c := range fm.Columns {
		var observed []float64
		for r := range fm.Data {
			if !math.IsNaN(fm.Data[r][c]) {
				observed = append(observed, fm.Data[r][c])
			}
		}
		fill := 0.0
		if len(observed) > 0 {
			sort.Float64s(observed)
			mid := len(observed) / 2
			if len(observed)%2 == 1 {
				fill = observed[mid]
			} else {
				fill = (observed[mid-1] + observed[mid]) / 2
			}
		}
		for r := range fm.Data {
			if math.IsNaN(fm.Data[r][c]) {
				fm.Data[r][c] = fill
			}
		}
	}
}

// monthOfDateID converts an integer YYYYMMDD key to the first day of its
// month. The sentinel key 0 has no calendar position.
func monthOfDateID(v any) (time.Time, bool) {
	f, ok := toFloat(v)
	if !ok {
		return time.Time{}, false
	}
	id := int64(f)
	if id <= 0 {
		return time.Time{}, false
	}
	year := int(id / 10000)
	month := time.Month((id / 100) % 100)
	if month < time.January || month > time.December {
		return time.Time{}, false
	}
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC), true
}

func monthFloor(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// toFloat coerces the driver-dependent value types coming back from
// warehouse queries.
func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case nil:
		return 0, false
	case int64:
		return float64(x), true
	case int32:
		return float64(x), true
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	case []byte:
		f, err := strconv.ParseFloat(string(x), 64)
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(x, 64)
		return f, err == nil
	case pgtype.Numeric:
		f, err := x.Float64Value()
		return f.Float64, err == nil && f.Valid
	default:
		return 0, false
	}
}
