// Package charts renders the finance dashboard as PNG images.
package charts

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/sync/errgroup"

	"homebook/internal/core"
	applog "homebook/internal/log"
	"homebook/internal/ledger"
)

// Output file names inside the chart directory.
const (
	BalanceFile  = "balance.png"
	IncomeFile   = "income.png"
	ExpensesFile = "expenses.png"
	TrendFile    = "trend.png"
)

const (
	width  = 1000
	height = 500
)

var background = chart.Style{
	Padding:   chart.Box{Top: 50, Left: 50, Right: 50, Bottom: 50},
	FillColor: chart.ColorWhite,
}

// Dashboard is everything the dashboard draws.
type Dashboard struct {
	Currency  core.Currency
	Balance   core.Balance
	Breakdown core.MonthlyBreakdown
	Trend     []core.TrendPoint
}

// BalanceChart draws income, expenses and balance as bars. It returns nil when
// there is nothing to draw.
func BalanceChart(b core.Balance, c core.Currency) ([]byte, error) {
	if b.TotalIncome.IsZero() && b.TotalExpenses.IsZero() {
		return nil, nil
	}

	balanceColor := chart.ColorBlue
	if b.Balance.IsNegative() {
		balanceColor = chart.ColorRed
	}
	values := []float64{b.TotalIncome.InexactFloat64(), b.TotalExpenses.InexactFloat64(), b.Balance.InexactFloat64()}

	graph := chart.BarChart{
		Title:      "Financial Overview",
		Width:      width,
		Height:     height,
		BarWidth:   120,
		Background: background,
		YAxis: chart.YAxis{
			Range:          valueRange(values...),
			ValueFormatter: amountFormatter(c),
		},
		Bars: []chart.Value{
			{Label: "Total Income", Value: values[0], Style: barStyle(chart.ColorGreen)},
			{Label: "Total Expenses", Value: values[1], Style: barStyle(chart.ColorRed)},
			{Label: "Current Balance", Value: values[2], Style: barStyle(balanceColor)},
		},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render balance chart: %w", err)
	}
	return buf.Bytes(), nil
}

// CategoryChart draws a pie of category totals, largest first. Non-positive
// totals are skipped; nil is returned when nothing is left.
func CategoryChart(title string, byCategory map[string]decimal.Decimal) ([]byte, error) {
	var total float64
	var values []chart.Value
	for _, name := range ledger.SortedCategories(byCategory) {
		v := byCategory[name].InexactFloat64()
		if v <= 0 {
			continue
		}
		total += v
		values = append(values, chart.Value{Label: name, Value: v})
	}
	if len(values) == 0 {
		return nil, nil
	}
	for i := range values {
		values[i].Label = fmt.Sprintf("%s (%.1f%%)", values[i].Label, values[i].Value/total*100)
	}

	pie := chart.PieChart{
		Title:      title,
		Width:      width,
		Height:     height,
		Background: background,
		Values:     values,
	}

	var buf bytes.Buffer
	if err := pie.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render %s chart: %w", title, err)
	}
	return buf.Bytes(), nil
}

// TrendChart draws income, expenses and net per month. It returns nil for an
// empty series.
func TrendChart(points []core.TrendPoint, c core.Currency) ([]byte, error) {
	if len(points) == 0 {
		return nil, nil
	}

	n := len(points)
	xs := make([]float64, n)
	income := make([]float64, n)
	expenses := make([]float64, n)
	net := make([]float64, n)
	// Padding ticks keep a single month from collapsing the x range.
	ticks := []chart.Tick{{Value: -0.5}}
	for i, p := range points {
		xs[i] = float64(i)
		income[i] = p.Income.InexactFloat64()
		expenses[i] = p.Expenses.InexactFloat64()
		net[i] = p.Net.InexactFloat64()
		ticks = append(ticks, chart.Tick{Value: float64(i), Label: p.Month})
	}
	ticks = append(ticks, chart.Tick{Value: float64(n) - 0.5})

	all := append(append(append([]float64{}, income...), expenses...), net...)

	graph := chart.Chart{
		Title:      "Financial Trends Over Time",
		Width:      width,
		Height:     height,
		Background: background,
		XAxis: chart.XAxis{
			Name:  "Month",
			Ticks: ticks,
		},
		YAxis: chart.YAxis{
			Name:           fmt.Sprintf("Amount (%s)", c.Symbol()),
			Range:          valueRange(all...),
			ValueFormatter: amountFormatter(c),
		},
		Series: []chart.Series{
			lineSeries("Income", xs, income, chart.ColorGreen),
			lineSeries("Expenses", xs, expenses, chart.ColorRed),
			lineSeries("Net Income", xs, net, chart.ColorBlue),
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render trend chart: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderDashboard renders every chart concurrently and writes the non-empty ones
// to dir. It returns the written paths in a fixed order.
func RenderDashboard(ctx context.Context, dir string, d Dashboard, logger *applog.Logger) ([]string, error) {
	if logger == nil {
		logger = applog.Discard()
	}
	logger = logger.WithComponent(applog.ComponentCharts)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create chart directory: %w", err)
	}

	jobs := []struct {
		file   string
		render func() ([]byte, error)
	}{
		{BalanceFile, func() ([]byte, error) { return BalanceChart(d.Balance, d.Currency) }},
		{IncomeFile, func() ([]byte, error) { return CategoryChart("Income by Category", d.Breakdown.IncomeByCategory) }},
		{ExpensesFile, func() ([]byte, error) { return CategoryChart("Expenses by Category", d.Breakdown.ExpenseByCategory) }},
		{TrendFile, func() ([]byte, error) { return TrendChart(d.Trend, d.Currency) }},
	}

	written := make([]string, len(jobs))
	g, ctx := errgroup.WithContext(ctx)
	for i, job := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			png, err := job.render()
			if err != nil {
				return err
			}
			if png == nil {
				logger.DebugContext(ctx, "No data for chart", applog.FieldPath, job.file)
				return nil
			}
			path := filepath.Join(dir, job.file)
			if err := os.WriteFile(path, png, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", job.file, err)
			}
			written[i] = path
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []string
	for _, p := range written {
		if p != "" {
			out = append(out, p)
		}
	}
	logger.InfoContext(ctx, "Dashboard rendered", applog.FieldPath, dir, applog.FieldCount, len(out))
	return out, nil
}

func lineSeries(name string, xs, ys []float64, color drawing.Color) chart.ContinuousSeries {
	return chart.ContinuousSeries{
		Name:    name,
		XValues: xs,
		YValues: ys,
		Style: chart.Style{
			StrokeColor: color,
			StrokeWidth: 2,
			DotColor:    color,
			DotWidth:    4,
		},
	}
}

func barStyle(color drawing.Color) chart.Style {
	return chart.Style{
		FillColor:   color.WithAlpha(180),
		StrokeColor: color,
		StrokeWidth: 1,
	}
}

// valueRange spans the values and zero, never collapsing to an empty range.
func valueRange(values ...float64) *chart.ContinuousRange {
	lo, hi := 0.0, 0.0
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if hi == lo {
		hi = lo + 1
	}
	return &chart.ContinuousRange{Min: lo, Max: hi * 1.1}
}

func amountFormatter(c core.Currency) chart.ValueFormatter {
	return func(v interface{}) string {
		f, ok := v.(float64)
		if !ok {
			return fmt.Sprint(v)
		}
		return core.FormatAmount(decimal.NewFromFloat(f), c)
	}
}
