package notifier

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/moznion/go-optional"

	"PriceWatch/internal/calculator"
	"PriceWatch/internal/model"
)

const undefined = "NaN"

// FormatTail renders the last n rows of t with every column.
func FormatTail(t *model.PriceTable, n int) string {
	tail := t.Tail(n)

	headers := []string{"Date"}
	for _, c := range tail.Columns {
		headers = append(headers, c.Label.String())
	}

	rows := make([][]string, tail.Len())
	for i, d := range tail.Dates {
		row := []string{d.Format(time.DateOnly)}
		for _, c := range tail.Columns {
			row = append(row, cell(c.Values[i]))
		}
		rows[i] = row
	}

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...)
	return tbl.String() + "\n"
}

func cell(v optional.Option[float64]) string {
	f, err := v.Take()
	if err != nil {
		return undefined
	}
	return strconv.FormatFloat(f, 'f', 6, 64)
}

// FormatReport formats the tracker report for the latest valid snapshot.
func FormatReport(title string, a *model.Analysis, snap *model.Snapshot, lastN int) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("\n===== %s =====\n", title))
	line(&b, "Ticker", a.Ticker)
	line(&b, "Date", snap.Date.Format(time.DateOnly))
	line(&b, "Price", money(snap.Price))
	for i, name := range snap.Names {
		v := snap.Values[i]
		dist := "n/a"
		if d, err := calculator.PercentDistance(snap.Price, v); err == nil {
			dist = fmt.Sprintf("%+.2f%%", d)
		}
		line(&b, strings.Replace(name, "_", " ", 1), fmt.Sprintf("%s  (%s from price)", money(v), dist))
	}

	b.WriteString(fmt.Sprintf("\nLast %d closing prices:\n", lastN))
	start := a.Price.Len() - lastN
	if start < 0 {
		start = 0
	}
	for i := start; i < a.Price.Len(); i++ {
		v := undefined
		if p, ok := a.Price.At(i); ok {
			v = money(p)
		}
		b.WriteString(fmt.Sprintf("%s    %s\n", a.Price.Dates[i].Format(time.DateOnly), v))
	}
	return b.String()
}

func line(b *strings.Builder, label, value string) {
	b.WriteString(fmt.Sprintf("%-7s %s\n", label+":", value))
}

func money(v float64) string {
	return humanize.FormatFloat("#,###.##", v)
}
