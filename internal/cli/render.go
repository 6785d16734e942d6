package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/menulens/backend/internal/domain"
)

// menuRow is one printed line of a day's menu
type menuRow struct {
	Location  string   `json:"location"`
	Period    string   `json:"period"`
	Item      string   `json:"item"`
	Station   string   `json:"station,omitempty"`
	Calories  *int     `json:"calories,omitempty"`
	Allergens []string `json:"allergens,omitempty"`
}

// menuRows flattens the aggregate result into rows in location, period, item order.
// Periods without items still produce one row with an empty item.
func menuRows(
	locations []domain.Location,
	periods map[int][]domain.MealPeriod,
	items map[domain.MenuKey][]domain.MealItem,
	day time.Time,
) []menuRow {
	rows := []menuRow{}
	for _, loc := range locations {
		for _, p := range periods[loc.ID] {
			list := items[domain.NewMenuKey(loc.ID, p.ID, day)]
			if len(list) == 0 {
				rows = append(rows, menuRow{Location: loc.Name, Period: p.Name})
				continue
			}
			for _, it := range list {
				row := menuRow{
					Location:  loc.Name,
					Period:    p.Name,
					Item:      it.Name,
					Calories:  it.Calories,
					Allergens: it.Allergens,
				}
				if it.Station != nil {
					row.Station = *it.Station
				}
				rows = append(rows, row)
			}
		}
	}
	return rows
}

func renderMenuTable(w io.Writer, rows []menuRow) {
	if len(rows) == 0 {
		_, _ = fmt.Fprintln(w, "(no menu)")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Location", "Period", "Item", "Station", "Calories", "Allergens"})
	for _, r := range rows {
		calories := ""
		if r.Calories != nil {
			calories = fmt.Sprintf("%d", *r.Calories)
		}
		t.AppendRow(table.Row{r.Location, r.Period, r.Item, r.Station, calories, strings.Join(r.Allergens, ", ")})
	}
	t.Render()
}

func renderPeriodsTable(w io.Writer, periods []domain.MealPeriod) {
	sorted := append([]domain.MealPeriod(nil), periods...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "Name"})
	for _, p := range sorted {
		t.AppendRow(table.Row{p.ID, p.Name})
	}
	t.Render()
}

func renderJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
