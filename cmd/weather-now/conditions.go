package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/i474232898/weather-now/internal/weather"
)

type conditionRow struct {
	Condition weather.Condition     `json:"condition"`
	Label     string                `json:"label"`
	Icon      string                `json:"icon"`
	Codes     []weather.WeatherCode `json:"codes"`
}

// conditionTable lists every condition with the WMO codes that map to it.
func conditionTable() []conditionRow {
	codes := map[weather.Condition][]weather.WeatherCode{}
	for code := weather.WeatherCode(0); code <= 99; code++ {
		c := weather.Classify(code)
		if c != weather.ConditionUnknown {
			codes[c] = append(codes[c], code)
		}
	}

	rows := make([]conditionRow, 0, len(weather.Conditions()))
	for _, c := range weather.Conditions() {
		m := c.Metadata()
		rows = append(rows, conditionRow{Condition: c, Label: m.Label, Icon: m.Icon, Codes: append([]weather.WeatherCode{}, codes[c]...)})
	}
	return rows
}

func printConditions(w io.Writer, output string) error {
	rows := conditionTable()
	switch output {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	case "text":
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "CONDITION\tLABEL\tICON\tCODES")
		for _, r := range rows {
			codes := make([]string, 0, len(r.Codes))
			for _, code := range r.Codes {
				codes = append(codes, fmt.Sprint(int(code)))
			}
			list := strings.Join(codes, ",")
			if list == "" {
				list = "-"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.Condition, r.Label, r.Icon, list)
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unknown output format %q", output)
	}
}
