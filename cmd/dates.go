package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/dutymgr/dutymgr/core/model"
	"github.com/dutymgr/dutymgr/core/roster"
)

var (
	datesStart   string
	datesWeeks   int
	datesMidweek string
	datesWeekend string
	datesOmit    []string
)

var datesCmd = &cobra.Command{
	Use:   "dates",
	Short: "Preview the meeting dates for a window",
	RunE:  dates,
}

func init() {
	datesCmd.Flags().StringVar(&datesStart, "start", "", "window start date (YYYY-MM-DD)")
	datesCmd.Flags().IntVar(&datesWeeks, "weeks", 8, "number of weeks")
	datesCmd.Flags().StringVar(&datesMidweek, "midweek", "Wednesday", "midweek meeting day")
	datesCmd.Flags().StringVar(&datesWeekend, "weekend", "Sunday", "weekend meeting day")
	datesCmd.Flags().StringArrayVar(&datesOmit, "omit", nil, "dates to omit (repeatable)")
	rootCmd.AddCommand(datesCmd)
}

func dates(cmd *cobra.Command, args []string) error {
	start, err := model.ParseDate(datesStart)
	if err != nil {
		return fmt.Errorf("parse start: %w", err)
	}
	midweek, err := parseWeekday(datesMidweek)
	if err != nil {
		return err
	}
	weekend, err := parseWeekday(datesWeekend)
	if err != nil {
		return err
	}
	omitted := make([]model.Date, 0, len(datesOmit))
	for _, raw := range datesOmit {
		d, err := model.ParseDate(raw)
		if err != nil {
			return fmt.Errorf("parse omitted date %q: %w", raw, err)
		}
		omitted = append(omitted, d)
	}

	days := roster.MeetingDays{Midweek: midweek, Weekend: weekend}
	seq, err := roster.GenerateDates(start, datesWeeks, days, omitted, nil)
	if err != nil {
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Date", "Day", "Kind"})
	for _, occ := range seq {
		t.AppendRow(table.Row{occ.Date, occ.Weekday, occ.Kind})
	}
	t.Render()
	return nil
}

func parseWeekday(name string) (time.Weekday, error) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(d.String(), name) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", name)
}
