package main

import (
	"fmt"
	"time"

	"github.com/Veraticus/pocket-ledger/internal/calendar"
	"github.com/Veraticus/pocket-ledger/internal/cli"
	"github.com/Veraticus/pocket-ledger/internal/model"
	"github.com/Veraticus/pocket-ledger/internal/tui/components"
	"github.com/Veraticus/pocket-ledger/internal/tui/themes"
	"github.com/spf13/cobra"
)

func calendarCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Show transactions on a calendar",
		Long: `Show a month grid, a week agenda, a year overview or the
transactions of a single day. Days with transactions are marked with •.`,
	}
	cmd.PersistentFlags().StringVar(&date, "date", "", "reference date as YYYY-MM-DD (default: today)")

	for _, view := range []calendar.View{calendar.ViewMonth, calendar.ViewWeek, calendar.ViewYear} {
		cmd.AddCommand(calendarViewCmd(view, &date))
	}
	cmd.AddCommand(calendarDayCmd(&date))

	return cmd
}

// referenceDate parses --date, defaulting to today.
func referenceDate(date string, now time.Time) (time.Time, error) {
	if date == "" {
		return model.Day(now), nil
	}
	ref, err := model.ParseDate(date)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date: %w", err)
	}
	return ref, nil
}

func calendarViewCmd(view calendar.View, date *string) *cobra.Command {
	return &cobra.Command{
		Use:   string(view),
		Short: fmt.Sprintf("Show the %s view", view),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			l, closeFn, err := openLedger(cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			ref, err := referenceDate(*date, l.Now())
			if err != nil {
				return err
			}

			engine := calendar.NewEngine(calendar.WithClock(l.Now))
			engine.SetDate(ref)
			if err := engine.SwitchView(view); err != nil {
				return err
			}

			s := l.Snapshot()
			theme := themes.ForSettings(s.Settings)
			selected := model.FormatDate(ref)

			var body string
			switch view {
			case calendar.ViewWeek:
				body = components.RenderWeek(theme, engine.Week(s), s.Settings)
			case calendar.ViewYear:
				body = components.RenderYear(theme, engine.Year(s), selected)
			default:
				body = components.RenderMonth(theme, engine.Month(s), selected)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, cli.FormatTitle(engine.Header()))
			fmt.Fprintln(out, body)
			return nil
		},
	}
}

func calendarDayCmd(date *string) *cobra.Command {
	return &cobra.Command{
		Use:   "day",
		Short: "Show the transactions of one day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			l, closeFn, err := openLedger(cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			ref, err := referenceDate(*date, l.Now())
			if err != nil {
				return err
			}

			s := l.Snapshot()
			events := calendar.EventsForDate(s, model.FormatDate(ref))
			fmt.Fprintln(cmd.OutOrStdout(), components.RenderDayDetail(themes.ForSettings(s.Settings), ref, events, s.Settings))
			return nil
		},
	}
}
