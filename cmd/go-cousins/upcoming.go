package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/tartampluch/go-cousins/internal/config"
	"github.com/tartampluch/go-cousins/internal/engine"
	"github.com/tartampluch/go-cousins/internal/roster"
	"github.com/tartampluch/go-cousins/internal/ui"
)

func newUpcomingCmd(opts *cliOptions) *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "upcoming",
		Short: config.CmdShortUpcoming,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := opts.settings(cmd)
			if err != nil {
				return err
			}
			store, err := loadStore(s)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed(config.FlagDays) {
				days = s.UpcomingDays
			}

			l := ui.NewTranslator().Localizer(s.Language)
			return runUpcoming(cmd.OutOrStdout(), l, store, engine.Today(engine.RealClock{}), days)
		},
	}
	cmd.Flags().IntVar(&days, config.FlagDays, config.DefaultUpcomingDays, config.FlagDescDays)
	return cmd
}

func runUpcoming(w io.Writer, l *ui.Localizer, store *roster.Store, today engine.CalendarDate, days int) error {
	days = max(days, 0)
	upcoming := engine.UpcomingBirthdays(store.Rows(today), today, days)
	if len(upcoming) == 0 {
		_, err := fmt.Fprintf(w, config.MsgUpcomingNone, days)
		return err
	}

	for _, u := range upcoming {
		when := l.Msg(config.TKeyUpcomingToday)
		if u.DaysAway > 0 {
			when = l.Plural(config.TKeyUpcomingIn, u.DaysAway)
		}
		name := u.Row.Name
		if name == "" {
			name = l.Msg(config.TKeyUnnamed)
		}
		if _, err := fmt.Fprintf(w, config.MsgUpcomingLine, l.Date(u.Date), name, u.Turning, when); err != nil {
			return err
		}
	}
	return nil
}
