package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/tartampluch/go-cousins/internal/config"
	"github.com/tartampluch/go-cousins/internal/engine"
	"github.com/tartampluch/go-cousins/internal/roster"
	"github.com/tartampluch/go-cousins/internal/ui"
)

type listFlags struct {
	query         string
	hideDeceased  bool
	youngestFirst bool
	json          bool
}

func newListCmd(opts *cliOptions) *cobra.Command {
	lf := &listFlags{}
	cmd := &cobra.Command{
		Use:   "list",
		Short: config.CmdShortList,
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

			filter := engine.FilterOptions{
				Query:        lf.query,
				ShowDeceased: s.DefaultShowDeceased(),
				OldestFirst:  s.DefaultOldestFirst(),
			}
			if cmd.Flags().Changed(config.FlagHideDeceased) {
				filter.ShowDeceased = !lf.hideDeceased
			}
			if cmd.Flags().Changed(config.FlagYoungestFirst) {
				filter.OldestFirst = !lf.youngestFirst
			}

			l := ui.NewTranslator().Localizer(s.Language)
			return runList(cmd.OutOrStdout(), l, store, engine.Today(engine.RealClock{}), filter, lf.json)
		},
	}

	f := cmd.Flags()
	f.StringVar(&lf.query, config.FlagQuery, "", config.FlagDescQuery)
	f.BoolVar(&lf.hideDeceased, config.FlagHideDeceased, false, config.FlagDescHideDeceased)
	f.BoolVar(&lf.youngestFirst, config.FlagYoungestFirst, false, config.FlagDescYoungestFirst)
	f.BoolVar(&lf.json, config.FlagJSON, false, config.FlagDescJSON)
	return cmd
}

func runList(w io.Writer, l *ui.Localizer, store *roster.Store, today engine.CalendarDate, filter engine.FilterOptions, asJSON bool) error {
	rows := engine.FilterSort(store.Rows(today), filter)

	if asJSON {
		if rows == nil {
			rows = []engine.ComputedRow{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	cells := make([][]string, 0, len(rows))
	for _, row := range rows {
		passed := ""
		status := l.Msg(config.TKeyStatusAlive)
		if row.Deceased() {
			passed = l.Date(row.PassedEffective)
			status = l.Msg(config.TKeyStatusDeceased)
		}
		name := row.Name
		if name == "" {
			name = l.Msg(config.TKeyUnnamed)
		}
		cells = append(cells, []string{name, l.Date(row.Birth), passed, l.Age(row), status})
	}

	headers := []string{config.ColName, config.ColBorn, config.ColPassed, config.ColAge, config.ColStatus}
	if _, err := io.WriteString(w, renderTable(headers, cells)); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, config.MsgListFooter, len(rows), store.Len())
	return err
}

// loadStore reads the configured data file for one-shot commands.
func loadStore(s config.Settings) (*roster.Store, error) {
	store := roster.NewStore(s.DataFile)
	if err := store.Load(); err != nil {
		return nil, err
	}
	return store, nil
}
