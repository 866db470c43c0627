package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sarchlab/clocktree/recording"
)

var (
	recordType string
	recordDB   string
	recordDSN  string
)

func recorderConfig() recording.RecorderConfig {
	path := recordDB
	if path == "" {
		path = cfg.DB
	}

	return recording.RecorderConfig{
		Type:    recordType,
		Path:    path,
		ConnStr: recordDSN,
	}
}

var recordCmd = &cobra.Command{
	Use:   "record [commands...]",
	Short: "Run console commands and record the clock events.",
	Long: "Run console commands like `run` does, recording every clock event " +
		"into a database, together with a snapshot of the tree before and " +
		"after the commands.",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}

		recorder, err := recording.NewDataRecorderWithConfig(recorderConfig())
		if err != nil {
			return err
		}
		defer recorder.Close()

		recording.RecordSnapshot(s.reg, recorder, "before")

		events := recording.NewEventRecorder(recorder)
		s.reg.AcceptHook(events)

		cmdErr := s.console(cmd.OutOrStdout()).Exec(strings.Join(args, "\n"))

		recording.RecordSnapshot(s.reg, recorder, "after")

		fmt.Fprintf(os.Stderr, "Recorded session %s\n", events.Session())

		return cmdErr
	},
}

var (
	eventsClock string
	eventsLimit int
)

var eventsCmd = &cobra.Command{
	Use:   "events <database file>",
	Short: "Print the clock events of a SQLite recording.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reader, err := recording.NewReader(args[0])
		if err != nil {
			return err
		}
		defer reader.Close()

		reader.MapTable(recording.EventTable, recording.Event{})

		params := recording.QueryParams{
			OrderBy: "Time",
			Limit:   eventsLimit,
		}

		if eventsClock != "" {
			params.Where = "Clock = ?"
			params.Args = []any{eventsClock}
		}

		results, total, err := reader.Query(
			context.Background(), recording.EventTable, params)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "TIME\tKIND\tCLOCK\tRATE\tUSERS\tDETAIL")

		for _, r := range results {
			e := r.(*recording.Event)

			detail := ""
			switch {
			case e.From != "" || e.To != "":
				detail = e.From + " -> " + e.To
			case e.OldRate != e.NewRate && e.OldRate != 0:
				detail = fmt.Sprintf("from %d", e.OldRate)
			}

			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\n",
				e.Time, e.Kind, e.Clock, e.NewRate, e.Usage, detail)
		}

		if err := w.Flush(); err != nil {
			return err
		}

		if total > len(results) {
			fmt.Fprintf(cmd.OutOrStdout(), "%d of %d events\n", len(results), total)
		}

		return nil
	},
}

func init() {
	recordCmd.Flags().StringVar(&recordType, "type", "sqlite",
		"recorder backend: sqlite or clickhouse")
	recordCmd.Flags().StringVar(&recordDB, "db", "",
		"SQLite database name without extension, CLKTREE_DB if empty")
	recordCmd.Flags().StringVar(&recordDSN, "dsn", "",
		"ClickHouse DSN, such as clickhouse://localhost:9000/clocks")

	eventsCmd.Flags().StringVar(&eventsClock, "clock", "",
		"only print the events of this clock")
	eventsCmd.Flags().IntVar(&eventsLimit, "limit", 0,
		"maximum number of events to print")

	rootCmd.AddCommand(recordCmd, eventsCmd)
}
