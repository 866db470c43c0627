package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"github.com/sarchlab/clocktree/console"
	"github.com/sarchlab/clocktree/monitoring"
	"github.com/sarchlab/clocktree/recording"
)

var (
	servePort   int
	serveOpen   bool
	serveMDNS   bool
	serveRecord bool
	serveScript string
)

// runScript runs console commands while the monitor serves, tracking them on
// a progress bar of the monitor page.
func runScript(
	m *monitoring.Monitor,
	s *session,
	name, input string,
	out io.Writer,
) error {
	script, err := console.Parse(input)
	if err != nil {
		return err
	}

	bar := m.CreateProgressBar("script "+name, uint64(len(script.Commands)))
	defer m.CompleteProgressBar(bar)

	return s.consoleBuilder(out).WithTracker(bar).Build().Run(script)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the clock tree over HTTP until interrupted.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}

		var script []byte
		if serveScript != "" {
			script, err = os.ReadFile(serveScript)
			if err != nil {
				return err
			}
		}

		if serveRecord {
			recorder, err := recording.NewDataRecorderWithConfig(recorderConfig())
			if err != nil {
				return err
			}
			defer recorder.Close()

			s.reg.AcceptHook(recording.NewEventRecorder(recorder))
		}

		port := servePort
		if !cmd.Flags().Changed("port") && cfg.Port != 0 {
			port = cfg.Port
		}

		m := monitoring.NewMonitor(s.reg).WithPortNumber(port)
		m.RegisterPowerManager(s.pm)

		if s.irq != nil {
			m.RegisterEPLD(s.irq)
		}

		url := m.StartServer()

		if script != nil {
			go func() {
				err := runScript(m, s, serveScript, string(script), cmd.OutOrStdout())
				if err != nil {
					fmt.Fprintf(os.Stderr, "Script %s: %v\n", serveScript, err)
				}
			}()
		}

		if serveMDNS {
			err := m.Advertise(s.board.Name, "board="+s.board.Name)
			if err != nil {
				return err
			}
		}

		if serveOpen {
			if err := browser.OpenURL(url); err != nil {
				fmt.Fprintf(os.Stderr, "Cannot open browser: %v\n", err)
			}
		}

		ctx, stop := signal.NotifyContext(context.Background(),
			os.Interrupt, syscall.SIGTERM)
		defer stop()

		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(),
			5*time.Second)
		defer cancel()

		return m.Shutdown(shutdownCtx)
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0,
		"port to listen on, CLKTREE_PORT or a random one if not set")
	serveCmd.Flags().BoolVar(&serveOpen, "open", false,
		"open the monitor in a browser")
	serveCmd.Flags().BoolVar(&serveMDNS, "mdns", false,
		"advertise the monitor on the local network")
	serveCmd.Flags().BoolVar(&serveRecord, "record", false,
		"record the clock events into a SQLite database")
	serveCmd.Flags().StringVarP(&serveScript, "script", "f", "",
		"console script to run in the background while serving")

	rootCmd.AddCommand(serveCmd)
}
