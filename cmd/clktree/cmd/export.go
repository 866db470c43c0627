package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fxamacker/cbor/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sarchlab/clocktree/clock"
)

var (
	exportFormat string
	exportOutput string
)

// exportedClock is the layout of an exported clock in every format.
type exportedClock struct {
	Name         string   `json:"name" yaml:"name" cbor:"name"`
	Parent       string   `json:"parent,omitempty" yaml:"parent,omitempty" cbor:"parent,omitempty"`
	Rate         uint64   `json:"rate" yaml:"rate" cbor:"rate"`
	NominalRate  uint64   `json:"nominal_rate,omitempty" yaml:"nominal_rate,omitempty" cbor:"nominal_rate,omitempty"`
	UsageCount   int      `json:"usage_count" yaml:"usage_count" cbor:"usage_count"`
	Enabled      bool     `json:"enabled" yaml:"enabled" cbor:"enabled"`
	Flags        string   `json:"flags,omitempty" yaml:"flags,omitempty" cbor:"flags,omitempty"`
	Capabilities string   `json:"capabilities,omitempty" yaml:"capabilities,omitempty" cbor:"capabilities,omitempty"`
	Aliases      []string `json:"aliases,omitempty" yaml:"aliases,omitempty" cbor:"aliases,omitempty"`
}

func exportClocks(infos []clock.Info) []exportedClock {
	clocks := make([]exportedClock, 0, len(infos))

	for _, info := range infos {
		clocks = append(clocks, exportedClock{
			Name:         info.Name,
			Parent:       info.Parent,
			Rate:         uint64(info.Rate),
			NominalRate:  uint64(info.NominalRate),
			UsageCount:   info.UsageCount,
			Enabled:      info.Enabled,
			Flags:        info.Flags,
			Capabilities: info.Capabilities,
			Aliases:      info.Aliases,
		})
	}

	return clocks
}

func writeExport(w io.Writer, format string, infos []clock.Info) error {
	clocks := exportClocks(infos)

	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		return enc.Encode(clocks)
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()

		return enc.Encode(clocks)
	case "cbor":
		em, err := cbor.CoreDetEncOptions().EncMode()
		if err != nil {
			return err
		}

		return em.NewEncoder(w).Encode(clocks)
	default:
		return fmt.Errorf("unknown export format %q, use json, yaml or cbor",
			format)
	}
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the state of all the clocks.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}

		if exportOutput == "" {
			return writeExport(cmd.OutOrStdout(), exportFormat, s.reg.Snapshot())
		}

		f, err := os.Create(exportOutput)
		if err != nil {
			return err
		}

		if err := writeExport(f, exportFormat, s.reg.Snapshot()); err != nil {
			f.Close()
			return err
		}

		return f.Close()
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "json",
		"output format: json, yaml or cbor")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "",
		"output file, standard output if empty")

	rootCmd.AddCommand(exportCmd)
}
