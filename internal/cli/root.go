// Package cli implements the shapeval command line: validating JSON or YAML
// documents against a schema file and exporting its JSON Schema.
package cli

import (
	"log/slog"
	"os"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

type options struct {
	cfg    Config
	logger *slog.Logger
}

// NewRootCmd builds the command tree with cfg as flag defaults.
func NewRootCmd(cfg Config) *cobra.Command {
	o := &options{cfg: cfg}

	root := &cobra.Command{
		Use:   "shapeval",
		Short: "Validate loosely typed documents against declarative object schemas",
		Long: `shapeval checks JSON or YAML documents against a schema file, reporting
violations per dotted field path, and exports schemas as JSON Schema.`,
		SilenceUsage: true,
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			lvl, err := parseLevel(o.cfg.LogLevel)
			if err != nil {
				return err
			}
			o.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: lvl}))
			return nil
		},
	}

	root.PersistentFlags().StringVar(&o.cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&o.cfg.Indent, "indent", cfg.Indent, "indent JSON output")

	root.AddCommand(newCheckCmd(o), newSchemaCmd(o))
	return root
}

// Execute runs the CLI against the process arguments. Exit code 1 indicates
// an error or an invalid input.
func Execute() {
	cfg, err := LoadConfig()
	if err != nil {
		slog.Error("load configuration", "err", err)
		os.Exit(1)
	}
	if err := NewRootCmd(cfg).Execute(); err != nil {
		os.Exit(1)
	}
}

func (o *options) encode(cmd *cobra.Command, v any) error {
	var (
		b   []byte
		err error
	)
	if o.cfg.Indent {
		b, err = json.MarshalIndent(v, "", "  ")
	} else {
		b, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}
	b = append(b, '\n')
	_, err = cmd.OutOrStdout().Write(b)
	return err
}
