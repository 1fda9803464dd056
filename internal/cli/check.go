package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/reoring/shapeval"
	"github.com/reoring/shapeval/schemafile"
)

// ErrInvalidInput is returned by check when at least one input failed to
// decode or validate.
var ErrInvalidInput = errors.New("shapeval: invalid input")

const stdinName = "-"

// report is the JSON line printed for each checked input.
type report struct {
	Input  string           `json:"input"`
	Format string           `json:"format"`
	Result *shapeval.Result `json:"result,omitempty"`
	Error  string           `json:"error,omitempty"`
}

func newCheckCmd(o *options) *cobra.Command {
	var schemaPath string
	format := o.cfg.Format

	cmd := &cobra.Command{
		Use:   "check --schema FILE [FILES...]",
		Short: "Validate documents against a schema file",
		Long: `Validate each JSON or YAML document against the schema file and print one
JSON result per input. With no files, or "-", standard input is read.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			schema, err := schemafile.Load(schemaPath)
			if err != nil {
				return err
			}
			o.logger.Debug("schema loaded", "path", schemaPath)

			if len(args) == 0 {
				args = []string{stdinName}
			}
			failed := 0
			for _, name := range args {
				rep := o.checkOne(cmd, schema, name, format)
				if rep.Result == nil || !rep.Result.Valid {
					failed++
				}
				if err := o.encode(cmd, rep); err != nil {
					return fmt.Errorf("write result: %w", err)
				}
			}
			if failed > 0 {
				return fmt.Errorf("%w: %d of %d inputs", ErrInvalidInput, failed, len(args))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&schemaPath, "schema", "s", "", "schema document (YAML or JSON)")
	cmd.Flags().StringVarP(&format, "format", "f", format, "input format (json, yaml); detected from the extension when empty")
	_ = cmd.MarkFlagRequired("schema")
	return cmd
}

func (o *options) checkOne(cmd *cobra.Command, schema shapeval.Node, name, format string) report {
	if format == "" {
		format = detectFormat(name)
	}
	rep := report{Input: name, Format: format}

	r, closeFn, err := openInput(cmd, name)
	if err != nil {
		o.logger.Warn("open input", "input", name, "err", err)
		rep.Error = err.Error()
		return rep
	}
	defer closeFn()

	src := shapeval.JSONReader(r)
	if format == formatYAML {
		src = shapeval.YAMLReader(r)
	}
	res, err := shapeval.ValidateFrom(src, schema)
	if err != nil {
		o.logger.Warn("decode input", "input", name, "err", err)
		rep.Error = err.Error()
		return rep
	}
	if !res.Valid {
		o.logger.Info("input invalid", "input", name, "issues", len(res.Issues))
	} else {
		o.logger.Debug("input valid", "input", name)
	}
	rep.Result = &res
	return rep
}

func openInput(cmd *cobra.Command, name string) (io.Reader, func(), error) {
	if name == stdinName {
		return cmd.InOrStdin(), func() {}, nil
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { _ = f.Close() }, nil
}

func detectFormat(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return formatYAML
	}
	return formatJSON
}
