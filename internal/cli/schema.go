package cli

import (
	"github.com/spf13/cobra"

	"github.com/reoring/shapeval"
	"github.com/reoring/shapeval/schemafile"
)

func newSchemaCmd(o *options) *cobra.Command {
	var schemaPath string

	cmd := &cobra.Command{
		Use:   "schema --schema FILE",
		Short: "Print the JSON Schema of a schema file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			node, err := schemafile.Load(schemaPath)
			if err != nil {
				return err
			}
			sch, err := shapeval.ExportJSONSchema(node)
			if err != nil {
				return err
			}
			o.logger.Debug("schema exported", "path", schemaPath, "type", sch.Type)
			return o.encode(cmd, sch)
		},
	}

	cmd.Flags().StringVarP(&schemaPath, "schema", "s", "", "schema document (YAML or JSON)")
	_ = cmd.MarkFlagRequired("schema")
	return cmd
}
