package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Online-Ugyvitel/ddata-core/internal/domain/entity"
	"github.com/Online-Ugyvitel/ddata-core/internal/domain/model"
	"github.com/Online-Ugyvitel/ddata-core/internal/observability/metrics"
)

// hydrateCmd prints the saved form of a payload file: every field present,
// defaults filled in, ids and times normalised.
func (c *cli) hydrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hydrate <file|->",
		Short: "Hydrate a payload file into a record and print its saved payload",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			factory, err := c.factory()
			if err != nil {
				return err
			}
			p, err := c.readPayload(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			r := model.Init(factory(), p)
			metrics.RecordHydration(r.ModelName())
			return c.writePayload(cmd.OutOrStdout(), model.PrepareToSave(r))
		},
	}
}

// errInvalid makes validate exit non-zero after the field report is printed.
var errInvalid = errors.New("record is invalid")

func (c *cli) validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file|->",
		Short: "Validate a payload file against the rules of its record type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			factory, err := c.factory()
			if err != nil {
				return err
			}
			p, err := c.readPayload(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			r := model.Init(factory(), p)

			out := cmd.OutOrStdout()
			checkErr := entity.Check(r)
			var recErr *entity.RecordError
			if !errors.As(checkErr, &recErr) {
				metrics.RecordValidation(r.ModelName(), nil)
				fmt.Fprintf(out, "%s: valid\n", r.ModelName())
				return nil
			}

			metrics.RecordValidation(r.ModelName(), recErr.FieldNames())
			fmt.Fprintf(out, "%s: invalid\n", r.ModelName())
			for _, f := range recErr.Fields {
				fmt.Fprintf(out, "  %s: %s\n", f.Field, f.Message)
			}
			return errInvalid
		},
	}
}
