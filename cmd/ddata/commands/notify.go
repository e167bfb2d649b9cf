package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Online-Ugyvitel/ddata-core/internal/domain/entity"
	"github.com/Online-Ugyvitel/ddata-core/internal/domain/model"
	"github.com/Online-Ugyvitel/ddata-core/internal/observability/logging"
	"github.com/Online-Ugyvitel/ddata-core/internal/usecase/record"
)

// notifyCmd builds a notification on behalf of the configured user. Its
// created time comes from the ambient clock.
func (c *cli) notifyCmd() *cobra.Command {
	var (
		title   string
		typ     string
		seconds int
		save    bool
	)

	cmd := &cobra.Command{
		Use:   "notify <text>",
		Short: "Create a notification payload, optionally saving it to the store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ambient := c.cfg.Ambient()
			n := entity.NewNotification(ambient.Clock, args[0], title, typ, entity.WithSeconds(seconds))

			log := logging.FromContext(ctx).With(
				slog.String("user_id", ambient.CurrentUserID().String()),
				slog.String("date", ambient.CurrentISODate()))

			if save {
				repo, closeFn, err := c.openStore(ctx)
				if err != nil {
					return err
				}
				defer closeFn()

				svc := record.NewService(repo, func() model.Record { return entity.BlankNotification() })
				if _, err := svc.Save(ctx, n); err != nil {
					return err
				}
				log.Info("notification saved", slog.String("id", n.ID.String()))
			} else {
				log.Debug("notification created", slog.String("id", n.ID.String()))
			}
			return c.writePayload(cmd.OutOrStdout(), n.PrepareToSave())
		},
	}

	f := cmd.Flags()
	f.StringVar(&title, "title", "", "notification title")
	f.StringVar(&typ, "type", entity.NotificationInfo, "success, error, warning or info")
	f.IntVar(&seconds, "seconds", 5, "offset of the created time from now, negative for the past")
	f.BoolVar(&save, "save", false, "save the notification to the local payload store")
	return cmd
}
