package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Online-Ugyvitel/ddata-core/internal/common/pagination"
	"github.com/Online-Ugyvitel/ddata-core/internal/domain/model"
	"github.com/Online-Ugyvitel/ddata-core/internal/infra/adapter/persistence/postgres"
	"github.com/Online-Ugyvitel/ddata-core/internal/infra/adapter/persistence/sqlite"
	"github.com/Online-Ugyvitel/ddata-core/internal/infra/db"
	"github.com/Online-Ugyvitel/ddata-core/internal/infra/restclient"
	"github.com/Online-Ugyvitel/ddata-core/internal/observability/logging"
	"github.com/Online-Ugyvitel/ddata-core/internal/repository"
	"github.com/Online-Ugyvitel/ddata-core/internal/resilience/circuitbreaker"
	"github.com/Online-Ugyvitel/ddata-core/internal/usecase/record"
)

// opener connects a payload repository; the returned func releases it.
type opener func(ctx context.Context) (repository.PayloadRepository, func(), error)

func (c *cli) storeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Read and write records in the local payload store",
	}
	c.addRecordCmds(cmd, c.openStore)
	return cmd
}

func (c *cli) remoteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remote",
		Short: "Read and write records through the REST API",
	}
	c.addRecordCmds(cmd, c.openRemote)
	return cmd
}

// fetchCmd is a shorthand for "remote get".
func (c *cli) fetchCmd() *cobra.Command {
	return c.getCmd("fetch <id>...", "Fetch records from the REST API", c.openRemote)
}

func (c *cli) openStore(ctx context.Context) (repository.PayloadRepository, func(), error) {
	driver := c.cfg.Store.Driver
	sqlDB, err := db.Open(ctx, driver, c.cfg.Store.DSN, db.ConnectionConfigFromEnv())
	if err != nil {
		return nil, nil, err
	}
	if err := db.MigrateUp(ctx, sqlDB, driver); err != nil {
		_ = sqlDB.Close()
		return nil, nil, err
	}

	q := circuitbreaker.NewDB(sqlDB)
	c.addProbe(healthProbe{Name: "store:" + driver, Open: q.IsOpen})

	var repo repository.PayloadRepository
	if driver == db.DriverPostgres {
		repo = postgres.NewPayloadRepo(q)
	} else {
		repo = sqlite.NewPayloadRepo(q)
	}
	return repo, func() { _ = sqlDB.Close() }, nil
}

func (c *cli) openRemote(_ context.Context) (repository.PayloadRepository, func(), error) {
	if c.cfg.API.BaseURL == "" {
		return nil, nil, fmt.Errorf("no REST API configured: set api.base_url or DDATA_API_BASE_URL")
	}
	client, err := restclient.New(c.cfg.RESTClient())
	if err != nil {
		return nil, nil, err
	}
	c.addProbe(healthProbe{Name: "rest-api", Open: client.BreakerOpen})
	return restclient.AsRepository(client), func() {}, nil
}

func (c *cli) service(repo repository.PayloadRepository) (*record.Service[model.Record], error) {
	factory, err := c.factory()
	if err != nil {
		return nil, err
	}
	svc := record.NewService(repo, factory)
	svc.Workers = c.cfg.Workers
	svc.Pagination = c.cfg.PaginationDefaults()
	return svc, nil
}

func (c *cli) addRecordCmds(parent *cobra.Command, open opener) {
	parent.AddCommand(
		c.putCmd(open),
		c.getCmd("get <id>...", "Load records by id", open),
		c.listCmd(open),
		c.deleteCmd(open),
	)
}

func (c *cli) putCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "put <file|->",
		Short: "Validate a payload file and save it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.readPayload(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			repo, closeFn, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()
			svc, err := c.service(repo)
			if err != nil {
				return err
			}

			r := svc.Hydrate(p)
			id, err := svc.Save(cmd.Context(), r)
			if err != nil {
				return err
			}
			logging.FromContext(cmd.Context()).Info("record saved",
				slog.String("model", r.ModelName()),
				slog.String("id", id.String()))
			return c.writePayload(cmd.OutOrStdout(), model.PrepareToSave(r))
		},
	}
}

func (c *cli) getCmd(use, short string, open opener) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, closeFn, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()
			svc, err := c.service(repo)
			if err != nil {
				return err
			}

			ids := make([]model.ID, len(args))
			for i, a := range args {
				ids[i] = parseID(a)
			}
			records, err := svc.LoadMany(cmd.Context(), ids)
			if err != nil {
				return err
			}
			for _, r := range records {
				if err := c.writePayload(cmd.OutOrStdout(), model.PrepareToSave(r)); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func (c *cli) listCmd(open opener) *cobra.Command {
	var params pagination.Params
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List one page of records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, closeFn, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()
			svc, err := c.service(repo)
			if err != nil {
				return err
			}

			res, err := svc.Page(cmd.Context(), params)
			if err != nil {
				return err
			}
			out := model.PrepareToSave(res)
			out["last_page"] = int64(res.LastPage())
			return c.writePayload(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().IntVar(&params.Page, "page", 0, "page number (default 1)")
	cmd.Flags().IntVar(&params.PerPage, "per-page", 0, "page size (default from configuration)")
	return cmd
}

func (c *cli) deleteCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, closeFn, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()
			svc, err := c.service(repo)
			if err != nil {
				return err
			}
			if err := svc.Delete(cmd.Context(), parseID(args[0])); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}
}
