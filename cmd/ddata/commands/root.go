package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/spf13/cobra"

	"github.com/Online-Ugyvitel/ddata-core/internal/config"
	"github.com/Online-Ugyvitel/ddata-core/internal/domain/entity"
	"github.com/Online-Ugyvitel/ddata-core/internal/domain/model"
	"github.com/Online-Ugyvitel/ddata-core/internal/observability/logging"
)

// cli holds the flags and the state shared by the subcommands.
type cli struct {
	configPath   string
	modelName    string
	inputFormat  string
	outputFormat string
	metricsAddr  string

	cfg    *config.Config
	logger *slog.Logger
	stop   context.CancelFunc

	mu     sync.Mutex
	probes []healthProbe
}

func (c *cli) addProbe(p healthProbe) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.probes = append(c.probes, p)
}

func (c *cli) healthProbes() []healthProbe {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]healthProbe, len(c.probes))
	copy(out, c.probes)
	return out
}

// Execute runs the root command with the process arguments.
func Execute() error {
	return NewRootCmd(os.Stderr).Execute()
}

// NewRootCmd builds the command tree. Logs are written to logOut.
func NewRootCmd(logOut io.Writer) *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:           "ddata",
		Short:         "Hydrate, validate and store ddata record payloads",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			c.cfg = cfg
			c.logger = logging.New(logging.Options{Format: cfg.Log.Format, Level: cfg.Log.Level, Writer: logOut})

			ctx := logging.WithOperationID(cmd.Context(), "")
			ctx = logging.WithLogger(ctx, c.logger)
			ctx, c.stop = context.WithCancel(ctx)
			cmd.SetContext(ctx)

			if c.metricsAddr != "" {
				startMetricsServer(ctx, c.logger, c.metricsAddr, c)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.stop != nil {
				c.stop()
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&c.configPath, "config", "", "YAML config file (DDATA_* environment variables override it)")
	pf.StringVarP(&c.modelName, "model", "m", "folder", fmt.Sprintf("record type, one of %v", entity.ModelNames()))
	pf.StringVar(&c.inputFormat, "input-format", "", "input format: json, yaml or cbor (default: from file extension)")
	pf.StringVarP(&c.outputFormat, "output", "o", "json", "output format: json, yaml or cbor")
	pf.StringVar(&c.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address while running (e.g. :9090)")

	root.AddCommand(
		c.hydrateCmd(),
		c.validateCmd(),
		c.storeCmd(),
		c.remoteCmd(),
		c.fetchCmd(),
		c.modelsCmd(),
		c.notifyCmd(),
	)
	return root
}

// factory returns the constructor of the selected model.
func (c *cli) factory() (func() model.Record, error) {
	return entity.Factory(c.modelName)
}

// modelsCmd lists the known record types.
func (c *cli) modelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the record types and their api endpoints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range entity.ModelNames() {
				f, _ := entity.Factory(name)
				r := f()
				fmt.Fprintf(cmd.OutOrStdout(), "%-14s %-14s %s\n", name, r.ModelName(), r.APIEndpoint())
			}
			return nil
		},
	}
}
