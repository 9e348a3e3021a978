// Package cli implements the attrition command line: local or remote
// predictions, the input schema and the encoded feature vector.
package cli

import (
	"context"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	service "github.com/okian/attrition/internal/app"
	"github.com/okian/attrition/internal/config"
	"github.com/okian/attrition/internal/domain/features"
	"github.com/okian/attrition/pkg/logger"
)

// Predictor runs one prediction for a raw record.
type Predictor interface {
	Predict(ctx context.Context, in features.Input) (service.Result, error)
}

// Option configures the root command.
type Option func(*commandline)

// WithPredictor replaces artifact loading with p for local predictions.
func WithPredictor(p Predictor) Option {
	return func(cl *commandline) { cl.predictor = p }
}

// WithLogWriter sends CLI logs to w instead of stderr.
func WithLogWriter(w io.Writer) Option {
	return func(cl *commandline) { cl.logWriter = w }
}

type commandline struct {
	predictor Predictor
	logWriter io.Writer

	modelPath  string
	scalerPath string
	logLevel   string
	noColor    bool
}

// NewRootCmd builds the attrition command tree.
func NewRootCmd(opts ...Option) *cobra.Command {
	cl := &commandline{}
	for _, opt := range opts {
		opt(cl)
	}

	cmd := &cobra.Command{
		Use:           "attrition",
		Short:         "Predict whether an employee is likely to leave",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return cl.setup(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = logger.Sync()
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&cl.modelPath, "model", "", "classifier artifact path (default from config)")
	pf.StringVar(&cl.scalerPath, "scaler", "", "scaler artifact path (default from config)")
	pf.StringVar(&cl.logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	pf.BoolVar(&cl.noColor, "no-color", false, "disable coloured output")

	cmd.AddCommand(cl.predictCmd(), cl.schemaCmd(), cl.encodeCmd())
	return cmd
}

func (cl *commandline) setup(cmd *cobra.Command) error {
	w := cl.logWriter
	if w == nil {
		w = cmd.ErrOrStderr()
	}
	if err := logger.Init(logger.WithWriter(w)); err != nil {
		return err
	}
	if err := logger.SetLevelString(cl.logLevel); err != nil {
		return err
	}
	if cl.noColor {
		color.NoColor = true
	}
	return nil
}

// localPredictor loads the artifacts named by flags, falling back to the
// layered configuration.
func (cl *commandline) localPredictor(ctx context.Context) (Predictor, error) {
	if cl.predictor != nil {
		return cl.predictor, nil
	}
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}
	modelPath, scalerPath := cfg.ModelPath, cfg.ScalerPath
	if cl.modelPath != "" {
		modelPath = cl.modelPath
	}
	if cl.scalerPath != "" {
		scalerPath = cl.scalerPath
	}
	svc, err := service.Load(ctx, scalerPath, modelPath, service.WithLogger(logger.Named("cli")))
	if err != nil {
		return nil, err
	}
	cl.predictor = svc
	return svc, nil
}
