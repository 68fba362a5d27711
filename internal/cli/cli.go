// Package cli provides the command-line interface for apicontract.
package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/GabrielNunesIT/apicontract/internal/adapters/form"
	"github.com/GabrielNunesIT/apicontract/internal/adapters/openapi"
	"github.com/GabrielNunesIT/apicontract/internal/adapters/schema"
	"github.com/GabrielNunesIT/apicontract/internal/config"
	"github.com/GabrielNunesIT/apicontract/internal/model"
	"github.com/GabrielNunesIT/apicontract/internal/validation"
	"github.com/GabrielNunesIT/go-libs/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// CLI holds the command-line interface configuration.
type CLI struct {
	log     logger.ILogger
	rootCmd *cobra.Command

	configFile string
	specFile   string
	logLevel   string

	// describe
	format     string
	outputFile string

	// validate
	path        string
	method      string
	contentType string
	bodyFile    string
}

// New creates a new CLI instance.
func New(log logger.ILogger) *CLI {
	cli := &CLI{
		log: log,
	}

	cli.rootCmd = &cobra.Command{
		Use:           "apicontract",
		Short:         "Inspect OpenAPI contracts and validate request bodies against them",
		Long:          "A CLI tool that loads an OpenAPI 3.x or Swagger 2.0 contract into a resource model, renders it as a document and validates request bodies against its schemas.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cli.setupFlags()
	cli.rootCmd.AddCommand(cli.describeCommand(), cli.validateCommand(), cli.resourcesCommand())

	return cli
}

func (c *CLI) setupFlags() {
	flags := c.rootCmd.PersistentFlags()
	flags.StringVar(&c.configFile, "config", "", "Path to a configuration file")
	flags.StringVarP(&c.specFile, "spec", "s", "", "Path to the contract file (overrides the spec config key)")
	flags.StringVar(&c.logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides the log_level config key)")
}

// Execute runs the CLI.
func (c *CLI) Execute() error {
	return c.rootCmd.Execute()
}

// app is everything a command needs once the contract is loaded.
type app struct {
	cfg  *config.Config
	spec *model.Specification
	log  zerolog.Logger
}

// loadConfig merges the configuration file, the environment and the persistent flags.
func (c *CLI) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.configFile)
	if err != nil {
		return nil, err
	}

	if c.specFile != "" {
		cfg.Spec = c.specFile
	}
	if c.logLevel != "" {
		cfg.LogLevel = c.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.Spec == "" {
		return nil, errors.New("no contract file: pass --spec or set spec in the configuration")
	}

	return cfg, nil
}

func (c *CLI) load(cmd *cobra.Command) (*app, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}

	zl, err := newLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}

	c.log.Infof("Loading contract from: %s", cfg.Spec)

	doc, err := openapi.LoadFile(cmd.Context(), cfg.Spec, openapi.WithValidation(cfg.ValidateSpec))
	if err != nil {
		return nil, fmt.Errorf("failed to load contract: %w", err)
	}

	validator, err := schema.New(cfg.SchemaEngine)
	if err != nil {
		return nil, err
	}

	spec := model.New(doc,
		model.WithSchemaValidator(validator),
		model.WithLogger(zl),
		model.WithWarmConcurrency(cfg.WarmConcurrency),
	)

	if err := spec.Warm(cmd.Context()); err != nil {
		return nil, err
	}

	c.log.Infof("Loaded API: %s (v%s), %d resources", spec.Title(), spec.Version(), len(spec.Resources()))

	return &app{cfg: cfg, spec: spec, log: zl}, nil
}

// validator builds the body validator, with the configured form expression if any.
func (a *app) validator() (*validation.BodyValidator, error) {
	opts := []validation.Option{validation.WithLogger(a.log)}

	if a.cfg.FormExpression != "" {
		expr, err := form.NewExpression(a.cfg.FormExpression)
		if err != nil {
			return nil, err
		}
		opts = append(opts, validation.WithExtractor(expr))
	}

	return validation.NewBodyValidator(opts...), nil
}

func newLogger(cfg *config.Config, out io.Writer) (zerolog.Logger, error) {
	lvl, err := cfg.Level()
	if err != nil {
		return zerolog.Nop(), err
	}

	return zerolog.New(zerolog.ConsoleWriter{Out: out}).Level(lvl).With().Timestamp().Logger(), nil
}
