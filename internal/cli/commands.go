package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/GabrielNunesIT/apicontract/internal/adapters/converters"
	"github.com/GabrielNunesIT/apicontract/internal/domain"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func (c *CLI) describeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Render the resource model as a document",
		Args:  cobra.NoArgs,
		RunE:  c.runDescribe,
	}

	cmd.Flags().StringVarP(&c.format, "format", "f", "text", "Output format: "+strings.Join(converters.Formats, ", "))
	cmd.Flags().StringVarP(&c.outputFile, "output", "o", "", "Path for the output file (default stdout)")

	return cmd
}

func (c *CLI) runDescribe(cmd *cobra.Command, _ []string) error {
	a, err := c.load(cmd)
	if err != nil {
		return err
	}

	converter, err := converters.New(c.format, a.cfg.APIVersion)
	if err != nil {
		return err
	}

	c.log.Infof("Converting to %s format...", converter.Format())

	output := cmd.OutOrStdout()
	if c.outputFile != "" {
		outputFile, err := os.Create(c.outputFile)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer outputFile.Close()

		output = outputFile
	}

	if err := converter.Convert(a.spec, output); err != nil {
		return fmt.Errorf("conversion failed: %w", err)
	}

	if c.outputFile != "" {
		c.log.Infof("Successfully created: %s", c.outputFile)
	}

	return nil
}

func (c *CLI) validateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a request body against the contract",
		Long:  "Validates a request body against the body declared for a resource and method. The validated body is written to stdout; a body that violates the schema fails with every violation.",
		Args:  cobra.NoArgs,
		RunE:  c.runValidate,
	}

	cmd.Flags().StringVar(&c.path, "path", "", "Resource URI as declared in the contract (required)")
	cmd.Flags().StringVar(&c.method, "method", "", "HTTP method (required)")
	cmd.Flags().StringVar(&c.contentType, "content-type", "", "Content type of the body (default: the only body declared)")
	cmd.Flags().StringVar(&c.bodyFile, "body", "-", "Path of the body file, or - for stdin")

	_ = cmd.MarkFlagRequired("path")
	_ = cmd.MarkFlagRequired("method")

	return cmd
}

func (c *CLI) runValidate(cmd *cobra.Command, _ []string) error {
	a, err := c.load(cmd)
	if err != nil {
		return err
	}

	body, err := c.readBody(cmd.InOrStdin())
	if err != nil {
		return err
	}

	validator, err := a.validator()
	if err != nil {
		return err
	}

	payload := domain.Payload{Body: body, ContentType: c.contentType}

	result, err := validator.ValidateRequest(a.spec, c.path, c.method, payload)
	if err != nil {
		return fmt.Errorf("%s %s: %w", strings.ToUpper(c.method), c.path, err)
	}

	if result.Reason != "" {
		c.log.Infof("Body %s: %s", result.Outcome, result.Reason)
	} else {
		c.log.Infof("Body %s", result.Outcome)
	}

	if _, err := cmd.OutOrStdout().Write(result.Payload.Body); err != nil {
		return fmt.Errorf("failed to write body: %w", err)
	}

	return nil
}

func (c *CLI) readBody(stdin io.Reader) ([]byte, error) {
	if c.bodyFile == "" || c.bodyFile == "-" {
		body, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read body from stdin: %w", err)
		}
		return body, nil
	}

	body, err := os.ReadFile(c.bodyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}

	return body, nil
}

func (c *CLI) resourcesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "resources",
		Short: "List resource URIs and their methods",
		Args:  cobra.NoArgs,
		RunE:  c.runResources,
	}
}

func (c *CLI) runResources(cmd *cobra.Command, _ []string) error {
	a, err := c.load(cmd)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)

	for _, r := range a.spec.Resources() {
		actions, err := r.Actions()
		if err != nil {
			return err
		}

		methods := lo.Map(actions.Keys(), func(m domain.HTTPMethod, _ int) string {
			return m.String()
		})

		fmt.Fprintf(w, "%s\t%s\n", r.ResolvedURI(a.cfg.APIVersion), strings.Join(methods, ", "))
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write resources: %w", err)
	}

	return nil
}
