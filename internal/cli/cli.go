package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/randomtoy/vibecheck/internal/adapters/llm/mistral"
	"github.com/randomtoy/vibecheck/internal/adapters/styles"
	"github.com/randomtoy/vibecheck/internal/app"
	"github.com/randomtoy/vibecheck/internal/config"
	"github.com/randomtoy/vibecheck/internal/domain"
)

// ServiceFactory wires the explain service for a loaded configuration.
type ServiceFactory func(cfg config.Config, logger *log.Logger) (*app.ExplainService, error)

// CLI holds the console's streams and dependencies.
type CLI struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer
	logger *log.Logger
	build  ServiceFactory
}

func New(in io.Reader, out, errOut io.Writer) *CLI {
	return &CLI{
		in:     in,
		out:    out,
		errOut: errOut,
		logger: newLogger(errOut, log.InfoLevel),
		build:  DefaultServiceFactory,
	}
}

// WithServiceFactory replaces how the explain service is built.
func (c *CLI) WithServiceFactory(f ServiceFactory) *CLI {
	c.build = f
	return c
}

// DefaultServiceFactory talks to Mistral with the console profile.
func DefaultServiceFactory(cfg config.Config, logger *log.Logger) (*app.ExplainService, error) {
	profile, err := cfg.Profile(config.ProfileConsole)
	if err != nil {
		return nil, err
	}
	client := mistral.NewClient(
		&http.Client{Timeout: cfg.LLMTimeout},
		cfg.MistralAPIKey,
		cfg.MistralBaseURL,
		slog.New(logger),
	)
	return app.NewExplainService(styles.NewEmbeddedStore(), client, domain.StdRNG{}, profile), nil
}

// RootCommand returns the vibecheck command. It takes no flags and no
// arguments.
func (c *CLI) RootCommand() *cobra.Command {
	return &cobra.Command{
		Use:           "vibecheck",
		Short:         "Learn about any topic, explained in a randomly chosen style",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			c.logger.SetLevel(log.Level(cfg.LogLevel))

			svc, err := c.build(cfg, c.logger)
			if err != nil {
				return err
			}
			return c.Run(cmd.Context(), svc)
		},
	}
}

// Run executes one console session: topic, spin, style, explanation.
// An empty topic is passed through as is.
func (c *CLI) Run(ctx context.Context, svc *app.ExplainService) error {
	r := bufio.NewReader(c.in)

	printPrompt(c.out, "\nEnter a topic you want to learn about: ")
	topic, err := readLine(r)
	if err != nil {
		return fmt.Errorf("read topic: %w", err)
	}

	printPrompt(c.out, "\n\nPress Enter to spin the wheel...")
	if _, err := readLine(r); err != nil {
		return fmt.Errorf("read spin: %w", err)
	}

	outcome, err := svc.Spin(ctx)
	if err != nil {
		return err
	}
	c.logger.Debug("wheel spun", "index", outcome.Index, "rotation", outcome.RotationDegrees)

	fmt.Fprintln(c.out)
	printKeyValue(c.out, "Model Response Style:", outcome.Style.Label)

	stop := c.startSpinner(" " + outcome.Style.Icon + " thinking...")
	exp, err := svc.Explain(ctx, topic, outcome.Style)
	stop()
	if err != nil {
		return err
	}
	c.logger.Debug("explanation ready", "model", exp.Model, "latency_ms", exp.LatencyMS)

	fmt.Fprintln(c.out, exp.Text)
	return nil
}

// startSpinner shows a spinner on errOut while the model is working. It only
// runs when errOut is a terminal; the returned func stops it.
func (c *CLI) startSpinner(suffix string) func() {
	f, ok := c.errOut.(*os.File)
	if !ok {
		return func() {}
	}
	sp := spinner.New(spinner.CharSets[11], 100*time.Millisecond, spinner.WithWriterFile(f))
	sp.Suffix = suffix
	sp.Start()
	return sp.Stop
}

// readLine returns one line without its terminator. A final line without a
// newline is accepted; EOF before any input is an error.
func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
