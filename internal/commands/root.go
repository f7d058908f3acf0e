// Package commands provides CLI commands for phonechat.
package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/diogo/phonechat/internal/api"
	"github.com/diogo/phonechat/internal/config"
	"github.com/diogo/phonechat/internal/logging"
	"github.com/diogo/phonechat/internal/tui"
)

var (
	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// rootOptions holds the values of the global and one-shot flags
type rootOptions struct {
	baseURL   string
	timeout   int
	noTimeout bool
	verbose   bool

	output  string
	file    string
	raw     bool
	version bool
}

// NewRootCmd builds the command tree
func NewRootCmd(deps *Dependencies) *cobra.Command {
	return newRootCmd(deps.withDefaults(), &rootOptions{})
}

func newRootCmd(deps *Dependencies, opts *rootOptions) *cobra.Command {

	cmd := &cobra.Command{
		Use:   "phonechat [message]",
		Short: "Chat with a /api/chat backend from the terminal",
		Long: `phonechat talks to a chat backend that accepts POST /api/chat with
{"message": "..."} and answers {"reply": "..."}. It shows the conversation
as message bubbles inside a phone frame.

Examples:
  phonechat chat                           Start the phone-frame chat
  phonechat chat --transcript chat.html    Save the session on exit
  phonechat "Hello"                        Send a single message
  phonechat -f question.txt                Read the message from a file
  echo "Hello" | phonechat --raw           Print only the reply
  phonechat --base-url https://bot.example.com "Hi"`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.version {
				fmt.Fprintf(deps.Stdout, "phonechat %s (built %s)\n", Version, BuildTime)
				return nil
			}

			message, ok, err := readMessage(deps, opts, args)
			if err != nil {
				return err
			}
			if !ok {
				return cmd.Help()
			}

			sess, err := opts.open(cmd, deps)
			if err != nil {
				return err
			}
			defer sess.Close()

			return runSend(cmd.Context(), deps, sess, opts, message)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.baseURL, "base-url", "", "Backend base URL (default "+config.DefaultConfig().BaseURL+")")
	cmd.PersistentFlags().IntVar(&opts.timeout, "timeout", 0, "Seconds to wait for a reply")
	cmd.PersistentFlags().BoolVar(&opts.noTimeout, "no-timeout", false, "Minimal mode: no reply timeout and no in-flight guard")
	cmd.PersistentFlags().BoolVar(&opts.verbose, "verbose", false, "Log debug details")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Save the reply to file")
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "Read the message from file")
	cmd.Flags().BoolVar(&opts.raw, "raw", false, "Print only the reply text")
	cmd.Flags().BoolVarP(&opts.version, "version", "v", false, "Show version and exit")

	cmd.AddCommand(NewChatCmd(deps, opts))
	cmd.AddCommand(NewConfigCmd(deps))

	return cmd
}

// Execute runs the root command
func Execute() {
	deps := NewDependencies()
	if err := NewRootCmd(deps).Execute(); err != nil {
		var reported *reportedError
		if !errors.As(err, &reported) {
			fmt.Fprintln(deps.Stderr, tui.FormatError(err, "Error"))
		}
		os.Exit(1)
	}
}

// readMessage picks the message from --file, the argument or piped stdin,
// in that order. ok is false when there is no input at all.
func readMessage(deps *Dependencies, opts *rootOptions, args []string) (string, bool, error) {
	if opts.file != "" {
		data, err := os.ReadFile(opts.file)
		if err != nil {
			return "", false, fmt.Errorf("failed to read file: %w", err)
		}
		return string(data), true, nil
	}

	if len(args) > 0 {
		return args[0], true, nil
	}

	if hasPipedInput(deps.Stdin) {
		data, err := io.ReadAll(deps.Stdin)
		if err != nil {
			return "", false, fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), true, nil
	}

	return "", false, nil
}

// hasPipedInput reports whether r is a pipe or file rather than a terminal.
// Readers that are not files (tests) count as piped.
func hasPipedInput(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return r != nil
	}
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// session bundles what a command needs once flags are parsed
type session struct {
	cfg    config.Config
	logger zerolog.Logger
	client api.ChatClientInterface
	closer io.Closer
}

// Close flushes the log file
func (s *session) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// settings loads the config and applies the command-line overrides
func (o *rootOptions) settings(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("base-url") {
		cfg.BaseURL = o.baseURL
	}
	if flags.Changed("timeout") {
		cfg.TimeoutSeconds = o.timeout
	}
	if o.noTimeout {
		cfg.Hardened = false
	}
	if o.verbose {
		cfg.Verbose = true
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// open resolves settings, opens the log and builds the client
func (o *rootOptions) open(cmd *cobra.Command, deps *Dependencies) (*session, error) {
	cfg, err := o.settings(cmd)
	if err != nil {
		return nil, err
	}

	sess := &session{cfg: cfg, logger: zerolog.Nop()}

	if logPath, err := config.GetLogPath(cfg); err == nil {
		logger, closer, err := logging.Open(logPath, cfg.Verbose)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "Warning: logging disabled: %v\n", err)
		} else {
			sess.logger = logger
			sess.closer = closer
		}
	}

	if deps.Client != nil {
		sess.client = deps.Client
		return sess, nil
	}

	client, err := api.NewClient(
		api.WithBaseURL(cfg.BaseURL),
		api.WithTimeout(cfg.Timeout()),
		api.WithLogger(sess.logger),
		api.WithUserAgent("phonechat/"+Version),
	)
	if err != nil {
		_ = sess.Close()
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	sess.client = client

	sess.logger.Debug().
		Str("endpoint", client.Endpoint()).
		Dur("timeout", cfg.Timeout()).
		Bool("hardened", cfg.Hardened).
		Msg("session started")

	return sess, nil
}

// timeoutLabel describes the effective reply timeout for humans
func timeoutLabel(d time.Duration) string {
	if d <= 0 {
		return "none"
	}
	return d.String()
}
