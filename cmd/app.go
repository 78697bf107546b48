// Package cmd implements the divyield command line application.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/etnz/divyield"
	"github.com/etnz/divyield/date"
	"github.com/etnz/divyield/eodhd"
	"github.com/etnz/divyield/internal/config"
	"github.com/etnz/divyield/internal/httprate"
	"github.com/etnz/divyield/internal/logger"
	"github.com/etnz/divyield/yahoo"
	"github.com/google/subcommands"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&yieldCmd{}, "dividends")
	c.Register(&summaryCmd{}, "dividends")
	c.Register(&pricesCmd{}, "prices")
	c.Register(&topicCmd{}, "help")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

// Verbose turns on debug logging.
var Verbose = flag.Bool("v", false, "Log debug messages to stderr.")

// errUnknownProvider is reported for a -provider value that is neither yahoo nor eodhd.
var errUnknownProvider = errors.New("unknown provider")

// usageError marks an error in the command line arguments.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

// exitStatus returns the exit status reporting err: a usage error for bad arguments or
// a missing provider prerequisite, a failure otherwise.
func exitStatus(err error) subcommands.ExitStatus {
	var u usageError
	switch {
	case err == nil:
		return subcommands.ExitSuccess
	case errors.As(err, &u), errors.Is(err, divyield.ErrMissingAPIKey), errors.Is(err, errUnknownProvider):
		return subcommands.ExitUsageError
	default:
		return subcommands.ExitFailure
	}
}

// session holds what a subcommand needs to run: its output streams, the settings and a
// market data provider. Flags shared by all the subcommands are bound to it.
type session struct {
	name string

	provider    string
	eodhdAPIKey string

	// set by tests, built from the environment otherwise.
	stdout, stderr io.Writer
	cfg            *config.Config
	log            *logger.Logger
	market         divyield.Provider
	today          date.Date
}

func (s *session) setProviderFlags(f *flag.FlagSet) {
	f.StringVar(&s.provider, "provider", "", "Market data provider, yahoo or eodhd. Defaults to $DIVYIELD_PROVIDER, or yahoo.")
	f.StringVar(&s.eodhdAPIKey, "eodhd-api-key", "", "eodhd.com API key. Defaults to $EODHD_API_KEY.")
}

// errorf reports an error on stderr, prefixed by the command name.
func (s *session) errorf(format string, args ...any) {
	fmt.Fprintf(s.stderr, "[%s] Error: %s\n", s.name, fmt.Sprintf(format, args...))
}

// streams defaults the output streams to the process ones.
func (s *session) streams() {
	if s.stdout == nil {
		s.stdout = os.Stdout
	}
	if s.stderr == nil {
		s.stderr = os.Stderr
	}
}

// open fills the unset parts of s. On failure the error is already reported and the
// returned status must be used as the command exit status.
func (s *session) open() (subcommands.ExitStatus, bool) {
	s.streams()
	if s.today.IsZero() {
		s.today = date.Today()
	}
	if s.cfg == nil {
		cfg, err := config.Load()
		if err != nil {
			s.errorf("%v", err)
			return subcommands.ExitUsageError, false
		}
		s.cfg = cfg
	}
	if s.log == nil {
		log, err := newLogger(s.cfg)
		if err != nil {
			s.errorf("%v", err)
			return subcommands.ExitUsageError, false
		}
		s.log = log.Named(s.name)
	}
	if s.market == nil {
		p, err := newProvider(s.cfg, s.log, s.provider, s.eodhdAPIKey)
		if err != nil {
			s.errorf("%v", err)
			return exitStatus(err), false
		}
		s.market = p
	}
	return subcommands.ExitSuccess, true
}

func (s *session) close() {
	if s.log != nil {
		_ = s.log.Sync()
	}
}

// newLogger returns the logger configured by cfg, at debug level with -v.
func newLogger(cfg *config.Config) (*logger.Logger, error) {
	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid DIVYIELD_LOG_LEVEL: %w", err)
	}
	if *Verbose {
		level = logger.DebugLevel
	}
	return logger.NewLogger(logger.WithLoggingLevel(level), logger.WithOutputPaths(cfg.LogOutput...))
}

// newProvider returns the named provider, or the configured one if name is empty.
func newProvider(cfg *config.Config, log *logger.Logger, name, apiKey string) (divyield.Provider, error) {
	if name == "" {
		name = cfg.Provider
	}
	limiter := httprate.Every(cfg.RateInterval)

	switch strings.ToLower(strings.TrimSpace(name)) {
	case "yahoo":
		return yahoo.NewClient(
			yahoo.BaseURL(cfg.Yahoo.BaseURL),
			yahoo.Timeout(cfg.HTTPTimeout),
			yahoo.RateLimiter(limiter),
			yahoo.Logger(log.Named("yahoo").GetZap()),
		)
	case "eodhd":
		if apiKey == "" {
			apiKey = cfg.EODHD.APIKey
		}
		return eodhd.NewClient(
			eodhd.APIKey(apiKey),
			eodhd.BaseURL(cfg.EODHD.BaseURL),
			eodhd.Exchange(cfg.EODHD.Exchange),
			eodhd.Timeout(cfg.HTTPTimeout),
			eodhd.RateLimiter(limiter),
			eodhd.Logger(log.Named("eodhd").GetZap()),
		)
	default:
		return nil, fmt.Errorf("%w %q, want yahoo or eodhd", errUnknownProvider, name)
	}
}
