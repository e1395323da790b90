// Package cli defines the vnext command surface. The root command computes
// the next semantic version from the commits since the last release tag;
// flags switch to changelog or current-version output. Running outside a
// repository is not an error: the command prints the 0.0.0 fallback and
// exits successfully so it is safe in CI staging directories.
package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ariel-frischer/vnext/internal/bump"
	"github.com/ariel-frischer/vnext/internal/changelog"
	"github.com/ariel-frischer/vnext/internal/commit"
	"github.com/ariel-frischer/vnext/internal/config"
	"github.com/ariel-frischer/vnext/internal/errors"
	"github.com/ariel-frischer/vnext/internal/git"
	"github.com/ariel-frischer/vnext/internal/github"
	"github.com/ariel-frischer/vnext/internal/history"
)

var (
	changelogFlag       bool
	noHeaderScalingFlag bool
	currentFlag         bool
	verboseFlag         bool
	configPathFlag      string

	parserFlag     string
	majorTypesFlag string
	minorTypesFlag string
	noopTypesFlag  string

	typePatternFlag     string
	scopePatternFlag    string
	titlePatternFlag    string
	bodyPatternFlag     string
	breakingPatternFlag string
)

var rootCmd = &cobra.Command{
	Use:   "vnext",
	Short: "Calculate the next semantic version from commit history",
	Long: `vnext inspects the commits since the last release tag, classifies each
one (breaking change, feature, fix, no-op), and prints the next semantic
version. With --changelog it prints a markdown changelog instead.

Outside a git repository, or in a repository without commits, vnext prints
0.0.0 and exits successfully.

Examples:
  vnext                     # Print the next version, e.g. 1.4.0
  vnext --current           # Print the version being bumped from
  vnext --changelog         # Print a markdown changelog for the next version
  vnext --parser patterns --major-types "major,breaking"`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRoot(cmd)
	},
}

func init() {
	rootCmd.Flags().BoolVar(&changelogFlag, "changelog", false, "Output a changelog alongside the next version")
	rootCmd.Flags().BoolVar(&noHeaderScalingFlag, "no-header-scaling", false, "Disable heading demotion in changelog bodies (default: h1->h4, h2->h5, h3->h6)")
	rootCmd.Flags().BoolVar(&currentFlag, "current", false, "Output the current version vnext is bumping from")
	rootCmd.Flags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable debug logging")
	rootCmd.Flags().StringVar(&configPathFlag, "config", "", "Path to config file (default: .vnext.yml)")

	rootCmd.Flags().StringVar(&parserFlag, "parser", "", "Parser strategy: conventional | patterns")
	rootCmd.Flags().StringVar(&majorTypesFlag, "major-types", "", "Comma-separated commit types that trigger a major bump")
	rootCmd.Flags().StringVar(&minorTypesFlag, "minor-types", "", "Comma-separated commit types that trigger a minor bump")
	rootCmd.Flags().StringVar(&noopTypesFlag, "noop-types", "", "Comma-separated commit types that trigger no bump")

	rootCmd.Flags().StringVar(&typePatternFlag, "type-pattern", "", "Pattern extracting the commit type (patterns strategy)")
	rootCmd.Flags().StringVar(&scopePatternFlag, "scope-pattern", "", "Pattern extracting the commit scope (patterns strategy)")
	rootCmd.Flags().StringVar(&titlePatternFlag, "title-pattern", "", "Pattern extracting the commit title (patterns strategy)")
	rootCmd.Flags().StringVar(&bodyPatternFlag, "body-pattern", "", "Pattern extracting the commit body (patterns strategy)")
	rootCmd.Flags().StringVar(&breakingPatternFlag, "breaking-pattern", "", "Pattern matching breaking changes (patterns strategy)")
}

// Execute runs the root command, printing structured errors to stderr.
func Execute() error {
	err := rootCmd.Execute()
	if err == nil {
		return nil
	}
	if cliErr := errors.AsCLIError(err); cliErr != nil {
		errors.PrintError(cliErr)
	} else {
		errors.PrintError(errors.Wrap(err, errors.Internal))
	}
	return err
}

func runRoot(cmd *cobra.Command) error {
	log.SetLevel(log.WarnLevel)
	if verboseFlag {
		log.SetLevel(log.DebugLevel)
	}

	cfg := loadConfig(cmd)
	applyFlags(cmd, cfg)

	parser := commit.NewParser(cfg.Strategy())
	policy := cfg.Policy()
	log.Debug("run configured", "parser", parser.Name(),
		"major", cfg.MajorTypes, "minor", cfg.MinorTypes, "noop", cfg.NoopTypes)

	repo, err := git.Open("")
	if err != nil {
		log.Debug("no repository, assuming 0.0.0", "err", err)
		printFallback(cmd)
		return nil
	}

	head, err := git.Head(repo)
	if err != nil {
		log.Debug("no resolvable HEAD, assuming 0.0.0", "err", err)
		printFallback(cmd)
		return nil
	}
	log.Debug("HEAD resolved", "commit", head.Hash)

	boundary, err := git.ResolveBoundary(repo, head)
	if err != nil {
		log.Warn("resolving release boundary failed, assuming 0.0.0", "err", err)
		printFallback(cmd)
		return nil
	}

	if currentFlag {
		fmt.Fprintln(cmd.OutOrStdout(), boundary.Version)
		return nil
	}

	severity, summary, err := history.Walk(head, boundary, parser, policy)
	if err != nil {
		log.Error("walking commit history failed, assuming 0.0.0", "err", err)
		printFallback(cmd)
		return nil
	}
	next := bump.Next(boundary.Version, severity)
	log.Debug("version computed", "severity", severity, "current", boundary.Version, "next", next)

	if !changelogFlag {
		fmt.Fprintln(cmd.OutOrStdout(), next)
		return nil
	}

	info := git.Identity(repo)
	if info.IsGitHub() && cfg.EnrichAuthors {
		enrichAuthors(cmd, info, summary)
	}

	text := changelog.Render(summary, next, boundary.Version, info, changelog.Options{
		HeaderScaling: cfg.HeaderScaling && !noHeaderScalingFlag,
	})
	fmt.Fprintln(cmd.OutOrStdout(), text)
	return nil
}

// loadConfig loads the layered configuration. A broken config file is a
// recoverable condition: warn and continue with defaults.
func loadConfig(cmd *cobra.Command) *config.Config {
	cfg, err := config.Load(configPathFlag)
	if err != nil {
		log.Warn("loading config failed, using defaults", "err", err)
		cfg = config.Default()
	}
	return cfg
}

// applyFlags overlays explicitly set flags on the loaded configuration.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	set := func(name string, dst *string, value string) {
		if cmd.Flags().Changed(name) {
			*dst = value
		}
	}
	set("parser", &cfg.Parser, parserFlag)
	set("major-types", &cfg.MajorTypes, majorTypesFlag)
	set("minor-types", &cfg.MinorTypes, minorTypesFlag)
	set("noop-types", &cfg.NoopTypes, noopTypesFlag)
	set("type-pattern", &cfg.TypePattern, typePatternFlag)
	set("scope-pattern", &cfg.ScopePattern, scopePatternFlag)
	set("title-pattern", &cfg.TitlePattern, titlePatternFlag)
	set("body-pattern", &cfg.BodyPattern, bodyPatternFlag)
	set("breaking-pattern", &cfg.BreakingPattern, breakingPatternFlag)
}

// enrichAuthors fetches commit authors from GitHub, showing a spinner when
// stderr is a terminal. Failures degrade to an unannotated changelog.
func enrichAuthors(cmd *cobra.Command, info git.RepoInfo, summary *history.Summary) {
	if term.IsTerminal(int(os.Stderr.Fd())) {
		s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
		s.Suffix = " fetching commit authors..."
		s.Start()
		defer s.Stop()
	}
	github.Enrich(cmd.Context(), github.NewClient(), info, summary)
}

// printFallback emits the documented absence-condition output: a bare 0.0.0
// version, or the fixed no-changes changelog.
func printFallback(cmd *cobra.Command) {
	if changelogFlag {
		fmt.Fprintln(cmd.OutOrStdout(), changelog.FallbackText)
		return
	}
	fmt.Fprintln(cmd.OutOrStdout(), "0.0.0")
}
