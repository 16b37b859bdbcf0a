package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/entrhq/nebula/pkg/capture"
	"github.com/entrhq/nebula/pkg/config"
	"github.com/entrhq/nebula/pkg/executor/tui"
	"github.com/entrhq/nebula/pkg/llm"
	"github.com/entrhq/nebula/pkg/memo"
	"github.com/entrhq/nebula/pkg/refresh"
	"github.com/entrhq/nebula/pkg/speech"
)

// newRootCmd builds the command tree. Running it without a subcommand
// starts the terminal UI.
func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "nebula",
		Short: "Capture short notes and get AI prompts to keep writing",
		Long: `Nebula is a terminal notebook for quick thoughts.
Notes are stored locally. Every so often an AI model reads the most recent
ones and suggests a follow-up question or topic to write about next.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(false); err != nil {
				return err
			}
			return a.runTUI(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "Config file (default ~/.nebula/config.json)")
	flags.StringVar(&a.backend, "backend", "", "Note storage backend: file or sqlite")
	flags.StringVar(&a.storePath, "store", "", "Note storage path (default under ~/.nebula)")
	flags.StringVar(&a.llm.Provider, "provider", "", "LLM provider: openai or gemini")
	flags.StringVar(&a.llm.Model, "model", "", "LLM model to use")
	flags.StringVar(&a.llm.BaseURL, "base-url", "", "LLM API base URL (for OpenAI-compatible APIs)")
	flags.StringVar(&a.llm.APIKey, "api-key", "", "LLM API key (or set OPENAI_API_KEY / GEMINI_API_KEY)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "Mirror log output to stderr")

	root.AddCommand(
		newAddCmd(a),
		newListCmd(a),
		newIdeasCmd(a),
		newExportCmd(a),
		newVersionCmd(),
	)
	return root
}

// runTUI wires the note store, insight client, dictation and refresh policy
// into the terminal UI. Missing AI credentials only disable suggestions.
func (a *app) runTUI(cmd *cobra.Command) error {
	ctx := cmd.Context()
	logger := a.newLogger("cli")

	notes, timeline, err := a.openNotes(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := notes.Close(); err != nil {
			logger.Warnf("failed to close note store: %v", err)
		}
	}()
	notes.Attach(ctx, timeline)

	var provider llm.Provider
	if p, err := a.buildProvider(ctx, a.llm); err != nil {
		logger.Warnf("AI suggestions disabled: %v", err)
		fmt.Fprintf(cmd.ErrOrStderr(), "AI suggestions disabled: %v\n", err)
	} else {
		provider = p
		logger.Infof("using %s model %s", p.Name(), p.GetModel())
	}

	settings := config.Insights()
	client := a.newInsightClient(provider, settings)

	var program string
	var programArgs []string
	if s := config.GetSpeech(); s != nil {
		program, programArgs = s.Settings()
	}
	transcriber := speech.Detect(program, programArgs, a.newLogger("speech"))

	board := memo.NewBoard()
	machine := capture.New(timeline, transcriber, capture.WithLogger(a.newLogger("capture")))
	refresher := refresh.New(client, timeline, board,
		refresh.WithInterval(settings.Interval),
		refresh.WithLimits(settings.AutoLimit, settings.ManualLimit),
		refresh.WithLogger(a.newLogger("refresh")),
	)

	executor := tui.NewExecutor(timeline, board, machine, refresher, transcriber,
		tui.WithLogger(a.newLogger("tui")))
	return executor.Run(ctx)
}
