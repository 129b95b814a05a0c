package cmd

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/ticketforge/internal/docstore"
	"github.com/felixgeelhaar/ticketforge/internal/log"
	"github.com/felixgeelhaar/ticketforge/internal/planner"
	"github.com/felixgeelhaar/ticketforge/internal/progress"
	"github.com/felixgeelhaar/ticketforge/internal/provider"
	"github.com/felixgeelhaar/ticketforge/internal/router"
	"github.com/felixgeelhaar/ticketforge/internal/security"
	"github.com/felixgeelhaar/ticketforge/internal/specdoc"
	"github.com/felixgeelhaar/ticketforge/internal/ux"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Plan specifications into tickets",
	Long: `Turn a specification into a complete implementation plan.

Use 'ticketforge plan run' to run the planning pipeline on a specification.
Use 'ticketforge plan show' to re-render a previously saved result.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var planRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the planning pipeline on a specification",
	Long: `Run the full planning pipeline: parse the specification, derive
components, generate numbered tickets, group them into epics, build the
dependency graph, schedule the tickets onto parallel tracks, and write
the planning documents.

The pipeline is all-or-nothing: it either produces a complete plan or
fails without writing anything.

Examples:
  # Plan a PRD with default settings
  ticketforge plan run --spec docs/checkout-prd.md

  # Name the plan and schedule across four tracks
  ticketforge plan run --spec docs/checkout-prd.md --name CHK --tracks 4

  # Plan an OpenAPI document with extra project context
  ticketforge plan run --spec api/openapi.yaml --type openapi --context docs/context.md

  # Fill in missing settings interactively
  ticketforge plan run --spec docs/checkout-prd.md --interactive`,
	RunE: runPlanRun,
}

var planShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show a saved planning result",
	Long: `Re-render a planning result saved by 'ticketforge plan run'.

No generation happens; the saved result is loaded and displayed in the
requested output format.

Examples:
  # Show the default plan
  ticketforge plan show

  # Show a named plan as JSON
  ticketforge plan show --name CHK --format json`,
	RunE: runPlanShow,
}

func init() {
	rootCmd.AddCommand(planCmd)
	planCmd.AddCommand(planRunCmd)
	planCmd.AddCommand(planShowCmd)

	// plan run flags
	planRunCmd.Flags().StringP("spec", "s", "", "specification file to plan (required)")
	planRunCmd.Flags().StringP("type", "t", string(specdoc.TypePRD), "specification type (prd, technical_spec, architecture, feature_list, openapi)")
	planRunCmd.Flags().StringP("name", "n", planner.DefaultPlanNamePrefix, "plan name prefix used in ticket documents")
	planRunCmd.Flags().String("context", "", "file with additional project context for the prompts")
	planRunCmd.Flags().StringP("out", "o", "", "directory for planning documents (default from config)")
	planRunCmd.Flags().Int("tracks", 0, "number of parallel execution tracks (default from config)")
	planRunCmd.Flags().Int("batch-size", 0, "components per ticket generation call (default from config)")
	planRunCmd.Flags().Int("concurrency", 0, "ticket batches in flight at once (default from config)")
	planRunCmd.Flags().BoolP("interactive", "i", false, "prompt for missing settings")

	// plan show flags
	planShowCmd.Flags().StringP("name", "n", planner.DefaultPlanNamePrefix, "plan name prefix to show")
	planShowCmd.Flags().String("result", "", "result file to show (overrides --name)")
}

func runPlanRun(cmd *cobra.Command, args []string) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return fmt.Errorf("failed to create command context: %w", err)
	}

	config, _, err := loadCommandConfig(cmdCtx)
	if err != nil {
		return ux.FormatError(err, "loading configuration")
	}
	if err := config.Validate(); err != nil {
		return ux.FormatError(err, "validating configuration")
	}

	specPath := cmd.Flags().Lookup("spec").Value.String()
	if specPath == "" {
		return ux.NewErrorWithSuggestion(
			fmt.Errorf("no specification file given"),
			"Pass the specification with --spec, e.g. 'ticketforge plan run --spec docs/prd.md'",
		)
	}

	content, err := os.ReadFile(specPath)
	if err != nil {
		return ux.EnhanceError(fmt.Errorf("reading specification: %w", err))
	}

	prefix := cmd.Flags().Lookup("name").Value.String()
	specTypeRaw := cmd.Flags().Lookup("type").Value.String()
	if !cmd.Flags().Changed("type") {
		specTypeRaw = detectSpecType(specPath, string(content))
	}

	// Flag overrides on top of the config file
	if cmd.Flags().Changed("out") {
		config.Planner.DocumentRoot = cmd.Flags().Lookup("out").Value.String()
	}
	if cmd.Flags().Changed("tracks") {
		config.Planner.Tracks, _ = cmd.Flags().GetInt("tracks")
	}
	if cmd.Flags().Changed("batch-size") {
		config.Planner.TicketBatchSize, _ = cmd.Flags().GetInt("batch-size")
	}
	if cmd.Flags().Changed("concurrency") {
		config.Planner.TicketBatchConcurrency, _ = cmd.Flags().GetInt("concurrency")
	}

	interactive, _ := cmd.Flags().GetBool("interactive")
	if interactive && ux.ShouldPrompt() {
		prefix, specTypeRaw, err = promptForPlanSettings(cmd, config, prefix, specTypeRaw)
		if err != nil {
			return ux.FormatError(err, "collecting plan settings")
		}
	}

	specType, err := specdoc.ParseType(specTypeRaw)
	if err != nil {
		return ux.EnhanceError(err)
	}

	projectContext, err := readProjectContext(cmd.Flags().Lookup("context").Value.String())
	if err != nil {
		return ux.FormatError(err, "reading project context")
	}

	if err := config.Planner.Validate(); err != nil {
		return ux.FormatError(err, "validating pipeline settings")
	}

	result, err := executePlan(cmd.Context(), cmdCtx, config, &planner.Request{
		SpecificationID:      specID(specPath),
		SpecificationContent: string(content),
		SpecType:             specType,
		ProjectContext:       projectContext,
		PlanNamePrefix:       prefix,
	})
	if err != nil {
		if stderrors.Is(err, context.Canceled) {
			return err
		}
		return ux.EnhanceError(err)
	}

	resultPath := resultFilePath(config.Planner.DocumentRoot, result.PlanName)
	if err := saveResult(result, resultPath); err != nil {
		return ux.FormatError(err, "saving planning result")
	}

	if cmdCtx.Format == "json" || cmdCtx.Format == "yaml" {
		formatter, err := ux.NewFormatter(cmdCtx.Format, &ux.FormatterOptions{NoColor: cmdCtx.NoColor})
		if err != nil {
			return err
		}
		return formatter.Format(result)
	}

	fmt.Println(ux.RenderResult(result, cmdCtx.NoColor))
	fmt.Printf("✓ Planned %d tickets in %d epics across %d tracks\n",
		len(result.Tickets), len(result.Epics), len(result.Schedule.Tracks))
	fmt.Printf("✓ Saved result to %s\n", resultPath)
	fmt.Println("\nNext steps:")
	fmt.Printf("  1. Review the planning documents in %s\n", config.Planner.DocumentRoot)
	fmt.Printf("  2. Revisit this plan: ticketforge plan show --name %s\n", result.PlanName)
	return nil
}

// executePlan wires the pipeline together and runs it under a progress
// tracker. Construction failures are reported before any provider call.
func executePlan(ctx context.Context, cmdCtx *CommandContext, config *FileConfig, req *planner.Request) (*planner.Result, error) {
	logger := log.New(config.LoggerConfig(cmdCtx.Verbose))

	if err := config.Provider.ResolveAPIKey(credentialLookup()); err != nil {
		return nil, err
	}

	client, err := provider.NewClient(config.Provider)
	if err != nil {
		return nil, err
	}
	defer func() { _ = client.Close() }()

	rt, err := router.New(config.Router, client, logger)
	if err != nil {
		return nil, err
	}

	stages := make([]string, len(planner.PipelineStages))
	for i, stage := range planner.PipelineStages {
		stages[i] = string(stage)
	}
	tracker := progress.NewTracker(progress.Config{
		Writer:      os.Stderr,
		Stages:      stages,
		ShowSpinner: !cmdCtx.Quiet && cmdCtx.Format != "json" && cmdCtx.Format != "yaml",
	})

	p, err := planner.New(config.Planner, rt, docstore.NewFS(config.Planner.DocumentRoot), logger,
		planner.WithStageHook(func(stage planner.Stage) {
			tracker.StageStarted(string(stage))
		}),
	)
	if err != nil {
		return nil, err
	}

	if !cmdCtx.Quiet {
		tracker.Start()
	}
	result, runErr := p.Run(ctx, req)
	if !cmdCtx.Quiet {
		tracker.Finish(runErr)
	}
	return result, runErr
}

// credentialLookup returns a lookup into the local credential store, or nil
// when no store can be opened. The environment variable always wins; the
// store is only the fallback.
func credentialLookup() func(name string) (string, bool) {
	storePath, err := security.DefaultStorePath()
	if err != nil {
		return nil
	}
	store, err := security.NewCredentialStore(storePath, "")
	if err != nil {
		return nil
	}
	return store.Lookup
}

// promptForPlanSettings fills in settings the user did not pass as flags
func promptForPlanSettings(cmd *cobra.Command, config *FileConfig, prefix, specTypeRaw string) (string, string, error) {
	var err error

	if !cmd.Flags().Changed("name") {
		prefix, err = ux.PromptForString(ux.Prompt{
			Message:     "Plan name prefix",
			Default:     prefix,
			Placeholder: "CHK",
			Required:    true,
		})
		if err != nil {
			return "", "", err
		}
	}

	if !cmd.Flags().Changed("type") {
		options := make([]string, 0, len(specdoc.Types()))
		for _, t := range specdoc.Types() {
			options = append(options, string(t))
		}
		specTypeRaw, err = ux.PromptForSelect("Specification type", options)
		if err != nil {
			return "", "", err
		}
	}

	if !cmd.Flags().Changed("tracks") {
		answer, err := ux.PromptForString(ux.Prompt{
			Message: "Parallel execution tracks",
			Default: strconv.Itoa(config.Planner.Tracks),
		})
		if err != nil {
			return "", "", err
		}
		tracks, err := strconv.Atoi(strings.TrimSpace(answer))
		if err != nil {
			return "", "", fmt.Errorf("tracks must be a number: %q", answer)
		}
		config.Planner.Tracks = tracks
	}

	return prefix, specTypeRaw, nil
}

// detectSpecType sniffs OpenAPI documents so '--type openapi' is not needed
// for the obvious case. Everything else defaults to a PRD.
func detectSpecType(path, content string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		head := content
		if len(head) > 512 {
			head = head[:512]
		}
		if strings.Contains(head, `"openapi"`) || strings.Contains(head, "openapi:") {
			return string(specdoc.TypeOpenAPI)
		}
	}
	return string(specdoc.TypePRD)
}

// specID derives the specification identifier from the file name
func specID(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// readProjectContext loads the optional context file
func readProjectContext(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// resultFilePath is where a run's result document lands, next to the
// planning documents it describes
func resultFilePath(documentRoot, prefix string) string {
	return filepath.Join(documentRoot, prefix+"-result.json")
}

// saveResult writes the result as indented JSON
func saveResult(result *planner.Result, path string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create result directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	return nil
}

// loadResult reads a result saved by saveResult
func loadResult(path string) (*planner.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var result planner.Result
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("parse result %s: %w", path, err)
	}
	return &result, nil
}

func runPlanShow(cmd *cobra.Command, args []string) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return fmt.Errorf("failed to create command context: %w", err)
	}

	config, _, err := loadCommandConfig(cmdCtx)
	if err != nil {
		return ux.FormatError(err, "loading configuration")
	}

	resultPath := cmd.Flags().Lookup("result").Value.String()
	if resultPath == "" {
		prefix := cmd.Flags().Lookup("name").Value.String()
		resultPath = resultFilePath(config.Planner.DocumentRoot, prefix)
	}

	if err := ux.ValidateRequiredFile(resultPath, "Planning result", "ticketforge plan run --spec <file>"); err != nil {
		return ux.EnhanceError(err)
	}

	result, err := loadResult(resultPath)
	if err != nil {
		return ux.FormatError(err, "loading planning result")
	}

	if cmdCtx.Format == "json" || cmdCtx.Format == "yaml" {
		formatter, err := ux.NewFormatter(cmdCtx.Format, &ux.FormatterOptions{NoColor: cmdCtx.NoColor})
		if err != nil {
			return err
		}
		return formatter.Format(result)
	}

	fmt.Println(ux.RenderResult(result, cmdCtx.NoColor))
	return nil
}
