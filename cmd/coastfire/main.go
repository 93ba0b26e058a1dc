package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/cfgo/coastfire-calculator/internal/api"
	"github.com/cfgo/coastfire-calculator/internal/calculation"
	"github.com/cfgo/coastfire-calculator/internal/config"
	"github.com/cfgo/coastfire-calculator/internal/output"
	"github.com/cfgo/coastfire-calculator/internal/store"
)

var (
	inputFile  string
	formatName string
	outputFile string
	debug      bool
	serveAddr  string
	dbPath     string
)

// stdLogger adapts the standard library logger to the engine's Logger
// interface. Debug lines are dropped unless --debug is set.
type stdLogger struct {
	debug bool
}

func (l stdLogger) Debugf(format string, args ...any) {
	if l.debug {
		log.Printf("[DEBUG] "+format, args...)
	}
}
func (l stdLogger) Infof(format string, args ...any)  { log.Printf("[INFO] "+format, args...) }
func (l stdLogger) Warnf(format string, args ...any)  { log.Printf("[WARN] "+format, args...) }
func (l stdLogger) Errorf(format string, args ...any) { log.Printf("[ERROR] "+format, args...) }

func main() {
	rootCmd := &cobra.Command{
		Use:   "coastfire",
		Short: "Coast FIRE portfolio projection calculator",
		Long: `coastfire projects the future value of a multi-asset-class portfolio
under configurable return, contribution, and allocation assumptions, and
determines when the portfolio becomes self-sustaining for retirement.`,
	}
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	projectCmd := &cobra.Command{
		Use:   "project",
		Short: "Run every scenario in a plan and report the trajectories",
		RunE:  runProject,
	}
	projectCmd.Flags().StringVarP(&inputFile, "input", "i", "plan.yaml", "plan file (YAML)")
	projectCmd.Flags().StringVarP(&formatName, "format", "f", "console", "output format: console, csv, json")
	projectCmd.Flags().StringVarP(&outputFile, "output", "o", "", "write to file instead of stdout")

	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Quick coast-fire verdict without a full simulation",
		RunE:  runCheck,
	}
	checkCmd.Flags().StringVarP(&inputFile, "input", "i", "plan.yaml", "plan file (YAML)")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the projection API over HTTP",
		RunE:  runServe,
	}
	serveCmd.Flags().StringVar(&serveAddr, "addr", envOr("COASTFIRE_ADDR", ":8080"), "listen address")
	serveCmd.Flags().StringVar(&dbPath, "db", envOr("COASTFIRE_DB", "coastfire.db"), "scenario store database path")

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write an example plan file",
		RunE:  runInit,
	}
	initCmd.Flags().StringVarP(&outputFile, "output", "o", "plan.yaml", "destination file")

	rootCmd.AddCommand(projectCmd, checkCmd, serveCmd, initCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// envOr returns the environment value when set, otherwise the fallback.
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func newEngine() *calculation.ProjectionEngine {
	engine := calculation.NewProjectionEngine()
	engine.Debug = debug
	engine.SetLogger(stdLogger{debug: debug})
	return engine
}

func runProject(cmd *cobra.Command, args []string) error {
	plan, err := config.NewInputParser().LoadFromFile(inputFile)
	if err != nil {
		return err
	}

	comparison, err := newEngine().RunScenarios(plan)
	if err != nil {
		return err
	}

	formatter := output.GetFormatterByName(formatName)
	if formatter == nil {
		return fmt.Errorf("unknown format %q (available: console, csv, json)", formatName)
	}

	data, err := formatter.Format(comparison)
	if err != nil {
		return err
	}

	if outputFile == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(outputFile, data, 0644); err != nil {
		return err
	}
	fmt.Printf("Report written to %s\n", outputFile)
	return nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	plan, err := config.NewInputParser().LoadFromFile(inputFile)
	if err != nil {
		return err
	}

	target := plan.Settings.RetirementTarget
	if target == nil && plan.Goal != nil && plan.Goal.AnnualSpending.IsPositive() {
		derived := calculation.RetirementTargetForSpending(plan.Goal.AnnualSpending, plan.Settings.WithdrawalRate)
		target = &derived
	}

	allocation := calculation.ResolveAllocation(plan.Portfolio.ByAssetClass, nil)
	result := calculation.CoastFire(plan.Settings, plan.Portfolio.BreakdownTotal(), allocation, target)

	fmt.Printf("Retirement target:  $%s\n", result.RetirementTarget.StringFixed(2))
	fmt.Printf("Coast FIRE target:  $%s\n", result.TargetPortfolio.StringFixed(2))
	if result.AlreadyCoasted {
		fmt.Println("Verdict:            already coasting, growth alone reaches the target")
	} else {
		fmt.Println("Verdict:            not yet, run `coastfire project` to find the crossing month")
	}
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	scenarios, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open scenario store: %w", err)
	}
	defer scenarios.Close()

	logger := stdLogger{debug: debug}
	server := api.NewServer(newEngine(), scenarios, logger)
	return server.ListenAndServe(serveAddr)
}

func runInit(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(outputFile); err == nil {
		return fmt.Errorf("%s already exists, refusing to overwrite", outputFile)
	}

	plan := config.NewInputParser().CreateExamplePlan()
	data, err := yaml.Marshal(plan)
	if err != nil {
		return err
	}
	if err := os.WriteFile(outputFile, data, 0644); err != nil {
		return err
	}
	fmt.Printf("Example plan written to %s\n", outputFile)
	return nil
}
