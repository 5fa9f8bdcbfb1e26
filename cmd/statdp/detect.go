package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"statdp/config"
	"statdp/driver"
	"statdp/logging"
	"statdp/mechanism"
	"statdp/report"
	"statdp/telemetry"
)

var detectCmd = &cobra.Command{
	Use:   "detect",
	Args:  cobra.NoArgs,
	Short: "Run the detection pipeline against a named candidate mechanism",
	RunE:  runDetect,
}

func init() {
	detectCmd.Flags().String("algorithm", "", "candidate mechanism name (see `statdp list`)")
	detectCmd.Flags().Float64("epsilon", 0, "claimed epsilon baked into the mechanism's kwargs")
	detectCmd.Flags().String("test-epsilons", "", "comma-separated list of epsilons to test at")
	detectCmd.Flags().String("n", "5,10", "comma-separated list of database sizes")
	detectCmd.Flags().String("sensitivity", "ALL_DIFFER", "ALL_DIFFER or ONE_DIFFER")
	detectCmd.Flags().Int("cores", 0, "worker-pool size (0 = config/default; 0 there means number of logical CPUs)")
	detectCmd.Flags().Int("event-iterations", 0, "event-selection Sampler budget (0 = config/default)")
	detectCmd.Flags().Int("detect-iterations", 0, "detection Sampler budget (0 = config/default)")
	detectCmd.Flags().StringToString("kwargs", nil, "additional mechanism kwargs, e.g. N=2,T=0")
	detectCmd.Flags().String("out", "", "JSONL output path (default <report.output_dir>/results.jsonl)")
	detectCmd.Flags().String("chart", "", "HTML chart output path (default <report.output_dir>/chart.html)")
}

func runDetect(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	algoName, _ := cmd.Flags().GetString("algorithm")
	if algoName == "" {
		return fmt.Errorf("--algorithm is required")
	}
	m, err := lookupAlgorithm(algoName)
	if err != nil {
		return err
	}

	claimed, _ := cmd.Flags().GetFloat64("epsilon")
	testEpsilonsFlag, _ := cmd.Flags().GetString("test-epsilons")
	testEpsilons := cfg.Detection.TestEpsilons
	if testEpsilonsFlag != "" {
		testEpsilons, err = parseFloatList(testEpsilonsFlag)
		if err != nil {
			return fmt.Errorf("--test-epsilons: %w", err)
		}
	}

	nFlag, _ := cmd.Flags().GetString("n")
	numInput := cfg.Detection.NumInput
	if nFlag != "" {
		numInput, err = parseIntList(nFlag)
		if err != nil {
			return fmt.Errorf("--n: %w", err)
		}
	}

	sensitivityFlag, _ := cmd.Flags().GetString("sensitivity")
	if sensitivityFlag == "" {
		sensitivityFlag = cfg.Detection.Sensitivity
	}
	sensitivity, err := parseSensitivity(sensitivityFlag)
	if err != nil {
		return err
	}

	cores, _ := cmd.Flags().GetInt("cores")
	if cores == 0 {
		cores = cfg.Detection.Cores
	}
	eventIterations, _ := cmd.Flags().GetInt("event-iterations")
	if eventIterations == 0 {
		eventIterations = cfg.Detection.EventIterations
	}
	detectIterations, _ := cmd.Flags().GetInt("detect-iterations")
	if detectIterations == 0 {
		detectIterations = cfg.Detection.DetectIterations
	}

	extraKwargs, _ := cmd.Flags().GetStringToString("kwargs")
	kwargs := mechanism.Kwargs{"epsilon": claimed}
	for k, v := range extraKwargs {
		fv, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("--kwargs: parsing %s=%s: %w", k, v, err)
		}
		kwargs[k] = fv
	}

	logLevel := logging.LevelInfo
	if verbose {
		logLevel = logging.LevelDebug
	}
	logger := logging.New(logging.Config{
		Level:  logLevel,
		Format: logging.Format(cfg.Logging.Format),
		Quiet:  cfg.Logging.Quiet,
	})

	results, err := driver.Detect(context.Background(), m, driver.Options{
		TestEpsilons:     testEpsilons,
		DefaultKwargs:    kwargs,
		NumInput:         numInput,
		Sensitivity:      sensitivity,
		Cores:            cores,
		EventIterations:  eventIterations,
		DetectIterations: detectIterations,
		Logger:           logger,
	})
	if err != nil {
		return fmt.Errorf("detection failed: %w", err)
	}

	outPath, _ := cmd.Flags().GetString("out")
	if outPath == "" {
		outPath = filepath.Join(cfg.Report.OutputDir, "results.jsonl")
	}
	chartPath, _ := cmd.Flags().GetString("chart")
	if chartPath == "" {
		chartPath = filepath.Join(cfg.Report.OutputDir, "chart.html")
	}
	if err := os.MkdirAll(cfg.Report.OutputDir, 0o755); err != nil {
		return fmt.Errorf("creating report directory: %w", err)
	}

	if err := report.WriteJSONL(outPath, results); err != nil {
		return err
	}
	if err := report.RenderChart(chartPath, cfg.Report.ChartTitle, results); err != nil {
		return err
	}

	for _, r := range results {
		fmt.Printf("epsilon=%-6v p=%-10.6f event=%s\n", r.Epsilon, r.P, r.Event)
	}

	for _, entry := range telemetry.SnapshotAndReset() {
		if verbose {
			fmt.Printf("  [%s epsilon=%v] %s\n", entry.Phase, entry.Epsilon, entry.Dur)
		}
	}

	return nil
}

func parseFloatList(spec string) ([]float64, error) {
	tokens := strings.Split(spec, ",")
	out := make([]float64, 0, len(tokens))
	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid float %q: %w", tok, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func parseIntList(spec string) ([]int, error) {
	tokens := strings.Split(spec, ",")
	out := make([]int, 0, len(tokens))
	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		v, err := strconv.Atoi(tok)
		if err != nil {
			return nil, fmt.Errorf("invalid int %q: %w", tok, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func parseSensitivity(s string) (mechanism.Sensitivity, error) {
	switch strings.ToUpper(s) {
	case "ALL_DIFFER":
		return mechanism.AllDiffer, nil
	case "ONE_DIFFER":
		return mechanism.OneDiffer, nil
	default:
		return 0, fmt.Errorf("sensitivity must be ALL_DIFFER or ONE_DIFFER, got %q", s)
	}
}
