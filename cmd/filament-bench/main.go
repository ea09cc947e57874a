// Package main provides a benchmarking orchestrator for the Filament
// buffer library.
//
// It runs the package benchmarks and the competitor suite through
// go test, collects the raw output, and produces benchstat summaries
// (text and CSV). With -baseline it compares the current run against a
// previously saved raw output file, with -json it additionally emits a
// machine readable report.
//
// Typical usage:
//
//	filament-bench -count 10 -output results
//	filament-bench -baseline results/bench_raw_old.txt
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"golang.org/x/perf/benchstat"
)

const (
	defaultBenchTime = "1s"
	defaultCount     = 5
	defaultCPUList   = "1,4"
	defaultPackages  = "./pkg/filament,./benchmarks/competitors"
	defaultPattern   = "."
	defaultTimeout   = 10 * time.Minute

	// significanceAlpha is the p-value threshold benchstat uses to
	// mark a delta as statistically significant.
	significanceAlpha = 0.05
)

// Config holds the benchmarking configuration.
type Config struct {
	BenchTime    time.Duration
	Count        int
	CPUList      string
	Packages     []string
	BenchPattern string
	BaselinePath string
	OutputDir    string
	Timeout      time.Duration
	JSONReport   bool
	Verbose      bool
}

func main() {
	config := parseFlags()

	if config.Verbose {
		log.Printf("Starting benchmark orchestrator with config: %+v\n", config)
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	// Run benchmarks
	startTime := time.Now()
	raw, err := runBenchmarks(config)
	if err != nil {
		log.Fatalf("Failed to run benchmarks: %v", err)
	}
	elapsed := time.Since(startTime)
	log.Printf("Completed benchmark run in %v\n", elapsed)

	stamp := time.Now().Format("20060102_150405")

	// Persist the raw output so it can serve as a future baseline.
	rawPath := filepath.Join(config.OutputDir, fmt.Sprintf("bench_raw_%s.txt", stamp))
	if err := os.WriteFile(rawPath, raw, 0644); err != nil {
		log.Fatalf("Failed to write raw output: %v", err)
	}
	log.Printf("Raw output: %s\n", rawPath)

	// Analyze with benchstat
	tables, err := analyze(config, raw)
	if err != nil {
		log.Fatalf("Failed to analyze results: %v", err)
	}

	textPath := filepath.Join(config.OutputDir, fmt.Sprintf("bench_stats_%s.txt", stamp))
	csvPath := filepath.Join(config.OutputDir, fmt.Sprintf("bench_stats_%s.csv", stamp))
	if err := writeReports(textPath, csvPath, tables); err != nil {
		log.Fatalf("Failed to write reports: %v", err)
	}
	log.Printf("Text report: %s\n", textPath)
	log.Printf("CSV report:  %s\n", csvPath)

	if config.JSONReport {
		jsonPath := filepath.Join(config.OutputDir, fmt.Sprintf("bench_report_%s.json", stamp))
		if err := writeJSONReport(jsonPath, config, tables, elapsed); err != nil {
			log.Fatalf("Failed to write JSON report: %v", err)
		}
		log.Printf("JSON report: %s\n", jsonPath)
	}

	printSummary(tables)
}

func parseFlags() *Config {
	config := &Config{}

	var benchTimeStr string
	var timeoutStr string
	var packagesStr string

	flag.StringVar(&benchTimeStr, "benchtime", defaultBenchTime, "Time per benchmark (e.g., 1s, 100ms)")
	flag.IntVar(&config.Count, "count", defaultCount, "Number of times to run each benchmark")
	flag.StringVar(&config.CPUList, "cpu", defaultCPUList, "Comma-separated CPU counts to test")
	flag.StringVar(&packagesStr, "pkg", defaultPackages, "Comma-separated package patterns to benchmark")
	flag.StringVar(&config.BenchPattern, "bench", defaultPattern, "Benchmark name pattern (regex)")
	flag.StringVar(&config.BaselinePath, "baseline", "", "Raw output file of a previous run to compare against")
	flag.StringVar(&config.OutputDir, "output", "benchmark_results", "Output directory for results")
	flag.StringVar(&timeoutStr, "timeout", defaultTimeout.String(), "Timeout per package run")
	flag.BoolVar(&config.JSONReport, "json", false, "Also emit a JSON report")
	flag.BoolVar(&config.Verbose, "v", false, "Verbose output (streams benchmark results)")

	flag.Parse()

	benchTime, err := time.ParseDuration(benchTimeStr)
	if err != nil {
		log.Fatalf("Invalid benchtime: %v", err)
	}
	config.BenchTime = benchTime

	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		log.Fatalf("Invalid timeout: %v", err)
	}
	config.Timeout = timeout

	if config.Count < 1 {
		log.Fatalf("Invalid count: %d", config.Count)
	}
	if config.Count < 4 && config.BaselinePath != "" {
		log.Printf("WARNING: count=%d gives benchstat too few samples for significance testing.", config.Count)
		log.Printf("         Consider -count 5 or higher when comparing against a baseline.")
	}

	for _, p := range strings.Split(packagesStr, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			config.Packages = append(config.Packages, p)
		}
	}
	if len(config.Packages) == 0 {
		log.Fatalf("No packages to benchmark")
	}

	return config
}

func runBenchmarks(config *Config) ([]byte, error) {
	var combined bytes.Buffer

	for i, pkg := range config.Packages {
		log.Printf("[%d/%d] Benchmarking %s...\n", i+1, len(config.Packages), pkg)

		args := []string{
			"test",
			fmt.Sprintf("-bench=%s", config.BenchPattern),
			"-benchmem",
			fmt.Sprintf("-benchtime=%s", config.BenchTime),
			fmt.Sprintf("-count=%d", config.Count),
			fmt.Sprintf("-cpu=%s", config.CPUList),
			"-run=^$", // benchmarks only
			fmt.Sprintf("-timeout=%s", config.Timeout),
			pkg,
		}

		cmd := exec.Command("go", args...)

		var stdout, stderr bytes.Buffer
		if config.Verbose {
			cmd.Stdout = io.MultiWriter(&stdout, os.Stdout)
			cmd.Stderr = io.MultiWriter(&stderr, os.Stderr)
		} else {
			cmd.Stdout = &stdout
			cmd.Stderr = &stderr
		}

		start := time.Now()
		err := cmd.Run()
		log.Printf("[%d/%d] Completed %s in %v\n", i+1, len(config.Packages), pkg, time.Since(start))

		if err != nil {
			if stderr.Len() > 0 && !config.Verbose {
				log.Printf("Stderr:\n%s\n", stderr.String())
			}
			return nil, fmt.Errorf("benchmarking %s: %w", pkg, err)
		}

		combined.Write(stdout.Bytes())
	}

	return combined.Bytes(), nil
}

// analyze feeds the raw output through benchstat. With a baseline the
// tables carry old/new columns and significance-tested deltas.
func analyze(config *Config, raw []byte) ([]*benchstat.Table, error) {
	c := &benchstat.Collection{
		Alpha:      significanceAlpha,
		AddGeoMean: true,
		DeltaTest:  benchstat.UTest,
	}

	if config.BaselinePath != "" {
		f, err := os.Open(config.BaselinePath)
		if err != nil {
			return nil, fmt.Errorf("opening baseline: %w", err)
		}
		defer f.Close()
		if err := c.AddFile("baseline", f); err != nil {
			return nil, fmt.Errorf("parsing baseline: %w", err)
		}
	}

	if err := c.AddFile("current", bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("parsing current run: %w", err)
	}

	return c.Tables(), nil
}

func writeReports(textPath, csvPath string, tables []*benchstat.Table) error {
	var text bytes.Buffer
	benchstat.FormatText(&text, tables)
	if err := os.WriteFile(textPath, text.Bytes(), 0644); err != nil {
		return err
	}

	var csv bytes.Buffer
	benchstat.FormatCSV(&csv, tables, false)
	return os.WriteFile(csvPath, csv.Bytes(), 0644)
}

// jsonReport is the machine readable form of the benchstat tables.
type jsonReport struct {
	GeneratedAt string      `json:"generated_at"`
	GoOS        string      `json:"goos"`
	GoArch      string      `json:"goarch"`
	NumCPU      int         `json:"num_cpu"`
	BenchTime   string      `json:"benchtime"`
	Count       int         `json:"count"`
	CPUList     string      `json:"cpu_list"`
	Elapsed     string      `json:"elapsed"`
	Tables      []jsonTable `json:"tables"`
}

type jsonTable struct {
	Metric string    `json:"metric"`
	Rows   []jsonRow `json:"rows"`
}

type jsonRow struct {
	Benchmark string    `json:"benchmark"`
	Means     []float64 `json:"means"`
	Delta     string    `json:"delta,omitempty"`
	Note      string    `json:"note,omitempty"`
}

func writeJSONReport(path string, config *Config, tables []*benchstat.Table, elapsed time.Duration) error {
	report := jsonReport{
		GeneratedAt: time.Now().Format(time.RFC3339),
		GoOS:        runtime.GOOS,
		GoArch:      runtime.GOARCH,
		NumCPU:      runtime.NumCPU(),
		BenchTime:   config.BenchTime.String(),
		Count:       config.Count,
		CPUList:     config.CPUList,
		Elapsed:     elapsed.String(),
	}

	for _, t := range tables {
		jt := jsonTable{Metric: t.Metric}
		for _, r := range t.Rows {
			jr := jsonRow{
				Benchmark: r.Benchmark,
				Note:      r.Note,
			}
			for _, m := range r.Metrics {
				jr.Means = append(jr.Means, m.Mean)
			}
			if t.OldNewDelta {
				jr.Delta = r.Delta
			}
			jt.Rows = append(jt.Rows, jr)
		}
		report.Tables = append(report.Tables, jt)
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func printSummary(tables []*benchstat.Table) {
	fmt.Println("\n" + strings.Repeat("=", 79))
	fmt.Println(" Benchmark Summary")
	fmt.Println(strings.Repeat("=", 79))
	benchstat.FormatText(os.Stdout, tables)
}
