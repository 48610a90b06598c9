// Package main provides a performance benchmarking tool for the analyzer CLI.
// It generates synthetic projects of growing size, runs each command several
// times per cache backend, treats the first successful run as cold and
// averages the rest as warm, and writes the timings to CSV.
//
// Prerequisites:
// - analyzer binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory the generated projects are written to
package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/huangsam/analyzer/core"
	"github.com/huangsam/analyzer/schema"
)

// BenchmarkResult holds the result of a benchmark run (no-cache average, cold run and average of warm runs).
type BenchmarkResult struct {
	Project     string
	Command     string
	NoCacheTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir       string
	Timeout       time.Duration
	NoCacheRuns   int
	CacheRuns     int
	Properties    int
	SpecimenSizes []int
}

// benchCommand is one CLI invocation measured per project.
type benchCommand struct {
	name       string
	args       []string
	completion string
}

var commands = []benchCommand{
	{name: "rank", args: []string{"rank", "--limit", "20"}, completion: "Ranking completed in"},
	{name: "rank-detail", args: []string{"rank", "--limit", "20", "--detail", "--explain"}, completion: "Ranking completed in"},
	{name: "check", args: []string{"check", "--fail-below", "0"}, completion: "scored specimens"},
}

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		WorkDir:       os.Args[1],
		Timeout:       5 * time.Minute,
		NoCacheRuns:   3,
		CacheRuns:     4,
		Properties:    8,
		SpecimenSizes: []int{100, 1000, 10000, 50000},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Clearing cache...\n")
	clearCmd := exec.Command("analyzer", "cache", "clear")
	if output, err := clearCmd.CombinedOutput(); err != nil {
		fmt.Printf("Warning: failed to clear cache: %v\nOutput: %s\n", err, string(output))
	} else {
		fmt.Printf("Cache cleared successfully\n")
	}

	results, err := runBenchmarks(config)
	if err != nil {
		fmt.Printf("Benchmark failed: %v\n", err)
		os.Exit(1)
	}

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the analyzer binary and work directory exist
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("analyzer"); err != nil {
		return errors.New("analyzer binary not found in PATH")
	}
	info, err := os.Stat(config.WorkDir)
	if err != nil {
		return fmt.Errorf("work dir %s: %w", config.WorkDir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("work dir %s is not a directory", config.WorkDir)
	}
	return nil
}

// generateProject writes a project with the given number of specimens. Values
// come from a fixed seed so every run ranks the same data.
func generateProject(config BenchmarkConfig, specimens int) (string, error) {
	rng := rand.New(rand.NewPCG(uint64(specimens), 42))

	props := make([]schema.Property, 0, config.Properties+2)
	for i := range config.Properties {
		props = append(props, schema.Property{
			Name:     fmt.Sprintf("metric_%d", i),
			Type:     schema.DoubleType,
			Weight:   i%5 - 1,
			Strategy: schema.AllStrategies[i%len(schema.AllStrategies)],
		})
	}
	props = append(props,
		schema.Property{Name: "certified", Type: schema.BooleanType, Weight: 2, Strategy: schema.MaxStrategy},
		schema.Property{Name: "notes", Type: schema.TextType, Strategy: schema.MaxStrategy},
	)

	file := struct {
		Name       string             `json:"name"`
		Properties []schema.Property  `json:"properties"`
		Specimens  []*schema.Specimen `json:"specimens"`
	}{Name: fmt.Sprintf("bench-%d", specimens), Properties: props}

	for i := range specimens {
		s := schema.NewSpecimen(fmt.Sprintf("specimen-%06d", i))
		for _, p := range props {
			switch p.Type {
			case schema.DoubleType:
				s.Values[p.Name] = schema.NumberValue(rng.Float64() * 1000)
			case schema.BooleanType:
				s.Values[p.Name] = schema.BoolValue(rng.IntN(2) == 1)
			default:
				s.Values[p.Name] = schema.TextValue(fmt.Sprintf("batch %d", i%17))
			}
		}
		file.Specimens = append(file.Specimens, s)
	}

	data, err := json.Marshal(file)
	if err != nil {
		return "", err
	}
	path := filepath.Join(config.WorkDir, file.Name+schema.ProjectExtension)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}

	// Fail early on a file the CLI would reject
	if _, err := core.OpenProject(path); err != nil {
		return "", err
	}
	return path, nil
}

// runBenchmarks executes all benchmark tests across generated projects
func runBenchmarks(config BenchmarkConfig) ([]BenchmarkResult, error) {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d projects, %v timeout, no-cache: %d runs, cache: %d runs\n",
		len(config.SpecimenSizes), config.Timeout, config.NoCacheRuns, config.CacheRuns)

	for _, size := range config.SpecimenSizes {
		path, err := generateProject(config, size)
		if err != nil {
			return nil, fmt.Errorf("generate project with %d specimens: %w", size, err)
		}
		fmt.Printf("Benchmarking %s\n", filepath.Base(path))

		for _, c := range commands {
			results = append(results, runBenchmarkSuite(config, path, c))
		}
	}

	return results, nil
}

// runBenchmarkSuite runs both no-cache and cache benchmarks for a command
func runBenchmarkSuite(config BenchmarkConfig, projectPath string, c benchCommand) BenchmarkResult {
	fmt.Printf("Running %s\n", c.name)

	runPhase := func(cacheBackend string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, projectPath, c, cacheBackend, numRuns)
		if len(times) == 0 {
			avgTime = "TIMEOUT"
		} else {
			var sum float64
			for _, t := range times {
				sum += t
			}
			avgTime = fmt.Sprintf("%.3fs", sum/float64(len(times)))
		}
		return cold, avgTime
	}

	_, noCacheAvg := runPhase("none", config.NoCacheRuns, "No-cache")
	coldTime, warmAvg := runPhase("sqlite", config.CacheRuns, "Cache")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-cache average: %s, Cold time: %s, Warm average: %s\n", noCacheAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Project:     strings.TrimSuffix(filepath.Base(projectPath), schema.ProjectExtension),
		Command:     c.name,
		NoCacheTime: noCacheAvg,
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

// runBenchmark executes an analyzer command multiple times with the given cache
// backend and returns the cold time and the warm times
func runBenchmark(config BenchmarkConfig, projectPath string, c benchCommand, cacheBackend string, numRuns int) (coldTime float64, warmTimes []float64) {
	args := append([]string{}, c.args...)
	args = append(args, projectPath, "--cache-backend", cacheBackend, "--color", "no")

	var times []float64
	for range numRuns {
		ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)
		start := time.Now()
		output, err := exec.CommandContext(ctx, "analyzer", args...).CombinedOutput()
		elapsed := time.Since(start).Seconds()
		cancel()

		if err == nil && strings.Contains(string(output), c.completion) {
			times = append(times, elapsed)
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(os.TempDir(), fmt.Sprintf("analyzer_benchmark_%s.csv", timestamp))

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"project", "cmd", "no_cache_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, result := range results {
		if err := writer.Write([]string{result.Project, result.Command, result.NoCacheTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, c := range commands {
		fmt.Printf("%s:\n", c.name)
		for _, result := range results {
			if result.Command == c.name {
				fmt.Printf("  %-14s: No-cache: %s, Cold: %s, Warm: %s\n", result.Project, result.NoCacheTime, result.ColdTime, result.WarmTime)
			}
		}
	}
}
