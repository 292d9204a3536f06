package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/aretw0/marl"
)

func main() {
	count := flag.Int("count", 1000, "Number of schemas to generate")
	touch := flag.Int("touch", 100, "Number of schemas to touch before the incremental run")
	keep := flag.Bool("keep", false, "Keep the benchmark directory after running")
	flag.Parse()

	// 1. Setup Namespace
	benchDir, err := os.MkdirTemp("", "marl_bench_")
	if err != nil {
		panic(err)
	}
	defer func() {
		if !*keep {
			os.RemoveAll(benchDir)
		} else {
			fmt.Printf("Keeping bench dir: %s\n", benchDir)
		}
	}()

	fmt.Printf("Generating %d schemas in %s...\n", *count, benchDir)
	startGen := time.Now()

	// Direct file writes are the fastest setup and simulate an existing
	// schema directory that nothing has synced yet.
	for i := 0; i < *count; i++ {
		content := fmt.Sprintf(`{"$id": "https://bench.example/schema/%d", "type": "object", "title": "Schema %d"}`, i, i)
		filename := filepath.Join(benchDir, fmt.Sprintf("schema_%d.json", i))
		if err := os.WriteFile(filename, []byte(content), 0644); err != nil {
			panic(err)
		}
	}
	fmt.Printf("Generation took: %v\n", time.Since(startGen))

	// 2. Initialize Cache
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	cache := marl.New(marl.WithLogger(logger))

	ctx := context.TODO()

	// Run 1: Cold (empty table, every file is read and parsed)
	fmt.Println("Running Sync (Run 1 - Cold)...")
	startCold := time.Now()
	report, err := marl.Sync(ctx, cache, benchDir, nil)
	if err != nil {
		panic(err)
	}
	cold := time.Since(startCold)
	fmt.Printf("Run 1 Result: %v (Admitted: %d)\n", cold, report.Admitted)

	// Run 2: Warm (same instance; every mtime matches its row, so the
	// scan should skip every file without reading it)
	fmt.Println("Running Sync (Run 2 - Warm)...")
	startWarm := time.Now()
	report2, err := marl.Sync(ctx, cache, benchDir, nil)
	if err != nil {
		panic(err)
	}
	warm := time.Since(startWarm)
	fmt.Printf("Run 2 Result: %v (Admitted: %d)\n", warm, report2.Admitted)

	// Run 3: Incremental. Touch a subset into the future so only those
	// files count as newer than their rows.
	touched := *touch
	if touched > *count {
		touched = *count
	}
	future := time.Now().Add(time.Hour)
	for i := 0; i < touched; i++ {
		filename := filepath.Join(benchDir, fmt.Sprintf("schema_%d.json", i))
		if err := os.Chtimes(filename, future, future); err != nil {
			panic(err)
		}
	}

	fmt.Printf("Running Sync (Run 3 - Incremental, %d touched)...\n", touched)
	startInc := time.Now()
	report3, err := marl.Sync(ctx, cache, benchDir, nil)
	if err != nil {
		panic(err)
	}
	inc := time.Since(startInc)
	fmt.Printf("Run 3 Result: %v (Admitted: %d)\n", inc, report3.Admitted)

	fmt.Printf("--------------------------------------------------\n")
	fmt.Printf("Benchmark Result (%d schemas):\n", *count)
	fmt.Printf("  Cold:        %v\n", cold)
	fmt.Printf("  Warm:        %v\n", warm)
	fmt.Printf("  Incremental: %v\n", inc)
	fmt.Printf("--------------------------------------------------\n")
}
