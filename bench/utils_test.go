package bench_test

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/theflywheel/rhmap"
	"github.com/theflywheel/rhmap/rawalloc"
)

// BenchmarkMetrics represents metrics for a single benchmark
type BenchmarkMetrics struct {
	Name       string             `json:"name"`
	Category   string             `json:"category"`
	Operations int                `json:"operations"`
	NsPerOp    float64            `json:"ns_per_op"`
	BytesPerOp int                `json:"bytes_per_op,omitempty"`
	Metrics    map[string]float64 `json:"metrics"`
}

// BenchmarkSummary represents all benchmark results
type BenchmarkSummary struct {
	Timestamp string             `json:"timestamp"`
	CommitID  string             `json:"commit_id"`
	Branch    string             `json:"branch"`
	GoVersion string             `json:"go_version"`
	Results   []BenchmarkMetrics `json:"results"`
}

// useTempBacking points the process allocator at a fresh directory for the
// duration of the benchmark.
func useTempBacking(b *testing.B) {
	b.Helper()
	prev := rawalloc.Path()
	rawalloc.SetPath(b.TempDir())
	b.Cleanup(func() { rawalloc.SetPath(prev) })
}

// getMemoryStats returns the current heap and process memory in MB
func getMemoryStats() map[string]float64 {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return map[string]float64{
		"heap_alloc_mb": float64(m.Alloc) / (1024 * 1024),
		"sys_mb":        float64(m.Sys) / (1024 * 1024),
	}
}

// recordStats copies the table shape into the metrics
func recordStats(metrics *BenchmarkMetrics, st rhmap.Stats) {
	metrics.Metrics["capacity"] = float64(st.Capacity)
	metrics.Metrics["load_factor"] = st.LoadFactor
	metrics.Metrics["max_displacement"] = float64(st.MaxDisplacement)
	metrics.Metrics["mean_displacement"] = st.MeanDisplacement
	metrics.Metrics["bucket_mb"] = float64(st.BucketBytes) / (1024 * 1024)
	if st.Len > 0 {
		metrics.Metrics["bytes_per_key"] = float64(st.BucketBytes) / float64(st.Len)
	}
	metrics.BytesPerOp = int(st.BucketBytes)
}

// gitInfo reads the branch and short commit from the repository at root
func gitInfo(root string) (commitID, branch string) {
	commitID, branch = "local", "dev"

	head, err := os.ReadFile(filepath.Join(root, ".git", "HEAD"))
	if err != nil {
		return
	}
	ref, ok := strings.CutPrefix(strings.TrimSpace(string(head)), "ref: ")
	if !ok {
		return
	}
	branch = strings.TrimPrefix(ref, "refs/heads/")
	if data, err := os.ReadFile(filepath.Join(root, ".git", ref)); err == nil {
		commitID = strings.TrimSpace(string(data))
		if len(commitID) >= 8 {
			commitID = commitID[:8]
		}
	}
	return
}

// saveBenchmarkResult appends a result to benchmark_history/<resultsFile>
// in the repository root
func saveBenchmarkResult(metrics BenchmarkMetrics, resultsFile string) error {
	currentDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}
	repoRoot := filepath.Dir(currentDir)

	benchmarkDir := filepath.Join(repoRoot, "benchmark_history")
	if err := os.MkdirAll(benchmarkDir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	commitID, branch := gitInfo(repoRoot)
	summary := BenchmarkSummary{
		Timestamp: time.Now().Format(time.RFC3339),
		CommitID:  commitID,
		Branch:    branch,
		GoVersion: runtime.Version(),
		Results:   []BenchmarkMetrics{metrics},
	}

	latestFile := filepath.Join(benchmarkDir, resultsFile)
	if existing, err := os.ReadFile(latestFile); err == nil {
		var prev BenchmarkSummary
		if err := json.Unmarshal(existing, &prev); err == nil {
			summary.Results = append(prev.Results, metrics)
		}
	}

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshaling JSON: %w", err)
	}
	if err := os.WriteFile(latestFile, data, 0o644); err != nil {
		return fmt.Errorf("error writing file: %w", err)
	}

	fmt.Printf("Benchmark results saved to: %s\n", latestFile)
	return nil
}
