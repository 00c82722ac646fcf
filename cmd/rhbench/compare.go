package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"slices"
	"strings"

	"github.com/urfave/cli/v3"
)

// significance is the percent change at which a metric counts as moved.
const significance = 5.0

// benchSummary is the file written by the bench package into
// benchmark_history.
type benchSummary struct {
	CommitID string        `json:"commit_id"`
	Results  []benchResult `json:"results"`
}

type benchResult struct {
	Name     string             `json:"name"`
	Category string             `json:"category"`
	Metrics  map[string]float64 `json:"metrics"`
}

// MetricChange compares one metric of one benchmark.
type MetricChange struct {
	Name          string  `json:"name"`
	Base          float64 `json:"base_value"`
	Current       float64 `json:"current_value"`
	PercentChange float64 `json:"percent_change"`
	Regression    bool    `json:"is_regression"`
	Significant   bool    `json:"is_significant"`
}

// Comparison compares one benchmark present in both runs.
type Comparison struct {
	Name       string         `json:"name"`
	Category   string         `json:"category"`
	Metrics    []MetricChange `json:"metric_comparisons"`
	Regressed  bool           `json:"has_regressions"`
	Score      float64        `json:"score"`
	Assessment string         `json:"overall_assessment"`
}

func compareCommand() *cli.Command {
	return &cli.Command{
		Name:      "compare",
		Usage:     "Compare two benchmark_history files and fail on significant regressions",
		ArgsUsage: "<base.json> <current.json>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 2 {
				return fmt.Errorf("compare needs a base and a current file, got %d arguments", cmd.NArg())
			}
			base, err := readSummary(cmd.Args().Get(0))
			if err != nil {
				return err
			}
			current, err := readSummary(cmd.Args().Get(1))
			if err != nil {
				return err
			}

			comparisons := compare(base, current)
			if cmd.Bool("json") {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				if err := enc.Encode(comparisons); err != nil {
					return err
				}
			} else {
				printComparisons(os.Stdout, base.CommitID, current.CommitID, comparisons)
			}

			regressions := 0
			for _, c := range comparisons {
				if c.Regressed {
					regressions++
				}
			}
			if regressions > 0 {
				return cli.Exit(fmt.Sprintf("%d significant performance regressions", regressions), 1)
			}
			return nil
		},
	}
}

func readSummary(path string) (*benchSummary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var s benchSummary
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &s, nil
}

// higherIsBetter reports whether an increase of the metric is an
// improvement. Rates improve upwards; sizes, times and displacements
// improve downwards.
func higherIsBetter(metric string) bool {
	return strings.HasSuffix(metric, "_rate") || strings.Contains(metric, "throughput")
}

// compare matches benchmarks by name and returns them worst first.
func compare(base, current *benchSummary) []Comparison {
	byName := make(map[string]benchResult, len(base.Results))
	for _, r := range base.Results {
		byName[r.Name] = r
	}

	var out []Comparison
	for _, cur := range current.Results {
		prev, ok := byName[cur.Name]
		if !ok {
			continue
		}

		c := Comparison{Name: cur.Name, Category: cur.Category}
		for name, value := range cur.Metrics {
			baseValue, ok := prev.Metrics[name]
			if !ok {
				continue
			}
			mc := MetricChange{Name: name, Base: baseValue, Current: value}
			if baseValue != 0 {
				mc.PercentChange = (value - baseValue) / baseValue * 100
			}
			if higherIsBetter(name) {
				mc.Regression = mc.PercentChange < 0
			} else {
				mc.Regression = mc.PercentChange > 0
			}
			mc.Significant = math.Abs(mc.PercentChange) >= significance

			if mc.Regression {
				c.Score -= math.Abs(mc.PercentChange)
				c.Regressed = c.Regressed || mc.Significant
			} else {
				c.Score += math.Abs(mc.PercentChange)
			}
			c.Metrics = append(c.Metrics, mc)
		}
		if len(c.Metrics) > 0 {
			c.Score /= float64(len(c.Metrics))
		}
		slices.SortFunc(c.Metrics, func(a, b MetricChange) int {
			return compareFloat(math.Abs(b.PercentChange), math.Abs(a.PercentChange))
		})

		switch {
		case c.Regressed:
			c.Assessment = "REGRESSION"
		case c.Score > 0:
			c.Assessment = "IMPROVEMENT"
		default:
			c.Assessment = "NEUTRAL"
		}
		out = append(out, c)
	}

	slices.SortFunc(out, func(a, b Comparison) int {
		if a.Regressed != b.Regressed {
			if a.Regressed {
				return -1
			}
			return 1
		}
		return compareFloat(a.Score, b.Score)
	})
	return out
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func printComparisons(w io.Writer, baseCommit, currentCommit string, comparisons []Comparison) {
	fmt.Fprintf(w, "Benchmark comparison: %s vs %s\n", baseCommit, currentCommit)
	if len(comparisons) == 0 {
		fmt.Fprintln(w, "No matching benchmarks found for comparison")
		return
	}
	for _, c := range comparisons {
		fmt.Fprintf(w, "\n%s %s (%s) score %+.2f\n", c.Assessment, c.Name, c.Category, c.Score)
		for _, m := range c.Metrics {
			if m.PercentChange == 0 {
				continue
			}
			mark := " "
			if m.Significant {
				mark = "+"
				if m.Regression {
					mark = "-"
				}
			}
			fmt.Fprintf(w, "  %s %-24s %+8.2f%% (%g -> %g)\n", mark, m.Name, m.PercentChange, m.Base, m.Current)
		}
	}
}
