package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/theflywheel/rhmap"
)

// Phase is the timing of one pass over the keys.
type Phase struct {
	Name    string        `json:"name"`
	Ops     int           `json:"ops"`
	Elapsed time.Duration `json:"elapsed_ns"`
	NsPerOp float64       `json:"ns_per_op"`
}

// Result summarises a workload run.
type Result struct {
	Workload string      `json:"workload"`
	Keys     int         `json:"keys"`
	Backing  string      `json:"backing"`
	Phases   []Phase     `json:"phases"`
	Stats    rhmap.Stats `json:"stats"`
}

func (r *Result) phase(name string, ops int, fn func() error) error {
	start := time.Now()
	if err := fn(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	elapsed := time.Since(start)

	p := Phase{Name: name, Ops: ops, Elapsed: elapsed}
	if ops > 0 {
		p.NsPerOp = float64(elapsed.Nanoseconds()) / float64(ops)
	}
	r.Phases = append(r.Phases, p)
	return nil
}

func (r *Result) writeText(w io.Writer) {
	fmt.Fprintf(w, "%s workload, %d keys, backing %s\n", r.Workload, r.Keys, r.Backing)
	for _, p := range r.Phases {
		fmt.Fprintf(w, "  %-8s %10d ops %12v %10.1f ns/op\n", p.Name, p.Ops, p.Elapsed, p.NsPerOp)
	}
	s := r.Stats
	fmt.Fprintf(w, "  len=%d capacity=%d load=%.3f max_disp=%d mean_disp=%.3f mapped=%v bytes=%d\n",
		s.Len, s.Capacity, s.LoadFactor, s.MaxDisplacement, s.MeanDisplacement, s.Mapped, s.BucketBytes)
}

// report prints r to stdout, as JSON with --json, and writes it to --out.
func report(cmd *cli.Command, r *Result) error {
	if cmd.Bool("json") {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(r); err != nil {
			return err
		}
	} else {
		r.writeText(os.Stdout)
	}

	out := cmd.String("out")
	if out == "" {
		return nil
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("writing result: %w", err)
	}
	return nil
}
