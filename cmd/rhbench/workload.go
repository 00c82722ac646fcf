package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/urfave/cli/v3"
	"lukechampine.com/frand"

	"github.com/theflywheel/rhmap"
)

// checkEvery is how many operations run between cancellation checks.
const checkEvery = 1 << 16

func mapCommand() *cli.Command {
	return &cli.Command{
		Name:  "map",
		Usage: "Insert integer keys, look them up in random order, remove the odd ones",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			e, err := setup(cmd)
			if err != nil {
				return err
			}
			r, err := runMap(ctx, e)
			if err != nil {
				return err
			}
			return report(cmd, r)
		},
	}
}

func setCommand() *cli.Command {
	return &cli.Command{
		Name:  "set",
		Usage: "Insert random 16-byte keys into a set and probe for present and absent ones",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			e, err := setup(cmd)
			if err != nil {
				return err
			}
			r, err := runSet(ctx, e)
			if err != nil {
				return err
			}
			return report(cmd, r)
		},
	}
}

func runMap(ctx context.Context, e *env) (*Result, error) {
	n := e.cfg.Bench.Keys
	m := rhmap.NewWithCapacity[uint64, uint64](e.cfg.Bench.Capacity, rhmap.WithLogger(e.log))
	defer m.Close()

	r := &Result{Workload: "map", Keys: n, Backing: e.cfg.Backing.Path}
	order := frand.Perm(n)

	err := r.phase("insert", n, func() error {
		for i := 0; i < n; i++ {
			if i%checkEvery == 0 && ctx.Err() != nil {
				return ctx.Err()
			}
			if _, _, err := m.Insert(uint64(i), uint64(i)*2); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = r.phase("lookup", n, func() error {
		for j, i := range order {
			if j%checkEvery == 0 && ctx.Err() != nil {
				return ctx.Err()
			}
			v, ok := m.Get(uint64(i))
			if !ok || v != uint64(i)*2 {
				return fmt.Errorf("key %d: got %d, %v", i, v, ok)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = r.phase("remove", n/2, func() error {
		for i := 1; i < n; i += 2 {
			if i%checkEvery == 1 && ctx.Err() != nil {
				return ctx.Err()
			}
			if _, ok := m.Remove(uint64(i)); !ok {
				return fmt.Errorf("key %d missing", i)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.Stats = m.Stats()
	e.log.Info("map workload done", "keys", n, "len", m.Len(), "capacity", m.Capacity())
	return r, nil
}

func runSet(ctx context.Context, e *env) (*Result, error) {
	n := e.cfg.Bench.Keys
	s := rhmap.NewSetWithCapacity[uuid.UUID](e.cfg.Bench.Capacity, rhmap.WithLogger(e.log))
	defer s.Close()

	r := &Result{Workload: "set", Keys: n, Backing: e.cfg.Backing.Path}

	keys := make([]uuid.UUID, n)
	for i := range keys {
		frand.Read(keys[i][:])
	}

	err := r.phase("insert", n, func() error {
		for i, k := range keys {
			if i%checkEvery == 0 && ctx.Err() != nil {
				return ctx.Err()
			}
			if _, err := s.Insert(k); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = r.phase("contains", n, func() error {
		for i, k := range keys {
			if i%checkEvery == 0 && ctx.Err() != nil {
				return ctx.Err()
			}
			if !s.Contains(k) {
				return fmt.Errorf("key %s missing", k)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	misses := 0
	err = r.phase("absent", n, func() error {
		for i := 0; i < n; i++ {
			if i%checkEvery == 0 && ctx.Err() != nil {
				return ctx.Err()
			}
			if s.Contains(uuid.New()) {
				misses++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.Stats = s.Stats()
	e.log.Info("set workload done", "keys", n, "len", s.Len(), "capacity", s.Capacity(), "false_hits", misses)
	return r, nil
}
