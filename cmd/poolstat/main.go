// Command poolstat is an external observer of a pool allocator: it runs
// a small scripted sequence of allocations and frees against a fresh
// pool, then prints the resulting statistics and block map using only
// the allocator's read-only interfaces (Stats and Iterate). It never
// reaches into pool internals.
package main

import (
	"fmt"
	"os"

	"github.com/orizon-lang/poolalloc/internal/allocator"
	"github.com/spf13/cobra"
)

var (
	poolSize  uint
	alignment uint
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "poolstat",
		Short: "Inspect a pool allocator's block map and statistics",
		Long: `poolstat constructs a pool allocator, runs a small demo allocation
sequence against it, and prints the resulting statistics and block-by-block
map — the external, read-only view the allocator exposes to visualizers
and statistics printers.`,
	}

	rootCmd.PersistentFlags().UintVar(&poolSize, "pool-size", 65536, "total arena size in bytes")
	rootCmd.PersistentFlags().UintVar(&alignment, "alignment", 8, "payload alignment in bytes")

	rootCmd.AddCommand(newDemoCommand())
	rootCmd.AddCommand(newStatsCommand())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newPool() (*allocator.Pool, error) {
	return allocator.New(
		allocator.WithPoolSize(uintptr(poolSize)),
		allocator.WithAlignment(uintptr(alignment)),
	)
}

func newStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print stats for a freshly initialized pool",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := newPool()
			if err != nil {
				return fmt.Errorf("construct pool: %w", err)
			}

			printStats(p)

			return nil
		},
	}
}

func newDemoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Run a scripted allocate/free sequence and print the resulting block map",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := newPool()
			if err != nil {
				return fmt.Errorf("construct pool: %w", err)
			}

			a, err := p.Allocate(128)
			if err != nil {
				return err
			}

			b, err := p.Allocate(256)
			if err != nil {
				return err
			}

			if _, err := p.Allocate(64); err != nil {
				return err
			}

			if err := p.Free(b); err != nil {
				return err
			}

			if err := p.Free(a); err != nil {
				return err
			}

			printStats(p)
			printBlocks(p)

			return nil
		},
	}
}

func printStats(p *allocator.Pool) {
	s := p.Stats()
	fmt.Printf("pool_size=%d allocated=%d free=%d count=%d fragmentation=%d header_size=%d alignment=%d\n",
		s.PoolSize, s.Allocated, s.Free, s.Count, s.Fragmentation, s.HeaderSize, s.Alignment)
}

func printBlocks(p *allocator.Pool) {
	p.Iterate(func(b allocator.BlockView) bool {
		state := "free"
		if !b.Free {
			state = "allocated"
		}

		fmt.Printf("  block addr=%d payload=%d size=%d %s\n", b.Address, b.PayloadAddress, b.Size, state)

		return true
	})
}
