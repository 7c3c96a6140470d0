package commands

import (
	"fmt"
	"io"
	"math/big"

	"github.com/renproject/intshamir/radix"
	"github.com/renproject/intshamir/record"
	"github.com/spf13/cobra"
	"golang.org/x/xerrors"
)

func recoverCmd(s *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recover <file>...",
		Short: "Reconstruct the secret of each request",
		Long: "Reconstruct the secret of each request and print it as <file>: <secret>.\n" +
			"Requests are read concurrently and printed in the order given.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			solver, err := record.NewSolver(s.cfg.Options, s.log)
			if err != nil {
				return err
			}

			// Every argument keeps its slot, so unreadable files are reported
			// in the order given too.
			results := make([]record.Result, len(args))
			inputs := make([]record.Input, 0, len(args))
			slots := make([]int, 0, len(args))
			for i, path := range args {
				in, err := record.ReadInput(path, s.cfg.Format)
				if err != nil {
					results[i] = record.Result{Name: path, Err: err}
					continue
				}
				inputs = append(inputs, in)
				slots = append(slots, i)
			}

			solved, err := solver.SolveAll(cmd.Context(), inputs, s.cfg.Workers)
			if err != nil {
				return err
			}
			for j, res := range solved {
				results[slots[j]] = res
			}
			return report(cmd.OutOrStdout(), cmd.ErrOrStderr(), results, s.cfg.Base)
		},
	}

	f := cmd.Flags()
	f.StringVar(&s.strategy, "strategy", string(record.StrategyFirst), "use of surplus shares: first, verify or majority")
	f.BoolVar(&s.flags.Float, "float", false, "accumulate in floating point and round instead of exact arithmetic")
	f.UintVar(&s.flags.Mantissa, "mantissa", 0, "mantissa bits for --float (0 selects the default)")
	f.BoolVar(&s.flags.SkipInvalid, "skip-invalid", false, "drop shares that fail to decode")
	f.IntVar(&s.flags.SubsetLimit, "subset-limit", 0, "maximum number of subsets tried by the majority strategy")
	f.IntVar(&s.flags.Workers, "workers", 0, "number of requests solved at once (0 is one per CPU)")
	f.IntVar(&s.flags.Base, "base", 10, "base in which to print secrets")
	return cmd
}

// report prints the results and returns an error if any request failed.
func report(stdout, stderr io.Writer, results []record.Result, base int) error {
	failures, malformed := 0, false
	for _, res := range results {
		if res.Err != nil {
			failures++
			malformed = malformed || record.IsMalformed(res.Err)
			fmt.Fprintf(stderr, "%v\n", res.Err)
			continue
		}
		fmt.Fprintf(stdout, "%s: %s\n", res.Name, formatSecret(res.Secret, base))
	}
	if failures == 0 {
		return nil
	}

	code := ExitFailure
	if malformed {
		code = ExitMalformed
	}
	return &exitError{code: code, err: xerrors.Errorf("%v of %v requests failed", failures, len(results))}
}

// formatSecret renders a secret in the given base, with a leading minus sign
// for negative secrets.
func formatSecret(secret *big.Int, base int) string {
	if secret.Sign() < 0 {
		return "-" + radix.Encode(new(big.Int).Neg(secret), base)
	}
	return radix.Encode(secret, base)
}
