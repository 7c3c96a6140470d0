package commands

import (
	"os"

	"github.com/renproject/intshamir"
	"github.com/renproject/intshamir/prec"
	"github.com/renproject/intshamir/record"
	"github.com/spf13/cobra"
	"golang.org/x/xerrors"
)

func packCmd(s *state) *cobra.Command {
	return &cobra.Command{
		Use:   "pack <in> <out>",
		Short: "Decode a request and store it as a binary bundle",
		Long: "Decode the shares of a JSON, YAML or CBOR request and write them with the\n" +
			"threshold as a binary bundle, which recover reads with --format bundle or\n" +
			"from a .bundle file.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := record.ReadInput(args[0], s.cfg.Format)
			if err != nil {
				return err
			}
			r, err := record.Parse(in.Data, in.Format)
			if err != nil {
				return xerrors.Errorf("%s: %w", in.Name, err)
			}
			encoded, err := r.EncodedShares()
			if err != nil {
				return xerrors.Errorf("%s: %w", in.Name, err)
			}
			shares, err := encoded.Decode(prec.Bits(s.cfg.Bits))
			if err != nil {
				return xerrors.Errorf("%s: %w", in.Name, err)
			}

			bundle := shamir.Bundle{K: r.Threshold(), Shares: shares}
			data, err := bundle.MarshalBinary()
			if err != nil {
				return xerrors.Errorf("failed to marshal bundle: %w", err)
			}
			if err := os.WriteFile(args[1], data, 0o644); err != nil {
				return xerrors.Errorf("failed to write %s: %w", args[1], err)
			}

			s.log.Info().
				Str("input", in.Name).
				Str("output", args[1]).
				Int("k", bundle.K).
				Int("shares", len(shares)).
				Str("fingerprint", record.Fingerprint(in.Data)).
				Msg("packed")
			return nil
		},
	}
}
