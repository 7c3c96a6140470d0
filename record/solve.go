package record

import (
	"context"
	"encoding/hex"
	"math/big"
	"strings"

	"github.com/renproject/intshamir"
	"github.com/renproject/intshamir/prec"
	"github.com/rs/xid"
	"github.com/rs/zerolog"
	"github.com/zeebo/blake3"
	"golang.org/x/xerrors"
)

// Strategy selects how a Solver uses surplus shares.
type Strategy string

const (
	// StrategyFirst reconstructs from the first k shares by index and ignores
	// the rest.
	StrategyFirst Strategy = "first"

	// StrategyVerify reconstructs from the first k shares and fails if any
	// other share disagrees.
	StrategyVerify Strategy = "verify"

	// StrategyMajority reconstructs from every k-subset and returns the
	// secret that most subsets agree on.
	StrategyMajority Strategy = "majority"
)

// ParseStrategy returns the strategy with the given name. The empty string
// gives StrategyFirst.
func ParseStrategy(name string) (Strategy, error) {
	switch s := Strategy(strings.ToLower(name)); s {
	case "":
		return StrategyFirst, nil
	case StrategyFirst, StrategyVerify, StrategyMajority:
		return s, nil
	}
	return "", xerrors.Errorf("unknown strategy %q", name)
}

// Options configure a Solver.
type Options struct {
	// Bits is the precision of share values and secrets. Zero is unbounded.
	Bits uint `yaml:"bits"`
	// Strategy is how surplus shares are used.
	Strategy Strategy `yaml:"strategy"`
	// Float selects floating point accumulation with Mantissa bits instead of
	// exact arithmetic.
	Float    bool `yaml:"float"`
	Mantissa uint `yaml:"mantissa"`
	// SkipInvalid drops shares that fail to decode instead of failing the
	// request.
	SkipInvalid bool `yaml:"skip_invalid"`
	// SubsetLimit bounds the number of subsets for StrategyMajority. Zero
	// selects shamir.DefaultSubsetLimit.
	SubsetLimit int `yaml:"subset_limit"`
}

// Result is the outcome of solving one request. Exactly one of Secret and Err
// is set.
type Result struct {
	Name        string
	ID          string
	Fingerprint string
	Secret      *big.Int
	Err         error

	// Skipped holds the ids of shares that were dropped by SkipInvalid.
	Skipped []string
	// Majority is set when the secret was found with StrategyMajority.
	Majority *shamir.Majority
}

// Solver solves requests. It holds no mutable state, so one Solver can be
// used from multiple goroutines.
type Solver struct {
	opts          Options
	reconstructor shamir.Reconstructor
	log           zerolog.Logger
}

// NewSolver returns a Solver with the given options that logs to the given
// logger.
func NewSolver(opts Options, log zerolog.Logger) (*Solver, error) {
	strategy, err := ParseStrategy(string(opts.Strategy))
	if err != nil {
		return nil, err
	}
	opts.Strategy = strategy
	if opts.SubsetLimit <= 0 {
		opts.SubsetLimit = shamir.DefaultSubsetLimit
	}

	p := prec.Bits(opts.Bits)
	reconstructor := shamir.NewReconstructor(p)
	if opts.Float {
		reconstructor = shamir.NewFloatReconstructor(p, opts.Mantissa)
	}

	return &Solver{opts: opts, reconstructor: reconstructor, log: log}, nil
}

// Fingerprint returns a short hex digest that identifies a request.
func Fingerprint(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:8])
}

// Solve parses, validates and reconstructs the request.
func (s *Solver) Solve(ctx context.Context, in Input) Result {
	res := Result{
		Name:        in.Name,
		ID:          xid.New().String(),
		Fingerprint: Fingerprint(in.Data),
	}
	log := s.log.With().
		Str("id", res.ID).
		Str("input", in.Name).
		Str("fingerprint", res.Fingerprint).
		Logger()

	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}

	bundle, err := s.bundle(in, &res, log)
	if err == nil {
		err = s.reconstruct(bundle, &res)
	}
	if err != nil {
		res.Err = xerrors.Errorf("%s: %w", in.Name, err)
		log.Error().Err(err).Bool("malformed", IsMalformed(err)).Msg("reconstruction failed")
		return res
	}

	event := log.Info().
		Int("k", bundle.K).
		Int("shares", len(bundle.Shares)).
		Str("strategy", string(s.opts.Strategy)).
		Str("secret", res.Secret.String())
	if res.Majority != nil {
		event = event.Int("support", res.Majority.Support).Int("subsets", res.Majority.Subsets)
	}
	event.Msg("reconstructed")
	return res
}

// bundle returns the decoded shares and threshold of the request.
func (s *Solver) bundle(in Input, res *Result, log zerolog.Logger) (shamir.Bundle, error) {
	if in.Format == FormatBundle {
		return ParseBundle(in.Data)
	}

	r, err := Parse(in.Data, in.Format)
	if err != nil {
		return shamir.Bundle{}, err
	}
	encoded, err := r.EncodedShares()
	if err != nil {
		return shamir.Bundle{}, err
	}
	if len(encoded) != r.Keys.N {
		log.Warn().Int("n", r.Keys.N).Int("shares", len(encoded)).Msg("share count differs from n")
	}

	k := r.Keys.K
	p := s.reconstructor.Precision()
	shares := make(shamir.Shares, 0, len(encoded))
	for _, es := range encoded {
		share, err := es.Decode(p)
		if err != nil {
			if !s.opts.SkipInvalid {
				return shamir.Bundle{}, err
			}
			log.Warn().Err(err).Str("share", es.Index.String()).Msg("skipping share")
			res.Skipped = append(res.Skipped, es.Index.String())
			continue
		}
		shares = append(shares, share)
	}
	if len(shares) < k {
		return shamir.Bundle{}, xerrors.Errorf("only %v of %v shares decoded, need %v: %w", len(shares), len(encoded), k, shamir.ErrInsufficientPoints)
	}
	return shamir.Bundle{K: k, Shares: shares}, nil
}

func (s *Solver) reconstruct(bundle shamir.Bundle, res *Result) error {
	var err error
	switch s.opts.Strategy {
	case StrategyVerify:
		res.Secret, err = s.reconstructor.Verify(bundle.Shares, bundle.K)
	case StrategyMajority:
		var majority shamir.Majority
		majority, err = s.reconstructor.OpenMajority(bundle.Shares, bundle.K, s.opts.SubsetLimit)
		if err == nil {
			res.Secret, res.Majority = majority.Secret, &majority
		}
	default:
		res.Secret, err = bundle.Open(s.reconstructor)
	}
	return err
}

// ParseBundle parses a binary bundle of decoded shares.
func ParseBundle(data []byte) (shamir.Bundle, error) {
	var bundle shamir.Bundle
	if err := bundle.UnmarshalBinary(data); err != nil {
		return shamir.Bundle{}, malformed("cannot parse bundle: %v", err)
	}
	if bundle.K <= 0 || len(bundle.Shares) == 0 {
		return shamir.Bundle{}, malformed("empty bundle")
	}
	for _, share := range bundle.Shares {
		if share.Index().Sign() <= 0 {
			return shamir.Bundle{}, malformed("share %v: id must be positive", share.Index())
		}
	}
	return bundle, nil
}

// Parse parses a JSON, YAML or CBOR request.
func Parse(data []byte, format Format) (*Record, error) {
	switch format {
	case FormatJSON, FormatYAML:
		return ParseYAML(data)
	case FormatCBOR:
		return ParseCBOR(data)
	}
	return nil, xerrors.Errorf("cannot parse %q as a record", format)
}
