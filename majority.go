package shamir

import (
	"fmt"
	"math/big"
)

// DefaultSubsetLimit is a reasonable limit on the number of subsets that
// OpenMajority will enumerate.
const DefaultSubsetLimit = 1 << 16

// Majority is the outcome of reconstructing every threshold subset of a set
// of shares.
type Majority struct {
	// Secret is the secret reconstructed by the most subsets.
	Secret *big.Int
	// Support is the number of subsets that reconstructed Secret.
	Support int
	// Subsets is the number of subsets that were tried.
	Subsets int
	// Suspects are the indices of the shares that belong to no subset that
	// reconstructed Secret, in ascending order.
	Suspects []*big.Int
}

type tally struct {
	secret  *big.Int
	support int
	members []bool
}

// OpenMajority reconstructs a secret from every subset of k shares and returns
// the secret that the most subsets agree on. Shares that do not take part in
// any agreeing subset are reported as suspects. Subsets that fail to
// reconstruct, for example because they contain a duplicate index or do not
// interpolate to an integer, count towards no secret.
//
// If there are more than limit subsets, an error wrapping ErrTooManySubsets is
// returned without trying any. A limit of zero or less means no limit. If two
// secrets have the same highest support, an error wrapping ErrNoMajority is
// returned. If no subset reconstructs, the error of the first subset is
// returned.
func (r Reconstructor) OpenMajority(shares Shares, k int, limit int) (Majority, error) {
	if k < 1 {
		return Majority{}, fmt.Errorf("expected k >= 1, got k = %v: %w", k, ErrInsufficientPoints)
	}
	n := len(shares)
	if n < k {
		return Majority{}, fmt.Errorf("expected at least %v shares, got %v: %w", k, n, ErrInsufficientPoints)
	}
	if limit > 0 {
		count := new(big.Int).Binomial(int64(n), int64(k))
		if count.Cmp(big.NewInt(int64(limit))) > 0 {
			return Majority{}, fmt.Errorf("expected at most %v subsets, got %v: %w", limit, count, ErrTooManySubsets)
		}
	}

	sorted := shares.Sorted()
	subset := make(Shares, k)
	comb := make([]int, k)
	for i := range comb {
		comb[i] = i
	}

	var tallies []*tally
	var firstErr error
	subsets := 0
	for {
		subsets++
		for i, c := range comb {
			subset[i] = sorted[c]
		}
		secret, err := r.Open(subset, k)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
		} else {
			t := findTally(tallies, secret)
			if t == nil {
				t = &tally{secret: secret, members: make([]bool, n)}
				tallies = append(tallies, t)
			}
			t.support++
			for _, c := range comb {
				t.members[c] = true
			}
		}

		if !nextCombination(comb, n) {
			break
		}
	}

	if len(tallies) == 0 {
		return Majority{}, firstErr
	}

	best, tied := tallies[0], false
	for _, t := range tallies[1:] {
		switch {
		case t.support > best.support:
			best, tied = t, false
		case t.support == best.support:
			tied = true
		}
	}
	if tied {
		return Majority{}, fmt.Errorf("%v subsets support more than one secret: %w", best.support, ErrNoMajority)
	}

	var suspects []*big.Int
	for i, member := range best.members {
		if !member {
			suspects = append(suspects, sorted[i].Index())
		}
	}

	return Majority{
		Secret:   best.secret,
		Support:  best.support,
		Subsets:  subsets,
		Suspects: suspects,
	}, nil
}

func findTally(tallies []*tally, secret *big.Int) *tally {
	for _, t := range tallies {
		if t.secret.Cmp(secret) == 0 {
			return t
		}
	}
	return nil
}

// nextCombination advances comb, a strictly increasing selection of k
// positions out of n, to the next selection in lexicographic order. It returns
// false once every selection has been visited.
func nextCombination(comb []int, n int) bool {
	k := len(comb)
	for i := k - 1; i >= 0; i-- {
		if comb[i] < n-k+i {
			comb[i]++
			for j := i + 1; j < k; j++ {
				comb[j] = comb[j-1] + 1
			}
			return true
		}
	}
	return false
}
