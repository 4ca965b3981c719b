package database

import (
	"context"
	"strconv"
	"strings"

	"github.com/ardanlabs/ledger/foundation/blockchain/digest"
)

// POWArgs represents the set of arguments required to run POW.
type POWArgs struct {
	Difficulty  uint
	MaxAttempts uint64
	Trans       []Tx
	LastHash    string
	EvHandler   func(v string, args ...any)
}

// FindProof performs the work of mining to find the first nonce, counting up
// from zero, that solves the proof of work puzzle for the transactions and
// the hash of the previous block. A MaxAttempts of zero means the search is
// only stopped by a solution or the context.
func FindProof(ctx context.Context, args POWArgs) (uint64, error) {
	ev := args.EvHandler
	if ev == nil {
		ev = func(v string, args ...any) {}
	}

	ev("database: FindProof: MINING: started")
	defer ev("database: FindProof: MINING: completed")

	// The transactions don't change during the search so they only need
	// to be marshaled once.
	data, err := canonicalTrans(args.Trans)
	if err != nil {
		return 0, err
	}
	prefix := string(data) + args.LastHash

	var nonce uint64
	for {
		if args.MaxAttempts > 0 && nonce >= args.MaxAttempts {
			ev("database: FindProof: MINING: GAVE UP: attempts[%d]", nonce)
			return 0, ErrProofNotFound
		}

		if nonce > 0 && nonce%1_000_000 == 0 {
			ev("database: FindProof: MINING: attempts[%d]", nonce)
		}

		// Did we timeout trying to solve the problem.
		if ctx.Err() != nil {
			ev("database: FindProof: MINING: CANCELLED")
			return 0, ctx.Err()
		}

		hash := digest.HashBytes([]byte(prefix + strconv.FormatUint(nonce, 10)))
		if isHashSolved(args.Difficulty, hash) {
			ev("database: FindProof: MINING: SOLVED: lastHash[%s]: proof[%d]: hash[%s]", args.LastHash, nonce, hash)
			return nonce, nil
		}

		nonce++
	}
}

// IsValidProof checks the proof solves the puzzle for the transactions and
// the hash of the previous block.
func IsValidProof(difficulty uint, trans []Tx, lastHash string, proof uint64) bool {
	data, err := canonicalTrans(trans)
	if err != nil {
		return false
	}

	guess := string(data) + lastHash + strconv.FormatUint(proof, 10)
	return isHashSolved(difficulty, digest.HashBytes([]byte(guess)))
}

// =============================================================================

// isHashSolved checks the hash to make sure it complies with
// the POW rules. We need to match a difficulty number of 0's.
func isHashSolved(difficulty uint, hash string) bool {
	if len(hash) != 64 || int(difficulty) > len(hash) {
		return false
	}

	return strings.HasPrefix(hash, strings.Repeat("0", int(difficulty)))
}
