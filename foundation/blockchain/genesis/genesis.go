// Package genesis maintains access to the genesis file.
package genesis

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"
)

// Set of default values used when the genesis file doesn't provide them.
const (
	DefaultOwner        = "Sender name"
	DefaultAmount       = 1.0
	DefaultMiningReward = 10
	DefaultDifficulty   = 2
)

// MaxDifficulty is the number of hex digits in a block hash. A higher
// difficulty can never be solved.
const MaxDifficulty = 64

// Genesis represents the genesis file.
type Genesis struct {
	Date          time.Time `json:"date"`
	Owner         string    `json:"owner"`          // Participant credited with mining rewards and used as the default sender.
	DefaultAmount float64   `json:"default_amount"` // Amount used when a transaction doesn't specify one.
	MiningReward  float64   `json:"mining_reward"`  // Reward for mining a block.
	Difficulty    uint      `json:"difficulty"`     // How difficult it needs to be to solve the work problem.
	MaxAttempts   uint64    `json:"max_attempts"`   // Number of nonces to try before giving up, 0 is unlimited.
}

// Default returns the genesis values used when there is no genesis file.
func Default() Genesis {
	return Genesis{
		Owner:         DefaultOwner,
		DefaultAmount: DefaultAmount,
		MiningReward:  DefaultMiningReward,
		Difficulty:    DefaultDifficulty,
	}
}

// =============================================================================

// Load opens and consumes the genesis file. A missing file is not an error,
// the default values are returned instead.
func Load(path string) (Genesis, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return Genesis{}, err
	}

	genesis := Default()
	if err := json.Unmarshal(content, &genesis); err != nil {
		return Genesis{}, err
	}

	if genesis.Owner == "" {
		return Genesis{}, errors.New("genesis owner is required")
	}

	if genesis.Difficulty > MaxDifficulty {
		return Genesis{}, fmt.Errorf("genesis difficulty %d is above %d", genesis.Difficulty, MaxDifficulty)
	}

	return genesis, nil
}
