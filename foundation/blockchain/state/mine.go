package state

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// MineNewBlock solves the proof of work for the pending transactions and
// appends a new block holding them and the owner's mining reward. If the
// search is cancelled or runs out of attempts, the chain and the pending
// transactions are left untouched. If the ledger can't be persisted
// afterwards, the block stays in the chain and an error matching
// database.ErrPersistenceWrite is returned along with the block.
func (s *State) MineNewBlock(ctx context.Context) (database.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evHandler("state: MineNewBlock: MINING: started: pending[%d]", s.mempool.Count())
	defer s.evHandler("state: MineNewBlock: MINING: completed")

	prevHash := s.chain[len(s.chain)-1].Hash()
	trans := s.mempool.Copy()

	s.evHandler("state: MineNewBlock: MINING: perform POW")

	proof, err := database.FindProof(ctx, database.POWArgs{
		Difficulty:  s.genesis.Difficulty,
		MaxAttempts: s.genesis.MaxAttempts,
		Trans:       trans,
		LastHash:    prevHash,
		EvHandler:   s.evHandler,
	})
	if err != nil {
		return database.Block{}, err
	}

	// Just check one more time we were not cancelled.
	if ctx.Err() != nil {
		return database.Block{}, ctx.Err()
	}

	s.evHandler("state: MineNewBlock: MINING: update local state")

	// The reward is added after the proof is found so it's never part of
	// the proof of work.
	reward := database.NewRewardTx(s.genesis.Owner, s.genesis.MiningReward)
	block := database.NewBlock(uint64(len(s.chain)), prevHash, append(trans, reward), proof, 0)

	s.chain = append(s.chain, block)
	s.mempool.Truncate()
	s.addParticipants(reward.Sender, reward.Recipient)

	s.blockEvent(block)

	if err := s.persist(); err != nil {
		return block.Copy(), err
	}

	return block.Copy(), nil
}

// =============================================================================

// blockEvent provides a specific event about a new block in the chain for
// application specific support.
func (s *State) blockEvent(block database.Block) {
	blockJSON, err := json.Marshal(block)
	if err != nil {
		blockJSON = []byte(fmt.Sprintf("%q", err.Error()))
	}

	s.evHandler(`viewer: block: {"hash":%q,"block":%s}`, block.Hash(), string(blockJSON))
}
