// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/ardanlabs/ledger/business/web/errs"
	"github.com/ardanlabs/ledger/foundation/blockchain/state"
	"github.com/ardanlabs/ledger/foundation/events"
	"github.com/ardanlabs/ledger/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handlers manages the set of ledger endpoints.
type Handlers struct {
	Log         *zap.SugaredLogger
	State       *state.State
	WS          websocket.Upgrader
	Evts        *events.Events
	AllowTamper bool
}

// Events handles a web socket to provide events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	// The upgrade has written the response.
	v.StatusCode = http.StatusSwitchingProtocols

	id, ch := h.Evts.Acquire()
	defer h.Evts.Release(id)

	h.Log.Infow("events", "traceid", v.TraceID, "status", "subscribed", "subscriber", id)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return nil
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}

// SubmitTransaction adds a new transaction to the pending pool.
func (h Handlers) SubmitTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var ntx NewTx
	if err := web.Decode(r, &ntx); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	dbTx := h.State.NewTx(ntx.Sender, ntx.Recipient, ntx.Amount)

	h.Log.Infow("submit tran", "traceid", v.TraceID, "tx", dbTx)
	if err := h.State.SubmitTransaction(dbTx); err != nil {
		return errs.FromLedger(err)
	}

	resp := status{
		Status:  "transaction added to pending",
		Pending: h.State.QueryPendingLength(),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Mine mines a new block with the pending transactions and then checks the
// chain is still valid.
func (h Handlers) Mine(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	blk, err := h.State.MineNewBlock(ctx)
	if err != nil {
		return errs.FromLedger(err)
	}

	h.Log.Infow("mined block", "traceid", v.TraceID, "index", blk.Index, "proof", blk.Proof)

	if err := h.State.VerifyChain(); err != nil {
		return errs.NewTrusted(err, http.StatusConflict)
	}

	return web.Respond(ctx, w, toBlock(blk), http.StatusOK)
}

// Genesis returns the genesis information.
func (h Handlers) Genesis(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	gen := h.State.RetrieveGenesis()
	return web.Respond(ctx, w, gen, http.StatusOK)
}

// Pending returns the set of pending transactions.
func (h Handlers) Pending(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	pending := h.State.QueryPending()
	return web.Respond(ctx, w, toTxs(pending), http.StatusOK)
}

// Participants returns the sorted set of known participants.
func (h Handlers) Participants(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.State.QueryParticipants(), http.StatusOK)
}

// Balances returns the current balances for all participants or the one
// specified.
func (h Handlers) Balances(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	participant := web.Param(r, "participant")

	var bals []balance
	switch participant {
	case "":
		for p, bal := range h.State.Balances() {
			bals = append(bals, balance{Participant: p, Balance: bal})
		}
		sort.Slice(bals, func(i, j int) bool {
			return bals[i].Participant < bals[j].Participant
		})

	default:
		bals = []balance{{Participant: participant, Balance: h.State.Balance(participant)}}
	}

	resp := balances{
		LatestBlock: h.State.RetrieveLatestBlock().Hash(),
		Pending:     h.State.QueryPendingLength(),
		Balances:    bals,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Blocks returns all the blocks and their details. When a participant is
// specified, only the blocks holding one of their transactions are returned.
func (h Handlers) Blocks(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	dbBlocks := h.State.QueryBlocksByParticipant(web.Param(r, "participant"))
	if len(dbBlocks) == 0 {
		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}

	blocks := make([]block, len(dbBlocks))
	for i, dbBlock := range dbBlocks {
		blocks[i] = toBlock(dbBlock)
	}

	return web.Respond(ctx, w, blocks, http.StatusOK)
}

// VerifyChain checks the linkage and proof of work of every block.
func (h Handlers) VerifyChain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	if err := h.State.VerifyChain(); err != nil {
		return errs.NewTrusted(err, http.StatusConflict)
	}

	resp := verify{
		Valid:  true,
		Blocks: len(h.State.QueryBlocks()),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// VerifyPending checks every pending transaction is still covered by its
// sender's balance.
func (h Handlers) VerifyPending(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	if err := h.State.VerifyPending(); err != nil {
		return errs.NewTrusted(err, http.StatusConflict)
	}

	resp := verify{
		Valid: true,
		Count: h.State.QueryPendingLength(),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Tamper replaces the transactions of the genesis block. It's only available
// when the node is started with tampering allowed.
func (h Handlers) Tamper(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	if !h.AllowTamper {
		return errs.NewTrusted(errors.New("tampering is not allowed on this node"), http.StatusForbidden)
	}

	var ntx NewTx
	if err := web.Decode(r, &ntx); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	dbTx := h.State.NewTx(ntx.Sender, ntx.Recipient, ntx.Amount)

	h.Log.Warnw("tamper", "traceid", v.TraceID, "tx", dbTx)
	h.State.Tamper(dbTx)

	resp := struct {
		Genesis block `json:"genesis"`
	}{
		Genesis: toBlock(h.State.QueryBlocks()[0]),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}
