package fees

import (
	"context"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"wallet-recon/internal/etherscan"
)

// Resolution notes. Exactly one is set per record; they name which path of
// the fallback chain produced (or failed to produce) a price.
const (
	NoteEffectiveGasPrice = "effectiveGasPrice"
	NoteFallbackGasPrice  = "fallback_gasPrice"
	NoteNoPriceFound      = "no_price_found"
	NoteNoReceipt         = "no_receipt"
	noteErrorPrefix       = "error:"
)

// Record is the terminal outcome of fee resolution for one transaction hash.
// Nil numeric fields mean the source carried nothing decodable.
type Record struct {
	GasUsed           *big.Int
	EffectiveGasPrice *big.Int
	GasPrice          *big.Int // legacy price, only fetched on fallback
	PriceUsed         *big.Int
	FeeWei            *big.Int
	FeeNative         *decimal.Decimal // FeeWei scaled by 1e-18
	Note              string
}

// FeeInQuote converts the native fee by the run-wide quote price. Nil when
// no fee was computed.
func (r Record) FeeInQuote(quote decimal.Decimal) *decimal.Decimal {
	if r.FeeNative == nil {
		return nil
	}
	v := r.FeeNative.Mul(quote)
	return &v
}

// Resolver computes gas fees for transaction hashes.
type Resolver interface {
	Resolve(ctx context.Context, txHash string) Record
}

// Reconciler resolves on-chain fees with a per-run memoization cache. It is
// safe for concurrent use: concurrent Resolve calls for the same hash share
// one computation.
type Reconciler struct {
	src    etherscan.TxSource
	delay  time.Duration
	logger zerolog.Logger

	mu    sync.Mutex
	cache map[string]*inflight
}

type inflight struct {
	done chan struct{}
	rec  Record
}

// NewReconciler builds a Reconciler. delay is the pause applied before the
// fallback transaction lookup, pacing calls against the rate-limited source.
func NewReconciler(src etherscan.TxSource, delay time.Duration, logger zerolog.Logger) *Reconciler {
	return &Reconciler{
		src:    src,
		delay:  delay,
		logger: logger.With().Str("component", "fees").Logger(),
		cache:  make(map[string]*inflight),
	}
}

// Resolve returns the fee record for the hash, computing it at most once per
// run. Transport failures are folded into the record's note, never returned.
func (r *Reconciler) Resolve(ctx context.Context, txHash string) Record {
	r.mu.Lock()
	if f, ok := r.cache[txHash]; ok {
		r.mu.Unlock()
		<-f.done
		return f.rec
	}
	f := &inflight{done: make(chan struct{})}
	r.cache[txHash] = f
	r.mu.Unlock()

	f.rec = r.compute(ctx, txHash)
	close(f.done)
	return f.rec
}

func (r *Reconciler) compute(ctx context.Context, txHash string) Record {
	receipt, err := r.src.TransactionReceipt(ctx, txHash)
	if err != nil {
		r.logger.Warn().Err(err).Str("tx", txHash).Msg("receipt lookup failed")
		return Record{Note: noteErrorPrefix + err.Error()}
	}
	if receipt == nil {
		return Record{Note: NoteNoReceipt}
	}

	rec := Record{
		GasUsed:           decodeQuantity(receipt.GasUsed),
		EffectiveGasPrice: decodeQuantity(receipt.EffectiveGasPrice),
	}

	if rec.EffectiveGasPrice != nil {
		rec.PriceUsed = rec.EffectiveGasPrice
		rec.Note = NoteEffectiveGasPrice
	} else {
		if err := r.pace(ctx); err != nil {
			return Record{Note: noteErrorPrefix + err.Error()}
		}
		tx, err := r.src.TransactionByHash(ctx, txHash)
		if err != nil {
			r.logger.Warn().Err(err).Str("tx", txHash).Msg("transaction lookup failed")
			return Record{Note: noteErrorPrefix + err.Error()}
		}
		if tx != nil {
			rec.GasPrice = decodeQuantity(tx.GasPrice)
		}
		if rec.GasPrice != nil {
			rec.PriceUsed = rec.GasPrice
			rec.Note = NoteFallbackGasPrice
		} else {
			rec.Note = NoteNoPriceFound
		}
	}

	if rec.GasUsed == nil || rec.PriceUsed == nil {
		return rec
	}

	rec.FeeWei = new(big.Int).Mul(rec.GasUsed, rec.PriceUsed)
	native := decimal.NewFromBigInt(rec.FeeWei, -18)
	rec.FeeNative = &native
	return rec
}

func (r *Reconciler) pace(ctx context.Context) error {
	if r.delay <= 0 {
		return nil
	}
	timer := time.NewTimer(r.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// decodeQuantity parses a hex-or-decimal numeric string. Malformed values
// decode to nil, never an error.
func decodeQuantity(s string) *big.Int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		n, err := hexutil.DecodeBig(s)
		if err != nil {
			return nil
		}
		return n
	}
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil
	}
	return n
}

var _ Resolver = (*Reconciler)(nil)
