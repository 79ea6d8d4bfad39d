package leaseledger

import (
	"encoding/hex"
	"math/rand"
	"sync"
	"time"
)

// Simulated block number and gas ranges. Cosmetic values with no
// verification semantics; chosen to look like contemporary mainnet figures.
const (
	simBlockMin = 18_000_000
	simBlockMax = 19_000_000
	simGasMin   = 21_000
	simGasMax   = 120_000
)

// ChainSim produces the simulated blockchain fields stamped onto ledger
// activities. It is safe for concurrent use and seedable so tests get
// deterministic values.
type ChainSim struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewChainSim returns a simulator seeded with the given value.
func NewChainSim(seed int64) *ChainSim {
	return &ChainSim{rng: rand.New(rand.NewSource(seed))}
}

// NewDefaultChainSim returns a simulator seeded from the current time.
func NewDefaultChainSim() *ChainSim {
	return NewChainSim(time.Now().UnixNano())
}

// TxHash returns a fixed-length simulated transaction hash: "0x" followed by
// 64 hex characters derived from a fresh random identifier.
func (s *ChainSim) TxHash() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var raw [32]byte
	s.rng.Read(raw[:])
	return "0x" + hex.EncodeToString(raw[:])
}

// BlockNumber returns a simulated block number in a realistic range.
func (s *ChainSim) BlockNumber() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return simBlockMin + s.rng.Int63n(simBlockMax-simBlockMin)
}

// GasUsed returns a simulated gas cost in a realistic range.
func (s *ChainSim) GasUsed() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return simGasMin + s.rng.Int63n(simGasMax-simGasMin)
}
