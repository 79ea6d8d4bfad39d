// Package leaseledger persists commercial real-estate lease documents and an
// append-only activity ledger recording every action taken against them.
//
// A Document is registered once with a fixed sharing mode; registration seeds
// the ledger with origination activities plus mode-specific sharing or
// licensing activities. Afterwards state changes are only ever appended as new
// Activity rows, and a document's current sharing/licensing state is
// reconstructed by folding over its activity history (DeriveSharingState).
//
// Blockchain fields on activities (transaction hash, block number, gas cost)
// are locally simulated and carry no verification semantics.
package leaseledger
