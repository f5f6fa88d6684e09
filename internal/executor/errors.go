package executor

import (
	"errors"
	"fmt"
	"strings"

	"optrader/internal/risk"
)

// ErrHalted means a persistence inconsistency was detected earlier and
// automated placement is disabled until the ledger is reconciled by hand.
var ErrHalted = errors.New("executor halted pending manual reconciliation")

// RiskLimitError is the expected rejection: the gate said no. It carries
// the snapshot so the caller can log the breaker state. Not retried
// within the same session.
type RiskLimitError struct {
	Reason   string
	Snapshot risk.Snapshot
}

func (e *RiskLimitError) Error() string {
	return fmt.Sprintf("risk limit exceeded: %s (circuit_breaker=%v)", e.Reason, e.Snapshot.CircuitBreakerHit)
}

// PersistenceInconsistencyError means the venue accepted an order the
// ledger failed to record. The system cannot silently lose track of a
// live position, so this is fatal: the executor halts until reconciled.
type PersistenceInconsistencyError struct {
	OrderID string
	Symbol  string
	Err     error
}

func (e *PersistenceInconsistencyError) Error() string {
	return fmt.Sprintf("order %s (%s) placed but not recorded: %v", e.OrderID, e.Symbol, e.Err)
}

func (e *PersistenceInconsistencyError) Unwrap() error { return e.Err }

// PartialSquareOffError reports a square-off sweep where some legs could
// not be closed. The failed legs stay OPEN in the ledger; the caller
// learns exactly which symbols were and were not flattened.
type PartialSquareOffError struct {
	Closed []string
	Failed map[string]error
}

func (e *PartialSquareOffError) Error() string {
	syms := make([]string, 0, len(e.Failed))
	for s := range e.Failed {
		syms = append(syms, s)
	}
	return fmt.Sprintf("square-off incomplete: closed %d, failed [%s]", len(e.Closed), strings.Join(syms, ", "))
}
