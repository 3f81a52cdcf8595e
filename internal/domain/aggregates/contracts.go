package aggregates

import (
	"fmt"
	"strings"
)

// WriteTxOwnership says who opens and commits the transaction around a write.
type WriteTxOwnership string

const (
	// WriteTxOwnedByAggregate: write methods run their own transaction; callers never pass one in.
	WriteTxOwnedByAggregate WriteTxOwnership = "aggregate_owned"
)

// ReadPolicy says which reads an aggregate may serve.
type ReadPolicy string

const (
	// ReadPolicyInvariantScoped: only reads a write needs to decide its invariants.
	ReadPolicyInvariantScoped ReadPolicy = "invariant_scoped_reads"
	// ReadPolicyTableRepoQueries: list and lookup queries stay on the table repos.
	ReadPolicyTableRepoQueries ReadPolicy = "table_repo_queries"
)

// Contract describes how an aggregate guards its writes.
type Contract struct {
	Name             string
	WriteTxOwnership WriteTxOwnership
	ReadPolicy       ReadPolicy
	// LockTable is the table whose row lock serializes structural writes, if any.
	LockTable string
	Notes     string
}

// Aggregate is implemented by every aggregate and returns a fixed Contract.
type Aggregate interface {
	Contract() Contract
}

func (c Contract) RequiresAggregateOwnedTx() bool {
	return c.WriteTxOwnership == WriteTxOwnedByAggregate
}

// Validate reports a contract that is missing its name or uses an unknown policy.
func (c Contract) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("aggregate contract: missing name")
	}
	switch c.WriteTxOwnership {
	case WriteTxOwnedByAggregate:
	default:
		return fmt.Errorf("aggregate contract %s: unknown tx ownership %q", c.Name, c.WriteTxOwnership)
	}
	switch c.ReadPolicy {
	case ReadPolicyInvariantScoped, ReadPolicyTableRepoQueries:
	default:
		return fmt.Errorf("aggregate contract %s: unknown read policy %q", c.Name, c.ReadPolicy)
	}
	return nil
}
