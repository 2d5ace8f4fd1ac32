package reconcile

import (
	"context"
	"iter"

	"pos2cmine/core/cmine"
	"pos2cmine/core/mapping"
	"pos2cmine/core/pos"
)

// Source yields the records to mirror.
type Source interface {
	// Records returns a lazy sequence over all source records.
	Records(ctx context.Context) iter.Seq2[pos.Record, error]
}

// Target is an authenticated connection to CMINE.
type Target interface {
	// UserIDByEmail resolves the owner of the managed ventures.
	UserIDByEmail(ctx context.Context, email string) (int64, error)
	// CustomAttributeNames lists attribute names whose display name matches pattern.
	CustomAttributeNames(ctx context.Context, pattern string) ([]string, error)
	// VentureIndex builds the title index of the ventures owned by owner.
	VentureIndex(ctx context.Context, owner *int64) (*cmine.Index, error)
	// CreateVenture creates a venture.
	CreateVenture(ctx context.Context, payload cmine.VenturePayload) ([]byte, error)
	// UpdateVenture replaces the venture with the given id.
	UpdateVenture(ctx context.Context, id int64, payload cmine.VenturePayload) ([]byte, error)
	// DeleteVenture deletes the venture with the given id.
	DeleteVenture(ctx context.Context, id int64) error
}

// LoginFunc opens an authenticated Target.
type LoginFunc func(ctx context.Context) (Target, error)

// Spec defines the collaborators and run constants of a reconciliation.
type Spec struct {
	// Source provides the PoS records.
	Source Source

	// Login authenticates against CMINE.
	Login LoginFunc

	// OwnerEmail selects the CMINE user whose ventures are managed.
	OwnerEmail string

	// TRLPattern selects the TRL customizable attribute, e.g. "(Trl)".
	TRLPattern string

	// Mapping holds the fixed venture values.
	Mapping mapping.Config
}

// Options controls a run.
type Options struct {
	// One stops after the first processed record (or the first deletion in purge mode).
	One bool

	// DryRun logs every decision but performs no write or delete.
	DryRun bool

	// DeleteOrphans deletes indexed ventures that no source record matched.
	// When false, orphans are only reported.
	DeleteOrphans bool
}

// Phase is the lifecycle state of an Engine.
type Phase int

const (
	PhaseUninitialized Phase = iota
	PhaseAuthenticated
	PhaseIndexed
	PhaseProcessing
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseUninitialized:
		return "uninitialized"
	case PhaseAuthenticated:
		return "authenticated"
	case PhaseIndexed:
		return "indexed"
	case PhaseProcessing:
		return "processing"
	case PhaseDone:
		return "done"
	default:
		return "unknown"
	}
}

// ActionType represents the decision taken for one record or venture.
type ActionType string

const (
	// ActionCreate creates a venture for a record with an unknown title.
	ActionCreate ActionType = "create"
	// ActionUpdate rewrites a venture whose record changed after it.
	ActionUpdate ActionType = "update"
	// ActionSkip leaves an up-to-date venture alone.
	ActionSkip ActionType = "skip"
	// ActionDelete removes a venture.
	ActionDelete ActionType = "delete"
)

// Action is a decision about one title.
type Action struct {
	// Type specifies the action to perform.
	Type ActionType `json:"type"`

	// Title is the natural key shared by record and venture.
	Title string `json:"title"`

	// VentureID is the CMINE id for update, skip and delete.
	VentureID int64 `json:"venture_id,omitempty"`

	// Reason explains the decision.
	Reason string `json:"reason"`
}

// Summary provides aggregate counts for a run.
type Summary struct {
	// Mode is "sync" or "purge".
	Mode string `json:"mode"`

	// DryRun is set when no mutation was performed.
	DryRun bool `json:"dry_run"`

	// Indexed is the number of owned ventures found at setup.
	Indexed int `json:"indexed"`

	// Duplicates counts ventures deleted while building the index.
	Duplicates int `json:"duplicates"`

	// Processed counts source records handled.
	Processed int `json:"processed"`

	// Created, Updated and Skipped count the per-record decisions.
	Created int `json:"created"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`

	// Orphans lists indexed titles no source record matched.
	Orphans []string `json:"orphans"`

	// Deleted counts ventures deleted by purge or orphan deletion.
	Deleted int `json:"deleted"`
}
