package reconcile

import (
	"fmt"
	"time"

	"pos2cmine/core/cmine"
	"pos2cmine/core/pos"
)

// timestampLayouts are the ISO-8601 shapes seen on both APIs.
// PoS writes numeric offsets without a colon ("+0200"), CMINE writes "Z".
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02T15:04:05Z07",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02",
}

// ParseTimestamp parses an ISO-8601 timestamp and returns it in UTC.
// Timestamps without a zone are taken as UTC.
func ParseTimestamp(value string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", value)
}

// Decide returns the action for rec given the ventures already present.
// A venture is updated only when the record changed strictly after it.
func Decide(index *cmine.Index, rec pos.Record) (Action, error) {
	entry, ok := index.Lookup(rec.Title)
	if !ok {
		return Action{Type: ActionCreate, Title: rec.Title, Reason: "not on CMINE"}, nil
	}

	changed, err := ParseTimestamp(rec.Changed)
	if err != nil {
		return Action{}, fmt.Errorf("PoS record %q: changed: %w", rec.Title, err)
	}
	updated, err := ParseTimestamp(entry.UpdatedAt)
	if err != nil {
		return Action{}, fmt.Errorf("venture %d %q: updated_at: %w", entry.ID, rec.Title, err)
	}

	if changed.After(updated) {
		return Action{
			Type:      ActionUpdate,
			Title:     rec.Title,
			VentureID: entry.ID,
			Reason:    fmt.Sprintf("PoS changed %s after CMINE update %s", changed.Format(time.RFC3339), updated.Format(time.RFC3339)),
		}, nil
	}
	return Action{
		Type:      ActionSkip,
		Title:     rec.Title,
		VentureID: entry.ID,
		Reason:    "up to date",
	}, nil
}
