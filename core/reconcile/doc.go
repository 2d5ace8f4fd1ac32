// Package reconcile decides and applies the changes that mirror PoS solutions
// into CMINE ventures.
//
// Records and ventures are matched by title. The decision for one record is a
// pure function (Decide) of the identity index and the record:
//
//   - title not indexed: create
//   - record changed strictly after the venture's updated_at (both in UTC): update
//   - otherwise: skip
//
// # Lifecycle
//
// An Engine moves through Uninitialized, Authenticated, Indexed, Processing
// and Done. Setup (login, owner lookup, TRL attribute lookup, index build) runs
// once before the first record is read, so an empty source still yields a
// complete orphan report.
//
// # Orphans and purge
//
// Indexed ventures that no record matched are orphans. They are reported in
// the Summary and deleted only when Options.DeleteOrphans is set. Purge deletes
// every venture of the owner regardless of the source.
//
// # Usage Example
//
//	spec := &reconcile.Spec{
//	    Source:     pos.NewReader(cfg.Pos.URL, httpClient, logger, verbosity),
//	    Login:      login,
//	    OwnerEmail: cfg.Cmine.Owner,
//	    TRLPattern: cfg.Cmine.TRLPattern,
//	    Mapping:    cfg.Mapping,
//	}
//	summary, err := reconcile.NewEngine(spec, reconcile.Options{}, logger).Sync(ctx)
package reconcile
