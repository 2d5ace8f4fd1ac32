// Package pos reads solutions from the PoS (Portfolio of Solutions) group export.
//
// The export is paginated by offset: every request carries an offset query
// parameter and an empty JSON array marks the end. Reader.Records exposes the
// whole export as a lazy iter.Seq2, driven by a Pager whose only state is the
// numeric offset.
//
//	reader := pos.NewReader(cfg.Pos.URL, httpClient, logger, verbosity)
//	for rec, err := range reader.Records(ctx) {
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Println(rec.Title)
//	}
package pos
