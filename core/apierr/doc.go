// Package apierr defines the error taxonomy shared by the PoS and CMINE clients.
//
// Every remote failure is fatal to a run. The kinds are plain sentinel errors
// (ErrTransport, ErrAuth, ErrNotFound, ErrWrite, ErrDelete) and the details of
// the offending HTTP response travel in a ResponseError that unwraps to its kind:
//
//	if errors.Is(err, apierr.ErrWrite) { ... }
//
//	var re *apierr.ResponseError
//	if errors.As(err, &re) {
//	    logger.Error("request failed", zap.Object("response", re))
//	}
package apierr
