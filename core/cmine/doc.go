// Package cmine is a client for the CMINE admin REST API.
//
// A Client only knows how to obtain a token (OAuth password grant). All other
// calls go through the Session it returns, which attaches the bearer token:
//
//	client := cmine.NewClient(cfg.Cmine, httpClient, logger, verbosity)
//	session, err := client.Authenticate(ctx)
//	owner, err := session.UserIDByEmail(ctx, cfg.Cmine.Owner)
//	index, err := session.VentureIndex(ctx, &owner)
//
// # Pagination
//
// The venture list is paginated with RFC 8288 Link headers. A linkCursor keeps
// the opaque rel="next" URL and the listing stops when a response carries none.
//
// # Identity index
//
// VentureIndex keys ventures by high_level_pitch. CMINE does not enforce unique
// titles, so a venture whose title is already indexed is deleted while the
// index is built and the first one seen is kept.
//
// # Errors
//
// Failures are reported as apierr.ResponseError values carrying the response
// headers and body: ErrAuth for the token grant, ErrWrite for create/update,
// ErrDelete for delete, ErrTransport for the read endpoints. UserIDByEmail
// wraps apierr.ErrNotFound when no user matches.
package cmine
