// Package httpx holds the HTTP plumbing shared by the PoS and CMINE clients:
// a client with explicit transport timeouts, JSON request construction and a
// bounded body reader.
package httpx
