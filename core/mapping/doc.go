// Package mapping converts PoS solutions into CMINE venture payloads.
//
// The mapping is a pure function of the record plus three run constants: the
// owning user id, the resolved TRL attribute name (may be empty) and the fixed
// defaults from Config (logo, fallback company name, address).
package mapping
