// Package cache provides the process-lifetime catalog caches.
//
// The caches hold discovered containers, the level table, and per-
// container field definitions. They are explicit objects injected into
// the topology and retrieval services rather than ambient package state,
// so tests can build isolated worlds and multi-tenant deployments can
// hold one catalog per tenant.
//
// Entries are written once and read many times per key. Racing fillers
// may both fetch from the platform and converge on the same value;
// discovery fetches are idempotent so the redundancy is harmless.
// Invalidate drops everything, forcing rediscovery on the next call.
package cache
