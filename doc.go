// Package hmsauth is the authorization core of a hospital management
// dashboard: a closed permission catalog with per-role grants, a
// Redis-persisted single-session store, credential authentication
// against a pluggable user directory, and pure access-guard and
// route-policy evaluation on top of session snapshots.
//
// Engine methods are safe to call from multiple goroutines after
// initialization through [Builder.Build].
//
// # Architecture boundaries
//
// hmsauth is the public surface. It exposes [Engine], [Builder],
// [Config], and value types (LoginResult, AuditEvent, MetricsSnapshot).
// The permission catalog, session store, password hashing, tickets,
// and route policy live in their own sub-packages and never import
// hmsauth back.
//
// # Tri-state decisions
//
// Before the session store is hydrated, access checks answer Pending,
// not Deny. Consumers must hold protected content during Pending; only
// an explicit Deny from a Ready session refuses access.
package hmsauth
