// Package session provides the persistent session store for the
// dashboard: the current user, the maintenance flag, and the bounded
// login-attempt log, persisted as one JSON blob under a fixed Redis
// key.
//
// # Persistence model
//
// The whole state is written on every mutation and read back exactly
// once during hydration. The JSON field names are a wire contract
// shared with earlier deployments; the codec never renames them.
//
// # Architecture boundaries
//
// This package owns the [Store] and the [State]/[User] models. It does
// NOT verify credentials, resolve role permissions, or make
// authorization decisions; those responsibilities belong to the
// engine and to the permission catalog.
package session
