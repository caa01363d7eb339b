// Package routes maps sessions to navigable pages: which paths a role
// may visit, where each role lands after login, and where everyone
// else gets redirected. Pure decision logic; it performs no I/O.
package routes
