// Package permission holds the static authorization vocabulary: the
// closed set of permission tags, the closed set of staff roles, and
// the catalog mapping each role to its permission set and bitmask.
//
// A catalog is configuration, not data: it is built and validated once
// at startup and is immutable afterwards. Every lookup is pure. Any
// fault in the tables (empty sets, unknown tags, an admin set that
// does not cover another role) aborts construction rather than
// surfacing later as a runtime denial.
package permission
