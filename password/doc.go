// Package password implements password hashing and verification with
// Argon2id.
//
// # Output format
//
// Hashes are encoded in PHC string format:
//
//	$argon2id$v=19$m=<memory>,t=<time>,p=<threads>$<salt>$<hash>
//
// [Hasher.NeedsRehash] reports whether a stored hash was produced with
// weaker parameters, so the caller can re-hash on the next successful
// login.
//
// # Architecture boundaries
//
// This package owns hashing and verification only. Which accounts
// exist and whether a login is allowed at all are engine concerns.
package password
