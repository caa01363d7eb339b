// Package ticket issues and verifies signed session tickets that
// carry a user's identity and compact permission mask, so downstream
// services can authorize requests without a session store lookup.
package ticket
