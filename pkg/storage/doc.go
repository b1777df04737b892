// Package storage holds the credential store. The production implementation
// is Postgres; an in-memory implementation backs tests.
//
// The store holds exactly one kind of record: the user credential. The
// username column carries a uniqueness constraint, which is what makes the
// default-account bootstrap safe against concurrent startups - the losing
// writer's insert simply affects no rows.
package storage
