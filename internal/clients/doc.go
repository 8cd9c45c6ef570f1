// Package clients persists tracked clients in SQLite and owns the lane
// vocabulary they are grouped by.
//
// The Store manages the database connection, schema initialization, lane
// statistics, and the serialized write transaction the ranking engine runs
// its shift-and-set sequences in. Every client sits in exactly one lane
// (backlog, in-progress, complete) at a 1-based priority; the store never
// reorders on its own, but Audit and Renumber exist to detect and repair a
// lane whose priorities are not a dense 1..N sequence.
//
// Schema changes bump the version in schema.go; users clear the database to
// adopt the new schema.
package clients
