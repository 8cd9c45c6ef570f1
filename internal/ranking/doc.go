// Package ranking moves clients between lanes and within a lane while keeping
// every lane densely ranked 1..N.
//
// A reorder resolves the client, computes the compensating shifts with
// PlanShifts, and applies them plus the final placement through a single
// clients.Store transaction. Invalid lane or priority inputs disable only the
// part of the move they describe. A missing client aborts the request, and a
// storage failure rolls the whole move back.
package ranking
