// Package models defines the records exchanged between the RPC layer and the
// settlement engine.
//
// # Models
//
//   - Event: a snapshot of an event's members, fund holder and ledger, as
//     read by the caller from its own storage
//   - Transaction: one ledger entry of an event
//   - Settlement: a payment instruction produced for an event
//
// Members are identified by opaque string IDs. An empty ID on a transaction
// stands for the shared fund.
//
// # Design Principles
//
//  1. Stateless: records are built per request and never cached
//  2. Avoid circular references: use ID strings instead of pointers for relationships
//  3. Integer amounts in the smallest currency unit
package models
