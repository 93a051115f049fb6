// Package models defines the core domain models for workledger.
//
// # Current Models
//
//   - Profile: a person known to the system, keyed by the chat platform's
//     opaque external identifier
//   - Group: a set of profiles sharing one ledger
//   - Record: one logged unit of work with a monetary value, a performer,
//     a beneficiary, and an owning group
//
// EditSession lives in internal/session since it is ephemeral dialogue
// state, not persisted data.
//
// # Design Principles
//
// 1. **Opaque identity**: profiles carry only the external id; there is no
// account or credential model
// 2. **Exact money**: amounts are decimal.Decimal so month-long
// accumulations of cent-level values stay exact
// 3. **Avoid circular references**: models reference each other by ID
// strings, never by pointer
package models
