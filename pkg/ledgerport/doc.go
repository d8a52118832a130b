// Package ledgerport provides a client and resource types for the Ledgerport
// Accounting API (https://api.ledgerport.com/v2).
//
// Every API resource is a plain record mirroring the JSON the service
// exchanges: snake_case property names, optional fields as pointers that are
// omitted from output when nil, date-only fields as Date values, money as
// decimal strings, and cross-references as absolute resource URLs. Requests
// and responses nest each resource under a named root key ("invoice",
// "invoices", and so on); the root wrapper types in this package serve both
// directions.
//
// The types carry no behavior. Amounts, statuses and derived values are
// whatever the service last said they were; invariants such as "journal
// entries balance to zero" are enforced remotely and only documented here.
// Collections returned by the service are empty, never null.
package ledgerport
