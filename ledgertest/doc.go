/*
Package ledgertest provides helpers and mocks for testing ledger
extensions: authenticators, handler and decorator doubles, transactions
and ed25519 keys.
*/
package ledgertest
