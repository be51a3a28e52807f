/*
Package cash keeps the token balance of every address.

Balances are single currency amounts. The Controller exposes the
primitives other extensions build on, most notably MoveCoins which is the
transfer used to pay beneficiaries out of the payroll treasury. Anyone can
fund a wallet, including the treasury, by sending a SendMsg.
*/
package cash
