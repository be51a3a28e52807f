/*
Package payroll implements a recurring disbursement ledger.

An owner registers beneficiaries, each weighted by one or more
multipliers. Every period of Periodicity blocks a beneficiary accrues

	(sum of weights, or 1 without weights) * BasePayment / 100

and can claim any part of the owed balance from the treasury at any time.
The unclaimed rest is carried over. A claim of zero settles the current
period without a payment.

Changing the base payment or the periodicity and deleting an expired
multiplier change what a period is worth, so they are allowed only once
every beneficiary settled the current period.
*/
package payroll
