/*
Package errors implements the error codes used across the ledger.

Reuse the root errors declared in this package where possible and declare
extension specific errors with Register(code, description) only when a
client needs to tell them apart. The code is returned as the ABCI code of a
failed transaction.

Create errors with ErrXyz.New, ErrXyz.Newf or Wrap at the point where the
failure happens so that a stack trace is attached. Only the innermost wrap
records a stack trace.

Formatting with %s prints the message, %+v prints the message together with
the stack trace.
*/
package errors
