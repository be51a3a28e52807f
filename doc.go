/*
Package ledger defines the common interfaces that tie together the
store, orm, extensions and the ABCI application of the payroll ledger,
together with implementations of the simpler components (conditions,
addresses, the query router).

We pass context through context.Context between the app, decorators and
handlers. The ledger defines keys for the block height, chain id and logger.
For every value XYZ of type T stored in the context there are two functions

  WithXYZ(Context, T) Context
  GetXYZ(Context) (val T, ok bool)

WithXYZ panics if the value was previously set so that lower level code
cannot overwrite what the application provided.
*/
package ledger
