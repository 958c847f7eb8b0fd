/*
Package ledger is the account ledger the wallet core dispatches calls to.

Balances are kept by the cash extension. On top of them the ledger runs
calls: value transfer followed by the execution of a program registered at
the destination address. Each call runs in its own cache wrap with its own
gas meter, so a failed call reverts only its own state changes.

Destinations without a program behave like externally owned accounts: any
call data is accepted and ignored.
*/
package ledger
