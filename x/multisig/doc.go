/*
Package multisig implements threshold-signature wallets executing relayed
meta-transactions.

A wallet is controlled by an ordered set of owners. Owners sign an EIP-155
payload off-band and any relayer submits the signatures together with the
payload. Execution verifies the threshold of owner signatures, consumes the
nonce, applies the destination whitelist, runs the call against the ledger
and, depending on the wallet variant, reimburses the relayer from the
wallet balance.

Managed wallets are deployed empty and activated once by their manager.
*/
package multisig
