/*
Package crypto provides the signature primitive of the relay: secp256k1
keys, recoverable signatures and keccak-256 hashing.

A signer never has to be known upfront. Every signature carries a recovery
id so that the address of the signer can be derived from the signed hash
and the signature alone. Authorization is then a question of whether the
recovered address is allowed to act.
*/
package crypto
