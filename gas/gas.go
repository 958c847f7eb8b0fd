package gas

const (
	// TX is an intrinsic cost for every relayed request.
	TX uint64 = 21000
	// TXDATA is a cost for request data. Charged per 8 byte.
	TXDATA uint64 = 128
	// STORE is a cost for storing a new entity.
	STORE uint64 = 5000
	// UPDATE is a cost of updating mutable state (nonce, balance, whitelist).
	UPDATE uint64 = 725
	// LOAD is a cost for loading state.
	LOAD uint64 = 182
	// ACCOUNT_ACCESS is a cost of touching an account other than the caller.
	ACCOUNT_ACCESS uint64 = 2500
	// TRANSFER is a cost of moving value between two accounts.
	TRANSFER uint64 = 9000
	// CALL is a cost of dispatching a call to a program, on top of the
	// gas the program itself consumes.
	CALL uint64 = 700
	// ECRECOVER is a cost for recovering a single secp256k1 signer.
	ECRECOVER uint64 = 3000
	// HASH is a cost for hashing, charged per 8 bytes.
	HASH uint64 = 6
)

// SizeGas computes total gas cost for a value of the specific size.
// Gas is charged for every 8 bytes, rounded up.
func SizeGas(gas uint64, size int) uint64 {
	quo := size / 8
	rem := size % 8
	rst := uint64(quo) * gas
	if rem != 0 {
		rst += gas
	}
	return rst
}

// IntrinsicGas computes the cost of accepting a request of given size.
func IntrinsicGas(tx []byte) uint64 {
	return TX + SizeGas(TXDATA, len(tx))
}
