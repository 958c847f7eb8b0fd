package cash

import (
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/iov-one/relay"
	"github.com/iov-one/relay/errors"
	"github.com/iov-one/relay/orm"
)

// BucketName is where we store the balances
const BucketName = "cash"

// Balance is the amount held by a single address.
type Balance struct {
	Amount *big.Int
}

var _ orm.Model = (*Balance)(nil)

// Marshal serializes the balance using RLP.
func (b *Balance) Marshal() ([]byte, error) {
	return rlp.EncodeToBytes(b)
}

// Unmarshal loads the balance from its RLP form.
func (b *Balance) Unmarshal(raw []byte) error {
	return rlp.DecodeBytes(raw, b)
}

// Validate makes sure the amount is a valid unsigned value.
func (b *Balance) Validate() error {
	return errors.Wrap(relay.ValidateAmount(b.Amount), "amount")
}

// NewBucket returns the bucket balances are stored in, keyed by address.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket(BucketName)
}

// loadBalance returns the balance stored for addr. A missing entry is an
// empty balance.
func loadBalance(db relay.ReadOnlyKVStore, bucket orm.ModelBucket, addr relay.Address) (*Balance, error) {
	var b Balance
	switch err := bucket.One(db, addr.Bytes(), &b); {
	case errors.ErrNotFound.Is(err):
		return &Balance{Amount: new(big.Int)}, nil
	case err != nil:
		return nil, err
	}
	if b.Amount == nil {
		b.Amount = new(big.Int)
	}
	return &b, nil
}
