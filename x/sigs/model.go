package sigs

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/iov-one/relay"
	"github.com/iov-one/relay/errors"
	"github.com/iov-one/relay/orm"
)

// BucketName is where we store the relayer sequences
const BucketName = "sigs"

// maxSequenceValue is limited by the client. The greatest supported
// nonce value at client side is
//
//	Number.MAX_SAFE_INTEGER = 9007199254740991 = 2^53 - 1
const maxSequenceValue = (1 << 53) - 1

// UserData is the authentication state of a single relayer.
type UserData struct {
	Sequence uint64
}

var _ orm.Model = (*UserData)(nil)

func (u *UserData) Marshal() ([]byte, error) {
	return rlp.EncodeToBytes(u)
}

func (u *UserData) Unmarshal(raw []byte) error {
	return rlp.DecodeBytes(raw, u)
}

func (u *UserData) Validate() error {
	if u.Sequence > maxSequenceValue {
		return errors.Field("Sequence", errors.ErrOverflow, "out of range")
	}
	return nil
}

// CheckAndIncrementSequence implements check and increment operation.
// If current sequence value is the same as given expected value then it is
// incremented. Otherwise an error is returned.
// Before incrementing the sequence, this function is testing for a value
// overflow.
func (u *UserData) CheckAndIncrementSequence(expected uint64) error {
	if u.Sequence != expected {
		return errors.Wrapf(errors.ErrReplay, "mismatch expected %d, got %d", u.Sequence, expected)
	}
	if u.Sequence >= maxSequenceValue {
		return errors.Wrap(errors.ErrOverflow, "sequence out of range")
	}
	u.Sequence++
	return nil
}

// Bucket stores UserData by relayer address.
type Bucket struct {
	orm.ModelBucket
}

// NewBucket creates the proper bucket for this extension
func NewBucket() Bucket {
	return Bucket{ModelBucket: orm.NewModelBucket(BucketName)}
}

// GetOrCreate returns the stored UserData or a fresh one with sequence 0.
func (b Bucket) GetOrCreate(db relay.ReadOnlyKVStore, addr relay.Address) (*UserData, error) {
	var u UserData
	switch err := b.One(db, addr.Bytes(), &u); {
	case err == nil:
		return &u, nil
	case errors.ErrNotFound.Is(err):
		return &UserData{}, nil
	default:
		return nil, err
	}
}

// Save stores the user data under the relayer address.
func (b Bucket) Save(db relay.KVStore, addr relay.Address, u *UserData) error {
	return b.Put(db, addr.Bytes(), u)
}
