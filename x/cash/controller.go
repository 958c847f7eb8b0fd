package cash

import (
	"math/big"

	"github.com/iov-one/relay"
	"github.com/iov-one/relay/errors"
	"github.com/iov-one/relay/orm"
)

// Controller is the functionality needed by cash.Handler and
// cash.FeeDecorator. BaseController should work plenty fine,
// but you can add other logic if so desired
type Controller interface {
	Balance(db relay.ReadOnlyKVStore, addr relay.Address) (*big.Int, error)
	MoveCoins(db relay.KVStore, src, dest relay.Address, amount *big.Int) error
	IssueCoins(db relay.KVStore, dest relay.Address, amount *big.Int) error
}

// BaseController is a simple implementation of controller
type BaseController struct {
	bucket orm.ModelBucket
}

var _ Controller = BaseController{}

// NewController returns a controller backed by the balance bucket.
func NewController() BaseController {
	return BaseController{bucket: NewBucket()}
}

// Balance returns the amount held by addr. Unknown addresses hold nothing.
func (c BaseController) Balance(db relay.ReadOnlyKVStore, addr relay.Address) (*big.Int, error) {
	b, err := loadBalance(db, c.bucket, addr)
	if err != nil {
		return nil, err
	}
	return b.Amount, nil
}

// MoveCoins moves the given amount from src to dest.
// If src doesn't have sufficient coins, it fails.
func (c BaseController) MoveCoins(db relay.KVStore, src, dest relay.Address, amount *big.Int) error {
	if err := relay.ValidateAmount(amount); err != nil {
		return err
	}
	if amount.Sign() == 0 {
		return errors.Wrap(errors.ErrAmount, "non-positive transfer")
	}

	sender, err := loadBalance(db, c.bucket, src)
	if err != nil {
		return errors.Wrap(err, "sender")
	}
	if sender.Amount, err = relay.SubAmounts(sender.Amount, amount); err != nil {
		return errors.Wrapf(err, "balance of %s", src.Hex())
	}
	if err := c.bucket.Put(db, src.Bytes(), sender); err != nil {
		return errors.Wrap(err, "save sender")
	}

	// Loaded after the sender was saved so that src == dest is a no-op.
	recipient, err := loadBalance(db, c.bucket, dest)
	if err != nil {
		return errors.Wrap(err, "recipient")
	}
	if recipient.Amount, err = relay.AddAmounts(recipient.Amount, amount); err != nil {
		return errors.Wrapf(err, "balance of %s", dest.Hex())
	}
	return errors.Wrap(c.bucket.Put(db, dest.Bytes(), recipient), "save recipient")
}

// IssueCoins attempts to add the given amount of coins to
// the destination address. Fails if it overflows the balance.
func (c BaseController) IssueCoins(db relay.KVStore, dest relay.Address, amount *big.Int) error {
	recipient, err := loadBalance(db, c.bucket, dest)
	if err != nil {
		return err
	}
	if recipient.Amount, err = relay.AddAmounts(recipient.Amount, amount); err != nil {
		return err
	}
	return c.bucket.Put(db, dest.Bytes(), recipient)
}
