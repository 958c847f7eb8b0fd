package relay

import (
	"math/big"

	"github.com/holiman/uint256"
	"github.com/iov-one/relay/errors"
)

// Balances and fees are unsigned integers bounded to 256 bits, the same
// range the signed payloads can express. Arithmetic helpers below refuse to
// leave that range instead of wrapping around.

// ParseAmount parses a base 10 representation of an amount.
func ParseAmount(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, errors.Wrapf(errors.ErrAmount, "cannot parse %q", s)
	}
	if err := ValidateAmount(v); err != nil {
		return nil, err
	}
	return v, nil
}

// ValidateAmount returns an error if given value is not a valid amount.
func ValidateAmount(v *big.Int) error {
	if v == nil {
		return errors.Wrap(errors.ErrAmount, "nil")
	}
	if v.Sign() < 0 {
		return errors.Wrap(errors.ErrAmount, "negative")
	}
	if v.BitLen() > 256 {
		return errors.Wrap(errors.ErrOverflow, "amount exceeds 256 bits")
	}
	return nil
}

// AddAmounts returns a + b or ErrOverflow.
func AddAmounts(a, b *big.Int) (*big.Int, error) {
	x, y, err := toU256(a, b)
	if err != nil {
		return nil, err
	}
	res, overflow := new(uint256.Int).AddOverflow(x, y)
	if overflow {
		return nil, errors.Wrap(errors.ErrOverflow, "amount addition")
	}
	return res.ToBig(), nil
}

// SubAmounts returns a - b or ErrInsufficientAmount when b is greater.
func SubAmounts(a, b *big.Int) (*big.Int, error) {
	x, y, err := toU256(a, b)
	if err != nil {
		return nil, err
	}
	res, underflow := new(uint256.Int).SubOverflow(x, y)
	if underflow {
		return nil, errors.Wrapf(errors.ErrInsufficientAmount, "%s < %s", a, b)
	}
	return res.ToBig(), nil
}

// MulAmounts returns a * b or ErrOverflow.
func MulAmounts(a, b *big.Int) (*big.Int, error) {
	x, y, err := toU256(a, b)
	if err != nil {
		return nil, err
	}
	res, overflow := new(uint256.Int).MulOverflow(x, y)
	if overflow {
		return nil, errors.Wrap(errors.ErrOverflow, "amount multiplication")
	}
	return res.ToBig(), nil
}

// GasCost returns gas * price.
func GasCost(gas uint64, price *big.Int) (*big.Int, error) {
	return MulAmounts(new(big.Int).SetUint64(gas), price)
}

func toU256(a, b *big.Int) (*uint256.Int, *uint256.Int, error) {
	if err := ValidateAmount(a); err != nil {
		return nil, nil, err
	}
	if err := ValidateAmount(b); err != nil {
		return nil, nil, err
	}
	x, _ := uint256.FromBig(a)
	y, _ := uint256.FromBig(b)
	return x, y, nil
}
