package cash

import (
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/iov-one/relay"
	"github.com/iov-one/relay/errors"
)

const maxMemoSize int = 128

// SendMsg moves Amount from Src to Dest. It must be submitted by Src.
type SendMsg struct {
	Src    relay.Address
	Dest   relay.Address
	Amount *big.Int
	Memo   string
}

var _ relay.Msg = (*SendMsg)(nil)

// Path returns the routing path for this message
func (SendMsg) Path() string {
	return "cash/send"
}

// Validate makes sure that this is sensible
func (m *SendMsg) Validate() error {
	var err error
	if m.Amount == nil || m.Amount.Sign() <= 0 {
		err = errors.AppendField(err, "Amount", errors.Wrap(errors.ErrAmount, "must be positive"))
	} else {
		err = errors.AppendField(err, "Amount", relay.ValidateAmount(m.Amount))
	}
	if relay.IsZeroAddress(m.Src) {
		err = errors.AppendField(err, "Src", errors.ErrEmpty)
	}
	if relay.IsZeroAddress(m.Dest) {
		err = errors.AppendField(err, "Dest", errors.ErrEmpty)
	}
	if len(m.Memo) > maxMemoSize {
		err = errors.AppendField(err, "Memo", errors.Wrap(errors.ErrInput, "too long"))
	}
	return err
}

func (m *SendMsg) Marshal() ([]byte, error) {
	return rlp.EncodeToBytes(m)
}

func (m *SendMsg) Unmarshal(raw []byte) error {
	return rlp.DecodeBytes(raw, m)
}

// UpdateConfigurationMsg patches the cash configuration. Zero fields of the
// patch are left unchanged.
type UpdateConfigurationMsg struct {
	Patch *Configuration
}

var _ relay.Msg = (*UpdateConfigurationMsg)(nil)

func (UpdateConfigurationMsg) Path() string {
	return "cash/update_configuration"
}

func (m *UpdateConfigurationMsg) Validate() error {
	if m.Patch == nil {
		return errors.Wrap(errors.ErrEmpty, "patch")
	}
	if m.Patch.MinGasPrice != nil {
		return errors.Wrap(relay.ValidateAmount(m.Patch.MinGasPrice), "minimal gas price")
	}
	return nil
}

func (m *UpdateConfigurationMsg) Marshal() ([]byte, error) {
	return rlp.EncodeToBytes(m)
}

func (m *UpdateConfigurationMsg) Unmarshal(raw []byte) error {
	return rlp.DecodeBytes(raw, m)
}
