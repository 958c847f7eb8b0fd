package multisig

import (
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/iov-one/relay"
	"github.com/iov-one/relay/crypto"
	"github.com/iov-one/relay/errors"
)

const (
	pathCreateWalletMsg        = "multisig/create"
	pathDeployWalletMsg        = "multisig/deploy"
	pathActivateMsg            = "multisig/activate"
	pathExecuteMsg             = "multisig/execute"
	pathUpdateConfigurationMsg = "multisig/update_configuration"
)

// CreateWalletMsg creates an active wallet of a variant without a manager.
type CreateWalletMsg struct {
	Variant   Variant
	Owners    []relay.Address
	Threshold uint8
}

var _ relay.Msg = (*CreateWalletMsg)(nil)

func (CreateWalletMsg) Path() string {
	return pathCreateWalletMsg
}

func (m *CreateWalletMsg) Validate() error {
	if err := m.Variant.Validate(); err != nil {
		return errors.Field("Variant", err, "")
	}
	if m.Variant.Policy().Managed {
		return errors.Field("Variant", errors.ErrInput, "%s wallet must be deployed", m.Variant)
	}
	return ValidateOwners(m.Owners, m.Threshold, MaxOwners)
}

func (m *CreateWalletMsg) Marshal() ([]byte, error) {
	return rlp.EncodeToBytes(m)
}

func (m *CreateWalletMsg) Unmarshal(raw []byte) error {
	return rlp.DecodeBytes(raw, m)
}

// DeployWalletMsg creates an inactive managed wallet. The submitter
// becomes the manager.
type DeployWalletMsg struct {
	Variant Variant
}

var _ relay.Msg = (*DeployWalletMsg)(nil)

func (DeployWalletMsg) Path() string {
	return pathDeployWalletMsg
}

func (m *DeployWalletMsg) Validate() error {
	if err := m.Variant.Validate(); err != nil {
		return errors.Field("Variant", err, "")
	}
	if !m.Variant.Policy().Managed {
		return errors.Field("Variant", errors.ErrInput, "%s wallet is not managed", m.Variant)
	}
	return nil
}

func (m *DeployWalletMsg) Marshal() ([]byte, error) {
	return rlp.EncodeToBytes(m)
}

func (m *DeployWalletMsg) Unmarshal(raw []byte) error {
	return rlp.DecodeBytes(raw, m)
}

// ActivateMsg sets owners and threshold of a managed wallet. Fee is paid
// from the wallet to the manager.
type ActivateMsg struct {
	Wallet    relay.Address
	Owners    []relay.Address
	Threshold uint8
	Fee       *big.Int
}

var _ relay.Msg = (*ActivateMsg)(nil)

func (ActivateMsg) Path() string {
	return pathActivateMsg
}

func (m *ActivateMsg) Validate() error {
	var errs error
	if relay.IsZeroAddress(m.Wallet) {
		errs = errors.AppendField(errs, "Wallet", errors.ErrEmpty)
	}
	if m.Fee != nil {
		errs = errors.AppendField(errs, "Fee", relay.ValidateAmount(m.Fee))
	}
	return errors.Append(errs, ValidateOwners(m.Owners, m.Threshold, MaxOwners))
}

func (m *ActivateMsg) Marshal() ([]byte, error) {
	return rlp.EncodeToBytes(m)
}

func (m *ActivateMsg) Unmarshal(raw []byte) error {
	return rlp.DecodeBytes(raw, m)
}

// ExecuteMsg runs a payload signed by the wallet owners.
type ExecuteMsg struct {
	Wallet relay.Address
	// Sigs are ordered by ascending signer address.
	Sigs []crypto.Signature
	// Payload is the RLP encoded Payload the owners signed.
	Payload []byte
}

var _ relay.Msg = (*ExecuteMsg)(nil)

func (ExecuteMsg) Path() string {
	return pathExecuteMsg
}

func (m *ExecuteMsg) Validate() error {
	var errs error
	if relay.IsZeroAddress(m.Wallet) {
		errs = errors.AppendField(errs, "Wallet", errors.ErrEmpty)
	}
	if len(m.Payload) == 0 {
		errs = errors.AppendField(errs, "Payload", errors.ErrEmpty)
	}
	if len(m.Sigs) > MaxOwners {
		errs = errors.AppendField(errs, "Sigs", errors.Wrapf(errors.ErrUnauthorized, "more than %d signatures", MaxOwners))
	}
	return errs
}

func (m *ExecuteMsg) Marshal() ([]byte, error) {
	return rlp.EncodeToBytes(m)
}

func (m *ExecuteMsg) Unmarshal(raw []byte) error {
	return rlp.DecodeBytes(raw, m)
}

// UpdateConfigurationMsg patches the multisig configuration.
type UpdateConfigurationMsg struct {
	Patch *Configuration
}

var _ relay.Msg = (*UpdateConfigurationMsg)(nil)

func (UpdateConfigurationMsg) Path() string {
	return pathUpdateConfigurationMsg
}

func (m *UpdateConfigurationMsg) Validate() error {
	if m.Patch == nil {
		return errors.Wrap(errors.ErrEmpty, "patch")
	}
	return m.Patch.Validate()
}

func (m *UpdateConfigurationMsg) Marshal() ([]byte, error) {
	return rlp.EncodeToBytes(m)
}

func (m *UpdateConfigurationMsg) Unmarshal(raw []byte) error {
	return rlp.DecodeBytes(raw, m)
}
