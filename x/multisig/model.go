package multisig

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/iov-one/relay"
	"github.com/iov-one/relay/errors"
	"github.com/iov-one/relay/orm"
)

const (
	// BucketName is where we store the wallets
	BucketName = "wallets"

	// MaxOwners is the upper limit of owners any wallet can have.
	MaxOwners = 10
)

// Variant selects the behaviour of a wallet. It is fixed at creation.
type Variant uint8

const (
	VariantSimple Variant = iota + 1
	VariantConclave
	VariantManaged
	VariantWhitelisted
	VariantManagedWhitelisted
)

var variantNames = map[Variant]string{
	VariantSimple:             "simple",
	VariantConclave:           "conclave",
	VariantManaged:            "managed",
	VariantWhitelisted:        "whitelisted",
	VariantManagedWhitelisted: "managed_whitelisted",
}

func (v Variant) String() string {
	if n, ok := variantNames[v]; ok {
		return n
	}
	return fmt.Sprintf("variant(%d)", uint8(v))
}

// Validate returns an error if this is not a known variant.
func (v Variant) Validate() error {
	if _, ok := variantNames[v]; !ok {
		return errors.Wrapf(errors.ErrInput, "unknown variant %d", uint8(v))
	}
	return nil
}

// ParseVariant returns the variant of given name.
func ParseVariant(s string) (Variant, error) {
	for v, n := range variantNames {
		if n == strings.ToLower(s) {
			return v, nil
		}
	}
	return 0, errors.Wrapf(errors.ErrInput, "unknown variant %q", s)
}

// NonceScope tells who shares a nonce counter.
type NonceScope uint8

const (
	// NonceGlobal is one counter per wallet shared by all relayers.
	NonceGlobal NonceScope = iota
	// NoncePerRelayer is one counter per wallet and relayer pair.
	NoncePerRelayer
)

// CallFailure tells how a failed destination call is reported.
type CallFailure uint8

const (
	// CallFailureHard rejects the whole request.
	CallFailureHard CallFailure = iota
	// CallFailureSoft reports a false outcome, consumes the nonce and
	// reverts only the call state.
	CallFailureSoft
)

// Policy is the set of behaviours a variant enables.
type Policy struct {
	NonceScope  NonceScope
	NonceStart  uint64
	CallFailure CallFailure
	// Whitelist restricts destinations to owners, the wallet itself and
	// explicitly permitted addresses.
	Whitelist bool
	// Managed wallets are deployed inactive and activated by a manager.
	Managed bool
	// RefundFees reimburses the relayer from the wallet balance.
	RefundFees bool
	// RequireGasLimit requires the relayer budget to cover the signed gas
	// limit and runs the call with exactly that limit.
	RequireGasLimit bool
	// ExactGasPrice requires the relayer gas price to equal the signed one.
	ExactGasPrice bool
}

// Policy returns the behaviours of the variant.
func (v Variant) Policy() Policy {
	switch v {
	case VariantSimple:
		return Policy{NonceScope: NoncePerRelayer}
	case VariantConclave:
		return Policy{NonceStart: 1}
	case VariantManaged:
		return Policy{
			CallFailure:     CallFailureSoft,
			Managed:         true,
			RefundFees:      true,
			RequireGasLimit: true,
			ExactGasPrice:   true,
		}
	case VariantWhitelisted:
		return Policy{
			CallFailure:     CallFailureSoft,
			Whitelist:       true,
			RefundFees:      true,
			RequireGasLimit: true,
		}
	case VariantManagedWhitelisted:
		return Policy{
			CallFailure:     CallFailureSoft,
			Whitelist:       true,
			Managed:         true,
			RefundFees:      true,
			RequireGasLimit: true,
			ExactGasPrice:   true,
		}
	}
	panic(fmt.Sprintf("no policy for %s", v))
}

// ActivationState of a wallet. The only transition is from Inactive to
// Active.
type ActivationState uint8

const (
	Inactive ActivationState = iota
	Active
)

func (s ActivationState) String() string {
	if s == Active {
		return "active"
	}
	return "inactive"
}

// Wallet is the persistent state of a threshold signature wallet. The
// balance is held by the ledger under the wallet address.
type Wallet struct {
	Variant   Variant
	Owners    []relay.Address
	Threshold uint8
	Manager   relay.Address
	State     ActivationState
	// Nonce is the global nonce counter. Per relayer counters are stored
	// separately.
	Nonce uint64
}

var _ orm.Model = (*Wallet)(nil)

func (w *Wallet) Marshal() ([]byte, error) {
	return rlp.EncodeToBytes(w)
}

func (w *Wallet) Unmarshal(raw []byte) error {
	return rlp.DecodeBytes(raw, w)
}

// Validate checks the wallet is in a consistent state.
func (w *Wallet) Validate() error {
	if err := w.Variant.Validate(); err != nil {
		return errors.Field("Variant", err, "")
	}
	p := w.Variant.Policy()
	if p.Managed && relay.IsZeroAddress(w.Manager) {
		return errors.Field("Manager", errors.ErrEmpty, "managed wallet")
	}
	if !p.Managed && !relay.IsZeroAddress(w.Manager) {
		return errors.Field("Manager", errors.ErrInput, "%s wallet has no manager", w.Variant)
	}
	switch w.State {
	case Inactive:
		if !p.Managed {
			return errors.Field("State", errors.ErrState, "only managed wallets start inactive")
		}
		if len(w.Owners) != 0 || w.Threshold != 0 {
			return errors.Field("Owners", errors.ErrState, "inactive wallet has no owners")
		}
		return nil
	case Active:
		return ValidateOwners(w.Owners, w.Threshold, MaxOwners)
	default:
		return errors.Field("State", errors.ErrState, "unknown state %d", w.State)
	}
}

// IsOwner returns true if addr is one of the wallet owners.
func (w *Wallet) IsOwner(addr relay.Address) bool {
	for _, o := range w.Owners {
		if o == addr {
			return true
		}
	}
	return false
}

// ValidateOwners checks 1 <= threshold <= len(owners) <= maxOwners and that
// owners are set and unique. Order is not checked, owners are kept in the
// order given.
func ValidateOwners(owners []relay.Address, threshold uint8, maxOwners int) error {
	if maxOwners <= 0 || maxOwners > MaxOwners {
		maxOwners = MaxOwners
	}
	switch n := len(owners); {
	case n == 0:
		return errors.Field("Owners", errors.ErrEmpty, "")
	case n > maxOwners:
		return errors.Field("Owners", errors.ErrInput, "%d owners, at most %d allowed", n, maxOwners)
	}
	if threshold == 0 || int(threshold) > len(owners) {
		return errors.Field("Threshold", errors.ErrInput, "threshold %d for %d owners", threshold, len(owners))
	}
	seen := make(map[relay.Address]struct{}, len(owners))
	for i, o := range owners {
		if relay.IsZeroAddress(o) {
			return errors.Field(fmt.Sprintf("Owners.%d", i), errors.ErrEmpty, "")
		}
		if _, ok := seen[o]; ok {
			return errors.Field(fmt.Sprintf("Owners.%d", i), errors.ErrDuplicate, "%s", o.Hex())
		}
		seen[o] = struct{}{}
	}
	return nil
}

// WalletBucket stores wallets by address.
type WalletBucket struct {
	orm.ModelBucket
}

// NewWalletBucket returns the bucket wallets are stored in.
func NewWalletBucket() WalletBucket {
	return WalletBucket{ModelBucket: orm.NewModelBucket(BucketName)}
}

// GetWallet returns the wallet at given address.
func (b WalletBucket) GetWallet(db relay.ReadOnlyKVStore, addr relay.Address) (*Wallet, error) {
	var w Wallet
	if err := b.One(db, addr.Bytes(), &w); err != nil {
		return nil, errors.Wrapf(err, "wallet %s", addr.Hex())
	}
	return &w, nil
}

// Save stores the wallet.
func (b WalletBucket) Save(db relay.KVStore, addr relay.Address, w *Wallet) error {
	return b.Put(db, addr.Bytes(), w)
}

// pairKey is the key of a value owned by a wallet and related to another
// address.
func pairKey(wallet, other relay.Address) []byte {
	key := make([]byte, 0, 2*relay.AddressLength)
	key = append(key, wallet.Bytes()...)
	return append(key, other.Bytes()...)
}

// addressLess orders addresses byte-wise.
func addressLess(a, b relay.Address) bool {
	return bytes.Compare(a[:], b[:]) < 0
}
