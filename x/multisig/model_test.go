package multisig

import (
	"testing"

	"github.com/iov-one/relay"
	"github.com/iov-one/relay/errors"
	"github.com/iov-one/relay/weavetest"
	"github.com/iov-one/relay/weavetest/assert"
)

func TestValidateOwners(t *testing.T) {
	a, b, c := weavetest.RandomAddr(t), weavetest.RandomAddr(t), weavetest.RandomAddr(t)
	many := make([]relay.Address, MaxOwners+1)
	for i := range many {
		many[i] = weavetest.RandomAddr(t)
	}

	cases := map[string]struct {
		owners    []relay.Address
		threshold uint8
		wantErr   *errors.Error
	}{
		"threshold of one": {
			owners:    []relay.Address{a, b, c},
			threshold: 1,
		},
		"threshold equal to owner count": {
			owners:    []relay.Address{a, b, c},
			threshold: 3,
		},
		"maximum number of owners": {
			owners:    many[:MaxOwners],
			threshold: MaxOwners,
		},
		"no owners": {
			threshold: 1,
			wantErr:   errors.ErrEmpty,
		},
		"too many owners": {
			owners:    many,
			threshold: 2,
			wantErr:   errors.ErrInput,
		},
		"zero threshold": {
			owners:    []relay.Address{a, b},
			threshold: 0,
			wantErr:   errors.ErrInput,
		},
		"threshold above owner count": {
			owners:    []relay.Address{a, b},
			threshold: 3,
			wantErr:   errors.ErrInput,
		},
		"duplicated owner": {
			owners:    []relay.Address{a, b, a},
			threshold: 2,
			wantErr:   errors.ErrDuplicate,
		},
		"zero address owner": {
			owners:    []relay.Address{a, {}},
			threshold: 1,
			wantErr:   errors.ErrEmpty,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := ValidateOwners(tc.owners, tc.threshold, MaxOwners)
			if tc.wantErr == nil {
				assert.Nil(t, err)
				return
			}
			if !tc.wantErr.Is(err) {
				t.Fatalf("want %q error, got %+v", tc.wantErr, err)
			}
		})
	}
}

func TestWalletValidate(t *testing.T) {
	owners := []relay.Address{weavetest.RandomAddr(t), weavetest.RandomAddr(t)}

	cases := map[string]struct {
		wallet  Wallet
		wantErr bool
	}{
		"active simple wallet": {
			wallet: Wallet{Variant: VariantSimple, Owners: owners, Threshold: 2, State: Active},
		},
		"inactive managed wallet": {
			wallet: Wallet{Variant: VariantManaged, Manager: weavetest.RandomAddr(t), State: Inactive},
		},
		"unknown variant": {
			wallet:  Wallet{Variant: 99, Owners: owners, Threshold: 1, State: Active},
			wantErr: true,
		},
		"managed wallet without manager": {
			wallet:  Wallet{Variant: VariantManaged, State: Inactive},
			wantErr: true,
		},
		"inactive wallet with owners": {
			wallet:  Wallet{Variant: VariantManaged, Manager: weavetest.RandomAddr(t), Owners: owners, Threshold: 1, State: Inactive},
			wantErr: true,
		},
		"active wallet with bad threshold": {
			wallet:  Wallet{Variant: VariantConclave, Owners: owners, Threshold: 3, State: Active},
			wantErr: true,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := tc.wallet.Validate()
			if tc.wantErr != (err != nil) {
				t.Fatalf("want error %v, got %+v", tc.wantErr, err)
			}
		})
	}
}

func TestVariantPolicies(t *testing.T) {
	cases := map[Variant]Policy{
		VariantSimple: {
			NonceScope:  NoncePerRelayer,
			CallFailure: CallFailureHard,
		},
		VariantConclave: {
			NonceScope:  NonceGlobal,
			NonceStart:  1,
			CallFailure: CallFailureHard,
		},
		VariantManaged: {
			NonceScope:      NonceGlobal,
			CallFailure:     CallFailureSoft,
			Managed:         true,
			RefundFees:      true,
			RequireGasLimit: true,
			ExactGasPrice:   true,
		},
		VariantWhitelisted: {
			NonceScope:      NonceGlobal,
			CallFailure:     CallFailureSoft,
			Whitelist:       true,
			RefundFees:      true,
			RequireGasLimit: true,
		},
		VariantManagedWhitelisted: {
			NonceScope:      NonceGlobal,
			CallFailure:     CallFailureSoft,
			Whitelist:       true,
			Managed:         true,
			RefundFees:      true,
			RequireGasLimit: true,
			ExactGasPrice:   true,
		},
	}
	for v, want := range cases {
		t.Run(v.String(), func(t *testing.T) {
			assert.Equal(t, want, v.Policy())

			parsed, err := ParseVariant(v.String())
			assert.Nil(t, err)
			assert.Equal(t, v, parsed)
		})
	}

	if _, err := ParseVariant("multi"); !errors.ErrInput.Is(err) {
		t.Fatalf("unexpected error: %+v", err)
	}
}

func TestWalletBucket(t *testing.T) {
	env := newEnv(t)
	addr := weavetest.RandomAddr(t)
	b := NewWalletBucket()

	_, err := b.GetWallet(env.db, addr)
	if !errors.ErrNotFound.Is(err) {
		t.Fatalf("unexpected error: %+v", err)
	}

	w := &Wallet{
		Variant:   VariantConclave,
		Owners:    []relay.Address{weavetest.RandomAddr(t)},
		Threshold: 1,
		State:     Active,
		Nonce:     4,
	}
	assert.Nil(t, b.Save(env.db, addr, w))
	got, err := b.GetWallet(env.db, addr)
	assert.Nil(t, err)
	assert.Equal(t, w, got)

	invalid := &Wallet{Variant: VariantSimple, State: Active}
	if err := b.Save(env.db, addr, invalid); err == nil {
		t.Fatal("invalid wallet saved")
	}
}
