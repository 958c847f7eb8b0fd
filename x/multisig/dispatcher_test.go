package multisig

import (
	"math/big"
	"testing"

	"github.com/iov-one/relay"
	"github.com/iov-one/relay/crypto"
	"github.com/iov-one/relay/errors"
	"github.com/iov-one/relay/weavetest"
	"github.com/iov-one/relay/weavetest/assert"
	"github.com/iov-one/relay/x/ledger"
)

func TestTransferAndReplay(t *testing.T) {
	env := newEnv(t)
	keys := weavetest.SortedKeys(3)
	wallet := env.createWallet(t, VariantConclave, keys, 2)
	env.fund(t, wallet, 1000)
	relayer := env.newRelayer(t)
	recipient := weavetest.RandomAddr(t)

	p := payload(big.NewInt(1), recipient, 100, 50000, 5, nil)
	res, err := env.execute(relayer, 5, wallet, []*crypto.PrivateKey{keys[0], keys[2]}, p)
	assert.Nil(t, err)
	assert.Equal(t, true, res.Outcome)
	assert.Equal(t, 0, res.Fee.Sign())
	env.assertBalance(t, recipient, 100)
	env.assertBalance(t, wallet, 900)
	assertBig(t, big.NewInt(2), env.nonce(t, wallet, relayer))

	// The very same request cannot be processed twice.
	before := env.balance(t, relayer)
	_, err = env.execute(relayer, 5, wallet, []*crypto.PrivateKey{keys[0], keys[2]}, p)
	if !errors.ErrReplay.Is(err) {
		t.Fatalf("unexpected error: %+v", err)
	}
	env.assertBalance(t, recipient, 100)
	env.assertBalance(t, wallet, 900)
	assertBig(t, before, env.balance(t, relayer))
}

func TestExecuteRejections(t *testing.T) {
	keys := weavetest.SortedKeys(3)
	stranger := weavetest.NewKey()
	recipient := weavetest.RandomAddr(t)

	cases := map[string]struct {
		variant Variant
		signers []*crypto.PrivateKey
		payload func(nonce *big.Int) *Payload
		price   int64
		wantErr *errors.Error
	}{
		"one signature for threshold two": {
			variant: VariantConclave,
			signers: keys[:1],
			payload: func(n *big.Int) *Payload { return payload(n, recipient, 1, 50000, 1, nil) },
			price:   1,
			wantErr: errors.ErrUnauthorized,
		},
		"three signatures for threshold two": {
			variant: VariantConclave,
			signers: keys,
			payload: func(n *big.Int) *Payload { return payload(n, recipient, 1, 50000, 1, nil) },
			price:   1,
			wantErr: errors.ErrUnauthorized,
		},
		"signers in descending order": {
			variant: VariantSimple,
			signers: []*crypto.PrivateKey{keys[1], keys[0]},
			payload: func(n *big.Int) *Payload { return payload(n, recipient, 1, 50000, 1, nil) },
			price:   1,
			wantErr: errors.ErrUnauthorized,
		},
		"signature of a stranger": {
			variant: VariantSimple,
			signers: []*crypto.PrivateKey{keys[0], stranger},
			payload: func(n *big.Int) *Payload { return payload(n, recipient, 1, 50000, 1, nil) },
			price:   1,
			wantErr: errors.ErrUnauthorized,
		},
		"payload for another chain": {
			variant: VariantConclave,
			signers: keys[:2],
			payload: func(n *big.Int) *Payload {
				return NewPayload(testChainID+1, n, recipient, big.NewInt(1), 50000, big.NewInt(1), nil)
			},
			price:   1,
			wantErr: errors.ErrUnauthorized,
		},
		"wrong nonce": {
			variant: VariantConclave,
			signers: keys[:2],
			payload: func(n *big.Int) *Payload {
				return payload(new(big.Int).Add(n, big.NewInt(1)), recipient, 1, 50000, 1, nil)
			},
			price:   1,
			wantErr: errors.ErrReplay,
		},
		"relayer gas price above signed price": {
			variant: VariantSimple,
			signers: keys[:2],
			payload: func(n *big.Int) *Payload { return payload(n, recipient, 1, 50000, 2, nil) },
			price:   3,
			wantErr: errors.ErrFeeCeiling,
		},
		"managed wallet requires the exact gas price": {
			variant: VariantManaged,
			signers: keys[:2],
			payload: func(n *big.Int) *Payload { return payload(n, recipient, 1, 50000, 2, nil) },
			price:   1,
			wantErr: errors.ErrFeeCeiling,
		},
		"gas budget below signed gas limit": {
			variant: VariantWhitelisted,
			signers: keys[:2],
			payload: func(n *big.Int) *Payload { return payload(n, keys[0].Address(), 1, envelopeGas, 1, nil) },
			price:   1,
			wantErr: errors.ErrFeeCeiling,
		},
		"destination not whitelisted": {
			variant: VariantWhitelisted,
			signers: keys[:2],
			payload: func(n *big.Int) *Payload { return payload(n, recipient, 1, 50000, 1, nil) },
			price:   1,
			wantErr: errors.ErrPolicy,
		},
		"failed call of a simple wallet": {
			variant: VariantSimple,
			signers: keys[:2],
			payload: func(n *big.Int) *Payload { return payload(n, recipient, 1000000, 50000, 1, nil) },
			price:   1,
			wantErr: errors.ErrInnerCall,
		},
		"self-call of a wallet without whitelist": {
			variant: VariantConclave,
			signers: keys[:2],
			payload: nil,
			price:   1,
			wantErr: errors.ErrInnerCall,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			env := newEnv(t)
			var wallet relay.Address
			if tc.variant.Policy().Managed {
				wallet = env.deployWallet(t, tc.variant, keys, 2)
			} else {
				wallet = env.createWallet(t, tc.variant, keys, 2)
			}
			env.fund(t, wallet, 1000)
			relayer := env.newRelayer(t)
			relayerBalance := env.balance(t, relayer)
			nonce := env.nonce(t, wallet, relayer)

			var p *Payload
			if tc.payload != nil {
				p = tc.payload(nonce)
			} else {
				data, err := PackSetWhitelisted(recipient, true)
				assert.Nil(t, err)
				p = payload(nonce, wallet, 0, 50000, 1, data)
			}

			_, err := env.execute(relayer, tc.price, wallet, tc.signers, p)
			if !tc.wantErr.Is(err) {
				t.Fatalf("want %q error, got %+v", tc.wantErr, err)
			}

			// A rejected request leaves no trace.
			assertBig(t, nonce, env.nonce(t, wallet, relayer))
			env.assertBalance(t, wallet, 1000)
			env.assertBalance(t, recipient, 0)
			assertBig(t, relayerBalance, env.balance(t, relayer))
		})
	}
}

func TestInactiveWalletCannotExecute(t *testing.T) {
	env := newEnv(t)
	manager := weavetest.RandomAddr(t)
	env.fund(t, manager, 1000000000)
	res, err := env.deliver(manager, 1, &DeployWalletMsg{Variant: VariantManaged})
	assert.Nil(t, err)
	wallet := relay.BytesToAddress(res.Data)

	keys := weavetest.SortedKeys(1)
	p := payload(big.NewInt(0), manager, 0, 50000, 1, nil)
	_, err = env.execute(env.newRelayer(t), 1, wallet, keys, p)
	if !errors.ErrLifecycle.Is(err) {
		t.Fatalf("unexpected error: %+v", err)
	}
}

func TestPerRelayerNonces(t *testing.T) {
	env := newEnv(t)
	keys := weavetest.SortedKeys(2)
	wallet := env.createWallet(t, VariantSimple, keys, 1)
	env.fund(t, wallet, 1000)
	r1, r2 := env.newRelayer(t), env.newRelayer(t)
	recipient := weavetest.RandomAddr(t)

	n1 := env.nonce(t, wallet, r1)
	n2 := env.nonce(t, wallet, r2)

	// A payload prepared for r1 cannot be submitted by r2.
	p1 := payload(n1, recipient, 10, 50000, 1, nil)
	_, err := env.execute(r2, 1, wallet, keys[:1], p1)
	if !errors.ErrReplay.Is(err) {
		t.Fatalf("unexpected error: %+v", err)
	}

	_, err = env.execute(r1, 1, wallet, keys[:1], p1)
	assert.Nil(t, err)
	_, err = env.execute(r2, 1, wallet, keys[1:], payload(n2, recipient, 20, 50000, 1, nil))
	assert.Nil(t, err)
	env.assertBalance(t, recipient, 30)

	// Only the counter of r1 moved for its request.
	assertBig(t, new(big.Int).Add(n1, big.NewInt(1)), env.nonce(t, wallet, r1))
	assertBig(t, new(big.Int).Add(n2, big.NewInt(1)), env.nonce(t, wallet, r2))
}

func TestSoftFailure(t *testing.T) {
	failData, err := ledger.PackRegistryCall("fail")
	assert.Nil(t, err)

	for _, v := range []Variant{VariantManaged, VariantWhitelisted, VariantManagedWhitelisted} {
		t.Run(v.String(), func(t *testing.T) {
			env := newEnv(t)
			keys := weavetest.SortedKeys(2)
			var wallet relay.Address
			if v.Policy().Managed {
				wallet = env.deployWallet(t, v, keys, 2)
			} else {
				wallet = env.createWallet(t, v, keys, 2)
			}
			env.fund(t, wallet, 1000000000)
			relayer := env.newRelayer(t)
			nonce := env.nonce(t, wallet, relayer)

			if v.Policy().Whitelist {
				data, err := PackSetWhitelisted(ledger.RegistryAddress, true)
				assert.Nil(t, err)
				_, err = env.execute(relayer, 1, wallet, keys, payload(nonce, wallet, 0, 50000, 1, data))
				assert.Nil(t, err)
				nonce = env.nonce(t, wallet, relayer)
			}

			walletBefore := env.balance(t, wallet)
			p := payload(nonce, ledger.RegistryAddress, 7, 50000, 1, failData)
			res, err := env.execute(relayer, 1, wallet, keys, p)
			assert.Nil(t, err)
			assert.Equal(t, false, res.Outcome)
			if res.Fee.Sign() <= 0 {
				t.Fatalf("relayer not refunded: %s", res.Fee)
			}

			// The nonce is consumed, the value stays in the wallet and
			// the wallet pays for the attempt.
			assertBig(t, new(big.Int).Add(nonce, big.NewInt(1)), env.nonce(t, wallet, relayer))
			env.assertBalance(t, ledger.RegistryAddress, 0)
			assertBig(t, new(big.Int).Sub(walletBefore, res.Fee), env.balance(t, wallet))
		})
	}
}

func TestRelayerDoesNotProfit(t *testing.T) {
	env := newEnv(t)
	keys := weavetest.SortedKeys(3)
	wallet := env.createWallet(t, VariantWhitelisted, keys, 2)
	env.fund(t, wallet, 1000000000)
	relayer := env.newRelayer(t)
	collected := env.balance(t, env.collector)
	const price = 10

	register, err := ledger.PackRegistryCall("register", big.NewInt(77))
	assert.Nil(t, err)
	permit, err := PackSetWhitelisted(ledger.RegistryAddress, true)
	assert.Nil(t, err)

	steps := []struct {
		to    relay.Address
		value int64
		data  []byte
	}{
		{to: wallet, data: permit},
		{to: ledger.RegistryAddress, value: 5, data: register},
		{to: keys[1].Address(), value: 100},
	}

	var refunded big.Int
	for i, s := range steps {
		before := env.balance(t, relayer)
		p := payload(big.NewInt(int64(i)), s.to, s.value, 100000, price, s.data)
		res, err := env.execute(relayer, price, wallet, keys[1:], p)
		assert.Nil(t, err)
		assert.Equal(t, true, res.Outcome)
		refunded.Add(&refunded, res.Fee)

		// The net change of the relayer is within [0, settlement gas * price).
		diff := new(big.Int).Sub(env.balance(t, relayer), before)
		if diff.Sign() < 0 || diff.Cmp(big.NewInt(testSettlementGas*price)) >= 0 {
			t.Fatalf("step %d: relayer balance changed by %s", i, diff)
		}
	}

	value, err := env.registry.Value(env.db, wallet)
	assert.Nil(t, err)
	assertBig(t, big.NewInt(77), value)
	env.assertBalance(t, ledger.RegistryAddress, 5)
	env.assertBalance(t, keys[1].Address(), 100)

	// Everything the relayer paid ended up with the collector and was
	// paid by the wallet.
	assertBig(t, new(big.Int).Add(collected, &refunded), env.balance(t, env.collector))
	assertBig(t, new(big.Int).Sub(big.NewInt(1000000000-105), &refunded), env.balance(t, wallet))
}

func TestRefundRequiresWalletFunds(t *testing.T) {
	env := newEnv(t)
	keys := weavetest.SortedKeys(1)
	wallet := env.createWallet(t, VariantWhitelisted, keys, 1)
	relayer := env.newRelayer(t)

	p := payload(big.NewInt(0), keys[0].Address(), 0, 50000, 1, nil)
	_, err := env.execute(relayer, 1, wallet, keys, p)
	if !errors.ErrInsufficientAmount.Is(err) {
		t.Fatalf("unexpected error: %+v", err)
	}
	assertBig(t, big.NewInt(0), env.nonce(t, wallet, relayer))
}

func TestWhitelistSelfCalls(t *testing.T) {
	env := newEnv(t)
	keys := weavetest.SortedKeys(2)
	wallet := env.createWallet(t, VariantWhitelisted, keys, 1)
	env.fund(t, wallet, 1000000000)
	relayer := env.newRelayer(t)
	dest := weavetest.RandomAddr(t)

	var nonce int64
	execute := func(to relay.Address, value int64, data []byte) (*Result, error) {
		t.Helper()
		res, err := env.execute(relayer, 1, wallet, keys[:1], payload(big.NewInt(nonce), to, value, 50000, 1, data))
		if err == nil {
			nonce++
		}
		return res, err
	}
	setPermitted := func(allowed bool) {
		t.Helper()
		data, err := PackSetWhitelisted(dest, allowed)
		assert.Nil(t, err)
		res, err := execute(wallet, 0, data)
		assert.Nil(t, err)
		assert.Equal(t, true, res.Outcome)
	}

	// Owners are always permitted.
	_, err := execute(keys[1].Address(), 1, nil)
	assert.Nil(t, err)

	if _, err := execute(dest, 1, nil); !errors.ErrPolicy.Is(err) {
		t.Fatalf("unexpected error: %+v", err)
	}
	setPermitted(true)
	_, err = execute(dest, 1, nil)
	assert.Nil(t, err)
	env.assertBalance(t, dest, 1)

	setPermitted(false)
	if _, err := execute(dest, 1, nil); !errors.ErrPolicy.Is(err) {
		t.Fatalf("unexpected error: %+v", err)
	}

	// Malformed self-calls fail softly.
	res, err := execute(wallet, 0, []byte{1, 2, 3, 4})
	assert.Nil(t, err)
	assert.Equal(t, false, res.Outcome)
}
