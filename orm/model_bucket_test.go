package orm

import (
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/iov-one/relay/errors"
	"github.com/iov-one/relay/store"
	"github.com/iov-one/relay/weavetest/assert"
)

type counter struct {
	Count uint64
}

func (c *counter) Marshal() ([]byte, error)   { return rlp.EncodeToBytes(c) }
func (c *counter) Unmarshal(raw []byte) error { return rlp.DecodeBytes(raw, c) }
func (c *counter) Validate() error {
	if c.Count == 0 {
		return errors.Wrap(errors.ErrModel, "zero count")
	}
	return nil
}

func TestModelBucket(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("cnts")

	if err := b.Put(db, []byte("c1"), &counter{Count: 1}); err != nil {
		t.Fatalf("cannot save counter instance: %s", err)
	}

	var c1 counter
	if err := b.One(db, []byte("c1"), &c1); err != nil {
		t.Fatalf("cannot get c1 counter: %s", err)
	}
	if c1.Count != 1 {
		t.Fatalf("unexpected counter state: %d", c1.Count)
	}
	assert.Nil(t, b.Has(db, []byte("c1")))

	if err := b.Put(db, []byte("c2"), &counter{}); !errors.ErrModel.Is(err) {
		t.Fatalf("invalid model must not be saved: %s", err)
	}

	if err := b.Delete(db, []byte("c1")); err != nil {
		t.Fatalf("cannot delete c1 counter: %s", err)
	}
	if err := b.Delete(db, []byte("unknown")); !errors.ErrNotFound.Is(err) {
		t.Fatalf("unexpected error when deleting unexisting instance: %s", err)
	}
	if err := b.One(db, []byte("c1"), &c1); !errors.ErrNotFound.Is(err) {
		t.Fatalf("unexpected error for an unknown model get: %s", err)
	}
}

func TestModelBucketPrefixIsolation(t *testing.T) {
	db := store.MemStore()
	a := NewModelBucket("aaa")
	b := NewModelBucket("bbb")

	assert.Nil(t, a.Put(db, []byte("k"), &counter{Count: 3}))
	assert.IsErr(t, errors.ErrNotFound, b.Has(db, []byte("k")))
}

func TestIllegalBucketName(t *testing.T) {
	assert.Panics(t, func() { NewModelBucket("Not Valid") })
}
