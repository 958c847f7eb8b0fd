package store

import "github.com/iov-one/relay"

// Move references for all storage types into this package
// for shorter names everywhere

type (
	ReadOnlyKVStore  = relay.ReadOnlyKVStore
	SetDeleter       = relay.SetDeleter
	KVStore          = relay.KVStore
	Batch            = relay.Batch
	CacheableKVStore = relay.CacheableKVStore
	KVCacheWrap      = relay.KVCacheWrap
	Model            = relay.Model
)
