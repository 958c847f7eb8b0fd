package gconf

import (
	"context"
	"testing"

	"github.com/iov-one/relay"
	"github.com/iov-one/relay/errors"
	"github.com/iov-one/relay/store"
	"github.com/iov-one/relay/weavetest"
	"github.com/iov-one/relay/weavetest/assert"
)

func TestUpdateConfigurationHandler(t *testing.T) {
	owner := weavetest.RandomAddr(t)

	cases := map[string]struct {
		// If Init is provided, initialize the database before running
		// handler code.
		Init       ValidMarshaler
		Msg        relay.Msg
		Caller     relay.Address
		WantErr    *errors.Error
		WantConfig *myconfig
	}{
		"success": {
			Init:       &myconfig{Owner: owner, Num: 5125, Str: "foobar"},
			Msg:        &myconfigMsg{Patch: &myconfig{Owner: owner, Num: 333, Str: "boing!"}},
			Caller:     owner,
			WantConfig: &myconfig{Owner: owner, Num: 333, Str: "boing!"},
		},
		"message must be submitted by the configuration owner": {
			Init:    &myconfig{Owner: owner, Num: 5125, Str: "foobar"},
			Msg:     &myconfigMsg{Patch: &myconfig{Num: 1}},
			Caller:  weavetest.RandomAddr(t),
			WantErr: errors.ErrUnauthorized,
		},
		"zero values are not updating the configuration": {
			Init:       &myconfig{Owner: owner, Num: 5125, Str: "foobar"},
			Msg:        &myconfigMsg{Patch: &myconfig{Str: "x"}},
			Caller:     owner,
			WantConfig: &myconfig{Owner: owner, Num: 5125, Str: "x"},
		},
		"invalid configuration is not accepted": {
			Init:    &myconfig{Owner: owner, Num: 5125},
			Msg:     &myconfigMsg{Patch: &myconfig{Num: -4}},
			Caller:  owner,
			WantErr: errors.ErrInput,
		},
		"patch is required": {
			Init:    &myconfig{Owner: owner, Num: 5125},
			Msg:     &myconfigMsg{},
			Caller:  owner,
			WantErr: errors.ErrEmpty,
		},
		"patch of another configuration type": {
			Init:    &myconfig{Owner: owner, Num: 5125},
			Msg:     &otherConfigMsg{Patch: &otherConfig{}},
			Caller:  owner,
			WantErr: errors.ErrInput,
		},
		"configuration must exist": {
			Msg:     &myconfigMsg{Patch: &myconfig{Num: 4}},
			Caller:  owner,
			WantErr: errors.ErrNotFound,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()

			if tc.Init != nil {
				if err := Save(db, "mypkg", tc.Init); err != nil {
					t.Fatalf("cannot save initial configuration: %s", err)
				}
			}

			var c myconfig
			handler := NewUpdateConfigurationHandler("mypkg", &c)

			ctx := relay.WithCaller(context.Background(), tc.Caller)
			tx := &weavetest.Tx{Msg: tc.Msg}

			if _, err := handler.Deliver(ctx, db, tx); !tc.WantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}

			if tc.WantConfig != nil {
				var got myconfig
				assert.Nil(t, Load(db, "mypkg", &got))
				assert.Equal(t, tc.WantConfig, &got)
			}
		})
	}
}

type otherConfig struct {
	myconfig
}

type otherConfigMsg struct {
	Patch *otherConfig
}

func (msg *otherConfigMsg) Marshal() ([]byte, error)   { return nil, nil }
func (msg *otherConfigMsg) Unmarshal(raw []byte) error { return nil }
func (msg *otherConfigMsg) Path() string               { return "other" }
func (msg *otherConfigMsg) Validate() error            { return nil }
