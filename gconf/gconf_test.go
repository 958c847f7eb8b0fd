package gconf

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/relay"
	"github.com/iov-one/relay/errors"
	"github.com/iov-one/relay/store"
	"github.com/iov-one/relay/weavetest/assert"
)

func TestSaveLoad(t *testing.T) {
	db := store.MemStore()

	want := &myconfig{Owner: relay.Address{1}, Num: 4, Str: "abc"}
	assert.Nil(t, Save(db, "mypkg", want))

	var got myconfig
	assert.Nil(t, Load(db, "mypkg", &got))
	assert.Equal(t, want, &got)

	err := Load(db, "otherpkg", &got)
	assert.IsErr(t, errors.ErrNotFound, err)

	err = Save(db, "mypkg", &myconfig{Num: -1})
	assert.IsErr(t, errors.ErrInput, err)
}

func TestInitConfig(t *testing.T) {
	cases := map[string]struct {
		genesis string
		wantErr *errors.Error
	}{
		"valid configuration": {
			genesis: `{"conf": {"mypkg": {"Owner": "0x0100000000000000000000000000000000000000", "Num": 3}}}`,
		},
		"missing package configuration": {
			genesis: `{"conf": {"other": {}}}`,
			wantErr: errors.ErrNotFound,
		},
		"invalid configuration": {
			genesis: `{"conf": {"mypkg": {"Num": -3}}}`,
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var opts relay.Options
			assert.Nil(t, json.Unmarshal([]byte(tc.genesis), &opts))
			db := store.MemStore()
			err := InitConfig(db, opts, "mypkg", &myconfig{})
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
		})
	}
}

type myconfig struct {
	Owner relay.Address
	Num   int64
	Str   string
}

func (c *myconfig) GetOwner() relay.Address    { return c.Owner }
func (c *myconfig) Marshal() ([]byte, error)   { return json.Marshal(c) }
func (c *myconfig) Unmarshal(raw []byte) error { return json.Unmarshal(raw, c) }

func (c *myconfig) Validate() error {
	if c.Num < 0 {
		return errors.Wrap(errors.ErrInput, "negative number")
	}
	return nil
}

type myconfigMsg struct {
	Patch *myconfig
}

var _ relay.Msg = (*myconfigMsg)(nil)

func (msg *myconfigMsg) Marshal() ([]byte, error)   { return json.Marshal(msg) }
func (msg *myconfigMsg) Unmarshal(raw []byte) error { return json.Unmarshal(raw, msg) }
func (msg *myconfigMsg) Path() string               { return "myconfig" }
func (msg *myconfigMsg) Validate() error {
	if msg.Patch == nil {
		return errors.Wrap(errors.ErrEmpty, "patch")
	}
	return msg.Patch.Validate()
}
