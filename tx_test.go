package relay

import (
	"testing"

	"github.com/iov-one/relay/errors"
	"github.com/stretchr/testify/assert"
)

func TestLoadMsg(t *testing.T) {
	cases := map[string]struct {
		Tx      Tx
		Dest    interface{}
		WantMsg Msg
		WantErr *errors.Error
	}{
		"success, msgmock type message": {
			Tx:      &txMock{msg: &msgMock{ID: 4219}},
			Dest:    &msgMock{},
			WantMsg: &msgMock{ID: 4219},
		},
		"success, other message type": {
			Tx:      &txMock{msg: &otherMsg{Text: "foobar"}},
			Dest:    &otherMsg{},
			WantMsg: &otherMsg{Text: "foobar"},
		},
		"transaction contains a nil message": {
			Tx:      &txMock{msg: nil},
			WantErr: errors.ErrState,
		},
		"invalid destination message, not a pointer": {
			Tx:      &txMock{msg: &msgMock{ID: 81421}},
			Dest:    msgMock{},
			WantErr: errors.ErrType,
		},
		"invalid destination message, wrong message type": {
			Tx:      &txMock{msg: &otherMsg{Text: "foo"}},
			Dest:    &msgMock{},
			WantErr: errors.ErrType,
		},
		"invalid destination message, nil interface": {
			Tx:      &txMock{msg: &msgMock{ID: 45192}},
			Dest:    Msg(nil),
			WantErr: errors.ErrType,
		},
		"invalid destination message, unaddressable": {
			Tx:      &txMock{msg: &msgMock{ID: 91841231}},
			Dest:    (*msgMock)(nil),
			WantErr: errors.ErrType,
		},
		"invalid message in transaction, failed validation": {
			Tx:      &txMock{msg: &msgMock{ID: 5, Err: errors.ErrPolicy}},
			Dest:    &msgMock{},
			WantErr: errors.ErrPolicy,
		},
		"transaction error": {
			Tx:      &txMock{err: errors.ErrInput},
			Dest:    &msgMock{},
			WantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if err := LoadMsg(tc.Tx, tc.Dest); !tc.WantErr.Is(err) {
				t.Fatalf("want %q error, got %q", tc.WantErr, err)
			}
			if tc.WantErr == nil {
				assert.Equal(t, tc.WantMsg, tc.Dest)
			}
		})
	}
}

func TestGetPath(t *testing.T) {
	assert.Equal(t, "mock", GetPath(&txMock{msg: &msgMock{}}))
	assert.Equal(t, "(missing)", GetPath(&txMock{err: errors.ErrInput}))
}

type txMock struct {
	msg Msg
	err error
}

func (tx *txMock) GetMsg() (Msg, error) {
	return tx.msg, tx.err
}

type msgMock struct {
	ID  int
	Err error
}

func (m *msgMock) Path() string               { return "mock" }
func (m *msgMock) Validate() error            { return m.Err }
func (m *msgMock) Marshal() ([]byte, error)   { return nil, nil }
func (m *msgMock) Unmarshal(raw []byte) error { return nil }

type otherMsg struct {
	Text string
}

func (m *otherMsg) Path() string               { return "other" }
func (m *otherMsg) Validate() error            { return nil }
func (m *otherMsg) Marshal() ([]byte, error)   { return []byte(m.Text), nil }
func (m *otherMsg) Unmarshal(raw []byte) error { m.Text = string(raw); return nil }
