package errors

import (
	"fmt"
	"testing"
)

func TestInfo(t *testing.T) {
	cases := map[string]struct {
		err      error
		debug    bool
		wantCode uint32
		wantLog  string
	}{
		"nil error": {
			err:      nil,
			wantCode: SuccessCode,
			wantLog:  "",
		},
		"registered root error": {
			err:      ErrFeeCeiling,
			wantCode: ErrFeeCeiling.code,
			wantLog:  "fee ceiling exceeded",
		},
		"wrapped registered error": {
			err:      Wrap(ErrUnauthorized, "signer 2"),
			wantCode: ErrUnauthorized.code,
			wantLog:  "signer 2: unauthorized",
		},
		"stdlib error is redacted": {
			err:      fmt.Errorf("disk on fire"),
			wantCode: internalCode,
			wantLog:  internalLog,
		},
		"stdlib error is shown in debug mode": {
			err:      fmt.Errorf("disk on fire"),
			debug:    true,
			wantCode: internalCode,
			wantLog:  "disk on fire",
		},
		"multi error reports first code": {
			err:      Append(ErrInput, ErrModel),
			wantCode: ErrInput.code,
			wantLog:  "2 errors occurred:\n\t* invalid input\n\t* invalid model",
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			code, log := Info(tc.err, tc.debug)
			if code != tc.wantCode {
				t.Errorf("want %d code, got %d", tc.wantCode, code)
			}
			if log != tc.wantLog {
				t.Errorf("want %q log, got %q", tc.wantLog, log)
			}
		})
	}
}

func TestRedact(t *testing.T) {
	if err := Redact(ErrPanic.New("secret"), false); ErrPanic.Is(err) {
		t.Error("panic must be redacted")
	}
	if err := Redact(ErrPanic.New("secret"), true); !ErrPanic.Is(err) {
		t.Error("debug mode must not redact")
	}
	if err := Redact(ErrReplay.New("nonce"), false); !ErrReplay.Is(err) {
		t.Error("registered errors must pass through")
	}
}
