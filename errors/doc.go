/*
Package errors implements the error taxonomy of the relay.

Every rejection returned to a relayer wraps one registered root error. The
authorization core uses ErrUnauthorized, ErrReplay, ErrLifecycle, ErrPolicy,
ErrFeeCeiling and ErrInnerCall; the supporting packages use the common codes
declared next to them.

If you want to register a custom error - use Register(code, description).
For reusing errors - use Errxxx.New and Errxxx.Newf.

There is also support for stacktraces. Please ensure you create the custom
error using ErrXyz.New("...") or errors.Wrap(err, "...") at the point of
creation to ensure we attach a stacktrace. If you wrap multiple times, we only
record the first wrap with the stacktrace.

Once you have an error, you can use `fmt.Printf/Sprintf` to get more context

	%s is just the error message
	%+v is the error message followed by the stack trace

Use Info to get the code and message safe to expose to a client.
*/
package errors
