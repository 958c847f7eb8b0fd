/*
Package relay defines the interfaces shared by the threshold-signature
relay: storage, messages, handlers, decorators and the request context.

A relayed request travels through a chain of decorators (authentication of
the relayer, gas fee accounting, savepoints) into a handler selected by the
message path. Extensions under x/ implement handlers and decorators; the
authorization core lives in x/multisig.

We pass context through context.Context between app, decorators and
handlers. For every value T that we want to support in the context there
exist two functions:

	WithXYZ(Context, T) Context
	GetXYZ(Context) (val T, ok bool)

WithXYZ panics if the value was previously set to avoid lower-level modules
overwriting the value.
*/
package relay
