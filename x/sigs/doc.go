/*
Package sigs provides basic authentication
middleware to verify the relayer signature on the request envelope,
and maintain sequences for replay protection.

The authenticated relayer becomes the caller of the request
(relay.GetCaller) and the gas price it signed for becomes the price of
the request (relay.GetGasPrice).
*/
package sigs
