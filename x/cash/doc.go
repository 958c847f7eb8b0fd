/*
Package cash keeps account balances and charges relayers for the gas their
requests consume.

Balances are plain unsigned integers stored per address. The FeeDecorator
reserves the gas budget announced by a relayer, runs the request with a gas
meter attached to the context and moves the consumed gas times the gas price
to the collector configured via the gconf package.
*/
package cash
