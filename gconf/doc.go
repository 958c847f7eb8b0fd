/*
Package gconf implements a configuration store intended to be used as a global,
in-database configuration.

Each package keeps a single configuration entity stored under the "_c:<pkg>"
key. Configuration is loaded from the genesis file and can later be patched
by its owner with an UpdateConfigurationHandler.

Not being able to get a configuration value is a critical condition for the
application and there is no recovery path for the client.
*/
package gconf
