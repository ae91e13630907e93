/*

Package gconf implements a configuration store intended to be used as a global,
in-database configuration.

Each extension owns a single configuration singleton, stored under its package
name. The singleton is loaded from the "gconf" section of the genesis file and
read back by the extension whenever a message is processed.

Not being able to get a configuration value is a critical condition for the
application and there is no recovery path for the client. Application must be
terminated and configured correctly.

*/
package gconf
