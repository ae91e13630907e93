/*
Package custodytest provides mocks and helpers for testing extensions
and the application. Nothing in this package should be used by production
code.
*/
package custodytest
