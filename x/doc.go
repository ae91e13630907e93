/*
Package x contains some standard extensions

Extensions are sub-packages that implement custody.Handler and
expose their state through custody.QueryHandler. They are wired
together by the application. Code shared by several extensions,
like the Authenticator abstraction, lives in this package.
*/
package x
