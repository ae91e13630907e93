/*
Package errors implements the error model used across custody.

Every error that is meant to reach a client must wrap one of the root errors
created with Register. A root error carries an ABCI code, which allows the
client to tell the kind of failure apart without parsing messages.

Extensions declare their own root errors with Register(code, description)
during program initialization. Runtime errors are created with Wrap, Wrapf
or Field, or with the New and Newf methods of a root error. A stack trace is
attached at the innermost wrap only.

Once you have an error, use fmt to get more context
	%s is the error message
	%+v is the message together with the stack trace
*/
package errors
