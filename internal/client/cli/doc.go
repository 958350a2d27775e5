// Package cli implements the tokenbridge command:
//
//	tokenbridge [flags] register [username]
//	tokenbridge [flags] login [username]
//	tokenbridge [flags] call [path]
//	tokenbridge gen-secret [bytes]
//
// login stores the token in the token file; call sends it to the guardian.
package cli
