// Package sigv4 implements the client side of AWS Signature Version 4 for
// requests without query parameters: canonical request construction, the
// string to sign, signing-key derivation and the Authorization header.
//
// Everything here is a pure function of its inputs. Callers supply the
// request time so signatures are reproducible in tests.
package sigv4
