// Package keys defines the core types and contracts of the RSA engine:
// public and private key models, padding and digest selectors, the engine
// interface and the error taxonomy shared by all operations.
package keys
