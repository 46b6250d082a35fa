// Package types contains the shared data model for devenv: requirements
// extracted from manifests, resolver results, store entries, installation
// prefixes and the shell session record. It also defines the FS interface
// used throughout the codebase so filesystem access can be substituted in
// tests.
package types
