// Package sniff recognizes dependency declarations across the manifest
// formats devenv understands and normalizes them into a single
// ManifestSignal. Sniffing is non-recursive: one call inspects exactly
// one directory's immediate entries and dispatches each recognized
// file or directory name to its registered handler.
//
// Handler failures are per-file: a malformed manifest contributes
// nothing but never aborts the pass.
package sniff
