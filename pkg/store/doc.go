// Package store materializes resolved packages into a project's
// private package store and installation prefix. A resolved package
// tree is mirrored with hard links, its public subtrees are published
// into the prefix via symlinks, and every published binary is then
// overwritten with an environment-isolating stub. Failures are
// per-package: one broken package never stops the rest of the batch.
package store
