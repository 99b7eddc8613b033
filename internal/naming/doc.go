// Package naming derives output document paths from source paths.
//
// The output directory mirrors the source's position under the source root;
// the file name is the source stem passed through an optional match/replace
// rule, with an optional prefix and the target extension. Derivation is pure:
// it never touches the filesystem.
package naming
