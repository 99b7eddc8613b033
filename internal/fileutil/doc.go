// Package fileutil turns command-line input specs into the list of source
// documents a batch converts.
//
// # Input specs
//
// Each spec is classified in this order:
//   - an existing regular file is taken as-is (extension is not checked unless
//     ResolveOptions.StrictExtension is set)
//   - an existing directory is scanned for files with the batch extension,
//     top level only unless ResolveOptions.Recursive is set
//   - a spec containing glob metacharacters is expanded; "**" matches any
//     number of directories
//   - any other existing path (FIFO, device) wraps ErrUnsupportedInput
//   - anything else is an error wrapping ErrInputNotFound
//
// Hidden directories (".git", ".ipynb_checkpoints") are never descended into
// by directory scans or "**" expansion.
//
// # Output
//
// ScanResult.Files holds absolute, cleaned paths, de-duplicated and sorted
// lexicographically so that the same inputs always produce the same order.
// Non-fatal errors (unreadable subdirectories) are collected in
// ScanResult.Errors and scanning continues.
//
// # Usage
//
//	result, err := fileutil.Resolve([]string{"notebooks", "extra/*.ipynb"}, fileutil.ResolveOptions{
//	    Extension: ".ipynb",
//	    Recursive: true,
//	})
//	if err != nil {
//	    return err
//	}
//	root := fileutil.CommonRoot(result.Files)
package fileutil
