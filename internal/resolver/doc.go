// Package resolver maps a page route to the source file most likely to
// render it, and to the chain of layout files that wrap that page.
//
// Resolution first tries the file-based routing conventions of common
// frameworks directly, then falls back to a weighted fuzzy score over the
// whole index. A miss is a normal outcome reported as ("", false).
package resolver
