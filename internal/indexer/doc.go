// Package indexer turns a project directory tree into a flat, queryable index
// of relative file and folder paths.
//
// Indexing works from relative paths only; file contents are never read.
// Two predicates decide what is kept: the generated-path exclusion
// (dependency, build and cache directories, source maps, bundler artifacts),
// checked first and unconditionally, then the extension allow-list.
// Every proper prefix of a kept file becomes a folder entry.
//
// Indexes are persisted per project path and replaced wholesale on re-index.
// The most recent index is also kept in a "last picked" slot used when no
// project path is configured yet.
package indexer
