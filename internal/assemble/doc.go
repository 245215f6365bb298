// Package assemble builds the context document handed to the coding
// assistant: an ordered list of titled sections, each present only when its
// toggle is on and it has something to say.
package assemble
