// Package link places code and data blocks in memory, resolves their
// labels, and writes the result as an object file.
//
// Linking runs as a fixed sequence of passes over a fresh copy of the
// input: operand validation, pseudo-instruction expansion, placement,
// relocation, and encoding. Diagnostics from each pass are collected so a
// single run reports every problem it can find.
package link
