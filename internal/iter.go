// Package internal holds helpers shared by the isa16 packages.
package internal

import (
	"iter"
)

// IterSeq2Concat chains name/value sequences, such as the Defines() of
// several packages, into one sequence. Keys are not deduplicated.
func IterSeq2Concat[K any, V any](seqs ...iter.Seq2[K, V]) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, seq := range seqs {
			for key, value := range seq {
				if !yield(key, value) {
					return
				}
			}
		}
	}
}
