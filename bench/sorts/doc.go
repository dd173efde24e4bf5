// Package sorts provides the strategy family measured by greensort and the default
// dispatch table. Every strategy sorts a []float64 under an optional bench.KeyFunc.
//
// Families:
//   - pdqsort: pattern-defeating quicksort, classic and branchless partitioning
//   - samplesort: in-place super-scalar sample sort, sequential (is4o) and parallel (ips4o)
//   - timsort: natural mergesort with and without galloping
//   - powersort: peeksort, powersort, 4-way powersort (staged and sentinel merges)
//   - radix: LSD radix with a ping-pong buffer and in-place MSD (American flag) radix
//   - learned: CDF-model bucket sort
//
// Importing this package registers NewTable as bench.NewDefaultTableFunc.
package sorts
