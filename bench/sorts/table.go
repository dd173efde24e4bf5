package sorts

import (
	"fmt"

	"github.com/greensort/greensort/bench"
)

// Family names used in descriptors.
const (
	FamilyPdqsort    = "pdqsort"
	FamilySampleSort = "samplesort"
	FamilyTimsort    = "timsort"
	FamilyPowersort  = "powersort"
	FamilyRadix      = "radix"
	FamilyLearned    = "learned"
)

// NewTable builds the dispatch table of every strategy variant, configured from
// tuning. It is installed as bench.NewDefaultTableFunc.
func NewTable(tuning bench.Tuning) (*bench.Table, error) {
	if err := tuning.Validate(); err != nil {
		return nil, fmt.Errorf("invalid tuning: %w", err)
	}
	copyBoth := tuning.MergePolicy == "copy-both"
	threshold := tuning.InsertionThreshold
	sample := SampleSort{
		BaseCase: tuning.SampleSortBaseCase,
		Buckets:  tuning.SampleSortBuckets,
		Workers:  tuning.Workers,
		Seed:     uint64(tuning.Seed),
	}
	parallel := sample
	parallel.Parallel = true

	return bench.NewTable(
		entry("pdqsort", FamilyPdqsort, "pattern-defeating quicksort", false, false, true,
			bench.ConstantCost(1.0), Pdqsort{}),
		entry("pdqsort-branchless", FamilyPdqsort, "pdqsort with branch-free partitioning", false, false, true,
			bench.ConstantCost(1.0), Pdqsort{Branchless: true}),
		entry("ips4o", FamilySampleSort, "parallel in-place super scalar sample sort", false, true, true,
			bench.SqrtOverheadCost(), parallel),
		entry("is4o", FamilySampleSort, "sequential in-place super scalar sample sort", false, false, true,
			bench.SqrtOverheadCost(), sample),
		entry("timsort", FamilyTimsort, "timsort with galloping merges", true, false, true,
			bench.ConstantCost(1.5), Timsort{MinMerge: threshold, MinGallop: tuning.MinGallop, Galloping: true}),
		entry("gfx-timsort", FamilyTimsort, "timsort without galloping", true, false, true,
			bench.ConstantCost(1.5), Timsort{MinMerge: threshold, MinGallop: tuning.MinGallop}),
		entry("peeksort", FamilyPowersort, "top-down run-adaptive mergesort", true, false, true,
			bench.ConstantCost(1.5), Peeksort{Threshold: threshold, CopyBoth: copyBoth}),
		entry("powersort", FamilyPowersort, "bottom-up mergesort with node-power merge policy", true, false, true,
			bench.ConstantCost(1.5), Powersort{MinRun: threshold, CopyBoth: copyBoth}),
		entry("powersort4", FamilyPowersort, "4-way powersort, merging by stages", true, false, true,
			bench.ConstantCost(2.0), Powersort4{MinRun: threshold, CopyBoth: copyBoth}),
		entry("powersort4s", FamilyPowersort, "4-way powersort with sentinel merging", true, false, true,
			bench.ConstantCost(2.0), Powersort4{MinRun: threshold, CopyBoth: copyBoth, Sentinel: true}),
		entry("skasort", FamilyRadix, "LSD byte radix sort with auxiliary buffer", true, false, true,
			bench.ConstantCost(2.0), Skasort{Threshold: threshold}),
		entry("iskasort", FamilyRadix, "in-place MSD radix sort", false, false, true,
			bench.ConstantCost(2.0), Iskasort{Threshold: threshold}),
		entry("learnsort", FamilyLearned, "learned-CDF bucket sort", false, false, false,
			bench.ConstantCost(2.0), Learnsort{
				BucketSize:  tuning.LearnedBucketSize,
				SampleRatio: tuning.LearnedSampleRatio,
				Seed:        tuning.Seed,
			}),
	)
}

func entry(id, family, description string, stable, parallel, acceptsEmpty bool, cost bench.CostModel, s bench.Strategy) bench.Entry {
	return bench.Entry{
		Descriptor: bench.Descriptor{
			ID:           id,
			Family:       family,
			Description:  description,
			Stable:       stable,
			Parallel:     parallel,
			AcceptsEmpty: acceptsEmpty,
			Cost:         cost,
		},
		Strategy: s,
	}
}
