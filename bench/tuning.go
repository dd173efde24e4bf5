package bench

import "fmt"

// Tuning groups per-family configuration constants. They are resolved once, when the
// dispatch table is built, and never read by the harness itself.
type Tuning struct {
	InsertionThreshold int     `yaml:"insertion_threshold"` // ranges at or below this size use insertion sort (merge and radix families)
	MergePolicy        string  `yaml:"merge_policy"`        // "copy-smaller" (default) or "copy-both"
	MinGallop          int     `yaml:"min_gallop"`          // timsort galloping threshold
	Workers            int     `yaml:"workers"`             // ips4o worker bound; 0 = GOMAXPROCS
	SampleSortBaseCase int     `yaml:"samplesort_base_case"`
	SampleSortBuckets  int     `yaml:"samplesort_buckets"`
	LearnedBucketSize  int     `yaml:"learned_bucket_size"` // mean elements per learnsort bucket
	LearnedSampleRatio float64 `yaml:"learned_sample_ratio"`
	Seed               int64   `yaml:"seed"` // sampling seed for sample-based strategies
}

// ValidMergePolicies is the set of recognized merge buffer policies.
var ValidMergePolicies = map[string]bool{"": true, "copy-smaller": true, "copy-both": true}

// DefaultTuning returns the tuning used when no configuration is supplied.
func DefaultTuning() Tuning {
	return Tuning{
		InsertionThreshold: 64,
		MergePolicy:        "copy-smaller",
		MinGallop:          7,
		Workers:            0,
		SampleSortBaseCase: 2048,
		SampleSortBuckets:  256,
		LearnedBucketSize:  100,
		LearnedSampleRatio: 0.01,
		Seed:               42,
	}
}

// Validate checks parameter ranges.
func (t Tuning) Validate() error {
	if t.InsertionThreshold < 0 {
		return fmt.Errorf("insertion_threshold must be >= 0, got %d", t.InsertionThreshold)
	}
	if !ValidMergePolicies[t.MergePolicy] {
		return fmt.Errorf("unknown merge policy %q", t.MergePolicy)
	}
	if t.MinGallop < 1 {
		return fmt.Errorf("min_gallop must be >= 1, got %d", t.MinGallop)
	}
	if t.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", t.Workers)
	}
	if t.SampleSortBaseCase < 16 {
		return fmt.Errorf("samplesort_base_case must be >= 16, got %d", t.SampleSortBaseCase)
	}
	if t.SampleSortBuckets < 2 || t.SampleSortBuckets > 4096 {
		return fmt.Errorf("samplesort_buckets must be in [2, 4096], got %d", t.SampleSortBuckets)
	}
	if t.LearnedBucketSize < 1 {
		return fmt.Errorf("learned_bucket_size must be >= 1, got %d", t.LearnedBucketSize)
	}
	if t.LearnedSampleRatio <= 0 || t.LearnedSampleRatio > 1 {
		return fmt.Errorf("learned_sample_ratio must be in (0, 1], got %v", t.LearnedSampleRatio)
	}
	return nil
}
