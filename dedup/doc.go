// Package dedup selects the next unique topic to produce content for,
// drawing from finite, category-partitioned template pools and avoiding repeats
// across a rolling window of recently emitted titles. Uniqueness is decided
// dynamically against history via normalized word-overlap similarity; no
// used flag is ever stored on a template.
package dedup
