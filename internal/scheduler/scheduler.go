// Package scheduler orders a set of candidate jobs into a recommended work
// sequence. The objective is total weighted tardiness: finishing a job after
// its deadline costs penalty × overdue-seconds, and the search looks for a
// permutation that minimises the sum.
package scheduler

import (
	"hash/fnv"
	"math/rand"
	"sort"
)

// Arrangement strategy identifiers, matching the client's alg query values.
const (
	AlgTardiness      = 1
	AlgWeightedRandom = 2
	AlgDeadline       = 3
	AlgPenalty        = 4
	AlgShortest       = 5
)

// Job is one schedulable unit of work.
type Job struct {
	ID           string
	ExpectedTime int64 // seconds of work remaining
	EndTime      int64 // deadline, unix seconds
	Penalty      int   // tardiness weight, 1-10
}

// Arrange returns the job IDs in recommended execution order. The result is
// a pure function of the job set and strategy: the random strategies seed
// their generator from a hash of the snapshot, so repeated calls over an
// unchanged set return the same order. Unknown strategies fall back to the
// tardiness search.
func Arrange(jobs []Job, alg int) []string {
	if len(jobs) == 0 {
		return []string{}
	}

	// Work on an ID-sorted copy so the order of the caller's slice never
	// leaks into the result.
	sorted := make([]Job, len(jobs))
	copy(sorted, jobs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	var seq []int
	switch alg {
	case AlgWeightedRandom:
		seq = weightedRandomOrder(sorted, newSnapshotRand(sorted))
	case AlgDeadline:
		seq = orderBy(sorted, func(a, b Job) bool { return a.EndTime < b.EndTime })
	case AlgPenalty:
		seq = orderBy(sorted, func(a, b Job) bool { return a.Penalty > b.Penalty })
	case AlgShortest:
		seq = orderBy(sorted, func(a, b Job) bool { return a.ExpectedTime < b.ExpectedTime })
	default:
		seq = geneticOrder(sorted, newSnapshotRand(sorted))
	}

	ids := make([]string, len(seq))
	for i, j := range seq {
		ids[i] = sorted[j].ID
	}
	return ids
}

// TotalWeightedTardiness evaluates a permutation: jobs run back to back from
// time zero and every second past a job's deadline costs its penalty.
func TotalWeightedTardiness(seq []int, jobs []Job) int64 {
	var elapsed, total int64
	for _, j := range seq {
		elapsed += jobs[j].ExpectedTime
		if overdue := elapsed - jobs[j].EndTime; overdue > 0 {
			total += int64(jobs[j].Penalty) * overdue
		}
	}
	return total
}

func orderBy(jobs []Job, less func(a, b Job) bool) []int {
	seq := identity(len(jobs))
	sort.SliceStable(seq, func(i, j int) bool { return less(jobs[seq[i]], jobs[seq[j]]) })
	return seq
}

func identity(n int) []int {
	seq := make([]int, n)
	for i := range seq {
		seq[i] = i
	}
	return seq
}

// weightedRandomOrder draws jobs one by one with weights inversely
// proportional to their position in the tardiness-optimised order, trading a
// little optimality for variety between snapshots.
func weightedRandomOrder(jobs []Job, rng *rand.Rand) []int {
	remaining := geneticOrder(jobs, rng)
	selected := make([]int, 0, len(remaining))

	for len(remaining) > 0 {
		total := 0
		for i := range remaining {
			total += len(remaining) - i
		}
		r := rng.Float64() * float64(total)
		acc := 0.0
		for i := range remaining {
			acc += float64(len(remaining) - i)
			if r <= acc {
				selected = append(selected, remaining[i])
				remaining = append(remaining[:i], remaining[i+1:]...)
				break
			}
		}
	}

	return selected
}

// newSnapshotRand derives a deterministic generator from the candidate set.
func newSnapshotRand(jobs []Job) *rand.Rand {
	h := fnv.New64a()
	for _, j := range jobs {
		h.Write([]byte(j.ID))
		writeInt64(h, j.ExpectedTime)
		writeInt64(h, j.EndTime)
		writeInt64(h, int64(j.Penalty))
	}
	return rand.New(rand.NewSource(int64(h.Sum64())))
}

func writeInt64(h interface{ Write([]byte) (int, error) }, v int64) {
	var buf [8]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(v >> (8 * i))
	}
	h.Write(buf[:])
}
