// elscore: scoring and merging of called genomic loci.
// Copyright (c) 2017-2020 imec vzw.

// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version, and Additional Terms
// (see below).

// This program is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Affero General Public License for more details.

// You should have received a copy of the GNU Affero General Public
// License and Additional Terms along with this program. If not, see
// <https://github.com/ExaScience/elprep/blob/master/LICENSE.txt>.

package intervals

import "sort"

// Interval is a half-open range [Start, End) of 0-based reference
// positions.
type Interval struct {
	Start, End int32
}

// Len returns the number of positions covered by the interval.
func (interval Interval) Len() int32 {
	return interval.End - interval.Start
}

// Contains determines whether pos falls inside the interval.
func (interval Interval) Contains(pos int32) bool {
	return pos >= interval.Start && pos < interval.End
}

// Overlaps determines whether the two intervals share at least one
// position.
func (interval Interval) Overlaps(other Interval) bool {
	return interval.Start < other.End && other.Start < interval.End
}

// Extend makes interval1 larger if it touches or overlaps with
// interval2, by storing max(interval1.End, interval2.End) in
// interval1.End; otherwise, interval1 remains unchanged.
// Returns true if the two intervals touch or overlap, false otherwise.
// interval2.Start >= interval1.Start must be true before
// calling Extend.
func (interval1 *Interval) Extend(interval2 Interval) bool {
	if interval2.Start > interval1.End {
		return false
	}
	if interval2.End > interval1.End {
		interval1.End = interval2.End
	}
	return true
}

// Flatten merges touching or overlapping intervals into larger
// intervals. intervals must be sorted by Start before calling Flatten.
// The resulting slice is sorted by Start, and no two intervals in the
// result touch each other.
// The result shares memory with the intervals argument.
func Flatten(intervals []Interval) []Interval {
	for i, n := 0, len(intervals)-1; i < n; i++ {
		if intervals[i].Extend(intervals[i+1]) {
			n++
			for j := i + 1; j < n; j++ {
				if !intervals[i].Extend(intervals[j]) {
					i++
					intervals[i] = intervals[j]
				}
			}
			return intervals[:i+1]
		}
	}
	return intervals
}

// Find returns the index of the interval that contains pos, or -1.
// intervals must be sorted by Start and must not overlap.
func Find(intervals []Interval, pos int32) int {
	i := sort.Search(len(intervals), func(i int) bool {
		return intervals[i].End > pos
	})
	if i < len(intervals) && intervals[i].Contains(pos) {
		return i
	}
	return -1
}
