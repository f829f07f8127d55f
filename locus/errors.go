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

package locus

import (
	"fmt"
)

// An InvariantViolation reports a broken internal invariant of a locus,
// such as a merge of loci that must not be merged. It is raised with
// panic, and aborts the processing of the locus concerned.
type InvariantViolation struct {
	Message string
	Values  []interface{}
}

func (v *InvariantViolation) Error() string {
	return v.Message
}

func invariantf(format string, values ...interface{}) {
	panic(&InvariantViolation{
		Message: fmt.Sprintf(format, values...),
		Values:  values,
	})
}

// Guard calls f, and returns the InvariantViolation f panics with, if
// any. Other panics are passed on.
func Guard(f func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if v, ok := r.(*InvariantViolation); ok {
				err = v
				return
			}
			panic(r)
		}
	}()
	f()
	return nil
}
