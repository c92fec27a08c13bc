package iniconf

import (
	"strconv"
)

// Origin records which file and line(s) produced a value. A point origin
// has End == Start, a range is produced once continuation lines extend
// a value.
type Origin struct {
	File  string
	Start int
	End   int
}

// At returns a point origin.
func At(file string, line int) Origin {
	return Origin{File: file, Start: line, End: line}
}

// IsZero reports whether o carries no location.
func (o Origin) IsZero() bool {
	return o == Origin{}
}

// IsRange reports whether o spans more than one line.
func (o Origin) IsRange() bool {
	return o.End > o.Start
}

// Extend returns o extended to end at line. The start is always preserved.
func (o Origin) Extend(line int) Origin {
	o.End = line

	return o
}

// String renders o as file:line or file:start-end.
func (o Origin) String() string {
	if o.Start <= 0 {
		return o.File
	}
	s := o.File + ":" + strconv.Itoa(o.Start)
	if o.IsRange() {
		s += "-" + strconv.Itoa(o.End)
	}

	return s
}
