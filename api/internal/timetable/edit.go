package timetable

import (
	"errors"
	"sort"
)

var ErrIndexOutOfRange = errors.New("index out of range")

// AddClass appends entry to the given day and re-sorts that day.
func AddClass(d Data, dayIndex int, entry ClassEntry) (Data, error) {
	if dayIndex < 0 || dayIndex >= len(d.Days) {
		return d, ErrIndexOutOfRange
	}
	out := d.Clone()
	day := &out.Days[dayIndex]
	day.Classes = append(day.Classes, entry.clone())
	sortByStartTime(day.Classes)
	return out, nil
}

// UpdateClass replaces one entry and re-sorts its day.
func UpdateClass(d Data, dayIndex, classIndex int, entry ClassEntry) (Data, error) {
	if dayIndex < 0 || dayIndex >= len(d.Days) {
		return d, ErrIndexOutOfRange
	}
	if classIndex < 0 || classIndex >= len(d.Days[dayIndex].Classes) {
		return d, ErrIndexOutOfRange
	}
	out := d.Clone()
	day := &out.Days[dayIndex]
	day.Classes[classIndex] = entry.clone()
	sortByStartTime(day.Classes)
	return out, nil
}

// DeleteClass removes one entry. The remaining order is kept as is;
// unlike add and update there is no re-sort.
func DeleteClass(d Data, dayIndex, classIndex int) (Data, error) {
	if dayIndex < 0 || dayIndex >= len(d.Days) {
		return d, ErrIndexOutOfRange
	}
	if classIndex < 0 || classIndex >= len(d.Days[dayIndex].Classes) {
		return d, ErrIndexOutOfRange
	}
	out := d.Clone()
	day := &out.Days[dayIndex]
	day.Classes = append(day.Classes[:classIndex], day.Classes[classIndex+1:]...)
	return out, nil
}

// sortByStartTime orders by the raw StartTime string. This is a lexical
// sort: "10:00 AM" sorts before "9:00 AM".
func sortByStartTime(classes []ClassEntry) {
	sort.SliceStable(classes, func(i, j int) bool {
		return classes[i].StartTime < classes[j].StartTime
	})
}
