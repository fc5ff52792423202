package store

import "slices"

// Find returns the index of the first item matching pred.
func Find[T any](items []T, pred func(T) bool) (int, bool) {
	i := slices.IndexFunc(items, pred)
	return i, i >= 0
}

// Filter returns the items matching pred in their original order. The result
// is never nil.
func Filter[T any](items []T, pred func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if pred(it) {
			out = append(out, it)
		}
	}
	return out
}

// ReplaceAt overwrites the first item matching pred with v and reports
// whether one was found.
func ReplaceAt[T any](items []T, pred func(T) bool, v T) bool {
	i, ok := Find(items, pred)
	if ok {
		items[i] = v
	}
	return ok
}

// RemoveWhere deletes every item matching pred and returns the shortened
// slice with the number of removed items.
func RemoveWhere[T any](items []T, pred func(T) bool) ([]T, int) {
	before := len(items)
	items = slices.DeleteFunc(items, pred)
	return items, before - len(items)
}
