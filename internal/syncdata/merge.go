// Package syncdata implements the merge-by-identifier reducer used before
// reconciliation when a remote copy of the data set is pulled in. The policy
// is "local wins": local items overwrite same-ID remote items, remote-only
// items are kept. Conflict resolution lives here, entirely outside the
// reconciliation core, which only ever sees the already-merged set.
package syncdata

import "github.com/google/uuid"

// Merge combines a local and a remote entity set keyed by identifier.
// Every local entity survives as-is; remote entities are added only when no
// local entity shares their ID.
func Merge[T any](local, remote map[uuid.UUID]T) map[uuid.UUID]T {
	merged := make(map[uuid.UUID]T, len(local)+len(remote))
	for id, v := range remote {
		merged[id] = v
	}
	for id, v := range local {
		merged[id] = v
	}
	return merged
}

// MergeSlices applies the same policy to slices, keyed by the id function.
// Local entities keep their order; surviving remote-only entities follow in
// their own order.
func MergeSlices[T any](local, remote []T, id func(T) uuid.UUID) []T {
	seen := make(map[uuid.UUID]struct{}, len(local))
	out := make([]T, 0, len(local)+len(remote))
	for _, v := range local {
		seen[id(v)] = struct{}{}
		out = append(out, v)
	}
	for _, v := range remote {
		if _, ok := seen[id(v)]; ok {
			continue
		}
		out = append(out, v)
	}
	return out
}
