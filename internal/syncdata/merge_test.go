package syncdata

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type record struct {
	ID   uuid.UUID
	Name string
}

func TestMergeLocalWins(t *testing.T) {
	shared := uuid.New()
	remoteOnly := uuid.New()

	local := map[uuid.UUID]record{
		shared: {ID: shared, Name: "local"},
	}
	remote := map[uuid.UUID]record{
		shared:     {ID: shared, Name: "remote"},
		remoteOnly: {ID: remoteOnly, Name: "remote only"},
	}

	merged := Merge(local, remote)

	assert.Len(t, merged, 2)
	assert.Equal(t, "local", merged[shared].Name)
	assert.Equal(t, "remote only", merged[remoteOnly].Name)
}

func TestMergeEmptySides(t *testing.T) {
	id := uuid.New()
	only := map[uuid.UUID]record{id: {ID: id, Name: "x"}}

	assert.Len(t, Merge(only, nil), 1)
	assert.Len(t, Merge(nil, only), 1)
	assert.Empty(t, Merge[record](nil, nil))
}

func TestMergeSlicesPreservesLocalOrder(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	local := []record{{ID: a, Name: "a-local"}, {ID: b, Name: "b-local"}}
	remote := []record{{ID: b, Name: "b-remote"}, {ID: c, Name: "c-remote"}}

	merged := MergeSlices(local, remote, func(r record) uuid.UUID { return r.ID })

	assert.Len(t, merged, 3)
	assert.Equal(t, "a-local", merged[0].Name)
	assert.Equal(t, "b-local", merged[1].Name, "same ID keeps the local record")
	assert.Equal(t, "c-remote", merged[2].Name)
}
