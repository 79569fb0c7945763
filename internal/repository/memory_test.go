package repository

import (
	"testing"

	"github.com/go-playground/assert/v2"

	"prospector/internal/model"
)

func TestMemoryStoreSaveAndList(t *testing.T) {
	store := NewMemoryStore()

	first := model.SavedSearch{Location: "Austin", Category: "music", ResultCount: 3}
	second := model.SavedSearch{Location: "Denver", Category: "food", ResultCount: 5}

	assert.Equal(t, nil, store.Save(&first))
	assert.Equal(t, nil, store.Save(&second))

	assert.NotEqual(t, "", first.ID)
	assert.NotEqual(t, first.ID, second.ID)

	searches, err := store.List(10)
	assert.Equal(t, nil, err)
	assert.Equal(t, 2, len(searches))

	// newest first
	assert.Equal(t, "Denver", searches[0].Location)
	assert.Equal(t, "Austin", searches[1].Location)
}

func TestMemoryStoreListLimit(t *testing.T) {
	store := NewMemoryStore()
	for i := 0; i < 5; i++ {
		store.Save(&model.SavedSearch{Location: "Austin"})
	}

	searches, err := store.List(2)
	assert.Equal(t, nil, err)
	assert.Equal(t, 2, len(searches))
}

func TestMemoryStoreDelete(t *testing.T) {
	store := NewMemoryStore()

	search := model.SavedSearch{Location: "Austin"}
	store.Save(&search)

	deleted, err := store.Delete(search.ID)
	assert.Equal(t, nil, err)
	assert.Equal(t, true, deleted)

	deleted, err = store.Delete(search.ID)
	assert.Equal(t, nil, err)
	assert.Equal(t, false, deleted)

	searches, _ := store.List(10)
	assert.Equal(t, 0, len(searches))
}

func TestMemoryStoreCapacityBound(t *testing.T) {
	store := NewMemoryStore()
	store.capacity = 3

	for i := 0; i < 5; i++ {
		store.Save(&model.SavedSearch{Location: "Austin"})
	}

	searches, _ := store.List(0)
	assert.Equal(t, 3, len(searches))
}
