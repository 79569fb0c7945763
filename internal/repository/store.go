package repository

import "prospector/internal/model"

// SearchStore persists aggregate responses. The engine only ever needs this
// narrow surface; anything durable behind it is an external concern.
type SearchStore interface {
	Save(search *model.SavedSearch) error
	List(limit int) ([]model.SavedSearch, error)
	Delete(id string) (bool, error)
}
