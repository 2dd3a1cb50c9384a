package storage

import (
	"github.com/gyaan-apps/portal/storage/model"
)

// ContentStorage returns a ContentStorage backed by the scoped key-value table.
func (s *Storage) ContentStorage() *ContentStorage {
	return &ContentStorage{kv: s.KeyValue()}
}

// ContentStorage implements model.ContentStore on top of a KeyValueStore.
type ContentStorage struct {
	kv model.KeyValueStore
}

// Get returns the stored FAQ/About content, seeding the default on first use.
func (s *ContentStorage) Get() (*model.Content, error) {
	var content model.Content
	foundFAQ, err := s.kv.GetAs(model.KeyValueScopeContent, model.KeyValueKeyFAQ, &content.FAQs)
	if err != nil {
		return nil, err
	}
	foundAbout, err := s.kv.GetAs(model.KeyValueScopeContent, model.KeyValueKeyAbout, &content.About)
	if err != nil {
		return nil, err
	}
	if !foundFAQ && !foundAbout {
		content = model.DefaultContent()
		if err = s.Set(content); err != nil {
			return nil, err
		}
	}
	return &content, nil
}

// Set replaces the stored content.
func (s *ContentStorage) Set(content model.Content) error {
	if err := s.kv.SetAny(model.KeyValueScopeContent, model.KeyValueKeyFAQ, content.FAQs); err != nil {
		return err
	}
	return s.kv.SetAny(model.KeyValueScopeContent, model.KeyValueKeyAbout, content.About)
}
