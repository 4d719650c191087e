// Package contacts implements the contact book: an in-memory list of contacts
// mirrored to a JSON file on every mutation.
package contacts

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"homebook/internal/core"
	applog "homebook/internal/log"
)

// DefaultFile is the contacts file name used when none is configured.
const DefaultFile = "contacts.json"

// Store is a file-backed contact list. It is safe for concurrent use; callers are
// serialized by an internal mutex.
type Store struct {
	mu       sync.Mutex
	path     string
	logger   *applog.Logger
	contacts []core.Contact
}

// Open creates a Store for path and loads whatever the file currently holds.
func Open(path string, logger *applog.Logger) *Store {
	if logger == nil {
		logger = applog.Discard()
	}
	s := &Store{
		path:   path,
		logger: logger.WithComponent(applog.ComponentContacts),
	}
	s.contacts = s.Load()
	return s
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the persisted contacts. A missing, unreadable or malformed file yields
// an empty list; the problem is logged, never returned.
func (s *Store) Load() []core.Contact {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []core.Contact{}
	}
	if err != nil {
		s.logger.Warn("Failed to read contacts file, starting empty",
			applog.FieldPath, s.path, applog.FieldError, err)
		return []core.Contact{}
	}

	var contacts []core.Contact
	if err := json.Unmarshal(data, &contacts); err != nil {
		s.logger.Warn("Malformed contacts file, starting empty",
			applog.FieldPath, s.path, applog.FieldError, err)
		return []core.Contact{}
	}
	if contacts == nil {
		contacts = []core.Contact{}
	}

	s.logger.Debug("Contacts loaded", applog.FieldPath, s.path, applog.FieldCount, len(contacts))
	return contacts
}

// Save replaces the persisted file with contacts. The write goes to a temporary file
// in the same directory which is then renamed over the target.
func (s *Store) Save(contacts []core.Contact) error {
	if contacts == nil {
		contacts = []core.Contact{}
	}
	data, err := json.MarshalIndent(contacts, "", "    ")
	if err != nil {
		return core.NewStorageError("encode contacts", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return core.NewStorageError("create contacts directory", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return core.NewStorageError("create temp file", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op once renamed

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return core.NewStorageError("write contacts", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return core.NewStorageError("sync contacts", err)
	}
	if err := tmp.Close(); err != nil {
		return core.NewStorageError("close contacts", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return core.NewStorageError("replace contacts file", err)
	}

	s.logger.Debug("Contacts saved", applog.FieldPath, s.path, applog.FieldCount, len(contacts))
	return nil
}

// Add appends a new contact. Name and phone are required; names are unique.
func (s *Store) Add(name, phone, email string) error {
	c := core.Contact{Name: name, Phone: phone, Email: email}.Normalize()
	if err := c.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(c.Name) >= 0 {
		return fmt.Errorf("%w: contact %q already exists", core.ErrDuplicateKey, c.Name)
	}

	next := append(s.snapshot(), c)
	if err := s.commit(next); err != nil {
		return err
	}

	s.logger.Info("Contact added", applog.FieldContactName, c.Name)
	return nil
}

// Update replaces the contact currently named oldName.
func (s *Store) Update(oldName, name, phone, email string) error {
	c := core.Contact{Name: name, Phone: phone, Email: email}.Normalize()
	oldName = strings.TrimSpace(oldName)

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(oldName)
	if idx < 0 {
		return fmt.Errorf("%w: contact %q", core.ErrNotFound, oldName)
	}
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Name != oldName && s.indexOf(c.Name) >= 0 {
		return fmt.Errorf("%w: contact %q already exists", core.ErrDuplicateKey, c.Name)
	}

	next := s.snapshot()
	next[idx] = c
	if err := s.commit(next); err != nil {
		return err
	}

	s.logger.Info("Contact updated", applog.FieldContactName, c.Name, "previous_name", oldName)
	return nil
}

// Delete removes every contact named name. Deleting an absent name is not an error.
func (s *Store) Delete(name string) error {
	name = strings.TrimSpace(name)

	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]core.Contact, 0, len(s.contacts))
	for _, c := range s.contacts {
		if c.Name != name {
			next = append(next, c)
		}
	}
	removed := len(s.contacts) - len(next)
	if removed == 0 {
		return nil
	}
	if err := s.commit(next); err != nil {
		return err
	}

	s.logger.Info("Contact deleted", applog.FieldContactName, name, applog.FieldCount, removed)
	return nil
}

// Search returns contacts whose name contains term, ignoring case, sorted by name
// ignoring case. An empty term matches everything.
func (s *Store) Search(term string) []core.Contact {
	term = strings.ToLower(strings.TrimSpace(term))

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]core.Contact, 0, len(s.contacts))
	for _, c := range s.contacts {
		if strings.Contains(strings.ToLower(c.Name), term) {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}

// List returns every contact sorted by name.
func (s *Store) List() []core.Contact {
	return s.Search("")
}

// Get returns the contact with exactly this name.
func (s *Store) Get(name string) (core.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(strings.TrimSpace(name))
	if idx < 0 {
		return core.Contact{}, fmt.Errorf("%w: contact %q", core.ErrNotFound, name)
	}
	return s.contacts[idx], nil
}

func (s *Store) indexOf(name string) int {
	for i, c := range s.contacts {
		if c.Name == name {
			return i
		}
	}
	return -1
}

func (s *Store) snapshot() []core.Contact {
	return append([]core.Contact(nil), s.contacts...)
}

// commit persists next and only then makes it the in-memory state.
func (s *Store) commit(next []core.Contact) error {
	if err := s.Save(next); err != nil {
		s.logger.Error("Failed to persist contacts", applog.FieldPath, s.path, applog.FieldError, err)
		return err
	}
	s.contacts = next
	return nil
}
