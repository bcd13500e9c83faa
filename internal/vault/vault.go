package vault

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// CurrentVersion is the serialization version written by this code.
const CurrentVersion = 1

var (
	// ErrDuplicateEntry indicates an entry with the same name already exists.
	ErrDuplicateEntry = errors.New("entry with this name already exists")
	// ErrEntryNotFound indicates no entry matches the given name.
	ErrEntryNotFound = errors.New("entry not found")
	// ErrUnsupportedVersion indicates the serialized vault was written by an
	// incompatible version.
	ErrUnsupportedVersion = errors.New("unsupported vault version")
)

// Entry is a single credential record.
type Entry struct {
	Name       string    `json:"name"`
	Username   string    `json:"username,omitempty"`
	Password   string    `json:"password,omitempty"`
	URL        string    `json:"url,omitempty"`
	Notes      string    `json:"notes,omitempty"`
	TOTPSecret string    `json:"totp_secret,omitempty"`
	Tags       []string  `json:"tags,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Vault is the decrypted credential store. It is a plain in-memory value;
// persistence happens by sealing its JSON form into a carrier image.
type Vault struct {
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Entries   []Entry   `json:"entries"`
}

// New returns an empty vault stamped with the current time.
func New() *Vault {
	now := time.Now().UTC()
	return &Vault{Version: CurrentVersion, CreatedAt: now, UpdatedAt: now}
}

// Add appends an entry. Entry names are unique within a vault.
func (v *Vault) Add(e Entry) error {
	if e.Name == "" {
		return errors.New("entry name must not be empty")
	}
	if _, ok := v.Get(e.Name); ok {
		return fmt.Errorf("%w: %q", ErrDuplicateEntry, e.Name)
	}
	now := time.Now().UTC()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	if e.UpdatedAt.IsZero() {
		e.UpdatedAt = now
	}
	v.Entries = append(v.Entries, e)
	v.UpdatedAt = now
	return nil
}

// Get returns the entry with the given name.
func (v *Vault) Get(name string) (Entry, bool) {
	for _, e := range v.Entries {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

// Update replaces the entry with the given name.
func (v *Vault) Update(name string, e Entry) error {
	for i := range v.Entries {
		if v.Entries[i].Name == name {
			e.Name = name
			e.CreatedAt = v.Entries[i].CreatedAt
			e.UpdatedAt = time.Now().UTC()
			v.Entries[i] = e
			v.UpdatedAt = e.UpdatedAt
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrEntryNotFound, name)
}

// Remove deletes the entry with the given name.
func (v *Vault) Remove(name string) error {
	for i := range v.Entries {
		if v.Entries[i].Name == name {
			v.Entries = append(v.Entries[:i], v.Entries[i+1:]...)
			v.UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrEntryNotFound, name)
}

// Names returns all entry names in sorted order.
func (v *Vault) Names() []string {
	names := make([]string, 0, len(v.Entries))
	for _, e := range v.Entries {
		names = append(names, e.Name)
	}
	sort.Strings(names)
	return names
}

// Search returns entries whose name, username, URL or tags contain term,
// case-insensitively.
func (v *Vault) Search(term string) []Entry {
	term = strings.ToLower(term)
	var out []Entry
	for _, e := range v.Entries {
		if strings.Contains(strings.ToLower(e.Name), term) ||
			strings.Contains(strings.ToLower(e.Username), term) ||
			strings.Contains(strings.ToLower(e.URL), term) {
			out = append(out, e)
			continue
		}
		for _, tag := range e.Tags {
			if strings.Contains(strings.ToLower(tag), term) {
				out = append(out, e)
				break
			}
		}
	}
	return out
}

// Marshal serializes the vault to its canonical JSON form.
func (v *Vault) Marshal() ([]byte, error) {
	return json.Marshal(v)
}

// Unmarshal deserializes a vault and checks its version.
func Unmarshal(data []byte) (*Vault, error) {
	var v Vault
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("failed to decode vault: %w", err)
	}
	if v.Version != CurrentVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, v.Version)
	}
	return &v, nil
}
