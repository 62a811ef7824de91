package cart

import (
	"errors"
	"strings"
	"time"
)

// ErrEmptyURL is returned when adding a blank asset reference.
var ErrEmptyURL = errors.New("asset url is empty")

// Entry is one asset held in the cart, identified by its resolved URL.
type Entry struct {
	URL     string    `json:"url"`
	AddedAt time.Time `json:"added_at"`
}

// Persister mirrors cart mutations to durable storage. A nil Persister keeps
// the cart in memory only.
type Persister interface {
	Append(entry Entry) error
	Delete(url string) error
	Clear() error
}

// Cart is an ordered set of asset URLs. Mutations hit the persister first and
// only change memory when it succeeds.
type Cart struct {
	entries []Entry
	index   map[string]struct{}
	persist Persister
	now     func() time.Time
}

// New builds a cart seeded with existing entries, dropping duplicates while
// keeping the first occurrence.
func New(persist Persister, existing ...Entry) *Cart {
	c := &Cart{
		index:   make(map[string]struct{}, len(existing)),
		persist: persist,
		now:     time.Now,
	}
	for _, entry := range existing {
		if _, dup := c.index[entry.URL]; dup || entry.URL == "" {
			continue
		}
		c.index[entry.URL] = struct{}{}
		c.entries = append(c.entries, entry)
	}
	return c
}

// Add appends url unless it is already present. It reports whether the cart
// changed.
func (c *Cart) Add(url string) (bool, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return false, ErrEmptyURL
	}
	if c.Contains(url) {
		return false, nil
	}
	entry := Entry{URL: url, AddedAt: c.now().UTC()}
	if c.persist != nil {
		if err := c.persist.Append(entry); err != nil {
			return false, err
		}
	}
	c.index[url] = struct{}{}
	c.entries = append(c.entries, entry)
	return true, nil
}

// Remove drops every entry matching url and returns how many were removed.
func (c *Cart) Remove(url string) (int, error) {
	if !c.Contains(url) {
		return 0, nil
	}
	if c.persist != nil {
		if err := c.persist.Delete(url); err != nil {
			return 0, err
		}
	}
	kept := c.entries[:0]
	removed := 0
	for _, entry := range c.entries {
		if entry.URL == url {
			removed++
			continue
		}
		kept = append(kept, entry)
	}
	c.entries = kept
	delete(c.index, url)
	return removed, nil
}

// Toggle adds url when absent and removes it when present. It reports whether
// url is in the cart afterwards.
func (c *Cart) Toggle(url string) (bool, error) {
	if c.Contains(url) {
		_, err := c.Remove(url)
		if err != nil {
			return true, err
		}
		return false, nil
	}
	return c.Add(url)
}

// Contains reports whether url is in the cart.
func (c *Cart) Contains(url string) bool {
	_, ok := c.index[url]
	return ok
}

// Size returns the number of distinct assets.
func (c *Cart) Size() int {
	return len(c.entries)
}

// List returns a copy of the entries in insertion order.
func (c *Cart) List() []Entry {
	return append([]Entry(nil), c.entries...)
}

// URLs returns the entry URLs in insertion order.
func (c *Cart) URLs() []string {
	out := make([]string, len(c.entries))
	for i, entry := range c.entries {
		out[i] = entry.URL
	}
	return out
}

// Clear empties the cart.
func (c *Cart) Clear() error {
	if c.persist != nil {
		if err := c.persist.Clear(); err != nil {
			return err
		}
	}
	c.entries = nil
	c.index = make(map[string]struct{})
	return nil
}
