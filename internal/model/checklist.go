package model

import (
	"errors"
	"fmt"
)

// ErrIndexOutOfRange is returned for item positions outside the checklist.
var ErrIndexOutOfRange = errors.New("index out of range")

// Meta is the optional release metadata kept in the document front matter.
type Meta struct {
	Release      string `yaml:"release,omitempty" json:"release,omitempty"`
	Version      string `yaml:"version,omitempty" json:"version,omitempty"`
	Date         string `yaml:"date,omitempty" json:"date,omitempty"`
	Owner        string `yaml:"owner,omitempty" json:"owner,omitempty"`
	SupersededBy string `yaml:"superseded_by,omitempty" json:"superseded_by,omitempty"`
}

// IsZero reports whether no metadata field is set.
func (m Meta) IsZero() bool { return m == Meta{} }

// Checklist is an ordered sequence of items plus the free text around the table.
type Checklist struct {
	Meta     Meta
	Preamble string // text before the table, kept verbatim
	Items    []Item
	Trailer  string // text after the table, kept verbatim
}

// Stats holds per-status counts.
type Stats struct {
	Passed int `json:"passed"`
	Failed int `json:"failed"`
	Todo   int `json:"todo"`
	Total  int `json:"total"`
}

// Count returns the number of items with status st.
func (s Stats) Count(st Status) int {
	switch st {
	case StatusPassed:
		return s.Passed
	case StatusFailed:
		return s.Failed
	default:
		return s.Todo
	}
}

// Verdict is the release-gate outcome derived from item statuses.
type Verdict string

const (
	VerdictReady   Verdict = "ready"
	VerdictPending Verdict = "pending"
	VerdictBlocked Verdict = "blocked"
)

// Len returns the number of items.
func (c *Checklist) Len() int { return len(c.Items) }

func (c *Checklist) checkIndex(i int) error {
	if i < 0 || i >= len(c.Items) {
		return fmt.Errorf("%w: have %d, got %d", ErrIndexOutOfRange, len(c.Items), i+1)
	}
	return nil
}

// Add appends a new item.
func (c *Checklist) Add(description string, status Status, remark string) error {
	it, err := NewItem(description, status, remark)
	if err != nil {
		return err
	}
	c.Items = append(c.Items, it)
	return nil
}

// Insert puts it at position i, shifting the rest down. i == Len() appends.
func (c *Checklist) Insert(i int, it Item) error {
	if i < 0 || i > len(c.Items) {
		return fmt.Errorf("%w: have %d, got %d", ErrIndexOutOfRange, len(c.Items), i+1)
	}
	c.Items = append(c.Items, Item{})
	copy(c.Items[i+1:], c.Items[i:])
	c.Items[i] = it
	return nil
}

// Remove deletes the item at i and returns it.
func (c *Checklist) Remove(i int) (Item, error) {
	if err := c.checkIndex(i); err != nil {
		return Item{}, err
	}
	it := c.Items[i]
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
	return it, nil
}

// Move relocates the item at from to position to.
func (c *Checklist) Move(from, to int) error {
	if err := c.checkIndex(from); err != nil {
		return err
	}
	if err := c.checkIndex(to); err != nil {
		return err
	}
	it, _ := c.Remove(from)
	return c.Insert(to, it)
}

// SetStatus replaces the status of item i.
func (c *Checklist) SetStatus(i int, st Status) error {
	if err := c.checkIndex(i); err != nil {
		return err
	}
	if !st.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownStatus, int(st))
	}
	c.Items[i].Status = st
	return nil
}

// SetRemark replaces the remark of item i; an empty remark clears it.
func (c *Checklist) SetRemark(i int, remark string) error {
	if err := c.checkIndex(i); err != nil {
		return err
	}
	c.Items[i].Remark = remark
	return nil
}

// Stats counts items per status.
func (c *Checklist) Stats() Stats {
	var s Stats
	for _, it := range c.Items {
		switch it.Status {
		case StatusPassed:
			s.Passed++
		case StatusFailed:
			s.Failed++
		default:
			s.Todo++
		}
	}
	s.Total = len(c.Items)
	return s
}

// Verdict is blocked on any failure, pending while anything is todo (or nothing is listed)
// and ready once every item passed.
func (c *Checklist) Verdict() Verdict {
	s := c.Stats()
	switch {
	case s.Failed > 0:
		return VerdictBlocked
	case s.Todo > 0 || s.Total == 0:
		return VerdictPending
	default:
		return VerdictReady
	}
}

// Reset returns the checklist for the next release cycle: same rows in the same order,
// every status todo, remarks and release metadata cleared. Owner and surrounding text carry over.
func (c *Checklist) Reset() *Checklist {
	next := &Checklist{
		Meta:     Meta{Owner: c.Meta.Owner},
		Preamble: c.Preamble,
		Trailer:  c.Trailer,
		Items:    make([]Item, 0, len(c.Items)),
	}
	for _, it := range c.Items {
		next.Items = append(next.Items, Item{Description: it.Description})
	}
	return next
}

// Clone returns a deep copy.
func (c *Checklist) Clone() *Checklist {
	cp := *c
	cp.Items = append([]Item(nil), c.Items...)
	return &cp
}
