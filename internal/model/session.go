package model

import (
	"maps"
	"slices"
)

// FormSession holds every named form field scraped from the archive landing
// page. The archive is an ASP.NET WebForms site, so each POST must replay the
// whole hidden state (__VIEWSTATE, __EVENTVALIDATION, ...) and not just the
// date field.
//
// A FormSession is never modified after it is scraped. WithField returns a
// copy, so one session can be shared by every request of a run.
type FormSession struct {
	fields map[string]string
}

// NewFormSession creates a FormSession from field name/value pairs.
// The map is copied.
func NewFormSession(fields map[string]string) FormSession {
	return FormSession{fields: maps.Clone(fields)}
}

// Len returns the number of fields.
func (s FormSession) Len() int {
	return len(s.fields)
}

// Get returns the value of a field and whether it exists.
func (s FormSession) Get(name string) (string, bool) {
	v, ok := s.fields[name]
	return v, ok
}

// Names returns the field names in sorted order.
func (s FormSession) Names() []string {
	return slices.Sorted(maps.Keys(s.fields))
}

// WithField returns a copy of the session with one field set.
func (s FormSession) WithField(name, value string) FormSession {
	fields := make(map[string]string, len(s.fields)+1)
	maps.Copy(fields, s.fields)
	fields[name] = value
	return FormSession{fields: fields}
}

// Values returns a copy of all fields, suitable for a form-encoded request body.
func (s FormSession) Values() map[string]string {
	return maps.Clone(s.fields)
}
