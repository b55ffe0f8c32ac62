// Package rowmodel flattens grouped items into the row sequence a
// scrolling list renders: a header per group followed by its items, or a
// single placeholder when there is nothing to show.
package rowmodel

import (
	"fmt"
	"strings"
)

type Kind string

const (
	KindHeader Kind = "header"
	KindItem   Kind = "item"
	KindEmpty  Kind = "empty"
)

const emptySourceMessage = "Nothing to show"

type Group[T any] struct {
	Key   string
	Label string
	Items []T
}

type Row[T any] struct {
	Kind    Kind
	Key     string
	Label   string
	Count   int
	Ref     T
	Open    bool
	Message string
}

// EmptyMessage is the placeholder text for an empty collection.
func EmptyMessage(search string) string {
	search = strings.TrimSpace(search)
	if search == "" {
		return emptySourceMessage
	}
	return fmt.Sprintf("No matches for %q", search)
}

// ItemKeys lists item keys in display order.
func ItemKeys[T any](groups []Group[T], keyOf func(T) string) []string {
	var keys []string
	for _, group := range groups {
		for _, item := range group.Items {
			keys = append(keys, keyOf(item))
		}
	}
	return keys
}

// Build produces header rows interleaved with item rows in group order.
// Groups without items produce no rows. When nothing is produced, an empty
// groups slice means the source itself is empty; groups whose items were all
// filtered out mean the search matched nothing.
func Build[T any](groups []Group[T], keyOf func(T) string, open OpenState, search string) []Row[T] {
	var rows []Row[T]
	for _, group := range groups {
		if len(group.Items) == 0 {
			continue
		}
		rows = append(rows, Row[T]{
			Kind:  KindHeader,
			Key:   "group:" + group.Key,
			Label: group.Label,
			Count: len(group.Items),
		})
		for _, item := range group.Items {
			key := keyOf(item)
			rows = append(rows, Row[T]{
				Kind: KindItem,
				Key:  key,
				Ref:  item,
				Open: open.IsOpen(key),
			})
		}
	}
	if len(rows) == 0 {
		if len(groups) == 0 {
			search = ""
		}
		return []Row[T]{{Kind: KindEmpty, Key: "empty", Message: EmptyMessage(search)}}
	}
	return rows
}

// Model keeps open state across recomputations of its groups.
type Model[T any] struct {
	keyOf  func(T) string
	groups []Group[T]
	search string
	open   OpenState
	rows   []Row[T]
}

func NewModel[T any](keyOf func(T) string) *Model[T] {
	m := &Model[T]{keyOf: keyOf}
	m.rebuild()
	return m
}

// Recompute replaces the input, reconciles open state against it and
// rebuilds rows.
func (m *Model[T]) Recompute(groups []Group[T], search string) []Row[T] {
	m.groups = groups
	m.search = search
	m.open = m.open.Reconcile(ItemKeys(groups, m.keyOf))
	m.rebuild()
	return m.rows
}

func (m *Model[T]) Toggle(key string) []Row[T] {
	m.open = m.open.Toggle(key)
	m.rebuild()
	return m.rows
}

func (m *Model[T]) Rows() []Row[T] {
	return m.rows
}

func (m *Model[T]) Open() OpenState {
	return m.open
}

func (m *Model[T]) rebuild() {
	m.rows = Build(m.groups, m.keyOf, m.open, m.search)
}
