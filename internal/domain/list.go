package domain

import (
	"strings"
	"unicode/utf8"
)

const (
	maxListNameLength = 100
	maxTodoNameLength = 200
)

type Todo struct {
	ID        int64
	Name      string
	Completed bool
}

// List is a named collection of todos. Todos is filled on read from the
// todos table and is never nil once loaded.
type List struct {
	ID    int64
	Name  string
	Todos []Todo
}

// CompletedCount returns how many todos in the list are done
func (l *List) CompletedCount() int {
	n := 0
	for _, t := range l.Todos {
		if t.Completed {
			n++
		}
	}
	return n
}

// IsComplete reports whether the list has todos and all of them are done
func (l *List) IsComplete() bool {
	return len(l.Todos) > 0 && l.CompletedCount() == len(l.Todos)
}

// ValidateListName trims the name and checks its length
func ValidateListName(name string) (string, error) {
	return validateName(name, maxListNameLength)
}

// ValidateTodoName trims the name and checks its length
func ValidateTodoName(name string) (string, error) {
	return validateName(name, maxTodoNameLength)
}

// ValidateID rejects ids the store can never have assigned
func ValidateID(id int64) error {
	if id < 1 {
		return ErrInvalidID
	}
	return nil
}

func validateName(name string, limit int) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyName
	}
	if utf8.RuneCountInString(name) > limit {
		return "", ErrNameTooLong
	}
	return name, nil
}
