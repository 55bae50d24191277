// Package domain defines the core domain models for pollrelay.
package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Class categorizes a client for broadcast filtering. It has no effect
// on authentication or delivery semantics.
type Class int

// Client classes, in wire order.
const (
	ClassPublic   Class = 0
	ClassReserved Class = 1
	ClassPrivate  Class = 2
)

// String returns the lowercase name of the class.
func (c Class) String() string {
	switch c {
	case ClassPublic:
		return "public"
	case ClassReserved:
		return "reserved"
	case ClassPrivate:
		return "private"
	default:
		return fmt.Sprintf("class(%d)", int(c))
	}
}

// Valid reports whether c is one of the three known classes.
func (c Class) Valid() bool {
	return c >= ClassPublic && c <= ClassPrivate
}

// ParseClass parses a class from its numeric wire value or its name.
func ParseClass(s string) (Class, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "public":
		return ClassPublic, nil
	case "reserved":
		return ClassReserved, nil
	case "private":
		return ClassPrivate, nil
	}

	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, ErrInvalidArgument.WithDetails("unknown class " + strconv.Quote(s))
	}
	c := Class(n)
	if !c.Valid() {
		return 0, ErrInvalidArgument.WithDetails(fmt.Sprintf("class %d out of range", n))
	}
	return c, nil
}

// ClassSet is an exclusion filter over classes.
type ClassSet map[Class]struct{}

// NewClassSet builds a set from the given classes.
func NewClassSet(classes ...Class) ClassSet {
	set := make(ClassSet, len(classes))
	for _, c := range classes {
		set[c] = struct{}{}
	}
	return set
}

// Contains reports whether c is in the set. A nil set contains nothing.
func (s ClassSet) Contains(c Class) bool {
	_, ok := s[c]
	return ok
}
