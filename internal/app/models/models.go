package models

import (
	"strconv"
	"strings"
)

// EntityKind identifies what an upvote marker points at
type EntityKind string

const (
	EntityPost   EntityKind = "post"
	EntityThread EntityKind = "thread"
	EntityReply  EntityKind = "reply"
)

// Valid reports whether k is an upvotable kind
func (k EntityKind) Valid() bool {
	switch k {
	case EntityPost, EntityThread, EntityReply:
		return true
	}
	return false
}

// Number is a rating or score. Clients send it either as a JSON number or
// as a numeric string ("4.5"); it is always written back as a number.
type Number float64

// UnmarshalJSON accepts numbers and numeric strings
func (n *Number) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		*n = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*n = Number(f)
	return nil
}

// NumberPtr is a convenience for optional numeric fields
func NumberPtr(f float64) *Number {
	n := Number(f)
	return &n
}
