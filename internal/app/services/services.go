// Package services holds the business rules of the guide. Every operation
// receives the acting user explicitly; nothing is kept between requests.
package services

import "time"

// Clock returns the current time; tests replace it
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now().UTC()
	}
	return c().UTC()
}
