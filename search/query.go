package search

import (
	"strconv"
	"strings"
)

// Query represents the structured parameters for a message search.
// It decouples the raw user input from the actual index engine requirements.
type Query struct {
	RawInput string // The original input from the user
	Terms    string // The actual text to search in the content field
	RoomID   string // Optional room filter
	Author   string // Optional author filter
	Limit    int    // Number of results
}

// NewQuery parses a raw string to extract command-line style arguments.
// Example: /find invoice --room general --author alice --limit 5
func NewQuery(input string) *Query {
	query := &Query{
		RawInput: input,
		Limit:    10, // Default limit
	}

	parts := strings.Fields(input)
	var textTerms []string

	for i := 0; i < len(parts); i++ {
		part := parts[i]

		if strings.HasPrefix(part, "--") && i+1 < len(parts) {
			key := strings.TrimPrefix(part, "--")
			val := parts[i+1]

			switch key {
			case "room":
				query.RoomID = val
			case "author":
				query.Author = val
			case "limit":
				if limit, err := strconv.Atoi(val); err == nil && limit > 0 {
					query.Limit = limit
				}
			}
			i++ // Skip the value part in next iteration
			continue
		}

		// If it's not a flag, it's a search term
		if !strings.HasPrefix(part, "/") {
			textTerms = append(textTerms, part)
		}
	}

	query.Terms = strings.Join(textTerms, " ")
	return query
}
