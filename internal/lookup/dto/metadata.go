// Package dto holds the wire shapes of the lookup API's JSON responses.
package dto

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Artists accepts either a comma-joined string or an array of names.
type Artists string

// UnmarshalJSON decodes "A, B" as is and ["A", "B"] as "A, B".
func (a *Artists) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*a = Artists(s)
		return nil
	}

	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return fmt.Errorf("artists must be a string or an array of strings: %w", err)
	}
	*a = Artists(strings.Join(names, ", "))
	return nil
}

// Metadata is the collection or track header returned by
// GET /metadata/{kind}/{id}, and the metadata block of a download response.
type Metadata struct {
	Title       string  `json:"title"`
	Artists     Artists `json:"artists"`
	Album       string  `json:"album"`
	Cover       string  `json:"cover"`
	ReleaseDate string  `json:"releaseDate"`
}

// Download is the response of GET /download/{id}.
type Download struct {
	Link     string   `json:"link"`
	Metadata Metadata `json:"metadata"`
}
