package kvstore

import (
	"encoding/json"
	"fmt"

	"github.com/PaesslerAG/jsonpath"
)

// Query evaluates a JSONPath expression such as "$.amount" or "$[0].title"
// against the document for key. An empty path returns the whole document.
func (s *Store) Query(key, path string) (any, error) {
	raw, err := s.Get(key)
	if err != nil {
		return nil, err
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", key, err)
	}
	if path == "" || path == "$" {
		return doc, nil
	}

	v, err := jsonpath.Get(path, doc)
	if err != nil {
		return nil, fmt.Errorf("query %q on %s: %w", path, key, err)
	}
	return v, nil
}
