package cache

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/marl/pkg/core"
)

// ParseDocument is the default parser: JSON first, YAML as fallback. URI
// sources carry no extension, so the format is sniffed rather than mapped.
func ParseDocument(data []byte) (core.Document, error) {
	var doc core.Document
	if err := json.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}
	doc = nil
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid document: %w", err)
	}
	return doc, nil
}

// IsContainer reports whether the document is a well-formed container, i.e.
// a parsed mapping. It is the fixed validator behind URI admissions.
func IsContainer(doc core.Document) bool {
	return doc != nil
}
