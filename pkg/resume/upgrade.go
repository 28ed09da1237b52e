package resume

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// migration rewrites a raw document of schema version N into version N+1.
type migration func(raw map[string]any)

// migrations is keyed by the version a migration upgrades FROM.
var migrations = map[int]migration{
	1: upgradeV1,
}

// Upgrade decodes a persisted document of any known schema version into the
// current Document shape. The raw document is first walked through the
// migration chain, then merged over Default(): contact and meta are overlaid
// key by key, summary/skills/sections replace the defaults only when present.
func Upgrade(raw json.RawMessage) (Document, error) {
	doc := Default()
	if isNull(raw) {
		return doc, nil
	}

	var tree map[string]any
	if err := json.Unmarshal(raw, &tree); err != nil {
		if _, ok := err.(*json.UnmarshalTypeError); ok {
			// valid JSON but not an object; nothing to merge
			return doc, nil
		}
		return doc, fmt.Errorf("decode document: %w", err)
	}

	for v := schemaVersionOf(tree); v < SchemaVersion; v++ {
		if m, ok := migrations[v]; ok {
			m(tree)
		}
	}

	migrated, err := json.Marshal(tree)
	if err != nil {
		return doc, fmt.Errorf("encode migrated document: %w", err)
	}

	var p documentPatch
	if err := json.Unmarshal(migrated, &p); err != nil {
		return doc, fmt.Errorf("decode migrated document: %w", err)
	}

	if !isNull(p.Contact) {
		if err := json.Unmarshal(p.Contact, &doc.Contact); err != nil {
			return Default(), fmt.Errorf("decode contact: %w", err)
		}
	}
	if !isNull(p.Meta) {
		if err := json.Unmarshal(p.Meta, &doc.Meta); err != nil {
			return Default(), fmt.Errorf("decode meta: %w", err)
		}
	}
	if p.Summary != nil {
		doc.Summary = *p.Summary
	}
	if p.Skills != nil {
		doc.Skills = *p.Skills
	}
	if p.Sections != nil {
		doc.Sections = *p.Sections
	}

	doc.Meta.Version = SchemaVersion
	Normalize(&doc)
	return doc, nil
}

// Normalize replaces nil slices and maps with empty ones so that every
// list and field map of the document can be written to.
func Normalize(doc *Document) {
	if doc.Contact.Links == nil {
		doc.Contact.Links = []Link{}
	}
	if doc.Skills == nil {
		doc.Skills = []string{}
	}
	if doc.Sections == nil {
		doc.Sections = []Section{}
	}
	for i := range doc.Sections {
		s := &doc.Sections[i]
		if s.Fields == nil {
			s.Fields = []string{}
		}
		if s.Items == nil {
			s.Items = []Item{}
		}
		for j := range s.Items {
			it := &s.Items[j]
			if it.Fields == nil {
				it.Fields = map[string]string{}
			}
			if it.Bullets == nil {
				it.Bullets = []string{}
			}
		}
	}
}

type documentPatch struct {
	Contact  json.RawMessage `json:"contact"`
	Summary  *string         `json:"summary"`
	Skills   *[]string       `json:"skills"`
	Sections *[]Section      `json:"sections"`
	Meta     json.RawMessage `json:"meta"`
}

// schemaVersionOf reads meta.version; documents without it predate versioning.
func schemaVersionOf(tree map[string]any) int {
	meta, ok := tree["meta"].(map[string]any)
	if !ok {
		return 1
	}
	v, ok := meta["version"].(float64)
	if !ok || v < 1 {
		return 1
	}
	return int(v)
}

// upgradeV1 converts legacy link rows {linkName, link} into {id, label, url}.
func upgradeV1(tree map[string]any) {
	contact, ok := tree["contact"].(map[string]any)
	if !ok {
		return
	}
	links, ok := contact["links"].([]any)
	if !ok {
		return
	}
	for i, l := range links {
		row, ok := l.(map[string]any)
		if !ok {
			continue
		}
		if name, ok := row["linkName"]; ok {
			if _, has := row["label"]; !has {
				row["label"] = name
			}
			delete(row, "linkName")
		}
		if url, ok := row["link"]; ok {
			if _, has := row["url"]; !has {
				row["url"] = url
			}
			delete(row, "link")
		}
		if id, _ := row["id"].(string); id == "" {
			row["id"] = fmt.Sprintf("lnk_%d", i+1)
		}
	}
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
