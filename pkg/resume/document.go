package resume

// Document is the résumé being edited turn by turn.
// Section and item ids never change once created; section order is stable.
type Document struct {
	Contact  Contact   `json:"contact"`
	Summary  string    `json:"summary"`
	Skills   []string  `json:"skills"`
	Sections []Section `json:"sections"`
	Meta     Meta      `json:"meta"`
}

type Contact struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Links     []Link `json:"links"`
}

type Link struct {
	Id    string `json:"id"`
	Label string `json:"label"`
	Url   string `json:"url"`
}

// Section groups items sharing the same field layout (Experience, Education...).
// Fields is descriptive only; items may carry other keys.
type Section struct {
	Id     string   `json:"id"`
	Name   string   `json:"name"`
	Fields []string `json:"fields"`
	Items  []Item   `json:"items"`
}

type Item struct {
	Id      string            `json:"id"`
	Fields  map[string]string `json:"fields"`
	Bullets []string          `json:"bullets"`
}

type Meta struct {
	Format  string `json:"format"`
	Version int    `json:"version"`
	Locale  string `json:"locale"`
}

// Envelope is the persisted wrapper around a Document ({"resume": {...}}).
type Envelope struct {
	Resume Document `json:"resume"`
}

// Contact scalar fields addressable by a change target.
const (
	ContactFirstName = "firstName"
	ContactLastName  = "lastName"
	ContactEmail     = "email"
	ContactPhone     = "phone"
)

// SetField assigns one scalar contact field. It reports false for unknown names.
func (c *Contact) SetField(name, value string) bool {
	switch name {
	case ContactFirstName:
		c.FirstName = value
	case ContactLastName:
		c.LastName = value
	case ContactEmail:
		c.Email = value
	case ContactPhone:
		c.Phone = value
	default:
		return false
	}
	return true
}

// SectionIndex returns the position of the section with the given id, or -1.
func (d *Document) SectionIndex(sectionId string) int {
	for i := range d.Sections {
		if d.Sections[i].Id == sectionId {
			return i
		}
	}
	return -1
}

// ItemIndex returns the position of the item with the given id, or -1.
func (s *Section) ItemIndex(itemId string) int {
	for i := range s.Items {
		if s.Items[i].Id == itemId {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy that shares no slices or maps with d.
func (d Document) Clone() Document {
	out := d
	out.Contact.Links = cloneLinks(d.Contact.Links)
	out.Skills = cloneStrings(d.Skills)
	if d.Sections != nil {
		out.Sections = make([]Section, len(d.Sections))
		for i, s := range d.Sections {
			out.Sections[i] = s.Clone()
		}
	}
	return out
}

func (s Section) Clone() Section {
	out := s
	out.Fields = cloneStrings(s.Fields)
	if s.Items != nil {
		out.Items = make([]Item, len(s.Items))
		for i, it := range s.Items {
			out.Items[i] = it.Clone()
		}
	}
	return out
}

func (it Item) Clone() Item {
	out := it
	if it.Fields != nil {
		out.Fields = make(map[string]string, len(it.Fields))
		for k, v := range it.Fields {
			out.Fields[k] = v
		}
	}
	out.Bullets = cloneStrings(it.Bullets)
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func cloneLinks(in []Link) []Link {
	if in == nil {
		return nil
	}
	out := make([]Link, len(in))
	copy(out, in)
	return out
}
