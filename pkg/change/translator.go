package change

import (
	"fmt"
	"strings"

	"resume-turns-be/pkg/resume"

	"github.com/google/uuid"
)

const pathRoot = "/document"

// Translator turns Changes into new documents and patch ops.
// It holds no state besides the id generator.
type Translator struct {
	// NewID returns a fresh identifier with the given prefix ("lnk", "itm").
	NewID func(prefix string) string
}

func NewTranslator() *Translator {
	return &Translator{NewID: RandomID}
}

// RandomID returns ids shaped like "lnk_3fa9c1".
func RandomID(prefix string) string {
	return prefix + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
}

var defaultTranslator = NewTranslator()

// Apply translates a single change with the default translator.
func Apply(doc resume.Document, ch Change) (resume.Document, PatchOp, error) {
	return defaultTranslator.Apply(doc, ch)
}

// ApplyAll applies a batch with the default translator.
func ApplyAll(doc resume.Document, changes []Change) (resume.Document, []PatchOp, error) {
	return defaultTranslator.ApplyAll(doc, changes)
}

// Apply returns a copy of doc with ch applied and the op describing it.
// doc itself is never modified.
func (t *Translator) Apply(doc resume.Document, ch Change) (resume.Document, PatchOp, error) {
	next := doc.Clone()
	resume.Normalize(&next)
	op, err := t.apply(&next, ch)
	if err != nil {
		return doc, PatchOp{}, err
	}
	return next, op, nil
}

// ApplyAll folds changes left to right, each one seeing the result of the
// previous. On any failure the first error is returned together with the
// untouched input document.
func (t *Translator) ApplyAll(doc resume.Document, changes []Change) (resume.Document, []PatchOp, error) {
	work := doc.Clone()
	resume.Normalize(&work)
	ops := make([]PatchOp, 0, len(changes))

	for i, ch := range changes {
		if !ch.Action.Valid() {
			return doc, nil, fmt.Errorf("change %d: %w: %q", i, ErrUnsupportedAction, ch.Action)
		}
		op, err := t.apply(&work, ch)
		if err != nil {
			return doc, nil, fmt.Errorf("change %d: %w", i, err)
		}
		ops = append(ops, op)
	}
	return work, ops, nil
}

// apply mutates doc in place. Every rule validates before it writes, so a
// failed change leaves doc as it was.
func (t *Translator) apply(doc *resume.Document, ch Change) (PatchOp, error) {
	tg := ch.Target

	switch {
	case tg.Area == AreaSummary:
		v := asString(ch.Value)
		doc.Summary = v
		return replace(pathRoot+"/summary", v), nil

	case tg.Area == AreaContact && tg.Field != "":
		v := asString(ch.Value)
		if !doc.Contact.SetField(tg.Field, v) {
			return PatchOp{}, fmt.Errorf("%w: contact field %q", ErrUnsupportedTarget, tg.Field)
		}
		return replace(pathRoot+"/contact/"+escape(tg.Field), v), nil

	case tg.Area == AreaContact && tg.List == ListLinks:
		links := t.links(ch.Value)
		doc.Contact.Links = links
		return replace(pathRoot+"/contact/links", cloneLinks(links)), nil

	case tg.Area == AreaSkills && tg.List == ListSkills:
		skills := asStringList(ch.Value, false)
		doc.Skills = skills
		return replace(pathRoot+"/skills", cloneStrings(skills)), nil

	case tg.Area == AreaSection:
		return t.applySection(doc, ch)
	}

	return PatchOp{}, fmt.Errorf("%w: %+v", ErrUnsupportedTarget, tg)
}

func (t *Translator) applySection(doc *resume.Document, ch Change) (PatchOp, error) {
	tg := ch.Target

	sIdx := doc.SectionIndex(tg.SectionId)
	if sIdx < 0 {
		return PatchOp{}, fmt.Errorf("section %q: %w", tg.SectionId, ErrNotFound)
	}
	section := &doc.Sections[sIdx]
	sectionPath := fmt.Sprintf("%s/sections/%d", pathRoot, sIdx)

	switch {
	case tg.ItemId != "" && tg.Field != "":
		iIdx := section.ItemIndex(tg.ItemId)
		if iIdx < 0 {
			return PatchOp{}, fmt.Errorf("item %q in section %q: %w", tg.ItemId, tg.SectionId, ErrNotFound)
		}
		v := asString(ch.Value)
		section.Items[iIdx].Fields[tg.Field] = v
		return replace(fmt.Sprintf("%s/items/%d/fields/%s", sectionPath, iIdx, escape(tg.Field)), v), nil

	case tg.ItemId != "" && tg.List == ListBullets:
		iIdx := section.ItemIndex(tg.ItemId)
		if iIdx < 0 {
			return PatchOp{}, fmt.Errorf("item %q in section %q: %w", tg.ItemId, tg.SectionId, ErrNotFound)
		}
		bullets := asStringList(ch.Value, true)
		section.Items[iIdx].Bullets = bullets
		return replace(fmt.Sprintf("%s/items/%d/bullets", sectionPath, iIdx), cloneStrings(bullets)), nil

	case tg.ItemId == "" && (ch.Action == ActionAdd || tg.Action == string(ActionAdd)):
		item, ok := t.item(ch.Value)
		if !ok {
			break
		}
		section.Items = append(section.Items, item)
		return PatchOp{Op: OpAdd, Path: sectionPath + "/items/-", Value: item.Clone()}, nil
	}

	return PatchOp{}, fmt.Errorf("%w: %+v", ErrUnsupportedTarget, tg)
}

// links normalizes rows into {id, label, url}, generating missing ids.
func (t *Translator) links(v any) []resume.Link {
	rows := asRows(v)
	out := make([]resume.Link, 0, len(rows))
	for _, r := range rows {
		id := asString(r["id"])
		if id == "" {
			id = t.NewID("lnk")
		}
		out = append(out, resume.Link{
			Id:    id,
			Label: asString(r["label"]),
			Url:   asString(r["url"]),
		})
	}
	return out
}

// item decodes an object value into a new Item; ok is false for non-objects.
func (t *Translator) item(v any) (resume.Item, bool) {
	obj, ok := asObject(v)
	if !ok {
		return resume.Item{}, false
	}

	item := resume.Item{
		Id:      asString(obj["id"]),
		Fields:  map[string]string{},
		Bullets: asStringList(obj["bullets"], true),
	}
	if item.Id == "" {
		item.Id = t.NewID("itm")
	}
	if fields, ok := asObject(obj["fields"]); ok {
		for k, fv := range fields {
			item.Fields[k] = asString(fv)
		}
	}
	return item, true
}

func replace(path string, v any) PatchOp {
	return PatchOp{Op: OpReplace, Path: path, Value: v}
}

// escape encodes a pointer segment (RFC 6901).
func escape(segment string) string {
	return strings.NewReplacer("~", "~0", "/", "~1").Replace(segment)
}

func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func cloneLinks(in []resume.Link) []resume.Link {
	out := make([]resume.Link, len(in))
	copy(out, in)
	return out
}
