package resume

const (
	FormatName    = "resume-v2"
	SchemaVersion = 2
	DefaultLocale = "en-US"

	SectionExperience = "sec_experience"
	SectionEducation  = "sec_education"
)

// Default returns the blank document every fresh conversation starts from.
// It is also the base that incoming payloads are merged against.
func Default() Document {
	return Document{
		Contact: Contact{Links: []Link{}},
		Skills:  []string{},
		Sections: []Section{
			{
				Id:     SectionExperience,
				Name:   "Experience",
				Fields: []string{"title", "company", "location", "dates"},
				Items: []Item{
					{
						Id:      "itm_exp_1",
						Fields:  map[string]string{"title": "", "company": "", "location": "", "dates": ""},
						Bullets: []string{},
					},
				},
			},
			{
				Id:     SectionEducation,
				Name:   "Education",
				Fields: []string{"school", "degree", "location", "date"},
				Items: []Item{
					{
						Id:      "itm_edu_1",
						Fields:  map[string]string{"school": "", "degree": "", "location": "", "date": ""},
						Bullets: []string{},
					},
				},
			},
		},
		Meta: Meta{Format: FormatName, Version: SchemaVersion, Locale: DefaultLocale},
	}
}

// Seed returns the prefilled document handed out with newly created versions.
func Seed() Document {
	doc := Default()
	doc.Contact.FirstName = "Ava"
	doc.Contact.LastName = "Nguyen"
	doc.Contact.Email = "ava@example.com"

	exp := &doc.Sections[0].Items[0]
	exp.Fields["title"] = "Software Engineer"
	exp.Fields["company"] = "Acme"
	exp.Fields["location"] = "Denver, CO"
	exp.Fields["dates"] = "2022–Present"

	edu := &doc.Sections[1].Items[0]
	edu.Fields["school"] = "University of Somewhere"
	edu.Fields["location"] = "Somewhere, USA"
	edu.Fields["date"] = "2020"

	return doc
}
