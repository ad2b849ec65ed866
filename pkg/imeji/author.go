package imeji

// Contributor is the author recorded on new collections and albums.
type Contributor struct {
	FamilyName   string
	GivenName    string
	Organization string
}

// DefaultContributor is used when no contributor is configured.
var DefaultContributor = Contributor{
	FamilyName:   "imeji-go",
	Organization: "imeji-go",
}

func (c Contributor) value() map[string]any {
	person := map[string]any{
		"familyName": c.FamilyName,
		"givenName":  c.GivenName,
	}
	if c.Organization != "" {
		person["organizations"] = []any{
			map[string]any{"name": c.Organization},
		}
	}
	return person
}

// withContributor adds a contributors list to an unsaved document that has
// none.
func withContributor(doc *Document, c Contributor) {
	if doc.Has("id") || doc.Has("contributors") {
		return
	}
	doc.Set("contributors", []any{c.value()})
}
