// Package resume holds the records shared by the screening components.
package resume

// Category is a named-entity label.
type Category string

const (
	Person Category = "PERSON"
	Org    Category = "ORG"
	Date   Category = "DATE"
)

// Categories lists the labels every recognizer is expected to fill.
var Categories = []Category{Person, Org, Date}

// EntitySet maps an entity category to its surface forms, in the order the
// recognizer reported them. A nil set is a valid empty set.
type EntitySet map[Category][]string

// NewEntitySet returns an empty set with all known categories present.
func NewEntitySet() EntitySet {
	set := make(EntitySet, len(Categories))
	for _, c := range Categories {
		set[c] = []string{}
	}
	return set
}

// Add appends values to a category, skipping empty strings.
func (e EntitySet) Add(c Category, values ...string) {
	for _, v := range values {
		if v == "" {
			continue
		}
		e[c] = append(e[c], v)
	}
}

func (e EntitySet) Persons() []string { return e.get(Person) }

func (e EntitySet) Orgs() []string { return e.get(Org) }

func (e EntitySet) Dates() []string { return e.get(Date) }

func (e EntitySet) get(c Category) []string {
	if e == nil {
		return nil
	}
	return e[c]
}
