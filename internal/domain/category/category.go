// Package category holds the closed string domains of the categorical
// employee attributes and their integer codes.
//
// Codes are positional: the first value of a Map encodes to 0, the next to 1,
// and so on. They must match the codes the model was trained with, so the
// value lists below are append-only in spirit and never reordered.
package category

import "fmt"

// Map is an immutable, closed mapping from category names to contiguous codes.
type Map struct {
	field  string
	values []string
	codes  map[string]int
}

func newMap(field string, values ...string) Map {
	codes := make(map[string]int, len(values))
	for i, v := range values {
		if _, dup := codes[v]; dup {
			panic("category: duplicate value " + v + " in " + field)
		}
		codes[v] = i
	}
	return Map{field: field, values: values, codes: codes}
}

// Field returns the attribute name this map encodes.
func (m Map) Field() string { return m.field }

// Len returns the size of the domain.
func (m Map) Len() int { return len(m.values) }

// Values returns the domain in code order. The slice is a copy.
func (m Map) Values() []string {
	out := make([]string, len(m.values))
	copy(out, m.values)
	return out
}

// Contains reports whether v belongs to the domain.
func (m Map) Contains(v string) bool {
	_, ok := m.codes[v]
	return ok
}

// Encode returns the code for v.
func (m Map) Encode(v string) (int, error) {
	code, ok := m.codes[v]
	if !ok {
		return 0, &UnknownCategoryError{Field: m.field, Value: v}
	}
	return code, nil
}

// Decode returns the name for code.
func (m Map) Decode(code int) (string, error) {
	if code < 0 || code >= len(m.values) {
		return "", &UnknownCategoryError{Field: m.field, Value: fmt.Sprint(code)}
	}
	return m.values[code], nil
}

// Field names of the categorical attributes.
const (
	FieldBusinessTravel = "business_travel"
	FieldDepartment     = "department"
	FieldEducationField = "education_field"
	FieldGender         = "gender"
	FieldJobRole        = "job_role"
	FieldMaritalStatus  = "marital_status"
	FieldOverTime       = "overtime"
)

// The seven training-time maps.
var (
	BusinessTravel = newMap(FieldBusinessTravel,
		"Non-Travel", "Travel_Rarely", "Travel_Frequently")

	Department = newMap(FieldDepartment,
		"Human Resources", "Research & Development", "Sales")

	EducationField = newMap(FieldEducationField,
		"Human Resources", "Life Sciences", "Marketing", "Medical", "Other", "Technical Degree")

	Gender = newMap(FieldGender, "Female", "Male")

	JobRole = newMap(FieldJobRole,
		"Healthcare Representative",
		"Human Resources",
		"Laboratory Technician",
		"Manager",
		"Manufacturing Director",
		"Research Director",
		"Research Scientist",
		"Sales Executive",
		"Sales Representative",
	)

	MaritalStatus = newMap(FieldMaritalStatus, "Divorced", "Married", "Single")

	OverTime = newMap(FieldOverTime, "No", "Yes")
)

// Codec resolves categorical values by field name.
type Codec struct {
	maps   map[string]Map
	fields []string
}

// NewCodec builds a Codec over the given maps. Later maps with the same field
// name replace earlier ones.
func NewCodec(maps ...Map) *Codec {
	c := &Codec{maps: make(map[string]Map, len(maps))}
	for _, m := range maps {
		if _, seen := c.maps[m.field]; !seen {
			c.fields = append(c.fields, m.field)
		}
		c.maps[m.field] = m
	}
	return c
}

var defaultCodec = NewCodec( //nolint:gochecknoglobals // immutable training-time maps
	BusinessTravel,
	Department,
	EducationField,
	Gender,
	JobRole,
	MaritalStatus,
	OverTime,
)

// Default returns the codec over the seven training-time maps.
func Default() *Codec { return defaultCodec }

// Fields returns the categorical field names in registration order.
func (c *Codec) Fields() []string {
	out := make([]string, len(c.fields))
	copy(out, c.fields)
	return out
}

// Lookup returns the map for field.
func (c *Codec) Lookup(field string) (Map, bool) {
	m, ok := c.maps[field]
	return m, ok
}

// Encode resolves value to its code within field's domain.
func (c *Codec) Encode(field, value string) (int, error) {
	m, ok := c.maps[field]
	if !ok {
		return 0, &UnknownCategoryError{Field: field, Value: value}
	}
	return m.Encode(value)
}

// Decode resolves code back to its name within field's domain.
func (c *Codec) Decode(field string, code int) (string, error) {
	m, ok := c.maps[field]
	if !ok {
		return "", &UnknownCategoryError{Field: field, Value: fmt.Sprint(code)}
	}
	return m.Decode(code)
}

// Values returns the domain of field in code order.
func (c *Codec) Values(field string) ([]string, error) {
	m, ok := c.maps[field]
	if !ok {
		return nil, &UnknownCategoryError{Field: field}
	}
	return m.Values(), nil
}
