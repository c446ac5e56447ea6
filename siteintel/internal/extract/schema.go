// Package extract turns aggregated page text into a structured
// business profile through a schema-constrained oracle call. It is a
// boundary package: whatever goes wrong inside, the caller gets a
// profile back, possibly a degraded one carrying a diagnostic.
package extract

import (
	"fmt"
	"strings"
)

// Field describes one extractable field for the prompt and for the
// confidence walk. Required fields that come back empty cost
// confidence.
type Field struct {
	Name     string
	Type     string // "string", "object", "array"
	Required bool
	Hint     string
	// Elements describes the element shape of an array field or the
	// members of an object field.
	Elements []Field
}

// Mode selects an extraction schema depth.
type Mode string

const (
	// ModeFlat extracts scalar identity fields only.
	ModeFlat Mode = "flat"
	// ModeDeepdive adds nested location/contact and the keyed arrays.
	ModeDeepdive Mode = "deepdive"
	// ModeForensic adds credentials, social links, and free-form
	// attributes on top of deepdive.
	ModeForensic Mode = "forensic"
)

// Schema is a named set of field descriptors. One extraction code path
// serves every schema.
type Schema struct {
	Mode   Mode
	Fields []Field
}

var scalarFields = []Field{
	{Name: "business_name", Type: "string", Required: true, Hint: "the exact business name as written on the site"},
	{Name: "category", Type: "string", Required: true, Hint: "short business category, e.g. plumber, limo service, restaurant"},
	{Name: "description", Type: "string", Hint: "one-paragraph summary of what the business does"},
	{Name: "target_audience", Type: "string", Hint: "who the business serves"},
}

var nestedFields = []Field{
	{Name: "location", Type: "object", Elements: []Field{
		{Name: "street", Type: "string"},
		{Name: "city", Type: "string"},
		{Name: "region", Type: "string", Hint: "state or province"},
		{Name: "postal_code", Type: "string"},
		{Name: "country", Type: "string"},
		{Name: "service_area", Type: "string", Hint: "coverage radius or area, NOT a street address"},
	}},
	{Name: "contact", Type: "object", Elements: []Field{
		{Name: "phone", Type: "string"},
		{Name: "email", Type: "string"},
		{Name: "website", Type: "string"},
		{Name: "booking_url", Type: "string"},
	}},
	{Name: "services", Type: "array", Hint: "every service, product, menu item, or vehicle offered", Elements: []Field{
		{Name: "name", Type: "string", Required: true},
		{Name: "description", Type: "string"},
		{Name: "price", Type: "string", Hint: "verbatim as written, including currency"},
		{Name: "quantity", Type: "string", Hint: "fleet size, seat count, units, when stated"},
	}},
}

var forensicFields = []Field{
	{Name: "credentials", Type: "array", Hint: "licenses, certifications, awards", Elements: []Field{
		{Name: "name", Type: "string", Required: true},
		{Name: "issuer", Type: "string"},
		{Name: "year", Type: "string"},
	}},
	{Name: "social_links", Type: "array", Elements: []Field{
		{Name: "platform", Type: "string", Required: true},
		{Name: "url", Type: "string"},
	}},
	{Name: "custom_attributes", Type: "array", Hint: "other notable facts as label/value pairs", Elements: []Field{
		{Name: "label", Type: "string", Required: true},
		{Name: "value", Type: "string"},
	}},
}

// SchemaFor returns the built-in schema for a mode. Unknown modes get
// deepdive, the default depth.
func SchemaFor(mode Mode) Schema {
	switch mode {
	case ModeFlat:
		return Schema{Mode: ModeFlat, Fields: scalarFields}
	case ModeForensic:
		fields := append(append([]Field{}, scalarFields...), nestedFields...)
		return Schema{Mode: ModeForensic, Fields: append(fields, forensicFields...)}
	default:
		fields := append(append([]Field{}, scalarFields...), nestedFields...)
		return Schema{Mode: ModeDeepdive, Fields: fields}
	}
}

// Describe renders the schema as the field list embedded in the
// prompt.
func (s Schema) Describe() string {
	var sb strings.Builder
	for _, f := range s.Fields {
		describeField(&sb, f, 0)
	}
	return sb.String()
}

func describeField(sb *strings.Builder, f Field, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
	fmt.Fprintf(sb, "- %s (%s", f.Name, f.Type)
	if f.Required {
		sb.WriteString(", required")
	}
	sb.WriteString(")")
	if f.Hint != "" {
		sb.WriteString(": " + f.Hint)
	}
	sb.WriteString("\n")
	for _, e := range f.Elements {
		describeField(sb, e, depth+1)
	}
}

// requiredTopLevel lists the top-level required field names, the
// subjects of the confidence walk.
func (s Schema) requiredTopLevel() []string {
	var names []string
	for _, f := range s.Fields {
		if f.Required {
			names = append(names, f.Name)
		}
	}
	return names
}
