package domain

type FieldName string

const (
	FieldID          FieldName = "id"
	FieldTitle       FieldName = "title"
	FieldDescription FieldName = "description"
	FieldLocation    FieldName = "location"
	FieldPrice       FieldName = "price"
)

// FieldNames lists every draft field in canonical order.
var FieldNames = []FieldName{FieldID, FieldTitle, FieldDescription, FieldLocation, FieldPrice}

// FieldValue keeps the raw user input next to its last-sanitized form.
// Validation and the security scan run against Raw; only Sanitized ever
// reaches the ledger.
type FieldValue struct {
	Raw       string
	Sanitized string
}

// Draft is in-progress listing form state. It is a value type: edits
// produce a new Draft rather than mutating shared state.
type Draft struct {
	fields    map[FieldName]FieldValue
	documents []Document
}

// Edit is a single user mutation of one draft field.
type Edit struct {
	Field FieldName
	Value string
}

func (d Draft) Field(name FieldName) FieldValue {
	return d.fields[name]
}

func (d Draft) WithField(name FieldName, raw, sanitized string) Draft {
	next := make(map[FieldName]FieldValue, len(FieldNames))
	for k, v := range d.fields {
		next[k] = v
	}
	next[name] = FieldValue{Raw: raw, Sanitized: sanitized}
	return Draft{fields: next, documents: d.documents}
}

// WithDocument appends an already-detected attachment. Callers go
// through DetectDocument first; a Document never carries an unsniffed
// media type.
func (d Draft) WithDocument(doc Document) Draft {
	docs := make([]Document, len(d.documents), len(d.documents)+1)
	copy(docs, d.documents)
	return Draft{fields: d.fields, documents: append(docs, doc)}
}

func (d Draft) Documents() []Document {
	return d.documents
}

// Listing materializes the sanitized draft into a ledger payload.
// The caller must have run the draft through FormGuard first; an
// unparsable price here means that contract was broken.
func (d Draft) Listing() (Listing, error) {
	price, err := ParseAmount(d.Field(FieldPrice).Sanitized)
	if err != nil {
		return Listing{}, err
	}
	return Listing{
		ID:          PropertyID(d.Field(FieldID).Sanitized),
		Title:       d.Field(FieldTitle).Sanitized,
		Description: d.Field(FieldDescription).Sanitized,
		Price:       price,
		Location:    d.Field(FieldLocation).Sanitized,
		Documents:   d.documents,
	}, nil
}
