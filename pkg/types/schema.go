package types

// FieldKind declares the semantic type of a field. The codec consults the
// declared kind when converting between typed values and stored primitives;
// nothing is ever inferred from a column's name.
type FieldKind string

const (
	KindText    FieldKind = "text"    // string <-> TEXT
	KindInteger FieldKind = "integer" // int64 <-> INTEGER
	KindReal    FieldKind = "real"    // float64 <-> REAL
	KindBool    FieldKind = "bool"    // bool <-> INTEGER 0/1
	KindTime    FieldKind = "time"    // time.Time <-> sortable UTC TEXT
	KindJSON    FieldKind = "json"    // map/slice <-> JSON TEXT
)

// FieldSpec declares one entity field.
type FieldSpec struct {
	Name    string
	Kind    FieldKind
	NotNull bool
}

// ForeignKeySpec declares a cascading foreign key from Field to the _id
// column of RefTable. Deleting the referenced row deletes dependents where
// the backend enforces foreign keys; otherwise the store cascades manually.
type ForeignKeySpec struct {
	Field    string
	RefTable string
}

// TableSpec declares a table: its name and the full list of entity fields.
// Statement builders and the codec only ever touch declared fields.
//
// Unless Bare is set, every table implicitly carries the base columns
// ColID (text primary key), ColCreatedAt, and ColUpdatedAt; Fields lists
// only the entity-specific columns.
type TableSpec struct {
	Name       string
	Fields     []FieldSpec
	ForeignKey *ForeignKeySpec

	// Bare marks a reserved table with no implicit base columns, such as
	// the metadata table. PrimaryKey names its key column.
	Bare       bool
	PrimaryKey string
}

// Base column names carried by every non-bare table.
const (
	ColID        = "_id"
	ColCreatedAt = "created_at"
	ColUpdatedAt = "updated_at"
)

// Columns returns all column names in declaration order, base columns first.
func (s TableSpec) Columns() []string {
	var cols []string
	if !s.Bare {
		cols = append(cols, ColID, ColCreatedAt, ColUpdatedAt)
	}
	for _, f := range s.Fields {
		cols = append(cols, f.Name)
	}
	return cols
}

// Field returns the spec for the named field. Base columns resolve to their
// implicit kinds. The second return is false for undeclared names.
func (s TableSpec) Field(name string) (FieldSpec, bool) {
	if !s.Bare {
		switch name {
		case ColID:
			return FieldSpec{Name: ColID, Kind: KindText, NotNull: true}, true
		case ColCreatedAt, ColUpdatedAt:
			return FieldSpec{Name: name, Kind: KindTime, NotNull: true}, true
		}
	}
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSpec{}, false
}

// IDColumn returns the primary key column name.
func (s TableSpec) IDColumn() string {
	if s.Bare {
		return s.PrimaryKey
	}
	return ColID
}
