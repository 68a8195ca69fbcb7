package types

// Standard table names.
const (
	UsersTable    = "users"
	TasksTable    = "tasks"
	SubTasksTable = "subtasks"
	EventsTable   = "calendar_events"

	// MetaTable is the reserved key-value table holding store metadata,
	// including the schema version.
	MetaTable = "_meta"
)

// Metadata table columns and well-known keys.
const (
	MetaKeyColumn   = "key"
	MetaValueColumn = "value"

	MetaSchemaVersionKey = "schema_version"
)

// UsersSpec declares the users table: one profile per account.
var UsersSpec = TableSpec{
	Name: UsersTable,
	Fields: []FieldSpec{
		{Name: "name", Kind: KindText, NotNull: true},
		{Name: "email", Kind: KindText, NotNull: true},
		{Name: "preferences", Kind: KindJSON},
	},
}

// TasksSpec declares the tasks table.
var TasksSpec = TableSpec{
	Name: TasksTable,
	Fields: []FieldSpec{
		{Name: "user_id", Kind: KindText, NotNull: true},
		{Name: "title", Kind: KindText, NotNull: true},
		{Name: "description", Kind: KindText},
		{Name: "due_date", Kind: KindTime},
		{Name: "priority", Kind: KindText, NotNull: true},
		{Name: "completed", Kind: KindBool, NotNull: true},
		{Name: "check_in_frequency", Kind: KindText},
	},
}

// SubTasksSpec declares the subtasks table. The task_id foreign key cascades
// so deleting a task deletes its subtasks.
var SubTasksSpec = TableSpec{
	Name: SubTasksTable,
	Fields: []FieldSpec{
		{Name: "task_id", Kind: KindText, NotNull: true},
		{Name: "title", Kind: KindText, NotNull: true},
		{Name: "completed", Kind: KindBool, NotNull: true},
		{Name: "order_index", Kind: KindInteger, NotNull: true},
	},
	ForeignKey: &ForeignKeySpec{Field: "task_id", RefTable: TasksTable},
}

// EventsSpec declares the calendar_events table. external_id correlates an
// event with an externally sourced calendar entry and may be empty.
var EventsSpec = TableSpec{
	Name: EventsTable,
	Fields: []FieldSpec{
		{Name: "user_id", Kind: KindText, NotNull: true},
		{Name: "title", Kind: KindText, NotNull: true},
		{Name: "start", Kind: KindTime, NotNull: true},
		{Name: "end", Kind: KindTime, NotNull: true},
		{Name: "all_day", Kind: KindBool, NotNull: true},
		{Name: "category", Kind: KindText},
		{Name: "color", Kind: KindText},
		{Name: "external_id", Kind: KindText},
	},
}

// MetaSpec declares the reserved metadata table.
var MetaSpec = TableSpec{
	Name: MetaTable,
	Fields: []FieldSpec{
		{Name: MetaKeyColumn, Kind: KindText, NotNull: true},
		{Name: MetaValueColumn, Kind: KindText, NotNull: true},
	},
	Bare:       true,
	PrimaryKey: MetaKeyColumn,
}

// Tables lists the entity table specs in creation order.
var Tables = []TableSpec{
	UsersSpec,
	TasksSpec,
	SubTasksSpec,
	EventsSpec,
}

// TableByName resolves a table spec from a table name. The metadata table is
// not resolvable here; it is owned by the schema manager.
func TableByName(name string) (TableSpec, bool) {
	for _, s := range Tables {
		if s.Name == name {
			return s, true
		}
	}
	return TableSpec{}, false
}
