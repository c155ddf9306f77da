package logging

// Field names shared by all packages so log output stays filterable.
const (
	FieldFile       = "file_path"
	FieldBank       = "bank"
	FieldFileType   = "file_type"
	FieldParser     = "parser"
	FieldLine       = "line"
	FieldRow        = "row"
	FieldCategory   = "category"
	FieldDirection  = "direction"
	FieldReason     = "reason"
	FieldProvider   = "provider"
	FieldBatch      = "batch"
	FieldCount      = "count"
	FieldDelimiter  = "delimiter"
	FieldUser       = "user_id"
	FieldAccount    = "account_id"
	FieldImported   = "imported"
	FieldSkipped    = "skipped"
	FieldDuration   = "duration_ms"
	FieldOutputFile = "output_file"
)
