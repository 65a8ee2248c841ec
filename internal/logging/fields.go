// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

// Field name constants for structured logging.
// Using constants prevents typos and enables IDE autocomplete.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldWorkingDir = "working_dir"
	FieldLine       = "line"

	// Configuration fields.
	FieldFormat = "format"
	FieldJobs   = "jobs"
	FieldColor  = "color"

	// Grammar and mode fields.
	FieldMode     = "mode"
	FieldModes    = "modes"
	FieldRuleSet  = "ruleset"
	FieldGrammar  = "grammar"
	FieldCatalog  = "catalog"
	FieldWarning  = "warning"
	FieldFileGlob = "file_name_glob"
	FieldLineGlob = "first_line_glob"

	// Statistics fields.
	FieldFilesDiscovered = "files_discovered"
	FieldFilesProcessed  = "files_processed"
	FieldFilesSkipped    = "files_skipped"
	FieldLines           = "lines"
	FieldLinesLexed      = "lines_lexed"
	FieldTokens          = "tokens"
	FieldBlocks          = "blocks"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
