package model

// VersionInfo reports the running binary version and the state of the
// database schema relative to the migrations bundled with it.
type VersionInfo struct {
	AppVersion       string          `json:"app_version"`
	SchemaVersion    int64           `json:"schema_version"`
	Features         map[string]bool `json:"features"`
	MigrationNeeded  bool            `json:"migration_needed"`
	MigrationMessage string          `json:"migration_message,omitempty"`
}
