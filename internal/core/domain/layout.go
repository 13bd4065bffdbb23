package domain

import (
	"path/filepath"
	"time"
)

const (
	// DataDirName is the name of the local data directory.
	DataDirName = "data"

	// HistoryFileName is the name of the history ledger file.
	HistoryFileName = "history.json"

	// ConfigFileName is the name of the optional configuration file.
	ConfigFileName = "artisan.yaml"

	// EnvFileName is the name of the optional dotenv file.
	EnvFileName = ".env"

	// HistoryCapacity is the maximum number of records kept in the ledger.
	HistoryCapacity = 100

	// MaxImageRefs is the maximum number of image references forwarded to the remote API.
	MaxImageRefs = 10

	// MinImageRefs is the number of image references the remote model requires:
	// one content reference and one style reference.
	MinImageRefs = 2

	// DefaultStyleURL is appended when a submission carries fewer than MinImageRefs references.
	DefaultStyleURL = "https://wms.webinfra.cloud/art-photos/template1.jpeg"

	// ArtifactKeyPrefix is the object key prefix of generated and uploaded images.
	ArtifactKeyPrefix = "art-photos"

	// RemoteSuccessCode is the business code the remote API returns on success.
	RemoteSuccessCode = 10000

	// RemoteStatusDone is the remote status of a finished task.
	RemoteStatusDone = "done"

	// RemoteStatusFailed is the remote status of a failed task.
	RemoteStatusFailed = "failed"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// DefaultPollInterval is the wait between two polls of the same task.
	DefaultPollInterval = 2 * time.Second

	// DefaultPollMaxAttempts bounds the number of polls of the same task.
	DefaultPollMaxAttempts = 30

	// DefaultPollTimeout bounds the wall-clock duration of the polling loop.
	DefaultPollTimeout = 3 * time.Minute
)

// DefaultHistoryPath returns the default path of the history ledger.
// It joins data and history.json.
func DefaultHistoryPath() string {
	return filepath.Join(DataDirName, HistoryFileName)
}
