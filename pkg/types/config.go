package types

// Config holds backend selection and parameters for store.Open.
type Config struct {
	// Backend selects the storage engine: BackendSQLite or BackendMemory.
	Backend string `json:"backend" yaml:"backend"`

	// DataDir is the directory holding the store file (sqlite) or the
	// key-value snapshot files (memory).
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// StoreName names the store. It becomes the database filename for the
	// sqlite backend and the key prefix for the memory backend.
	StoreName string `json:"store_name" yaml:"store_name"`

	// UserID is the current user identifier supplied by the auth
	// collaborator. Used to scope user-owned queries; may be empty.
	UserID string `json:"user_id" yaml:"user_id"`
}

// Supported backend names.
const (
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// DefaultStoreName is used when Config.StoreName is empty.
const DefaultStoreName = "daystore"

var knownBackends = map[string]bool{
	BackendSQLite: true,
	BackendMemory: true,
}

// Validate checks that the Config is well-formed, returning a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	if c.StoreName == "" {
		return ErrStoreNameEmpty
	}
	return nil
}
