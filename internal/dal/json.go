package dal

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

const (
	cardsDir       = "cards"
	cardsIndexFile = "index.json"
	adminDir       = "admin"
	usersFile      = "users.json"
	auditFile      = "audit.jsonl"

	defaultAdminUsername = "admin"
	defaultAdminPassword = "admin"

	dirPerm  = 0o755
	filePerm = 0o644
)

type (
	Options struct {
		DefaultAdminPassword string
		BcryptCost           int
	}

	// JSONRepository keeps every collection in its own JSON document under
	// dataDir. Each mutation reads the whole document and replaces it.
	JSONRepository struct {
		dataDir string
		opts    Options

		// serializes read-modify-write cycles within the process
		mx sync.Mutex

		log *slog.Logger
	}
)

func NewJSONRepository(dataDir string, opts Options, log *slog.Logger) (*JSONRepository, error) {
	if dataDir == "" {
		return nil, errors.New("data dir is required")
	}
	if opts.DefaultAdminPassword == "" {
		opts.DefaultAdminPassword = defaultAdminPassword
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}

	for _, dir := range []string{dataDir, filepath.Join(dataDir, cardsDir), filepath.Join(dataDir, adminDir)} {
		if err := os.MkdirAll(dir, dirPerm); err != nil {
			return nil, fmt.Errorf("create dir %s: %w", dir, err)
		}
	}

	return &JSONRepository{
		dataDir: dataDir,
		opts:    opts,
		log:     log,
	}, nil
}

func (r *JSONRepository) path(elem ...string) string {
	return filepath.Join(append([]string{r.dataDir}, elem...)...)
}

// readJSON decodes path into target. A missing file leaves target untouched.
func readJSON(path string, target any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}
	if len(data) == 0 {
		return nil
	}
	if err = json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// writeJSON replaces path with the indented encoding of data. The document is
// written to a temp file first and renamed, so readers never see a partial
// write.
func writeJSON(path string, data any) error {
	encoded, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // removed by rename on success

	if _, err = tmp.Write(encoded); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err = os.Chmod(tmp.Name(), filePerm); err != nil {
		return fmt.Errorf("chmod %s: %w", tmp.Name(), err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

func validIndex(idx, length int) bool {
	return idx >= 0 && idx < length
}
