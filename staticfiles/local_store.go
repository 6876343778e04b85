package staticfiles

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"lucy_nodes/logging"

	"go.uber.org/zap"
)

// LocalStore persists files to a local directory and addresses them under a
// public base URL. It is the standalone-host implementation of Store; graph
// hosts with their own static file manager provide their own.
//
// Thread Safety: LocalStore is safe for concurrent use. Collision detection
// relies on O_EXCL file creation, with a mutex serializing the
// derive-new-name loop under PolicyCreateNewAlways.
type LocalStore struct {
	dir     string
	baseURL string
	index   Index
	logger  *logging.Logger

	// mu serializes name derivation so two concurrent saves of the same
	// filename cannot race to the same derived name.
	mu sync.Mutex
}

// LocalStoreConfig holds configuration for a LocalStore.
type LocalStoreConfig struct {
	// Dir is the directory files are written to. Created if missing.
	Dir string

	// BaseURL is the public URL prefix stored files are addressed under,
	// e.g. "http://localhost:8088/static".
	BaseURL string

	// Index, when non-nil, receives a record for every saved file.
	Index Index

	// Logger is optional; a no-op logger is used when nil.
	Logger *logging.Logger
}

// NewLocalStore creates a LocalStore, creating the storage directory if it
// does not exist.
func NewLocalStore(cfg LocalStoreConfig) (*LocalStore, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("staticfiles: directory is required")
	}
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("staticfiles: base URL is required")
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("staticfiles: failed to create directory: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	return &LocalStore{
		dir:     cfg.Dir,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		index:   cfg.Index,
		logger:  logger.Named("staticfiles"),
	}, nil
}

// Dir returns the storage directory.
func (s *LocalStore) Dir() string { return s.dir }

// Save writes data under filename and returns its public URL.
//
// Under PolicyRejectIfExists an existing file fails with ErrExists. Under
// PolicyCreateNewAlways a fresh name is derived by appending _1, _2, … to
// the stem until creation succeeds.
func (s *LocalStore) Save(data []byte, filename string, policy CollisionPolicy) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("staticfiles: refusing to save empty file %q", filename)
	}

	name := SanitizeFilename(filename)

	s.mu.Lock()
	defer s.mu.Unlock()

	written, err := s.create(name, data)
	if err != nil && os.IsExist(err) {
		if policy == PolicyRejectIfExists {
			return "", fmt.Errorf("%w: %s", ErrExists, name)
		}
		written, err = s.createFresh(name, data)
	}
	if err != nil {
		return "", fmt.Errorf("staticfiles: failed to save %q: %w", name, err)
	}

	url := s.baseURL + "/" + written
	s.logger.Debug("saved static file",
		zap.String("filename", written),
		zap.Int("size", len(data)),
		zap.String("policy", policy.String()))

	s.record(written, url, data)
	return url, nil
}

// create writes data to name with O_EXCL collision detection.
func (s *LocalStore) create(name string, data []byte) (string, error) {
	f, err := os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(filepath.Join(s.dir, name))
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return name, nil
}

// createFresh derives name_1, name_2, … until creation succeeds.
func (s *LocalStore) createFresh(name string, data []byte) (string, error) {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s_%d%s", stem, i, ext)
		written, err := s.create(candidate, data)
		if err == nil {
			return written, nil
		}
		if !os.IsExist(err) {
			return "", err
		}
	}
}

// record reports the saved file to the index, if one is attached.
// Index failures are logged, never propagated: the bytes are on disk and
// the URL is valid regardless.
func (s *LocalStore) record(filename, url string, data []byte) {
	if s.index == nil {
		return
	}

	rec := IndexRecord{
		Filename:  filename,
		URL:       url,
		SizeBytes: int64(len(data)),
	}
	if format, w, h, ok := ProbeImage(data); ok {
		rec.ContentType = "image/" + format
		rec.Width = w
		rec.Height = h
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.index.Record(ctx, rec); err != nil {
		s.logger.Warn("failed to index saved file",
			zap.String("filename", filename),
			zap.Error(err))
	}
}

// SanitizeFilename removes or replaces characters that are unsafe for
// filenames. Exposed for reuse by Store implementations.
func SanitizeFilename(filename string) string {
	unsafe := []string{"/", "\\", ":", "*", "?", "\"", "<", ">", "|", "\n", "\r", "\t"}
	result := filename
	for _, char := range unsafe {
		result = strings.ReplaceAll(result, char, "_")
	}

	if len(result) > 200 {
		result = result[:200]
	}
	if result == "" {
		result = "file"
	}
	return result
}

var _ Store = (*LocalStore)(nil)
