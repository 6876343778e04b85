package staticfiles

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func newTestStore(t *testing.T, index Index) *LocalStore {
	t.Helper()
	store, err := NewLocalStore(LocalStoreConfig{
		Dir:     t.TempDir(),
		BaseURL: "http://localhost:8088/static/",
		Index:   index,
	})
	if err != nil {
		t.Fatalf("NewLocalStore() error = %v", err)
	}
	return store
}

func TestLocalStore_SaveAndURL(t *testing.T) {
	store := newTestStore(t, nil)

	url, err := store.Save([]byte("payload"), "decart_output_abc.mp4", PolicyRejectIfExists)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if url != "http://localhost:8088/static/decart_output_abc.mp4" {
		t.Errorf("url = %q", url)
	}

	data, err := os.ReadFile(filepath.Join(store.Dir(), "decart_output_abc.mp4"))
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != "payload" {
		t.Errorf("stored data = %q, want payload", data)
	}
}

func TestLocalStore_RejectIfExists(t *testing.T) {
	store := newTestStore(t, nil)

	if _, err := store.Save([]byte("first"), "out.png", PolicyRejectIfExists); err != nil {
		t.Fatalf("first Save() error = %v", err)
	}

	_, err := store.Save([]byte("second"), "out.png", PolicyRejectIfExists)
	if !errors.Is(err, ErrExists) {
		t.Errorf("second Save() error = %v, want ErrExists", err)
	}

	// The original content must be untouched.
	data, _ := os.ReadFile(filepath.Join(store.Dir(), "out.png"))
	if string(data) != "first" {
		t.Errorf("existing file was modified: %q", data)
	}
}

func TestLocalStore_CreateNewAlways(t *testing.T) {
	store := newTestStore(t, nil)

	urls := make([]string, 3)
	for i := range urls {
		url, err := store.Save([]byte("v"), "out.png", PolicyCreateNewAlways)
		if err != nil {
			t.Fatalf("Save() #%d error = %v", i, err)
		}
		urls[i] = url
	}

	if !strings.HasSuffix(urls[0], "/out.png") {
		t.Errorf("first url = %q", urls[0])
	}
	if !strings.HasSuffix(urls[1], "/out_1.png") {
		t.Errorf("second url = %q, want _1 suffix before extension", urls[1])
	}
	if !strings.HasSuffix(urls[2], "/out_2.png") {
		t.Errorf("third url = %q, want _2 suffix", urls[2])
	}
}

func TestLocalStore_ConcurrentSaves(t *testing.T) {
	store := newTestStore(t, nil)

	const n = 16
	urls := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			url, err := store.Save([]byte("v"), "same.png", PolicyCreateNewAlways)
			if err != nil {
				t.Errorf("Save() error = %v", err)
				return
			}
			urls[i] = url
		}(i)
	}
	wg.Wait()

	seen := map[string]bool{}
	for _, url := range urls {
		if seen[url] {
			t.Errorf("duplicate url %q from concurrent saves", url)
		}
		seen[url] = true
	}
}

func TestLocalStore_RejectsEmptyData(t *testing.T) {
	store := newTestStore(t, nil)
	if _, err := store.Save(nil, "out.png", PolicyRejectIfExists); err == nil {
		t.Error("Save(nil) should fail")
	}
}

// recordingIndex captures the records the store reports.
type recordingIndex struct {
	mu   sync.Mutex
	recs []IndexRecord
	err  error
}

func (r *recordingIndex) Record(_ context.Context, rec IndexRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recs = append(r.recs, rec)
	return r.err
}

func TestLocalStore_RecordsToIndex(t *testing.T) {
	index := &recordingIndex{}
	store := newTestStore(t, index)

	img := image.NewRGBA(image.Rect(0, 0, 12, 8))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode() error = %v", err)
	}

	url, err := store.Save(buf.Bytes(), "decart_t2i_output_x.png", PolicyRejectIfExists)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if len(index.recs) != 1 {
		t.Fatalf("got %d index records, want 1", len(index.recs))
	}
	rec := index.recs[0]
	if rec.Filename != "decart_t2i_output_x.png" || rec.URL != url {
		t.Errorf("record = %+v", rec)
	}
	if rec.ContentType != "image/png" {
		t.Errorf("ContentType = %q, want image/png", rec.ContentType)
	}
	if rec.Width != 12 || rec.Height != 8 {
		t.Errorf("dimensions = %dx%d, want 12x8", rec.Width, rec.Height)
	}
	if rec.SizeBytes != int64(buf.Len()) {
		t.Errorf("SizeBytes = %d, want %d", rec.SizeBytes, buf.Len())
	}
}

func TestLocalStore_IndexFailureDoesNotFailSave(t *testing.T) {
	index := &recordingIndex{err: errors.New("db locked")}
	store := newTestStore(t, index)

	if _, err := store.Save([]byte("v"), "out.mp4", PolicyRejectIfExists); err != nil {
		t.Errorf("Save() error = %v, index failures must not propagate", err)
	}
}

func TestSanitizeFilename(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{input: "normal.png", expected: "normal.png"},
		{input: "../../etc/passwd", expected: ".._.._etc_passwd"},
		{input: `a:b*c?"d"`, expected: "a_b_c__d_"},
		{input: "", expected: "file"},
	}

	for _, tc := range testCases {
		if got := SanitizeFilename(tc.input); got != tc.expected {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", tc.input, got, tc.expected)
		}
	}
}

func TestProbeImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 5))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode() error = %v", err)
	}

	format, w, h, ok := ProbeImage(buf.Bytes())
	if !ok || format != "png" || w != 3 || h != 5 {
		t.Errorf("ProbeImage() = (%q, %d, %d, %v), want (png, 3, 5, true)", format, w, h, ok)
	}

	if _, _, _, ok := ProbeImage([]byte("not an image")); ok {
		t.Error("ProbeImage(garbage) should report not ok")
	}
}
