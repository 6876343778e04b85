package lucygen

import "testing"

func TestFilenameFromURL(t *testing.T) {
	testCases := []struct {
		name     string
		url      string
		fallback string
		expected string
	}{
		{name: "short extension kept", url: "https://cdn.example.com/a/cat.webp", fallback: "input.png", expected: "cat.webp"},
		{name: "query ignored", url: "https://cdn.example.com/cat.jpg?w=512", fallback: "input.png", expected: "cat.jpg"},
		{name: "no extension falls back", url: "https://cdn.example.com/a/abc123", fallback: "input.png", expected: "input.png"},
		{name: "long extension falls back", url: "https://cdn.example.com/file.backup", fallback: "input.png", expected: "input.png"},
		{name: "hidden file falls back", url: "https://cdn.example.com/.env", fallback: "input.png", expected: "input.png"},
		{name: "trailing dot falls back", url: "https://cdn.example.com/file.", fallback: "input.png", expected: "input.png"},
		{name: "unparseable falls back", url: "://", fallback: "input.mp4", expected: "input.mp4"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := FilenameFromURL(tc.url, tc.fallback); got != tc.expected {
				t.Errorf("FilenameFromURL(%q) = %q, want %q", tc.url, got, tc.expected)
			}
		})
	}
}

func TestExtensionFromMime(t *testing.T) {
	testCases := []struct {
		mime     string
		expected string
	}{
		// The subtype is used verbatim, so "image/jpeg" deliberately
		// yields "jpeg", not "jpg".
		{mime: "image/jpeg", expected: "jpeg"},
		{mime: "image/png", expected: "png"},
		{mime: "video/mp4", expected: "mp4"},
		{mime: "image/png; charset=binary", expected: "png"},
		{mime: "", expected: ""},
		{mime: "image", expected: ""},
		{mime: "image/", expected: ""},
	}

	for _, tc := range testCases {
		if got := ExtensionFromMime(tc.mime); got != tc.expected {
			t.Errorf("ExtensionFromMime(%q) = %q, want %q", tc.mime, got, tc.expected)
		}
	}
}
