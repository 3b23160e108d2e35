package blog

import (
	"strings"
	"testing"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		title string
		want  string
	}{
		{"Hello, World! 2025", "hello-world-2025"},
		{"  Leading and trailing  ", "leading-and-trailing"},
		{"Multiple---separators___here", "multiple-separators-here"},
		{"ALL CAPS TITLE", "all-caps-title"},
		{"!!!", ""},
	}
	for _, tc := range cases {
		if got := Slugify(tc.title); got != tc.want {
			t.Errorf("Slugify(%q) = %q, want %q", tc.title, got, tc.want)
		}
	}
}

func TestReadTimeMinutes(t *testing.T) {
	cases := []struct {
		words int
		want  int
	}{
		{0, 1},
		{1, 1},
		{200, 1},
		{201, 2},
		{400, 2},
		{401, 3},
	}
	for _, tc := range cases {
		content := strings.TrimSpace(strings.Repeat("word ", tc.words))
		if got := ReadTimeMinutes(content); got != tc.want {
			t.Errorf("ReadTimeMinutes(%d words) = %d, want %d", tc.words, got, tc.want)
		}
	}
}
