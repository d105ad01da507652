package sanitize_test

import (
	"testing"

	"github.com/dalemusser/circle360/internal/app/system/sanitize"
)

func TestText(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain text passes", "family", "family"},
		{"tags stripped", "<b>family</b>", "family"},
		{"script stripped", `<script>alert("x")</script>hikers`, "hikers"},
		{"whitespace trimmed", "  road trip  ", "road trip"},
		{"empty stays empty", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := sanitize.Text(tc.in); got != tc.want {
				t.Errorf("Text(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
