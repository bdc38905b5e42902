package utils

import "testing"

func TestTruncateForLog(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		in    string
		limit int
		want  string
	}{
		"zero limit drops everything":   {"gemini generate content request", 0, ""},
		"negative limit":                {"prompt", -3, ""},
		"fits within limit":             {"Deloitte LLP", 40, "Deloitte LLP"},
		"cut marks the ellipsis":        {"Deloitte LLP", 8, "Deloitte..."},
		"cut counts runes":              {"Zürich Société Générale", 6, "Zürich..."},
		"json reply kept whole":         {`{"match_score": 80}`, 40, `{"match_score": 80}`},
		"whitespace trimmed before cut": {"\n  reasoning text  \n", 9, "reasoning..."},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			if got := TruncateForLog(tc.in, tc.limit); got != tc.want {
				t.Fatalf("TruncateForLog(%q, %d) = %q, want %q", tc.in, tc.limit, got, tc.want)
			}
		})
	}
}
