package ingest

import (
	"testing"
)

func TestParseMoney(t *testing.T) {
	cases := []struct {
		name string
		text string
		want string // "" means nil
	}{
		{"plain", "won $25,533 on a slot", "25533"},
		{"with cents", "a $1,234,567.89 grand jackpot", "1234567.89"},
		{"first match wins", "$500 then $900", "500"},
		{"no amount", "lucky winner takes it all", ""},
		{"bare number ignored", "won 25000 credits", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := parseMoney(tc.text)
			if tc.want == "" {
				if got != nil {
					t.Fatalf("expected no amount, got %s", got)
				}
				return
			}
			if got == nil {
				t.Fatalf("expected %s, got nil", tc.want)
			}
			if got.String() != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestParseTimeAttr(t *testing.T) {
	cases := []struct {
		value string
		want  string // "" means nil
	}{
		{"2024-03-15T10:30:00-04:00", "2024-03-15"},
		{"2024-03-15T10:30:00", "2024-03-15"},
		{"2024-03-15", "2024-03-15"},
		{"  2024-03-15  ", "2024-03-15"},
		{"March 15, 2024", ""},
		{"", ""},
	}
	for _, tc := range cases {
		got := parseTimeAttr(tc.value)
		if tc.want == "" {
			if got != nil {
				t.Errorf("parseTimeAttr(%q): expected nil, got %v", tc.value, got)
			}
			continue
		}
		if got == nil {
			t.Errorf("parseTimeAttr(%q): expected %s, got nil", tc.value, tc.want)
			continue
		}
		if got.Format("2006-01-02") != tc.want {
			t.Errorf("parseTimeAttr(%q): expected %s, got %s", tc.value, tc.want, got)
		}
	}
}

func TestSameHost(t *testing.T) {
	if !sameHost("www.choctawcasinos.com", "choctawcasinos.com") {
		t.Fatal("www prefix should be insignificant")
	}
	if sameHost("blogs.pechanga.com", "pechanga.com") {
		t.Fatal("different subdomains are different hosts")
	}
}
