package extract

import "testing"

func TestCountryHint(t *testing.T) {
	t.Parallel()

	tests := []struct {
		url  string
		want string
	}{
		{"https://www.example.co.uk/contact", "GB"},
		{"https://example.de", "DE"},
		{"http://shop.example.in/about", "IN"},
		{"https://EXAMPLE.CA", "CA"},
		{"https://example.com.au", "AU"},
		{"https://example.us", "US"},
		{"https://example.fr.", "FR"},
		{"https://example.com", ""},
		{"https://example.jp", ""},
		{"http://127.0.0.1:8080/", ""},
		{"not a url", ""},
		{"://bad", ""},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			t.Parallel()
			if got := CountryHint(tt.url); got != tt.want {
				t.Errorf("CountryHint(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}
