package config

import (
	"fmt"
	"os"

	"github.com/couchcryptid/levee-files/internal/output"
)

// LoadPage reads the HTML page fragments. It returns nil when none is
// configured, which emits the bare table.
func (c *Config) LoadPage() (*output.Page, error) {
	if c.HTMLPreamble == "" && c.HTMLMidsection == "" && c.HTMLClosing == "" {
		return nil, nil
	}
	var page output.Page
	fragments := []struct {
		key  string
		path string
		dst  *[]byte
	}{
		{"HTML_PREAMBLE", c.HTMLPreamble, &page.Preamble},
		{"HTML_MIDSECTION", c.HTMLMidsection, &page.Midsection},
		{"HTML_CLOSING", c.HTMLClosing, &page.Closing},
	}
	for _, f := range fragments {
		if f.path == "" {
			continue
		}
		data, err := os.ReadFile(f.path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f.key, err)
		}
		*f.dst = data
	}
	return &page, nil
}
