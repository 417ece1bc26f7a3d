// Package recipients reads the recipient list the delivery job iterates over.
package recipients

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/i474232898/weather-mailer/internal/weather"
)

var validate = validator.New()

// Load reads and validates the recipient list at path. JSON is the default
// format; .yaml and .yml files are parsed as YAML. List order is preserved.
func Load(path string) ([]weather.Recipient, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read recipients: %w", err)
	}
	return Parse(data, filepath.Ext(path))
}

// Parse decodes a recipient list in the format implied by ext.
func Parse(data []byte, ext string) ([]weather.Recipient, error) {
	var list []weather.Recipient

	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &list); err != nil {
			return nil, fmt.Errorf("parse recipients: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &list); err != nil {
			return nil, fmt.Errorf("parse recipients: %w", err)
		}
	}

	for i, r := range list {
		if err := validate.Struct(r); err != nil {
			return nil, fmt.Errorf("recipient %d (%s): %w", i, r.Email, err)
		}
	}
	return list, nil
}

// Find returns the recipient with the given email.
func Find(list []weather.Recipient, email string) (weather.Recipient, bool) {
	want := weather.Recipient{Email: email}.Key()
	for _, r := range list {
		if r.Key() == want {
			return r, true
		}
	}
	return weather.Recipient{}, false
}
