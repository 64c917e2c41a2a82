// validate.go: cross-field validation of resolved settings.
package conf

import (
	"net/url"
	"strconv"

	"github.com/wildwatch/wildwatch-go/internal/errors"
)

// Validate checks resolved settings for values that would only fail later
// at first use. Returns a configuration-category error on the first
// problem found.
func (s *Settings) Validate() error {
	if !s.UseMockData {
		u, err := url.Parse(s.Backend.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return errors.Newf("backend base URL %q is not an absolute URL", s.Backend.BaseURL).
				Component("conf").
				Category(errors.CategoryConfiguration).
				Build()
		}
	}

	if s.Backend.Timeout < 0 {
		return errors.Newf("backend timeout must not be negative").
			Component("conf").
			Category(errors.CategoryConfiguration).
			Build()
	}

	if s.WebServer.Enabled {
		port, err := strconv.Atoi(s.WebServer.Port)
		if err != nil || port < 1 || port > 65535 {
			return errors.Newf("web server port %q is not a valid port", s.WebServer.Port).
				Component("conf").
				Category(errors.CategoryConfiguration).
				Build()
		}
	}

	if s.Poll.Limit < 0 {
		return errors.Newf("poll limit must not be negative").
			Component("conf").
			Category(errors.CategoryConfiguration).
			Build()
	}

	if s.Operator == "" {
		s.Operator = DefaultOperator
	}

	return nil
}
