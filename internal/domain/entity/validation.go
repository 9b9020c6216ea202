package entity

import (
	"fmt"
	"net/url"
)

// maxURLLength defines the maximum allowed length for URLs to prevent DoS attacks.
const maxURLLength = 2048

// ValidateURL checks that rawURL is a well-formed absolute http(s) URL.
// It is applied to configured feed and page URLs at startup.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return &ValidationError{Field: "url", Message: "URL is required"}
	}

	if len(rawURL) > maxURLLength {
		return &ValidationError{
			Field:   "url",
			Message: fmt.Sprintf("url must not exceed %d characters", maxURLLength),
		}
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("parse URL: %w", err)
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return &ValidationError{Field: "url", Message: "URL must use http or https scheme"}
	}

	if parsedURL.Host == "" {
		return &ValidationError{Field: "url", Message: "URL must have a valid host"}
	}

	return nil
}

// Validate checks the invariants every adapter must guarantee before an Item
// leaves its boundary.
func (it Item) Validate() error {
	if it.Title == "" {
		return &ValidationError{Field: "title", Message: "title is required"}
	}
	if err := ValidateURL(it.URL); err != nil {
		return err
	}
	if !it.Source.Valid() {
		return &ValidationError{Field: "source", Message: fmt.Sprintf("unknown source tag %q", it.Source)}
	}
	return nil
}
