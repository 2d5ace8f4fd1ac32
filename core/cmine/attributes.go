package cmine

import (
	"context"
	"fmt"
	"regexp"
)

// CustomizableAttributes returns all customizable venture attributes.
func (s *Session) CustomizableAttributes(ctx context.Context) ([]CustomizableAttribute, error) {
	var attrs attributesResponse
	if _, err := s.getJSON(ctx, "get customizable attributes", attributesPath, &attrs); err != nil {
		return nil, err
	}
	return attrs.CustomizableAttributes, nil
}

// CustomAttributeNames returns the internal names of the attributes whose
// display name matches pattern, case-insensitively. An empty pattern matches all.
func (s *Session) CustomAttributeNames(ctx context.Context, pattern string) ([]string, error) {
	var re *regexp.Regexp
	if pattern != "" {
		var err error
		re, err = regexp.Compile("(?i)" + pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid attribute pattern %q: %w", pattern, err)
		}
	}

	attrs, err := s.CustomizableAttributes(ctx)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(attrs))
	seen := make(map[string]struct{}, len(attrs))
	for _, a := range attrs {
		if re != nil && !re.MatchString(a.DisplayName) {
			continue
		}
		if _, dup := seen[a.Name]; dup {
			continue
		}
		seen[a.Name] = struct{}{}
		names = append(names, a.Name)
	}
	return names, nil
}
