package article

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

type License string

const (
	LicenseAllRightsReserved License = "all-rights-reserved"
	LicenseCC40By            License = "cc-40-by"
	LicenseCC40BySA          License = "cc-40-by-sa"
	LicenseCC40ByND          License = "cc-40-by-nd"
	LicenseCC40ByNC          License = "cc-40-by-nc"
	LicenseCC40ByNCND        License = "cc-40-by-nc-nd"
	LicenseCC40ByNCSA        License = "cc-40-by-nc-sa"
	LicenseCC40Zero          License = "cc-40-zero"
	LicensePublicDomain      License = "public-domain"
)

var knownLicenses = map[License]bool{
	LicenseAllRightsReserved: true,
	LicenseCC40By:            true,
	LicenseCC40BySA:          true,
	LicenseCC40ByND:          true,
	LicenseCC40ByNC:          true,
	LicenseCC40ByNCND:        true,
	LicenseCC40ByNCSA:        true,
	LicenseCC40Zero:          true,
	LicensePublicDomain:      true,
}

// Valid reports whether l is one of the licenses Medium understands.
// The parser itself never rejects unknown values.
func (l License) Valid() bool {
	return knownLicenses[l]
}

// Tags accepts either a comma separated string or a YAML list.
type Tags []string

func (t *Tags) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		*t = splitTags(value.Value)
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := value.Decode(&list); err != nil {
			return err
		}
		*t = cleanTags(list)
		return nil
	default:
		return fmt.Errorf("line %d: tags must be a string or a list", value.Line)
	}
}

func splitTags(s string) Tags {
	return cleanTags(strings.Split(s, ","))
}

func cleanTags(items []string) Tags {
	tags := make(Tags, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item != "" {
			tags = append(tags, item)
		}
	}
	return tags
}

// Limit returns at most n tags, preserving order.
func (t Tags) Limit(n int) []string {
	n = min(n, len(t))
	return append(make([]string, 0, n), t[:n]...)
}

type Config struct {
	Title        string  `yaml:"title" json:"title"`
	Description  string  `yaml:"description" json:"description"`
	License      License `yaml:"license" json:"license"`
	Published    *bool   `yaml:"published" json:"published,omitempty"`
	Tags         Tags    `yaml:"tags" json:"tags"`
	CanonicalURL string  `yaml:"canonicalUrl" json:"canonicalUrl,omitempty"`
}

// IsPublished treats an unset flag as published.
func (c *Config) IsPublished() bool {
	return c.Published == nil || *c.Published
}

type Article struct {
	Config  Config `json:"config"`
	Content string `json:"content"`
}
