// Package toshokan scrapes the Tokyo Toshokan listing pages and normalizes each
// entry into a host TorrentRecord.
package toshokan

import (
	"embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/toshokan/toshokan/internal/indexer/types"
)

//go:embed definitions/*.yml
var definitionFS embed.FS

// DefaultDefinitionID is the bundled site definition.
const DefaultDefinitionID = "tokyotosho"

// Variant selects one of the provider flavours declared in a definition.
type Variant string

const (
	VariantBasic Variant = "basic"
	VariantFull  Variant = "full"
)

// Definition describes the site: where it lives, how its listing is laid out
// and which provider variants it offers.
type Definition struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Language    string   `yaml:"language"`
	Type        string   `yaml:"type"`
	Links       []string `yaml:"links"`

	Search   SearchBlock              `yaml:"search"`
	Listing  ListingBlock             `yaml:"listing"`
	Variants map[Variant]VariantBlock `yaml:"variants"`
}

// SearchBlock defines the search endpoint.
type SearchBlock struct {
	Path          string `yaml:"path"`
	KeywordsParam string `yaml:"keywordsparam"`
}

// ListingBlock holds the selectors of the two-row listing table.
type ListingBlock struct {
	Entry       string `yaml:"entry"`       // title cell of the top row
	Title       string `yaml:"title"`       // anchors inside the title cell, last one wins
	Magnet      string `yaml:"magnet"`      // magnet anchor inside the title cell
	Details     string `yaml:"details"`     // details anchor inside the top row
	Description string `yaml:"description"` // size/date cell of the bottom row
	Stats       string `yaml:"stats"`       // S:/L:/C: cell of the bottom row
}

// VariantBlock holds the capability flags of one provider variant.
type VariantBlock struct {
	CategoryParam string                    `yaml:"categoryparam"`
	Category      int                       `yaml:"category"`
	BatchCategory int                       `yaml:"batchcategory"`
	SmartSearch   bool                      `yaml:"smartsearch"`
	Heuristics    bool                      `yaml:"heuristics"`
	Adult         bool                      `yaml:"adult"`
	Filters       []types.SmartSearchFilter `yaml:"filters"`
}

// LoadDefinition reads a bundled definition by ID.
func LoadDefinition(id string) (*Definition, error) {
	data, err := definitionFS.ReadFile("definitions/" + id + ".yml")
	if err != nil {
		return nil, fmt.Errorf("definition %q not found: %w", id, err)
	}
	return ParseDefinition(data)
}

// ParseDefinition parses and validates a YAML definition.
func ParseDefinition(data []byte) (*Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("failed to parse definition: %w", err)
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}

// Validate checks that the definition has everything the parser needs.
func (d *Definition) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("definition missing id")
	}
	if len(d.Links) == 0 {
		return fmt.Errorf("definition %s has no links", d.ID)
	}
	if d.Listing.Entry == "" || d.Listing.Title == "" || d.Listing.Magnet == "" {
		return fmt.Errorf("definition %s has an incomplete listing block", d.ID)
	}
	if len(d.Variants) == 0 {
		return fmt.Errorf("definition %s declares no variants", d.ID)
	}
	return nil
}

// GetBaseURL returns the primary site origin without a trailing slash.
func (d *Definition) GetBaseURL() string {
	if len(d.Links) == 0 {
		return ""
	}
	return strings.TrimSuffix(d.Links[0], "/")
}

// GetVariant returns the named variant block.
func (d *Definition) GetVariant(v Variant) (VariantBlock, error) {
	block, ok := d.Variants[v]
	if !ok {
		return VariantBlock{}, fmt.Errorf("definition %s has no variant %q", d.ID, v)
	}
	return block, nil
}
