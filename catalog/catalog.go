// Copyright 2025 AxonFlow
// SPDX-License-Identifier: BUSL-1.1
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var embeddedCatalog []byte

// Provider identifies a supported cloud provider.
type Provider string

const (
	ProviderAWS   Provider = "aws"
	ProviderGCP   Provider = "gcp"
	ProviderAzure Provider = "azure"
)

// ParseProvider maps a raw provider string to a Provider constant.
// Common vendor spellings ("amazon", "google cloud", "microsoft") are accepted.
func ParseProvider(s string) (Provider, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "aws", "amazon", "amazon web services":
		return ProviderAWS, true
	case "gcp", "google", "google cloud", "google cloud platform":
		return ProviderGCP, true
	case "azure", "microsoft", "microsoft azure":
		return ProviderAzure, true
	}
	return "", false
}

// Providers lists all supported providers in a stable order.
func Providers() []Provider {
	return []Provider{ProviderAWS, ProviderGCP, ProviderAzure}
}

// IconRef locates an icon in the external rendering engine's taxonomy.
type IconRef struct {
	Module string `yaml:"module" json:"module"` // Taxonomy module path (e.g. diagrams.aws.compute)
	Class  string `yaml:"class" json:"class"`   // Class-like identifier within the module (e.g. EC2)
}

// UnknownServiceError is returned when a keyword cannot be resolved for a
// provider, directly or through any alias.
type UnknownServiceError struct {
	Provider Provider
	Keyword  string
}

func (e *UnknownServiceError) Error() string {
	return fmt.Sprintf("unknown service %q for provider %q", e.Keyword, e.Provider)
}

// Catalog is the immutable keyword-to-icon mapping shared by all requests.
// It is safe for unsynchronized concurrent reads after Load returns.
type Catalog struct {
	services map[Provider]map[string]IconRef
	aliases  map[Provider]map[string]string
	generic  map[string]map[Provider]string
}

// catalogFile is the on-disk/embedded YAML shape.
type catalogFile struct {
	Providers map[string]struct {
		Services map[string]IconRef `yaml:"services"`
		Aliases  map[string]string  `yaml:"aliases"`
	} `yaml:"providers"`
	Generic map[string]map[string]string `yaml:"generic"`
}

// Load parses the embedded catalog data.
func Load() (*Catalog, error) {
	return parse(embeddedCatalog)
}

// LoadFile parses a catalog from an external YAML file. Used by deployments
// that override the built-in icon set.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return parse(data)
}

func parse(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog YAML: %w", err)
	}

	c := &Catalog{
		services: make(map[Provider]map[string]IconRef),
		aliases:  make(map[Provider]map[string]string),
		generic:  make(map[string]map[Provider]string),
	}

	for name, entry := range file.Providers {
		provider, ok := ParseProvider(name)
		if !ok {
			return nil, fmt.Errorf("catalog references unsupported provider %q", name)
		}
		c.services[provider] = make(map[string]IconRef, len(entry.Services))
		for keyword, icon := range entry.Services {
			if icon.Module == "" || icon.Class == "" {
				return nil, fmt.Errorf("catalog entry %s/%s has incomplete icon reference", name, keyword)
			}
			c.services[provider][keyword] = icon
		}
		c.aliases[provider] = make(map[string]string, len(entry.Aliases))
		for alias, target := range entry.Aliases {
			if _, ok := c.services[provider][target]; !ok {
				return nil, fmt.Errorf("catalog alias %s/%s points at unknown service %q", name, alias, target)
			}
			c.aliases[provider][alias] = target
		}
	}

	for alias, targets := range file.Generic {
		c.generic[alias] = make(map[Provider]string, len(targets))
		for name, target := range targets {
			provider, ok := ParseProvider(name)
			if !ok {
				return nil, fmt.Errorf("generic alias %q references unsupported provider %q", alias, name)
			}
			if _, ok := c.services[provider][target]; !ok {
				return nil, fmt.Errorf("generic alias %s/%s points at unknown service %q", alias, name, target)
			}
			c.generic[alias][provider] = target
		}
	}

	return c, nil
}

// Resolve maps a (provider, keyword) pair to an icon reference.
//
// The keyword is normalized first, then matched in fixed priority order:
// exact canonical keyword, provider-specific alias, cross-provider generic
// alias. Returns *UnknownServiceError when nothing matches.
func (c *Catalog) Resolve(provider Provider, keyword string) (IconRef, error) {
	canonical, err := c.Canonical(provider, keyword)
	if err != nil {
		return IconRef{}, err
	}
	return c.services[provider][canonical], nil
}

// Canonical resolves a keyword to its canonical service name for a provider
// using the same priority order as Resolve.
func (c *Catalog) Canonical(provider Provider, keyword string) (string, error) {
	normalized := Normalize(keyword)

	if _, ok := c.services[provider][normalized]; ok {
		return normalized, nil
	}
	if target, ok := c.aliases[provider][normalized]; ok {
		return target, nil
	}
	if targets, ok := c.generic[normalized]; ok {
		if target, ok := targets[provider]; ok {
			return target, nil
		}
	}
	return "", &UnknownServiceError{Provider: provider, Keyword: keyword}
}

// Keywords returns the canonical service keywords for a provider, sorted.
func (c *Catalog) Keywords(provider Provider) []string {
	keywords := make([]string, 0, len(c.services[provider]))
	for keyword := range c.services[provider] {
		keywords = append(keywords, keyword)
	}
	sort.Strings(keywords)
	return keywords
}

// GenericAliases returns the cross-provider alias terms, sorted. The heuristic
// interpreter uses these as its recognition vocabulary.
func (c *Catalog) GenericAliases() []string {
	aliases := make([]string, 0, len(c.generic))
	for alias := range c.generic {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)
	return aliases
}

var separators = regexp.MustCompile(`[-\s]+`)

// Vendor prefixes and suffixes stripped during normalization.
var (
	vendorPrefixes = []string{"aws_", "amazon_", "google_", "gcp_", "azure_", "microsoft_"}
	vendorSuffixes = []string{"_services", "_service", "_instances", "_instance"}
)

// Normalize canonicalizes a raw service keyword for catalog lookup:
// lowercase, separators collapsed to underscores, vendor prefixes and
// "_service" style suffixes stripped. Normalization is deterministic and
// involves no catalog state.
func Normalize(keyword string) string {
	normalized := strings.ToLower(strings.TrimSpace(keyword))
	normalized = separators.ReplaceAllString(normalized, "_")

	for _, prefix := range vendorPrefixes {
		if strings.HasPrefix(normalized, prefix) {
			normalized = strings.TrimPrefix(normalized, prefix)
			break
		}
	}
	for _, suffix := range vendorSuffixes {
		if strings.HasSuffix(normalized, suffix) {
			normalized = strings.TrimSuffix(normalized, suffix)
			break
		}
	}
	return normalized
}
