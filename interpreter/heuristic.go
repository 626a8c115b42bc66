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

package interpreter

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"axonflow/diagrams/catalog"
	"axonflow/diagrams/diagram"
)

// maxQuantifier caps how many nodes one quantified mention can expand to.
const maxQuantifier = 10

// Heuristic is the deterministic, non-LLM strategy: it scans the text for
// known service keywords, expands numeric quantifiers into distinct nodes,
// groups multi-node roles into tier clusters, and infers directed edges from
// mention order. Identical text and options always produce an identical Spec.
type Heuristic struct {
	catalog         *catalog.Catalog
	defaultProvider catalog.Provider
	terms           []heuristicTerm
}

// heuristicTerm is one recognizable keyword with its compiled pattern.
// The pattern captures an optional leading quantifier ("two", "3") and
// tolerates plural forms and space/hyphen/underscore separators.
type heuristicTerm struct {
	keyword string
	re      *regexp.Regexp
}

var numberWords = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
}

// labelOverrides fixes capitalization that naive title-casing gets wrong.
var labelOverrides = map[string]string{
	"mysql": "MySQL", "postgres": "PostgreSQL", "postgresql": "PostgreSQL",
	"db": "Database", "lb": "Load Balancer", "k8s": "Kubernetes",
	"api": "API Gateway", "cdn": "CDN", "dns": "DNS", "vm": "VM",
	"s3": "S3", "ec2": "EC2", "ecs": "ECS", "eks": "EKS", "rds": "RDS",
	"alb": "ALB", "vpc": "VPC", "sqs": "SQS", "sns": "SNS",
	"gce": "Compute Engine", "gke": "GKE", "aks": "AKS", "gcs": "Cloud Storage",
}

// providerMentions is scanned in order; the earliest textual mention wins.
var providerMentions = []struct {
	re       *regexp.Regexp
	provider catalog.Provider
}{
	{regexp.MustCompile(`\b(?:aws|amazon)\b`), catalog.ProviderAWS},
	{regexp.MustCompile(`\b(?:gcp|google)\b`), catalog.ProviderGCP},
	{regexp.MustCompile(`\b(?:azure|microsoft)\b`), catalog.ProviderAzure},
}

// NewHeuristic builds the heuristic strategy over the catalog's vocabulary.
func NewHeuristic(c *catalog.Catalog, defaultProvider catalog.Provider) *Heuristic {
	if defaultProvider == "" {
		defaultProvider = catalog.ProviderAWS
	}

	// Recognition vocabulary: cross-provider generic aliases plus every
	// canonical keyword of every provider, deduplicated and sorted so term
	// construction is deterministic.
	seen := make(map[string]bool)
	var keywords []string
	for _, alias := range c.GenericAliases() {
		if !seen[alias] {
			seen[alias] = true
			keywords = append(keywords, alias)
		}
	}
	for _, provider := range catalog.Providers() {
		for _, keyword := range c.Keywords(provider) {
			if !seen[keyword] {
				seen[keyword] = true
				keywords = append(keywords, keyword)
			}
		}
	}
	sort.Strings(keywords)

	h := &Heuristic{catalog: c, defaultProvider: defaultProvider}
	for _, keyword := range keywords {
		h.terms = append(h.terms, heuristicTerm{keyword: keyword, re: compileTerm(keyword)})
	}
	return h
}

// compileTerm builds the match pattern for one keyword. Underscores in the
// keyword match any separator run in the text, so "load_balancer" matches
// "load balancer" and "load-balancer" alike.
func compileTerm(keyword string) *regexp.Regexp {
	words := strings.Split(keyword, "_")
	for i, word := range words {
		words[i] = regexp.QuoteMeta(word)
	}
	body := strings.Join(words, `[\s_-]+`)
	return regexp.MustCompile(`(?:\b(\d{1,2}|one|two|three|four|five|six|seven|eight|nine|ten)\s+)?\b` + body + `(?:e?s)?\b`)
}

type keywordMatch struct {
	keyword   string
	canonical string
	start     int // Start of the keyword itself, quantifier excluded
	end       int
	count     int
}

// Interpret implements Strategy.
func (h *Heuristic) Interpret(_ context.Context, text string, opts Options) (*diagram.Spec, error) {
	if err := ValidateDescription(text); err != nil {
		return nil, err
	}

	lower := strings.ToLower(text)
	provider := h.inferProvider(lower, opts.ProviderHint)
	matches := h.scan(lower, provider)
	if len(matches) == 0 {
		return nil, diagram.NewError(diagram.KindUnrecognizedDescription,
			"no recognizable service keywords in description")
	}

	return h.assemble(matches, provider, opts)
}

// inferProvider picks the provider: explicit mention in the text, then the
// caller's hint, then the configured default.
func (h *Heuristic) inferProvider(lower, hint string) catalog.Provider {
	earliest := -1
	provider := catalog.Provider("")
	for _, mention := range providerMentions {
		if loc := mention.re.FindStringIndex(lower); loc != nil {
			if earliest == -1 || loc[0] < earliest {
				earliest = loc[0]
				provider = mention.provider
			}
		}
	}
	if provider != "" {
		return provider
	}
	if parsed, ok := catalog.ParseProvider(hint); ok {
		return parsed
	}
	return h.defaultProvider
}

// scan finds all keyword occurrences, resolves them against the provider,
// drops overlaps (longest-first), and merges adjacent mentions of the same
// canonical service ("MySQL database" is one node, not two).
func (h *Heuristic) scan(lower string, provider catalog.Provider) []keywordMatch {
	var raw []keywordMatch
	for _, term := range h.terms {
		for _, loc := range term.re.FindAllStringSubmatchIndex(lower, -1) {
			count := 1
			if loc[2] >= 0 {
				count = parseQuantifier(lower[loc[2]:loc[3]])
			}
			keywordStart := loc[0]
			if loc[2] >= 0 {
				// Skip past the captured quantifier and its whitespace.
				keywordStart = loc[3]
				for keywordStart < loc[1] && (lower[keywordStart] == ' ' || lower[keywordStart] == '\t') {
					keywordStart++
				}
			}
			canonical, err := h.catalog.Canonical(provider, term.keyword)
			if err != nil {
				continue // Keyword has no mapping for this provider
			}
			raw = append(raw, keywordMatch{
				keyword:   term.keyword,
				canonical: canonical,
				start:     keywordStart,
				end:       loc[1],
				count:     count,
			})
		}
	}

	// Longest match wins on overlap; earlier match wins on ties.
	sort.Slice(raw, func(i, j int) bool {
		if raw[i].start != raw[j].start {
			return raw[i].start < raw[j].start
		}
		return raw[i].end-raw[i].start > raw[j].end-raw[j].start
	})

	var accepted []keywordMatch
	for _, m := range raw {
		if len(accepted) > 0 {
			prev := &accepted[len(accepted)-1]
			if m.start < prev.end {
				continue // Overlaps an accepted longer match
			}
			// Adjacent mention of the same service is the same entity.
			if m.canonical == prev.canonical && m.start-prev.end <= 1 {
				prev.end = m.end
				if m.count > prev.count {
					prev.count = m.count
				}
				continue
			}
		}
		accepted = append(accepted, m)
	}
	return accepted
}

func parseQuantifier(s string) int {
	if n, ok := numberWords[s]; ok {
		return n
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		if n > maxQuantifier {
			return maxQuantifier
		}
		return n
	}
	return 1
}

// roleGroup is one tier: all mentions of a canonical service, in
// first-mention order.
type roleGroup struct {
	canonical string
	keyword   string // First keyword that produced the group, for labels
	count     int
}

// assemble turns the accepted matches into a validated Spec: one tier per
// canonical service, quantifiers expanded into suffixed nodes, tier clusters
// for multi-node roles, and edges chaining consecutive tiers.
func (h *Heuristic) assemble(matches []keywordMatch, provider catalog.Provider, opts Options) (*diagram.Spec, error) {
	direction := opts.Direction
	if direction == "" {
		direction = diagram.DirectionTopBottom
	}

	groupIndex := make(map[string]int)
	var groups []roleGroup
	for _, m := range matches {
		if i, ok := groupIndex[m.canonical]; ok {
			groups[i].count += m.count
		} else {
			groupIndex[m.canonical] = len(groups)
			groups = append(groups, roleGroup{canonical: m.canonical, keyword: m.keyword, count: m.count})
		}
	}

	spec := &diagram.Spec{
		Provider:      provider,
		Direction:     direction,
		LabelsEnabled: opts.LabelsEnabled,
	}

	nodeBudget := diagram.MaxNodesPerSpec
	nodeIDs := make([][]string, len(groups))
	for gi, group := range groups {
		count := group.count
		if count > nodeBudget {
			count = nodeBudget
		}
		base := idBase(group.canonical)
		label := displayLabel(group.keyword)

		if count > 1 && len(spec.Clusters) < diagram.MaxClustersCount {
			spec.Clusters = append(spec.Clusters, diagram.ClusterSpec{
				ID:    base + "_tier",
				Label: label + " Tier",
			})
		}

		for i := 0; i < count; i++ {
			node := diagram.NodeSpec{
				ID:      fmt.Sprintf("%s%d", base, i+1),
				Service: group.canonical,
				Label:   label,
			}
			if count > 1 {
				node.Label = fmt.Sprintf("%s %d", label, i+1)
				if len(spec.Clusters) > 0 && spec.Clusters[len(spec.Clusters)-1].ID == base+"_tier" {
					node.ClusterID = base + "_tier"
				}
			}
			spec.Nodes = append(spec.Nodes, node)
			nodeIDs[gi] = append(nodeIDs[gi], node.ID)
		}
		nodeBudget -= count
		if nodeBudget <= 0 {
			break
		}
	}

	// Directed edges follow sentence order: each node of a tier feeds every
	// node of the next tier.
	for gi := 0; gi+1 < len(groups) && len(spec.Edges) < diagram.MaxEdgesPerSpec; gi++ {
		for _, src := range nodeIDs[gi] {
			for _, dst := range nodeIDs[gi+1] {
				if len(spec.Edges) >= diagram.MaxEdgesPerSpec {
					break
				}
				spec.Edges = append(spec.Edges, diagram.EdgeSpec{Source: src, Target: dst})
			}
		}
	}

	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return spec, nil
}

// idBase strips separators from a canonical keyword for use in node ids.
func idBase(canonical string) string {
	return strings.ReplaceAll(canonical, "_", "")
}

// displayLabel renders a keyword as a human label.
func displayLabel(keyword string) string {
	if label, ok := labelOverrides[keyword]; ok {
		return label
	}
	words := strings.Split(keyword, "_")
	for i, word := range words {
		if override, ok := labelOverrides[word]; ok {
			words[i] = override
			continue
		}
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
