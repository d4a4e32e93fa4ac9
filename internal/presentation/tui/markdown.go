package tui

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/aretw0/bayesnet/pkg/domain"
)

const barWidth = 30

// PosteriorMarkdown renders a posterior as a heading plus one table row per
// combination of query values, with a bar proportional to its probability.
func PosteriorMarkdown(p *domain.Posterior) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "## P(%s", strings.Join(p.Query, ", "))
	if len(p.Evidence) > 0 {
		sb.WriteString(" | ")
		sb.WriteString(assignments(p.Evidence))
	}
	sb.WriteString(")\n\n")

	fmt.Fprintf(&sb, "| %s | P | |\n", strings.Join(p.Query, " | "))
	sb.WriteString(strings.Repeat("|---", len(p.Query)+2))
	sb.WriteString("|\n")
	for _, e := range p.Entries {
		fmt.Fprintf(&sb, "| %s | %.4f | %s |\n", strings.Join(e.Values, " | "), e.Probability, bar(e.Probability))
	}

	fmt.Fprintf(&sb, "\n*%s, %d samples, seed %d", p.Algorithm, p.Samples, p.Seed)
	if p.Workers > 1 {
		fmt.Fprintf(&sb, ", %d workers", p.Workers)
	}
	if p.BurnIn > 0 {
		fmt.Fprintf(&sb, ", burn-in %d", p.BurnIn)
	}
	if p.Cached {
		sb.WriteString(", cached")
	}
	sb.WriteString("*\n")
	return sb.String()
}

// NetworksMarkdown renders a listing of networks.
func NetworksMarkdown(infos []domain.NetworkInfo) string {
	var sb strings.Builder
	sb.WriteString("| Network | Variables | Description |\n|---|---|---|\n")
	for _, info := range infos {
		name := info.Name
		if info.Dynamic {
			name += " (dynamic)"
		}
		fmt.Fprintf(&sb, "| %s | %s | %s |\n", name, strings.Join(info.Order, ", "), info.Description)
	}
	return sb.String()
}

// NetworkMarkdown renders one network's variables in topological order.
func NetworkMarkdown(info domain.NetworkInfo) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## %s\n\n", info.Name)
	if info.Description != "" {
		fmt.Fprintf(&sb, "%s\n\n", info.Description)
	}
	sb.WriteString("| Variable | Values | Parents |")
	if info.Dynamic {
		sb.WriteString(" Slice |\n|---|---|---|---|\n")
	} else {
		sb.WriteString("\n|---|---|---|\n")
	}
	for _, v := range info.Variables {
		parents := strings.Join(v.Parents, ", ")
		if parents == "" {
			parents = "-"
		}
		fmt.Fprintf(&sb, "| %s | %s | %s |", v.Name, strings.Join(v.Values, ", "), parents)
		if info.Dynamic {
			fmt.Fprintf(&sb, " %s |", v.Role)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// EventMarkdown renders one sampled event, sorted by variable name.
func EventMarkdown(event map[string]string) string {
	var sb strings.Builder
	sb.WriteString("| Variable | Value |\n|---|---|\n")
	for _, name := range slices.Sorted(maps.Keys(event)) {
		fmt.Fprintf(&sb, "| %s | %s |\n", name, event[name])
	}
	return sb.String()
}

func assignments(m map[string]string) string {
	parts := make([]string, 0, len(m))
	for _, name := range slices.Sorted(maps.Keys(m)) {
		parts = append(parts, name+"="+m[name])
	}
	return strings.Join(parts, ", ")
}

func bar(p float64) string {
	n := int(p*barWidth + 0.5)
	n = min(max(n, 0), barWidth)
	return strings.Repeat("█", n)
}
