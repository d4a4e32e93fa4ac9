package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/bayesnet/pkg/domain"
)

// GraphOverlay contains query data to visualize on the graph.
type GraphOverlay struct {
	Query    []string
	Evidence map[string]string
}

// GenerateMermaid produces a Mermaid flowchart syntax string from a network description.
// It applies semantic styling:
// - Root: ((Circle))
// - Prior slice (X0): [(Database)]
// - Evidence slice (E1): [/Parallelogram/]
// - Default: [Rectangle]
// Edges leaving the prior slice are dotted. Overlay styles (Query/Evidence)
// are applied if provided.
func GenerateMermaid(info domain.NetworkInfo, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	roles := make(map[string]string, len(info.Variables))
	for _, v := range info.Variables {
		roles[v.Name] = v.Role
	}

	for _, v := range info.Variables {
		safeID := sanitizeMermaidID(v.Name)

		opener, closer := "[", "]"
		switch {
		case v.Role == "X0":
			opener, closer = "[(", ")]"
		case v.Role == "E1":
			opener, closer = "[/", "/]"
		case len(v.Parents) == 0:
			opener, closer = "((", "))"
		}

		label := v.Name
		if overlay != nil {
			if val, ok := overlay.Evidence[v.Name]; ok {
				label = fmt.Sprintf("%s = %s", v.Name, val)
			}
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s <br/> %s\"%s\n", safeID, opener, escape(label), escape(strings.Join(v.Values, ", ")), closer))

		for _, p := range v.Parents {
			arrow := "-->"
			if roles[p] == "X0" {
				arrow = "-.->"
			}
			sb.WriteString(fmt.Sprintf("    %s %s %s\n", sanitizeMermaidID(p), arrow, safeID))
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef evidence fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef query fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		for _, v := range info.Variables {
			if _, ok := overlay.Evidence[v.Name]; ok {
				sb.WriteString(fmt.Sprintf("    class %s evidence;\n", sanitizeMermaidID(v.Name)))
			}
		}
		for _, name := range overlay.Query {
			sb.WriteString(fmt.Sprintf("    class %s query;\n", sanitizeMermaidID(name)))
		}
	}

	return sb.String()
}

func escape(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
