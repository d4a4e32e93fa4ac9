package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/bayesnet/internal/presentation/graph"
	"github.com/aretw0/bayesnet/pkg/domain"
)

var boolean = []string{"true", "false"}

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name     string
		info     domain.NetworkInfo
		overlay  *graph.GraphOverlay
		contains []string
		excludes []string
	}{
		{
			name: "Root Node Shape",
			info: domain.NetworkInfo{Variables: []domain.VariableInfo{
				{Name: "Rain", Values: boolean},
				{Name: "Umbrella", Values: boolean, Parents: []string{"Rain"}},
			}},
			contains: []string{
				`Rain(("Rain <br/> true, false"))`,
				`Umbrella["Umbrella <br/> true, false"]`,
				"Rain --> Umbrella",
			},
			excludes: []string{"classDef"},
		},
		{
			name: "Time Slice Shapes",
			info: domain.NetworkInfo{Dynamic: true, Variables: []domain.VariableInfo{
				{Name: "Rain_t-1", Values: boolean, Role: "X0"},
				{Name: "Rain_t", Values: boolean, Parents: []string{"Rain_t-1"}, Role: "X1"},
				{Name: "Umbrella_t", Values: boolean, Parents: []string{"Rain_t"}, Role: "E1"},
			}},
			contains: []string{
				`Rain_t_1[("Rain_t-1 <br/> true, false")]`,
				`Umbrella_t[/"Umbrella_t <br/> true, false"/]`,
				"Rain_t_1 -.-> Rain_t",
				"Rain_t --> Umbrella_t",
			},
		},
		{
			name: "ID Sanitization",
			info: domain.NetworkInfo{Variables: []domain.VariableInfo{
				{Name: "wet grass.v2", Values: []string{`"a"`}},
			}},
			contains: []string{`wet_grass_v2(("wet grass.v2 <br/> 'a'"))`},
		},
		{
			name: "Overlay",
			info: domain.NetworkInfo{Variables: []domain.VariableInfo{
				{Name: "Rain", Values: boolean},
				{Name: "Umbrella", Values: boolean, Parents: []string{"Rain"}},
			}},
			overlay: &graph.GraphOverlay{
				Query:    []string{"Rain"},
				Evidence: map[string]string{"Umbrella": "true"},
			},
			contains: []string{
				`Umbrella["Umbrella = true <br/> true, false"]`,
				"class Umbrella evidence;",
				"class Rain query;",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(tt.info, tt.overlay)
			if !strings.HasPrefix(got, "graph TD\n") {
				t.Errorf("GenerateMermaid() missing header:\n%v", got)
			}
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("GenerateMermaid() = \n%v\nWant substring: %v", got, want)
				}
			}
			for _, bad := range tt.excludes {
				if strings.Contains(got, bad) {
					t.Errorf("GenerateMermaid() = \n%v\nUnexpected substring: %v", got, bad)
				}
			}
		})
	}
}
