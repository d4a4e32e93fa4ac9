package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/aretw0/bayesnet/internal/presentation/graph"
	"github.com/aretw0/bayesnet/internal/presentation/tui"
	"github.com/aretw0/bayesnet/pkg/domain"
	"github.com/aretw0/bayesnet/pkg/ports"
)

// Format selects how results are written.
type Format string

const (
	// FormatText renders markdown for a terminal.
	FormatText Format = "text"
	// FormatMarkdown writes the raw markdown.
	FormatMarkdown Format = "markdown"
	// FormatJSON writes indented JSON.
	FormatJSON Format = "json"
)

// ParseFormat resolves --output values.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "", "text":
		return FormatText, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unknown output format %q (want text, markdown or json)", s)
}

// AskOptions holds the textual arguments of the ask command.
type AskOptions struct {
	Network   string
	Query     string
	Evidence  string
	Algorithm string
	Samples   int
}

// ToQuery converts the flags into an engine query.
func (o AskOptions) ToQuery() (domain.Query, error) {
	evidence, err := domain.ParseAssignments(o.Evidence)
	if err != nil {
		return domain.Query{}, fmt.Errorf("--evidence: %w", err)
	}
	return domain.Query{
		Network:   o.Network,
		Query:     domain.ParseNames(o.Query),
		Evidence:  evidence,
		Algorithm: o.Algorithm,
		Samples:   o.Samples,
	}, nil
}

// RunAsk answers one query and writes the posterior.
func RunAsk(ctx context.Context, engine ports.QueryEngine, opts AskOptions, out io.Writer, format Format) error {
	q, err := opts.ToQuery()
	if err != nil {
		return err
	}
	p, err := engine.Ask(ctx, q)
	if err != nil {
		return err
	}
	return write(out, format, p, tui.PosteriorMarkdown(p))
}

// RunSample draws one event and writes it.
func RunSample(ctx context.Context, engine ports.QueryEngine, network string, out io.Writer, format Format) error {
	event, err := engine.Sample(ctx, network)
	if err != nil {
		return err
	}
	return write(out, format, event, tui.EventMarkdown(event))
}

// RunNetworks lists the registered networks, or describes one when name is set.
func RunNetworks(engine ports.QueryEngine, name string, out io.Writer, format Format) error {
	if name != "" {
		info, err := engine.Describe(name)
		if err != nil {
			return err
		}
		return write(out, format, info, tui.NetworkMarkdown(info))
	}
	infos, err := engine.Networks()
	if err != nil {
		return err
	}
	return write(out, format, infos, tui.NetworksMarkdown(infos))
}

// RunGraph writes the Mermaid diagram of a network. Query and evidence, when
// given, are highlighted.
func RunGraph(engine ports.QueryEngine, opts AskOptions, out io.Writer) error {
	info, err := engine.Describe(opts.Network)
	if err != nil {
		return err
	}
	var overlay *graph.GraphOverlay
	if opts.Query != "" || opts.Evidence != "" {
		q, err := opts.ToQuery()
		if err != nil {
			return err
		}
		overlay = &graph.GraphOverlay{Query: q.Query, Evidence: q.Evidence}
	}
	_, err = io.WriteString(out, graph.GenerateMermaid(info, overlay))
	return err
}

func write(out io.Writer, format Format, v any, markdown string) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatMarkdown:
		_, err := io.WriteString(out, markdown)
		return err
	}
	render, err := tui.NewRenderer()
	if err != nil {
		return err
	}
	rendered, err := render(markdown)
	if err != nil {
		return err
	}
	_, err = io.WriteString(out, rendered)
	return err
}
