// Package visualization renders the signal cycle as Graphviz DOT and
// simulation frames as character grids.
package visualization

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/anggasct/crossroads/pkg/signal"
)

// DOTGenerator generates Graphviz DOT representations of the phase cycle
type DOTGenerator struct {
	timings signal.Timings
	initial signal.Phase
	options DOTOptions
}

// DOTOptions configures the DOT generation
type DOTOptions struct {
	ShowDurations bool
	ShowLamps     bool
	RankDirection string // "TB", "LR", "BT", "RL"
	NodeShape     string
}

// DefaultDOTOptions returns sensible default options for DOT generation
func DefaultDOTOptions() DOTOptions {
	return DOTOptions{
		ShowDurations: true,
		ShowLamps:     true,
		RankDirection: "LR",
		NodeShape:     "box",
	}
}

// NewDOTGenerator creates a generator for a cycle with the given timings,
// starting in RedHorizontal
func NewDOTGenerator(timings signal.Timings, options ...DOTOptions) *DOTGenerator {
	opts := DefaultDOTOptions()
	if len(options) > 0 {
		opts = options[0]
	}

	return &DOTGenerator{
		timings: timings,
		initial: signal.RedHorizontal,
		options: opts,
	}
}

// Generate creates a DOT representation of the cycle
func (g *DOTGenerator) Generate() (string, error) {
	if err := g.timings.Validate(); err != nil {
		return "", fmt.Errorf("failed to generate cycle: %w", err)
	}

	var dot strings.Builder

	dot.WriteString("digraph SignalCycle {\n")
	dot.WriteString(fmt.Sprintf("  rankdir=%s;\n", g.options.RankDirection))
	dot.WriteString(fmt.Sprintf("  node [shape=%s];\n", g.options.NodeShape))
	dot.WriteString("  edge [fontsize=10];\n\n")

	dot.WriteString("  // Phases\n")
	for _, phase := range signal.Phases {
		g.generatePhaseNode(&dot, phase)
	}

	dot.WriteString("\n  // Transitions\n")
	for _, phase := range signal.Phases {
		label := ""
		if g.options.ShowDurations {
			label = fmt.Sprintf(" [label=\"after %s\"]", g.timings.Duration(phase))
		}
		dot.WriteString(fmt.Sprintf("  \"%s\" -> \"%s\"%s;\n", phase, phase.Next(), label))
	}

	dot.WriteString("}\n")

	return dot.String(), nil
}

func (g *DOTGenerator) generatePhaseNode(dot *strings.Builder, phase signal.Phase) {
	label := phase.String()
	if g.options.ShowLamps {
		lamps := phase.Lamps()
		label += fmt.Sprintf("\\nH %s / V %s", lamps.Horizontal, lamps.Vertical)
	}
	if g.options.ShowDurations {
		label += fmt.Sprintf("\\n%s", g.timings.Duration(phase))
	}
	if phase == g.initial {
		label += "\\n(initial)"
	}

	dot.WriteString(fmt.Sprintf("  \"%s\" [style=\"filled\" fillcolor=%s label=\"%s\"];\n",
		phase, fillColor(phase.Lamps().Horizontal), label))
}

func fillColor(c signal.Color) string {
	switch c {
	case signal.Green:
		return "palegreen"
	case signal.Orange:
		return "orange"
	default:
		return "lightcoral"
	}
}

// GenerateToFile writes the DOT representation to a file
func (g *DOTGenerator) GenerateToFile(filename string) error {
	content, err := g.Generate()
	if err != nil {
		return err
	}

	return os.WriteFile(filename, []byte(content), 0644)
}

// GenerateSVG converts the DOT output to SVG with the Graphviz dot command
func (g *DOTGenerator) GenerateSVG() (string, error) {
	dotContent, err := g.Generate()
	if err != nil {
		return "", err
	}

	cmd := exec.Command("dot", "-Tsvg")
	cmd.Stdin = strings.NewReader(dotContent)

	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("failed to execute dot command: %w (make sure Graphviz is installed)", err)
	}

	return out.String(), nil
}
