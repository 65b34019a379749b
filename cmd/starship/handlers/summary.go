package handlers

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/starship-devnet/starship/internal/manifests"
	"github.com/starship-devnet/starship/internal/util/labels"
)

var (
	colorGreen = lipgloss.Color("#22c55e")
	colorBlue  = lipgloss.Color("#3b82f6")
	colorDim   = lipgloss.Color("#6b7280")
	colorWhite = lipgloss.Color("#f9fafb")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorWhite)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorBlue)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	okStyle = lipgloss.NewStyle().
		Foreground(colorGreen)
)

// isInteractiveTTY returns true if stdout is a terminal.
func isInteractiveTTY() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

type styler func(lipgloss.Style, string) string

func plain(_ lipgloss.Style, s string) string { return s }

func styled(st lipgloss.Style, s string) string { return st.Render(s) }

// renderSummary lists what generate produced. Styling is only applied when
// writing to a terminal.
func renderSummary(network string, res *manifests.Result, paths []string, outDir string, tty bool) string {
	render := styler(plain)
	if tty {
		render = styled
	}

	var b strings.Builder
	b.WriteString(render(titleStyle, fmt.Sprintf("starship generate: %s", network)))
	b.WriteString("\n")

	if res != nil && len(res.Chains) > 0 {
		b.WriteString(render(sectionStyle, "Chains"))
		b.WriteString("\n")
		for _, cm := range res.Chains {
			fmt.Fprintf(&b, "  %s %-20s %s\n",
				render(okStyle, "✓"),
				cm.Chain.ID,
				render(dimStyle, describeChain(cm)))
		}
	}

	if res != nil && len(res.Skipped) > 0 {
		b.WriteString(render(sectionStyle, "Skipped"))
		b.WriteString("\n")
		for _, id := range res.Skipped {
			fmt.Fprintf(&b, "  - %s %s\n", id, render(dimStyle, "(not a cosmos chain)"))
		}
	}

	fmt.Fprintf(&b, "Wrote %d file(s) to %s\n", len(paths), outDir)
	if len(paths) > 0 {
		b.WriteString(render(dimStyle, fmt.Sprintf("Apply with: kubectl apply -R -f %s && kubectl get pods -l %s",
			outDir, labels.SelectorForNetwork(network))))
		b.WriteString("\n")
	}
	return b.String()
}

func describeChain(cm manifests.ChainManifests) string {
	f := manifests.FeaturesOf(cm.Chain)

	parts := []string{cm.Chain.Name, fmt.Sprintf("%d node(s)", int(f.Validators)+1)}
	if f.Faucet != manifests.FaucetNone {
		parts = append(parts, "faucet "+string(f.Faucet))
	}
	if f.ICS {
		parts = append(parts, "consumer of "+f.ICSProvider)
	}
	if f.Upgrade {
		parts = append(parts, "upgrades")
	} else if f.NeedsBuild {
		parts = append(parts, "built from source")
	}
	if f.CometMock {
		parts = append(parts, "cometmock")
	}
	return strings.Join(parts, ", ")
}
