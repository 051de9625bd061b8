package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/LgxJGOOD/PDB-GO-DualPredictor/pkg/compare"
	"github.com/LgxJGOOD/PDB-GO-DualPredictor/pkg/ontology"
	"github.com/LgxJGOOD/PDB-GO-DualPredictor/pkg/store"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF00FF"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FFFF"))

	statsBoxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FF00")).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	pairStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFF00"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// maxListed caps the terms printed per list in the text report.
const maxListed = 20

// Render writes a human-readable summary of result.
func Render(w io.Writer, result *compare.Result) error {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("GO comparison: %s vs %s", result.SourceA, result.SourceB)))
	b.WriteString("\n")
	if result.OntologyVersion != "" {
		b.WriteString(mutedStyle.Render("ontology " + result.OntologyVersion))
		b.WriteString("\n")
	}

	stats := []string{
		stat(result.SourceA+" terms", fmt.Sprint(result.CountA)),
		stat(result.SourceB+" terms", fmt.Sprint(result.CountB)),
		stat("common", fmt.Sprint(result.CommonCount)),
		stat("high confidence", fmt.Sprint(result.HighConfidenceCount)),
		stat("jaccard", fmt.Sprintf("%.4f", result.Jaccard)),
		stat("semantic pairs", fmt.Sprintf("%d (threshold %.2f, %s)", result.SemanticPairsCount, result.Threshold, result.Scorer)),
		stat("avg similarity", fmt.Sprintf("%.4f over %d candidates", result.SemanticAvgSim, result.SemanticCandidates)),
	}
	b.WriteString(statsBoxStyle.Render(strings.Join(stats, "\n")))
	b.WriteString("\n")

	section(&b, "Common", result.Common)
	section(&b, "Only "+result.SourceA, result.OnlyA)
	section(&b, "Only "+result.SourceB, result.OnlyB)

	if len(result.SemanticPairs) > 0 {
		b.WriteString(headerStyle.Render("Semantic pairs"))
		b.WriteString("\n")
		for i, p := range result.SemanticPairs {
			if i == maxListed {
				b.WriteString(mutedStyle.Render(fmt.Sprintf("  ... %d more", len(result.SemanticPairs)-maxListed)))
				b.WriteString("\n")
				break
			}
			b.WriteString(pairStyle.Render(fmt.Sprintf("  %s ~ %s", p.TermA, p.TermB)))
			b.WriteString(fmt.Sprintf("  distance %d  score %.4f\n", p.Distance, p.Score))
		}
	}

	if len(result.SkippedTerms) > 0 {
		section(&b, "Not in ontology", result.SkippedTerms)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func stat(label, value string) string {
	return labelStyle.Render(fmt.Sprintf("%-16s", label)) + " " + value
}

func section(b *strings.Builder, title string, terms []ontology.TermID) {
	b.WriteString(headerStyle.Render(fmt.Sprintf("%s (%d)", title, len(terms))))
	b.WriteString("\n")
	if len(terms) == 0 {
		b.WriteString(mutedStyle.Render("  none"))
		b.WriteString("\n")
		return
	}
	shown := terms
	if len(shown) > maxListed {
		shown = shown[:maxListed]
	}
	for _, t := range shown {
		b.WriteString("  " + string(t) + "\n")
	}
	if len(terms) > maxListed {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("  ... %d more", len(terms)-maxListed)))
		b.WriteString("\n")
	}
}

// RenderHistory writes one line per stored run.
func RenderHistory(w io.Writer, runs []store.Summary) error {
	if len(runs) == 0 {
		_, err := io.WriteString(w, mutedStyle.Render("no runs recorded")+"\n")
		return err
	}
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%-36s  %-20s  %-8s  %-8s  %s", "ID", "CREATED", "JACCARD", "SEM_AVG", "SOURCES")))
	b.WriteString("\n")
	for _, r := range runs {
		sources := r.SourceA + "/" + r.SourceB
		if r.PDBPath != "" {
			sources += "  " + mutedStyle.Render(r.PDBPath)
		}
		fmt.Fprintf(&b, "%-36s  %-20s  %-8.4f  %-8.4f  %s\n",
			r.ID, r.CreatedAt.Format("2006-01-02 15:04:05"), r.Jaccard, r.SemanticAvgSim, sources)
	}
	_, err := io.WriteString(w, b.String())
	return err
}
