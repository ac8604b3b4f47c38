package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/digit-bayes/internal/bayes"
	"github.com/Veraticus/digit-bayes/internal/pixel"
	"github.com/Veraticus/digit-bayes/internal/storage"
	"github.com/charmbracelet/lipgloss"
)

// FormatPercent renders a fraction as a percentage.
func FormatPercent(fraction float64) string {
	return fmt.Sprintf("%.2f%%", fraction*100)
}

// RenderEvaluation summarizes an evaluation with a per-digit table.
func RenderEvaluation(eval *bayes.Evaluation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Accuracy: %s (%d of %d)\n", FormatPercent(eval.Accuracy()), eval.Correct, eval.Total)
	if eval.Unlabeled > 0 {
		fmt.Fprintf(&b, "Unlabeled images: %d\n", eval.Unlabeled)
	}
	b.WriteString("\n")

	header := []string{"Digit", "Images", "Correct", "Accuracy", "Most confused with"}
	rows := make([][]string, 0, bayes.NumClasses)
	for d, result := range eval.PerClass {
		confused := "-"
		best := 0
		for p, n := range eval.Confusion[d] {
			if p != d && n > best {
				best = n
				confused = fmt.Sprintf("%d (%d)", p, n)
			}
		}

		accuracy := "-"
		if result.Total > 0 {
			accuracy = FormatPercent(result.Accuracy())
		}
		rows = append(rows, []string{
			fmt.Sprint(d),
			fmt.Sprint(result.Total),
			fmt.Sprint(result.Correct),
			accuracy,
			confused,
		})
	}

	b.WriteString(renderTable(header, rows))
	return RenderBox(ChartIcon+" Evaluation", b.String())
}

// RenderModels renders registered models as a table.
func RenderModels(records []storage.ModelRecord) string {
	if len(records) == 0 {
		return FormatInfo("No models registered yet. Train one with: digits train --name NAME")
	}

	header := []string{"Name", "Images", "Accuracy", "Created"}
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		accuracy := "-"
		if r.LatestAccuracy != nil {
			accuracy = FormatPercent(*r.LatestAccuracy)
		}
		rows = append(rows, []string{
			r.Name,
			fmt.Sprint(r.ImageCount),
			accuracy,
			r.CreatedAt.Local().Format(time.DateTime),
		})
	}
	return renderTable(header, rows)
}

// RenderImage draws img with inked pixels highlighted, framed by a border.
func RenderImage(img pixel.Image) string {
	var b strings.Builder
	for x := 0; x < pixel.Size; x++ {
		if x > 0 {
			b.WriteByte('\n')
		}
		for y := 0; y < pixel.Size; y++ {
			if img.Shade(x, y) == pixel.Filled {
				b.WriteString(InkStyle.Render(string(img.Pixel(x, y))))
			} else {
				b.WriteByte(' ')
			}
		}
	}

	title := "unlabeled"
	if img.IsLabeled() {
		title = fmt.Sprintf("label %d", img.Label())
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		SubtleStyle.Render(title),
		lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Render(b.String()),
	)
}

func renderTable(header []string, rows [][]string) string {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	renderRow := func(cells []string, style lipgloss.Style) string {
		parts := make([]string, len(cells))
		for i, cell := range cells {
			parts[i] = style.Width(widths[i] + 2).Render(cell)
		}
		return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
	}

	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, renderRow(header, TableHeaderStyle))
	for _, row := range rows {
		lines = append(lines, renderRow(row, TableCellStyle))
	}
	return strings.Join(lines, "\n")
}

// RenderHistory lists the evaluations recorded for a model, newest first, with
// the weakest digit of each run.
func RenderHistory(model *storage.ModelRecord, evaluations []storage.EvaluationRecord) string {
	title := fmt.Sprintf("%s (%d training images)", model.Name, model.ImageCount)
	if len(evaluations) == 0 {
		return TitleStyle.Render(title) + "\n" + FormatInfo("No evaluations recorded yet.")
	}

	header := []string{"Evaluated", "Images", "Correct", "Accuracy", "Weakest digit"}
	rows := make([][]string, 0, len(evaluations))
	for _, e := range evaluations {
		weakest := "-"
		worst := 2.0
		for d, class := range e.PerClass {
			if class.Total > 0 && class.Accuracy() < worst {
				worst = class.Accuracy()
				weakest = fmt.Sprintf("%d (%s)", d, FormatPercent(worst))
			}
		}
		rows = append(rows, []string{
			e.EvaluatedAt.Local().Format(time.DateTime),
			fmt.Sprint(e.Total),
			fmt.Sprint(e.Correct),
			FormatPercent(e.Accuracy),
			weakest,
		})
	}
	return TitleStyle.Render(title) + "\n" + renderTable(header, rows)
}
