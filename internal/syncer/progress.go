package syncer

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/smy-101/skillmarket/internal/output"
	"github.com/smy-101/skillmarket/internal/types"
)

// Progress prints user-facing run output.
type Progress struct {
	out io.Writer
}

// NewProgress creates a Progress writing to out.
func NewProgress(out io.Writer) *Progress {
	return &Progress{out: out}
}

// Step announces a pipeline stage.
func (p *Progress) Step(format string, args ...interface{}) {
	color.New(color.FgCyan, color.Bold).Fprintf(p.out, "==> "+format+"\n", args...)
}

// Skill reports one discovered skill with its tags.
func (p *Progress) Skill(skill types.Skill) {
	color.New(color.FgGreen).Fprint(p.out, "  ✓ ")
	fmt.Fprint(p.out, skill.Name)
	if len(skill.Tags) > 0 {
		color.New(color.Faint).Fprintf(p.out, " [%s]", strings.Join(skill.Tags, ", "))
	}
	fmt.Fprintln(p.out)
}

// Warning prints a highlighted warning.
func (p *Progress) Warning(format string, args ...interface{}) {
	color.New(color.FgYellow, color.Bold).Fprintf(p.out, "⚠ "+format+"\n", args...)
}

// Success prints the completion message.
func (p *Progress) Success(format string, args ...interface{}) {
	color.New(color.FgGreen, color.Bold).Fprintf(p.out, "✓ "+format+"\n", args...)
}

// Summary renders a table of the packaged skills.
func (p *Progress) Summary(report *Report) error {
	table := output.NewTable(p.out)
	table.Header("Skill", "Version", "Files", "Archive", "Tags")

	for _, skill := range report.Skills {
		size := "-"
		if archive, ok := report.Archive(skill.ID); ok {
			size = humanize.Bytes(uint64(archive.Size))
		}
		table.Append(skill.Name, skill.Version, fmt.Sprint(len(skill.Files)), size, strings.Join(skill.Tags, ", "))
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	fmt.Fprintf(p.out, "\nTotal: %d skills, %d tags, %s of archives\n",
		len(report.Skills), report.TagCount, humanize.Bytes(uint64(report.ArchiveBytes())))
	return nil
}
