package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/bastiangx/wordstat/internal/utils"
	"github.com/bastiangx/wordstat/pkg/bookshelf"
	"github.com/bastiangx/wordstat/pkg/config"
	"github.com/bastiangx/wordstat/pkg/words"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

// pathWidth bounds the book column so long paths do not wrap the table.
const pathWidth = 60

var tableStyles = map[string]table.Style{
	"default": table.StyleDefault,
	"rounded": table.StyleRounded,
	"light":   table.StyleLight,
	"bold":    table.StyleBold,
	"double":  table.StyleDouble,
}

var (
	wordStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
	markerStyle = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#b4637a", Dark: "#eb6f92"})
	titleStyle = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
)

// Renderer prints collection data as tables.
type Renderer struct {
	out   io.Writer
	style table.Style
	color bool
}

// NewRenderer creates a renderer writing to out. Colors are used only when the
// config allows them, noColor is false and out is a terminal.
func NewRenderer(out io.Writer, display config.DisplayConfig, noColor bool) *Renderer {
	style, ok := tableStyles[display.TableStyle]
	if !ok {
		log.Warnf("Unknown table style %q, using rounded", display.TableStyle)
		style = table.StyleRounded
	}
	return &Renderer{
		out:   out,
		style: style,
		color: display.Color && !noColor && isTerminal(out),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func (r *Renderer) paint(style lipgloss.Style, s string) string {
	if !r.color {
		return s
	}
	return style.Render(s)
}

// Println writes a plain line.
func (r *Renderer) Println(a ...any) {
	fmt.Fprintln(r.out, a...)
}

// Printf writes a formatted line.
func (r *Renderer) Printf(format string, a ...any) {
	fmt.Fprintf(r.out, format+"\n", a...)
}

// Title writes a highlighted heading.
func (r *Renderer) Title(s string) {
	fmt.Fprintln(r.out, r.paint(titleStyle, s))
}

// Books renders the collection, marking the reference book.
func (r *Renderer) Books(entries []bookshelf.Entry) {
	if len(entries) == 0 {
		r.Println("No books in the list.")
		return
	}
	rows := make([][]string, len(entries))
	for i, e := range entries {
		marker := ""
		if e.Reference {
			marker = r.paint(markerStyle, "*")
		}
		rows[i] = []string{
			strconv.Itoa(e.Position),
			utils.Truncate(e.Book.Source(), pathWidth),
			e.Book.State().String(),
			marker,
		}
	}
	r.table([]string{"#", "Book", "State", "Ref"}, rows, []columnAlignment{alignRight, alignLeft, alignLeft, alignLeft})
}

// Count renders the distinct and total word counts of a book.
func (r *Renderer) Count(source string, distinct, total int) {
	r.table(
		[]string{"Book", "Distinct words", "Occurrences"},
		[][]string{{utils.Truncate(source, pathWidth), utils.FormatWithCommas(distinct), utils.FormatWithCommas(total)}},
		[]columnAlignment{alignLeft, alignRight, alignRight},
	)
}

// Words renders a ranked word list.
func (r *Renderer) Words(ws []words.Word) {
	if len(ws) == 0 {
		r.Println("No words.")
		return
	}
	ranks := utils.CreateRankList(len(ws))
	rows := make([][]string, len(ws))
	for i, w := range ws {
		rows[i] = []string{
			strconv.Itoa(ranks[i]),
			r.paint(wordStyle, w.Text),
			utils.FormatWithCommas(w.Count),
		}
	}
	r.table([]string{"Rank", "Word", "Occurrences"}, rows, []columnAlignment{alignRight, alignLeft, alignRight})
}

// Overlaps renders the share of reference words found in each other book.
func (r *Renderer) Overlaps(overlaps []bookshelf.Overlap) {
	if len(overlaps) == 0 {
		r.Println("No other book to compare with.")
		return
	}
	rows := make([][]string, len(overlaps))
	for i, o := range overlaps {
		rows[i] = []string{
			utils.Truncate(o.Book.Source(), pathWidth),
			fmt.Sprintf("%s / %s", utils.FormatWithCommas(o.Matching), utils.FormatWithCommas(o.Total)),
			o.Percent,
		}
	}
	r.table([]string{"Book", "Common words", "Percentage"}, rows, []columnAlignment{alignLeft, alignRight, alignRight})
}

func (r *Renderer) table(headers []string, rows [][]string, aligns []columnAlignment) {
	columns := len(headers)
	if columns == 0 {
		return
	}

	tw := table.NewWriter()
	tw.SetStyle(r.style)

	header := make(table.Row, columns)
	for i := range headers {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		tr := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				tr[i] = row[i]
			} else {
				tr[i] = ""
			}
		}
		tw.AppendRow(tr)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	fmt.Fprintln(r.out, tw.Render())
}
