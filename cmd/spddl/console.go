package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"
	"github.com/schollz/progressbar/v3"
	"github.com/spddl/spddl/internal/download"
	"github.com/spddl/spddl/internal/model"
)

var (
	colorInfo    = color.New(color.FgCyan)
	colorSuccess = color.New(color.FgGreen)
	colorWarning = color.New(color.FgYellow)
	colorError   = color.New(color.FgRed)
	colorPrompt  = color.New(color.FgBlue, color.Bold)
)

func init() {
	color.NoColor = !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// console renders progress for one run on a line-oriented terminal.
type console struct {
	out     io.Writer
	verbose bool
	tty     bool

	bar       *progressbar.ProgressBar
	barTotal  int64
	trackName string
}

func newConsole(out io.Writer, verbose bool) *console {
	tty := false
	if f, ok := out.(*os.File); ok {
		tty = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &console{out: out, verbose: verbose, tty: tty}
}

func (c *console) banner() {
	colorInfo.Fprintln(c.out, "spddl "+toolVersion)
	fmt.Fprintln(c.out, strings.Repeat("━", 40))
}

// event prints a progress event, hiding verbose ones unless asked for.
func (c *console) event(e download.ProgressEvent) {
	if e.Level == download.LevelVerbose && !c.verbose {
		return
	}
	c.finishBar()

	switch e.Level {
	case download.LevelError:
		colorError.Fprintln(c.out, "✗ "+e.Message)
	case download.LevelWarning:
		colorWarning.Fprintln(c.out, "! "+e.Message)
	case download.LevelSuccess:
		colorSuccess.Fprintln(c.out, "✓ "+e.Message)
	case download.LevelInfo:
		colorInfo.Fprintln(c.out, "• "+e.Message)
	default:
		fmt.Fprintln(c.out, "  "+e.Message)
	}
}

func (c *console) startTrack(index, total int, track model.Track) {
	c.finishBar()
	c.trackName = fmt.Sprintf("[%d/%d]", index, total)
}

// bytes drives the byte progress bar of the current fetch. The bar is only
// drawn on a terminal.
func (c *console) bytes(written, total int64) {
	if !c.tty {
		return
	}
	if c.bar == nil || total != c.barTotal {
		c.finishBar()
		c.barTotal = total
		c.bar = progressbar.NewOptions64(
			total,
			progressbar.OptionSetWriter(c.out),
			progressbar.OptionClearOnFinish(),
			progressbar.OptionSetElapsedTime(false),
			progressbar.OptionSetPredictTime(false),
			progressbar.OptionShowBytes(true),
			progressbar.OptionShowCount(),
			progressbar.OptionSetDescription(c.trackName),
		)
	}
	c.bar.Set64(written)
}

func (c *console) finishBar() {
	if c.bar == nil {
		return
	}
	c.bar.Finish()
	c.bar = nil
}

// trackTable lists the tracks of an album or playlist with their numbers.
func (c *console) trackTable(coll *model.Collection) {
	colorInfo.Fprintln(c.out, coll.Describe())

	table := tablewriter.NewWriter(c.out)
	table.SetHeader([]string{"#", "Title", "Artists", "Album"})
	table.SetAutoWrapText(false)
	table.SetRowLine(false)
	for i, t := range coll.Tracks {
		table.Append([]string{strconv.Itoa(i + 1), t.Title, t.Artists, t.Album})
	}
	table.Render()
}

func (c *console) summary(s *download.Summary) {
	c.finishBar()

	fmt.Fprintln(c.out, strings.Repeat("━", 40))
	fmt.Fprintf(c.out, "Downloaded %d, skipped %d, failed %d (%s)\n",
		s.Downloaded, s.Skipped, s.Failed, humanize.Bytes(uint64(s.Bytes)))

	for _, o := range s.Outcomes {
		if o.Kind == download.Failed {
			colorError.Fprintf(c.out, "  %s\n", o.Track.DisplayName())
		}
	}

	switch s.Status() {
	case download.StatusTotalFailure:
		colorError.Fprintln(c.out, s.Message())
	case download.StatusPartialFailure:
		colorWarning.Fprintln(c.out, s.Message())
	default:
		colorSuccess.Fprintln(c.out, s.Message())
	}
}
