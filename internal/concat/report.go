package concat

import (
	"fmt"
	"io"
	"strconv"

	"fcsmerge/internal/consensus"
	"fcsmerge/internal/textutil"
)

const progressEvery = 100

// reporter writes the line-oriented run report. Write errors are ignored; the
// report is a view of the run, not part of its result.
type reporter struct {
	w io.Writer
}

func newReporter(w io.Writer) reporter {
	if w == nil {
		w = io.Discard
	}
	return reporter{w: w}
}

func (r reporter) line(format string, args ...any) {
	fmt.Fprintf(r.w, format+"\n", args...)
}

func (r reporter) section(title string) {
	r.line("%s:", title)
}

func (r reporter) noFiles() { r.line("No files found.") }

func (r reporter) declined() { r.line("Concatenation declined.") }

// progress marks file n (1-based) of total: the count at the first, every
// hundredth, and the last file, a dot otherwise. The line ends after the last.
func (r reporter) progress(n, total int) {
	if n == 1 || n%progressEvery == 0 || n == total {
		io.WriteString(r.w, strconv.Itoa(n))
	} else {
		io.WriteString(r.w, ".")
	}
	if n == total {
		io.WriteString(r.w, "\n")
	}
}

func (r reporter) none(empty bool) bool {
	if empty {
		r.line("  (none)")
	}
	return empty
}

func (r reporter) mismatches(list []consensus.Mismatch) {
	r.section("Channel mismatches")
	if r.none(len(list) == 0) {
		return
	}
	for _, m := range list {
		r.line("  %q @%d = %q: %q (consensus) => %q (non-consensus)",
			m.File, m.Position, m.ShortName, m.ConsensusLabel, m.ObservedLabel)
	}
}

func (r reporter) entries(title string, list []consensus.Entry) {
	r.section(title)
	if r.none(len(list) == 0) {
		return
	}
	for _, e := range list {
		r.line("  @%d %q", e.Position, e.Label)
	}
}

func (r reporter) file(n, total int, name string) {
	r.line("%*d/%d: %q", len(strconv.Itoa(total)), n, total, name)
}

func (r reporter) counts(events, channels int) {
	r.line("%s %s in %s %s",
		textutil.FormatCount(events), textutil.Plural(events, "event", "events"),
		textutil.FormatCount(channels), textutil.Plural(channels, "channel", "channels"))
}

func (r reporter) written(name string, size int64) {
	r.line("%q", name)
	r.line("%s B on disk", textutil.FormatCount(size))
}
