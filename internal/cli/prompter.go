package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"htscompass/internal/catalog"
	"htscompass/internal/common"
	"htscompass/internal/locator"
	"htscompass/internal/model"
	"htscompass/internal/session"
)

// Prompter drives an interactive classification session on a terminal.
type Prompter struct {
	reader   *bufio.Reader
	writer   io.Writer
	table    *catalog.Table
	locator  *locator.Locator
	sessions *session.Store
}

// NewPrompter creates a prompter. Nil reader/writer default to stdin/stdout.
func NewPrompter(reader io.Reader, writer io.Writer, table *catalog.Table, loc *locator.Locator, sessions *session.Store) *Prompter {
	if reader == nil {
		reader = os.Stdin
	}
	if writer == nil {
		writer = os.Stdout
	}
	return &Prompter{
		reader:   bufio.NewReader(reader),
		writer:   writer,
		table:    table,
		locator:  loc,
		sessions: sessions,
	}
}

// Run resolves the query and walks the user through questions until the
// session resolves or no further question can discriminate.
func (p *Prompter) Run(ctx context.Context, query string) error {
	set, kind, err := p.locator.Locate(ctx, query)
	if err != nil {
		if common.IsRetryable(err) {
			return common.NewUserError("The search service is unavailable right now, try again shortly", err)
		}
		return err
	}
	if len(set) == 0 {
		fmt.Fprintln(p.writer, FormatError(fmt.Sprintf("No matching entries for %q. Try different keywords.", query)))
		return nil
	}

	if kind == locator.MatchExact {
		return p.printRecord(set[0])
	}

	sess, err := p.sessions.Create(query, set)
	if err != nil {
		return err
	}
	fmt.Fprintln(p.writer, SubtleStyle.Render(fmt.Sprintf("%d candidate entries", len(sess.Candidates))))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		q, err := p.sessions.Question(sess.ID)
		if err != nil {
			return err
		}
		if q == nil {
			return p.finish(sess.ID)
		}

		label, err := p.ask(ctx, q)
		if err != nil {
			return err
		}

		updated, err := p.sessions.Answer(sess.ID, label)
		if err != nil {
			return err
		}
		if updated.Status == model.StatusResolved {
			return p.printRecord(*updated.ResolvedIndex)
		}
		fmt.Fprintln(p.writer, SubtleStyle.Render(fmt.Sprintf("%d candidates remaining", len(updated.Candidates))))
	}
}

// ask prints the question with numbered options and reads a choice, by
// number or by label.
func (p *Prompter) ask(_ context.Context, q *model.Question) (string, error) {
	fmt.Fprintln(p.writer)
	fmt.Fprintln(p.writer, FormatPrompt(q.Prompt))
	for i, opt := range q.Options {
		fmt.Fprintf(p.writer, "  [%d] %s %s\n", i+1, opt.Label,
			SubtleStyle.Render(fmt.Sprintf("(%d)", opt.ExpectedCount)))
	}

	for {
		fmt.Fprint(p.writer, "> ")
		line, err := p.reader.ReadString('\n')
		if err != nil {
			return "", fmt.Errorf("failed to read answer: %w", err)
		}
		choice := strings.TrimSpace(line)

		if n, convErr := strconv.Atoi(choice); convErr == nil && n >= 1 && n <= len(q.Options) {
			return q.Options[n-1].Label, nil
		}
		for _, opt := range q.Options {
			if strings.EqualFold(opt.Label, choice) {
				return opt.Label, nil
			}
		}
		fmt.Fprintln(p.writer, FormatError("Please pick one of the listed options."))
	}
}

// finish shows the remaining candidates when no question can split them.
func (p *Prompter) finish(sessionID string) error {
	sess, err := p.sessions.Get(sessionID)
	if err != nil {
		return err
	}
	if sess.ResolvedIndex != nil {
		return p.printRecord(*sess.ResolvedIndex)
	}

	fmt.Fprintln(p.writer, WarningStyle.Render("No further question can narrow these candidates:"))
	for _, idx := range sess.Candidates {
		rec, recErr := p.table.Record(idx)
		if recErr != nil {
			return recErr
		}
		fmt.Fprintf(p.writer, "  %s  %s\n", rec.RawCode, SubtleStyle.Render(rec.SpecPath()))
	}
	return nil
}

func (p *Prompter) printRecord(idx int) error {
	rec, err := p.table.Record(idx)
	if err != nil {
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "HTS Number:  %s\n", rec.RawCode)
	fmt.Fprintf(&b, "Description: %s\n", rec.BaseDescription)
	fmt.Fprintf(&b, "Specs:       %s\n", rec.SpecPath())
	fmt.Fprintf(&b, "Unit:        %s\n", rec.Unit)
	fmt.Fprintf(&b, "General:     %s\n", rec.GeneralRate)
	fmt.Fprintf(&b, "Special:     %s\n", rec.SpecialRate)
	fmt.Fprintf(&b, "Column 2:    %s", rec.Column2Rate)

	fmt.Fprintln(p.writer, RenderBox("Classification result", b.String()))
	fmt.Fprintln(p.writer, FormatSuccess("Resolved. Use `htscompass calculate --code "+rec.Code+"` for a landed-cost estimate."))
	return nil
}
