package cli

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/pterm/pterm"
	"golang.org/x/term"

	"github.com/custodia-labs/readme-agent/internal/core/domain"
)

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// progressPrinter renders pipeline stages. On a terminal each stage gets a
// spinner that is marked done when the next one starts; elsewhere stages are
// printed as plain lines.
type progressPrinter struct {
	mu      sync.Mutex
	out     io.Writer
	fancy   bool
	spinner *pterm.SpinnerPrinter
	stage   domain.ProgressStage
}

func newProgressPrinter(out io.Writer) *progressPrinter {
	return &progressPrinter{out: out, fancy: isTerminal(out)}
}

// Func returns the progress callback passed to the README service.
func (p *progressPrinter) Func() domain.ProgressFunc {
	return p.handle
}

func (p *progressPrinter) handle(ev domain.ProgressEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch ev.Stage {
	case domain.StageDone:
		p.finish(true, ev.Message)
		return
	case domain.StageFailed:
		p.finish(false, ev.Message)
		return
	}

	if !p.fancy {
		if ev.Total > 0 {
			fmt.Fprintf(p.out, "[%s] %s (%d/%d)\n", ev.Stage, ev.Message, ev.Done, ev.Total)
		} else {
			fmt.Fprintf(p.out, "[%s] %s\n", ev.Stage, ev.Message)
		}
		return
	}

	if p.spinner != nil && ev.Stage == p.stage {
		p.spinner.UpdateText(ev.Message)
		return
	}
	if p.spinner != nil {
		p.spinner.Success()
	}
	p.stage = ev.Stage
	spinner, err := pterm.DefaultSpinner.
		WithWriter(p.out).
		WithStyle(pterm.NewStyle(pterm.FgCyan)).
		WithSequence("⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏").
		WithDelay(100).
		Start(ev.Message)
	if err != nil {
		p.spinner = nil
		fmt.Fprintln(p.out, ev.Message)
		return
	}
	p.spinner = spinner
}

// finish closes the running spinner.
func (p *progressPrinter) finish(ok bool, message string) {
	if !p.fancy {
		if !ok {
			fmt.Fprintf(p.out, "[failed] %s\n", message)
		}
		return
	}
	if p.spinner == nil {
		return
	}
	if ok {
		p.spinner.Success()
	} else {
		p.spinner.Fail(message)
	}
	p.spinner = nil
}

// Stop stops a spinner left running by an interrupted pipeline.
func (p *progressPrinter) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.spinner != nil {
		_ = p.spinner.Stop()
		p.spinner = nil
	}
}
