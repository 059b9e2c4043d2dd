package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
)

const tick = 100 * time.Millisecond

// Step is a spinner for one pipeline stage. It only animates when the
// output is a terminal; otherwise just the outcome line is printed.
type Step struct {
	out  io.Writer
	bar  *progressbar.ProgressBar
	stop chan struct{}
	wg   sync.WaitGroup
	once sync.Once
}

// Start begins a step on stderr.
func Start(text string) *Step {
	return StartOn(os.Stderr, text, isTerminal(os.Stderr))
}

// StartOn begins a step on out; animate controls the spinner.
func StartOn(out io.Writer, text string, animate bool) *Step {
	s := &Step{out: out, stop: make(chan struct{})}
	if !animate {
		return s
	}

	s.bar = progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(out),
		progressbar.OptionSetDescription(text),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(tick)
		defer ticker.Stop()
		for {
			select {
			case <-s.stop:
				return
			case <-ticker.C:
				_ = s.bar.Add(1)
			}
		}
	}()
	return s
}

func (s *Step) Succeed(msg string) { s.finish("✔", msg) }

func (s *Step) Fail(msg string) { s.finish("✖", msg) }

func (s *Step) Warn(msg string) { s.finish("⚠", msg) }

func (s *Step) finish(symbol, msg string) {
	s.once.Do(func() {
		close(s.stop)
		s.wg.Wait()
		if s.bar != nil {
			_ = s.bar.Finish()
		}
		fmt.Fprintf(s.out, "%s %s\n", symbol, msg)
	})
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
