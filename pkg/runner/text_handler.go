package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/aretw0/abacus/pkg/domain"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// TextHandler implements the console interface.
type TextHandler struct {
	Reader  *bufio.Reader
	Writer  io.Writer
	Profile termenv.Profile
	Prompt  string

	inputChan chan inputResult
	startOnce sync.Once
}

type inputResult struct {
	text string
	err  error
}

// TextHandlerOption defines configuration for TextHandler.
type TextHandlerOption func(*TextHandler)

// WithTextHandlerProfile forces a colour profile. termenv.Ascii disables colour.
func WithTextHandlerProfile(p termenv.Profile) TextHandlerOption {
	return func(h *TextHandler) {
		h.Profile = p
	}
}

// WithTextHandlerPrompt replaces the "> " prompt.
func WithTextHandlerPrompt(prompt string) TextHandlerOption {
	return func(h *TextHandler) {
		h.Prompt = prompt
	}
}

// NewTextHandler creates a handler for standard text IO.
// Colour is enabled only when w is a terminal.
func NewTextHandler(r io.Reader, w io.Writer, opts ...TextHandlerOption) *TextHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	h := &TextHandler{
		Reader:  bufio.NewReader(r),
		Writer:  w,
		Profile: termenv.Ascii,
		Prompt:  "> ",
	}
	if IsTerminal(w) {
		h.Profile = termenv.ColorProfile()
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (h *TextHandler) initPump() {
	h.startOnce.Do(func() {
		h.inputChan = make(chan inputResult)
		go h.pump()
	})
}

// pump reads lines in the background so Input can honour ctx.
func (h *TextHandler) pump() {
	defer close(h.inputChan)
	for {
		text, err := h.Reader.ReadString('\n')
		if text != "" {
			h.inputChan <- inputResult{text: text}
		}
		if err != nil {
			if err != io.EOF {
				h.inputChan <- inputResult{err: err}
			}
			return
		}
	}
}

func (h *TextHandler) Output(ctx context.Context, state *domain.State) error {
	eq := state.Equation
	if eq == "" {
		eq = " "
	}
	result := h.Profile.String("= " + state.Result).Bold()
	if state.ErrorFlag() {
		result = result.Foreground(h.Profile.Color("#f87171"))
	} else {
		result = result.Foreground(h.Profile.Color("#4ade80"))
	}
	mode := h.Profile.String(state.AngleMode.String()).Faint()

	_, err := fmt.Fprintf(h.Writer, "  %s\n%s  %s\n",
		h.Profile.String(eq).Foreground(h.Profile.Color("#e5e7eb")),
		result,
		mode,
	)
	return err
}

func (h *TextHandler) Input(ctx context.Context) (string, error) {
	h.initPump()
	fmt.Fprint(h.Writer, h.Prompt)

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res, ok := <-h.inputChan:
		if !ok {
			return "", io.EOF
		}
		if res.err != nil {
			return "", res.err
		}
		return strings.TrimSpace(res.text), nil
	}
}

func (h *TextHandler) SystemOutput(ctx context.Context, msg string) error {
	_, err := fmt.Fprintln(h.Writer, h.Profile.String(msg).Foreground(h.Profile.Color("#fbbf24")))
	return err
}
