package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/Veraticus/pocket-ledger/internal/notify"
	"github.com/schollz/progressbar/v3"
)

// ErrInputTerminated is returned when input ends before an answer is given.
var ErrInputTerminated = errors.New("input terminated")

// Prompter asks questions on a terminal. It satisfies ledger.Confirmer.
type Prompter struct {
	writer    io.Writer
	reader    *NonBlockingReader
	assumeYes bool
}

// NewCLIPrompter creates a prompter reading from reader and writing to writer.
// When assumeYes is set every confirmation is approved without reading input.
func NewCLIPrompter(reader io.Reader, writer io.Writer, assumeYes bool) *Prompter {
	if reader == nil {
		reader = os.Stdin
	}
	if writer == nil {
		writer = os.Stdout
	}
	return &Prompter{
		reader:    NewNonBlockingReader(reader),
		writer:    writer,
		assumeYes: assumeYes,
	}
}

// Confirm asks a yes/no question. An empty answer means no.
func (p *Prompter) Confirm(ctx context.Context, prompt string) (bool, error) {
	if p.assumeYes {
		return true, nil
	}
	choice, err := p.Choose(ctx, prompt+" [y/N]", []string{"y", "yes", "n", "no", ""})
	if err != nil {
		return false, err
	}
	return choice == "y" || choice == "yes", nil
}

// Ask reads a free-form answer, returning def when the answer is empty.
func (p *Prompter) Ask(ctx context.Context, prompt, def string) (string, error) {
	label := prompt
	if def != "" {
		label = fmt.Sprintf("%s (%s)", prompt, def)
	}
	if _, err := fmt.Fprint(p.writer, FormatPrompt(label)); err != nil {
		return "", fmt.Errorf("failed to write prompt: %w", err)
	}
	answer, err := p.readLine(ctx)
	if err != nil {
		return "", err
	}
	if answer == "" {
		return def, nil
	}
	return answer, nil
}

// Choose repeats the prompt until the lowercased answer is one of validChoices.
func (p *Prompter) Choose(ctx context.Context, prompt string, validChoices []string) (string, error) {
	for {
		if _, err := fmt.Fprint(p.writer, FormatPrompt(prompt)); err != nil {
			return "", fmt.Errorf("failed to write prompt: %w", err)
		}

		input, err := p.readLine(ctx)
		if err != nil {
			return "", err
		}

		choice := strings.ToLower(input)
		if slices.Contains(validChoices, choice) {
			return choice, nil
		}

		if _, err := fmt.Fprintln(p.writer, FormatError("Invalid choice. Please try again.")); err != nil {
			slog.Warn("Failed to write error message", "error", err)
		}
	}
}

func (p *Prompter) readLine(ctx context.Context) (string, error) {
	line, err := p.reader.ReadLine(ctx)
	switch {
	case errors.Is(err, io.EOF):
		return "", ErrInputTerminated
	case errors.Is(err, ErrInputCancelled):
		return "", ctx.Err()
	case err != nil:
		return "", err
	}
	return line, nil
}

// Printer writes notifications as styled lines. It satisfies notify.Notifier.
type Printer struct {
	writer io.Writer
	quiet  bool
}

// NewPrinter creates a Printer. A quiet printer only shows warnings and errors.
func NewPrinter(writer io.Writer, quiet bool) *Printer {
	if writer == nil {
		writer = os.Stdout
	}
	return &Printer{writer: writer, quiet: quiet}
}

// Notify prints the message with the icon and color of its level.
func (p *Printer) Notify(message string, level notify.Level, _ time.Duration) {
	var line string
	switch level {
	case notify.LevelSuccess:
		if p.quiet {
			return
		}
		line = FormatSuccess(message)
	case notify.LevelError:
		line = FormatError(message)
	case notify.LevelWarning:
		line = FormatWarning(message)
	default:
		if p.quiet {
			return
		}
		line = FormatInfo(message)
	}
	if _, err := fmt.Fprintln(p.writer, line); err != nil {
		slog.Warn("Failed to write notification", "error", err)
	}
}

// NewProgressBar returns a bar over total units. A negative total renders a spinner.
func NewProgressBar(writer io.Writer, total int64, description string) *progressbar.ProgressBar {
	if writer == nil {
		writer = os.Stderr
	}
	return progressbar.NewOptions64(total,
		progressbar.OptionSetWriter(writer),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]"+description+"[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(writer); err != nil {
				slog.Warn("Failed to write newline after progress bar", "error", err)
			}
		}),
	)
}
