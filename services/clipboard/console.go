package clipboardsvc

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/gpacalc/core/share"
)

// ConsoleSink "copies" text by printing it, for terminals and hosts without a clipboard.
type ConsoleSink struct {
	w io.Writer

	mu     sync.Mutex
	copied []string
}

var _ share.ClipboardSink = (*ConsoleSink)(nil)

func NewConsoleSink(w io.Writer) *ConsoleSink {
	return &ConsoleSink{w: w}
}

func (sink *ConsoleSink) Write(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body := &strings.Builder{}
	_, _ = fmt.Fprintln(body, strings.Repeat("-", 40))
	_, _ = fmt.Fprintln(body, text)
	_, _ = fmt.Fprintln(body, strings.Repeat("-", 40))
	if _, err := io.WriteString(sink.w, body.String()); err != nil {
		return errors.Wrap(err, "printing clipboard text")
	}

	sink.mu.Lock()
	sink.copied = append(sink.copied, text)
	sink.mu.Unlock()
	return nil
}

// Copied returns everything written so far, oldest first.
func (sink *ConsoleSink) Copied() []string {
	sink.mu.Lock()
	defer sink.mu.Unlock()
	return append([]string(nil), sink.copied...)
}
