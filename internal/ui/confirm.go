package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"
)

// Options controls how confirmations are answered
type Options struct {
	// AutoApprove answers every prompt with the default without asking
	AutoApprove bool
	// DefaultDeny makes empty, invalid and timed out answers a "no"
	DefaultDeny bool
	Timeout     time.Duration
}

// ConfirmationResult represents the result of a confirmation prompt
type ConfirmationResult struct {
	Approved bool
	TimedOut bool
	Error    error
}

// Confirmer asks yes/no questions on a terminal
type Confirmer struct {
	in      io.Reader
	out     io.Writer
	options Options
}

// NewConfirmer creates a confirmer reading answers from in and writing prompts to out
func NewConfirmer(in io.Reader, out io.Writer, options Options) *Confirmer {
	return &Confirmer{
		in:      in,
		out:     out,
		options: options,
	}
}

// Confirm prompts the user for confirmation with the given message
func (c *Confirmer) Confirm(ctx context.Context, message string) *ConfirmationResult {
	if c.options.AutoApprove {
		return &ConfirmationResult{Approved: !c.options.DefaultDeny}
	}
	return c.promptUser(ctx, message)
}

// ConfirmOverwrite asks before replacing an existing file
func (c *Confirmer) ConfirmOverwrite(ctx context.Context, path string) *ConfirmationResult {
	return c.Confirm(ctx, fmt.Sprintf("File '%s' already exists. Overwrite?", path))
}

func (c *Confirmer) promptUser(ctx context.Context, message string) *ConfirmationResult {
	var promptCtx context.Context
	var cancel context.CancelFunc

	if c.options.Timeout > 0 {
		promptCtx, cancel = context.WithTimeout(ctx, c.options.Timeout)
	} else {
		promptCtx, cancel = context.WithCancel(ctx)
	}
	defer cancel()

	defaultHint := "[Y/n]"
	if c.options.DefaultDeny {
		defaultHint = "[y/N]"
	}
	fmt.Fprintf(c.out, "%s %s ", message, defaultHint)

	responseChan := make(chan string, 1)
	errorChan := make(chan error, 1)

	go func() {
		response, err := bufio.NewReader(c.in).ReadString('\n')
		if err != nil && (err != io.EOF || response == "") {
			errorChan <- fmt.Errorf("failed to read user input: %w", err)
			return
		}
		responseChan <- response
	}()

	select {
	case <-promptCtx.Done():
		fmt.Fprintln(c.out, "\nTimeout - using default response")
		return &ConfirmationResult{
			Approved: !c.options.DefaultDeny,
			TimedOut: true,
		}

	case err := <-errorChan:
		return &ConfirmationResult{Error: err}

	case response := <-responseChan:
		return &ConfirmationResult{Approved: c.parseResponse(response)}
	}
}

// parseResponse maps an answer to approval; empty or unknown answers use the default
func (c *Confirmer) parseResponse(response string) bool {
	response = strings.ToLower(strings.TrimSpace(response))

	if response == "" {
		return !c.options.DefaultDeny
	}

	switch response {
	case "y", "yes", "true", "1":
		return true
	case "n", "no", "false", "0":
		return false
	default:
		fmt.Fprintf(c.out, "Invalid response '%s', using default\n", response)
		return !c.options.DefaultDeny
	}
}
