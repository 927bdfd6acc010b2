package main

import (
	"chat-notify/contract"
	"context"
	"fmt"
	"io"
	"strings"
	"sync/atomic"
)

// lineConfirmer asks the question on out and takes the next input line as the answer.
// The input loop hands lines over through answer while a question is pending.
type lineConfirmer struct {
	out     io.Writer
	pending atomic.Bool
	answers chan string
}

func newLineConfirmer(out io.Writer) *lineConfirmer {
	return &lineConfirmer{out: out, answers: make(chan string, 1)}
}

func (c *lineConfirmer) Confirm(ctx context.Context, prompt contract.Prompt) (bool, error) {
	fmt.Fprintf(c.out, "%s: %s [%s]\n", prompt.Title, prompt.Message, strings.Join(prompt.Choices, "/"))
	c.pending.Store(true)
	defer c.pending.Store(false)

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case answer := <-c.answers:
		return isYes(prompt, answer), nil
	}
}

// answer reports whether the line was consumed as the answer of a pending question.
func (c *lineConfirmer) answer(line string) bool {
	if !c.pending.Load() {
		return false
	}
	select {
	case c.answers <- line:
		return true
	default:
		return false
	}
}

// isYes accepts the last choice or its initial, case insensitive.
func isYes(prompt contract.Prompt, answer string) bool {
	yes := "Yes"
	if n := len(prompt.Choices); n > 0 {
		yes = prompt.Choices[n-1]
	}
	answer = strings.TrimSpace(answer)
	if answer == "" || yes == "" {
		return false
	}
	return strings.EqualFold(answer, yes) || strings.EqualFold(answer, yes[:1])
}
