package main

import (
	"chat-notify/domain"
	"chat-notify/session"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
)

// Console prints the changes between two successive views of the session.
type Console struct {
	mu      sync.Mutex
	out     io.Writer
	colours bool
	userID  domain.UserID

	printed    map[domain.MessageID]struct{}
	state      session.State
	typing     string
	attachment string
	loadHint   bool
	last       session.View
}

func NewConsole(out io.Writer, userID domain.UserID, colours bool) *Console {
	return &Console{out: out, userID: userID, colours: colours, printed: make(map[domain.MessageID]struct{})}
}

func (c *Console) paint(style color.Style, text string) string {
	if !c.colours {
		return text
	}
	return style.Render(text)
}

// Render is the session observer. Messages are printed once, in the order they appear.
func (c *Console) Render(v session.View) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.last = v

	if v.State != c.state {
		c.state = v.State
		fmt.Fprintln(c.out, c.paint(color.New(color.FgGreen, color.OpBold), fmt.Sprintf("-- %s %s --", v.RoomID, v.State)))
	}

	for _, m := range v.Messages {
		if _, ok := c.printed[m.ID]; ok {
			continue
		}
		c.printed[m.ID] = struct{}{}
		fmt.Fprintln(c.out, c.formatMessage(m))
	}

	if v.Typing != c.typing {
		c.typing = v.Typing
		if v.Typing != "" {
			fmt.Fprintln(c.out, c.paint(color.New(color.FgGray), v.Typing+" is typing..."))
		}
	}

	attachment := ""
	if v.Attachment != nil {
		kind := v.Attachment.ContentType
		if v.Attachment.IsImage {
			kind = "image " + kind
		}
		attachment = fmt.Sprintf("%s (%s, %d bytes)", v.Attachment.FileName, kind, v.Attachment.Size)
	}
	if attachment != c.attachment {
		c.attachment = attachment
		if attachment != "" {
			fmt.Fprintln(c.out, c.paint(color.New(color.FgCyan), "attached "+attachment))
		}
	}

	if v.CanLoadEarlier != c.loadHint {
		c.loadHint = v.CanLoadEarlier
		if v.CanLoadEarlier {
			fmt.Fprintln(c.out, c.paint(color.New(color.FgGray), "/load to see earlier messages"))
		}
	}
}

func (c *Console) formatMessage(m domain.Message) string {
	var b strings.Builder
	b.WriteString(c.paint(color.New(color.FgGray), m.CreatedAt.Local().Format("15:04")))
	b.WriteString(" ")

	sender := m.Sender.Name
	if sender == "" {
		sender = string(m.Sender.ID)
	}
	style := color.New(color.FgYellow)
	if m.Sender.ID == c.userID {
		style = color.New(color.FgBlue)
	}
	b.WriteString(c.paint(style, sender))
	b.WriteString(": ")
	b.WriteString(m.Text())

	if part, ok := m.Attachment(); ok {
		label := "file"
		if m.HasImage() {
			label = "image"
		}
		fmt.Fprintf(&b, " [%s %s]", label, part.Locator)
	}
	return b.String()
}

// Users prints the roster of the last view with presence indicators.
func (c *Console) Users() {
	c.mu.Lock()
	defer c.mu.Unlock()

	table := tablewriter.NewWriter(c.out)
	table.SetHeader([]string{"", "Name", "ID"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	for _, entry := range c.last.Roster {
		presence := c.paint(color.New(color.FgGray), "○")
		if entry.Presence == domain.Online {
			presence = c.paint(color.New(color.FgGreen), "●")
		}
		table.Append([]string{presence, entry.Name, string(entry.UserID)})
	}
	table.Render()
}

func (c *Console) Println(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, text)
}

func (c *Console) Error(err error) {
	c.Println(c.paint(color.New(color.FgRed), "error: "+err.Error()))
}
