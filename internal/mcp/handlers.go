package mcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"vanishmail/internal/vanish"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

// Provider is the email service the tools forward to. *vanish.Client implements it.
type Provider interface {
	GetDomains(ctx context.Context) ([]string, error)
	GenerateEmail(ctx context.Context, opts vanish.GenerateOptions) (string, error)
	ListEmails(ctx context.Context, address string, opts vanish.ListOptions) (*vanish.ListResult, error)
	GetEmail(ctx context.Context, id string) (*vanish.EmailDetails, error)
	DeleteEmail(ctx context.Context, id string) (bool, error)
	DeleteMailbox(ctx context.Context, address string) (int, error)
}

// isoTimestamp matches JavaScript's Date.toISOString: UTC with milliseconds.
const isoTimestamp = "2006-01-02T15:04:05.000Z07:00"

// toolset holds what the handlers need. It carries no per-call state, so
// concurrent invocations are independent.
type toolset struct {
	provider Provider
	logger   *zap.Logger
}

// respond runs call and maps the outcome to a single text block. A failure
// becomes an IsError result reading "Error <action>: <err>"; the returned Go
// error is always nil so the failure never surfaces as a protocol fault.
func respond[T any](ctx context.Context, ts *toolset, tool, action string, call func(context.Context) (T, error), format func(T) string) (*mcp.CallToolResult, any, error) {
	value, err := call(ctx)
	if err != nil {
		ts.logger.Warn("tool call failed", zap.String("tool", tool), zap.Error(err))
		return textResult(fmt.Sprintf("Error %s: %v", action, err), true), nil, nil
	}
	return textResult(format(value), false), nil, nil
}

func textResult(text string, isError bool) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: isError,
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

func (ts *toolset) getDomains(ctx context.Context, req *mcp.CallToolRequest, args GetDomainsArgs) (*mcp.CallToolResult, any, error) {
	return respond(ctx, ts, ToolGetDomains, "fetching domains",
		ts.provider.GetDomains,
		formatDomains)
}

func (ts *toolset) generateEmail(ctx context.Context, req *mcp.CallToolRequest, args GenerateEmailArgs) (*mcp.CallToolResult, any, error) {
	return respond(ctx, ts, ToolGenerateEmail, "generating email",
		func(ctx context.Context) (string, error) {
			return ts.provider.GenerateEmail(ctx, vanish.GenerateOptions{Domain: args.Domain, Prefix: args.Prefix})
		},
		func(email string) string { return "Generated email: " + email })
}

func (ts *toolset) listEmails(ctx context.Context, req *mcp.CallToolRequest, args ListEmailsArgs) (*mcp.CallToolResult, any, error) {
	return respond(ctx, ts, ToolListEmails, "listing emails",
		func(ctx context.Context) (*vanish.ListResult, error) {
			return ts.provider.ListEmails(ctx, args.Address, vanish.ListOptions{Limit: args.Limit, Cursor: args.Cursor})
		},
		func(res *vanish.ListResult) string { return formatListing(args.Address, res) })
}

// getEmail treats a provider that returns no details and no error as a
// missing email.
func (ts *toolset) getEmail(ctx context.Context, req *mcp.CallToolRequest, args GetEmailArgs) (*mcp.CallToolResult, any, error) {
	return respond(ctx, ts, ToolGetEmail, "getting email",
		func(ctx context.Context) (*vanish.EmailDetails, error) {
			e, err := ts.provider.GetEmail(ctx, args.EmailID)
			if err == nil && e == nil {
				return nil, fmt.Errorf("email %s not found", args.EmailID)
			}
			return e, err
		},
		formatEmail)
}

// deleteEmail reports a false provider result as a normal result. Only a
// provider error sets IsError.
func (ts *toolset) deleteEmail(ctx context.Context, req *mcp.CallToolRequest, args DeleteEmailArgs) (*mcp.CallToolResult, any, error) {
	return respond(ctx, ts, ToolDeleteEmail, "deleting email",
		func(ctx context.Context) (bool, error) {
			return ts.provider.DeleteEmail(ctx, args.EmailID)
		},
		func(ok bool) string {
			if ok {
				return "Successfully deleted email " + args.EmailID
			}
			return "Failed to delete email " + args.EmailID
		})
}

func (ts *toolset) deleteMailbox(ctx context.Context, req *mcp.CallToolRequest, args DeleteMailboxArgs) (*mcp.CallToolResult, any, error) {
	return respond(ctx, ts, ToolDeleteMailbox, "deleting mailbox",
		func(ctx context.Context) (int, error) {
			return ts.provider.DeleteMailbox(ctx, args.Address)
		},
		func(n int) string {
			return fmt.Sprintf("Successfully deleted %d emails from mailbox %s", n, args.Address)
		})
}

func formatDomains(domains []string) string {
	return "Available domains: " + strings.Join(domains, ", ")
}

// formatListing renders one page. An empty page (or a nil result) is a
// notice, not an empty block list.
func formatListing(address string, res *vanish.ListResult) string {
	if res == nil || len(res.Data) == 0 {
		return "No emails found for " + address
	}

	blocks := make([]string, 0, len(res.Data))
	for _, e := range res.Data {
		blocks = append(blocks, fmt.Sprintf(
			"ID: %s\nFrom: %s\nSubject: %s\nPreview: %s\nReceived: %s\nAttachments: %s\n---",
			e.ID, e.From, e.Subject, e.TextPreview, formatTime(e.ReceivedAt), yesNo(e.HasAttachments)))
	}

	text := fmt.Sprintf("Emails for %s (Total: %d):\n\n%s", address, res.Total, strings.Join(blocks, "\n"))
	if res.NextCursor != "" {
		text += "\n\nNext cursor: " + res.NextCursor
	}
	return text
}

// formatEmail renders a full message. The attachments section appears only
// when there is at least one attachment.
func formatEmail(e *vanish.EmailDetails) string {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\nTo: %s\nSubject: %s\nReceived: %s\n\nContent:\n%s",
		e.From, strings.Join(e.To, ", "), e.Subject, formatTime(e.ReceivedAt), e.Text)

	if len(e.Attachments) > 0 {
		b.WriteString("\n\nAttachments:")
		for _, a := range e.Attachments {
			fmt.Fprintf(&b, "\n- %s (%d bytes, ID: %s)", a.Name, a.Size, a.ID)
		}
	}
	return b.String()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(isoTimestamp)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
