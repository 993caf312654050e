package mcp

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Tool names as constants for consistent reference.
const (
	ToolGetDomains    = "get-domains"
	ToolGenerateEmail = "generate-email"
	ToolListEmails    = "list-emails"
	ToolGetEmail      = "get-email"
	ToolDeleteEmail   = "delete-email"
	ToolDeleteMailbox = "delete-mailbox"
)

// GetDomainsArgs represents the input parameters for the get-domains tool.
// It has no parameters.
type GetDomainsArgs struct{}

// GenerateEmailArgs represents the input parameters for the generate-email tool.
type GenerateEmailArgs struct {
	Domain string `json:"domain,omitempty" jsonschema:"Optional domain to use"`
	Prefix string `json:"prefix,omitempty" jsonschema:"Optional prefix for the email address"`
}

// ListEmailsArgs represents the input parameters for the list-emails tool.
type ListEmailsArgs struct {
	Address string `json:"address" jsonschema:"The email address to check"`
	Limit   int    `json:"limit,omitempty" jsonschema:"Maximum number of emails to return"`
	Cursor  string `json:"cursor,omitempty" jsonschema:"Pagination cursor"`
}

// GetEmailArgs represents the input parameters for the get-email tool.
type GetEmailArgs struct {
	EmailID string `json:"emailId" jsonschema:"The ID of the email to retrieve"`
}

// DeleteEmailArgs represents the input parameters for the delete-email tool.
type DeleteEmailArgs struct {
	EmailID string `json:"emailId" jsonschema:"The ID of the email to delete"`
}

// DeleteMailboxArgs represents the input parameters for the delete-mailbox tool.
type DeleteMailboxArgs struct {
	Address string `json:"address" jsonschema:"The email address of the mailbox to clear"`
}

func boolPtr(b bool) *bool { return &b }

// registerTools registers all Vanish tools on server. Input schemas are
// inferred from the Args structs; fields without omitempty are required.
func registerTools(server *mcp.Server, ts *toolset) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolGetDomains,
		Title:       "Get Domains",
		Description: "Get list of available email domains",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, ts.getDomains)

	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolGenerateEmail,
		Title:       "Generate Email",
		Description: "Generate a unique temporary email address",
	}, ts.generateEmail)

	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolListEmails,
		Title:       "List Emails",
		Description: "List emails for a mailbox address",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, ts.listEmails)

	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolGetEmail,
		Title:       "Get Email Details",
		Description: "Get full details of a specific email",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, ts.getEmail)

	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolDeleteEmail,
		Title:       "Delete Email",
		Description: "Delete a specific email",
		Annotations: &mcp.ToolAnnotations{DestructiveHint: boolPtr(true)},
	}, ts.deleteEmail)

	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolDeleteMailbox,
		Title:       "Delete Mailbox",
		Description: "Delete all emails in a mailbox",
		Annotations: &mcp.ToolAnnotations{DestructiveHint: boolPtr(true)},
	}, ts.deleteMailbox)
}
