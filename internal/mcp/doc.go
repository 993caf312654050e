// Package mcp exposes the Vanish temporary email API to AI agents as an
// MCP (Model Context Protocol) server over STDIO transport.
//
// The server registers six tools, each forwarding to one provider call:
//
//   - get-domains: List the domains mailboxes can be created on
//   - generate-email: Create a mailbox address, optionally on a domain or with a prefix
//   - list-emails: List a page of messages for a mailbox
//   - get-email: Show one message in full, including attachment metadata
//   - delete-email: Delete one message
//   - delete-mailbox: Delete every message in a mailbox
//
// Provider failures never fail the protocol call. They come back as a text
// result with IsError set, so the agent can tell "the operation reported
// failure" apart from "the operation could not run".
//
// Usage:
//
//	vanish-mcp
package mcp
