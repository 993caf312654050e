package vanish

import "time"

// Email is a message summary as returned by mailbox listings.
type Email struct {
	ID             string    `json:"id"`
	From           string    `json:"from"`
	To             []string  `json:"to"`
	Subject        string    `json:"subject"`
	TextPreview    string    `json:"textPreview"`
	ReceivedAt     time.Time `json:"receivedAt"`
	HasAttachments bool      `json:"hasAttachments"`
}

// EmailDetails is the full message including body and attachment metadata.
type EmailDetails struct {
	Email
	Text        string       `json:"text"`
	HTML        string       `json:"html,omitempty"`
	Attachments []Attachment `json:"attachments"`
}

// Attachment describes a file attached to a message. Content is fetched separately.
type Attachment struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Size        int64  `json:"size"` // bytes
	ContentType string `json:"contentType,omitempty"`
}

// ListResult is one page of a mailbox listing.
type ListResult struct {
	Data       []Email `json:"data"`
	Total      int     `json:"total"`
	NextCursor string  `json:"nextCursor,omitempty"`
}

// GenerateOptions constrains a new mailbox address. Empty fields are left to the provider.
type GenerateOptions struct {
	Domain string `json:"domain,omitempty"`
	Prefix string `json:"prefix,omitempty"`
}

// ListOptions controls paging. A zero Limit or empty Cursor is not sent.
type ListOptions struct {
	Limit  int
	Cursor string
}

type domainsResponse struct {
	Domains []string `json:"domains"`
}

type generateResponse struct {
	Email string `json:"email"`
}

type deleteEmailResponse struct {
	Success bool `json:"success"`
}

type deleteMailboxResponse struct {
	DeletedCount int `json:"deletedCount"`
}
