package dto

// InboundEmailWebhook is the payload posted by the inbound-email transport
// (Postmark-compatible). Attachment content is not inlined; the transport has
// already uploaded each blob and sends only its pointer.
type InboundEmailWebhook struct {
	From     string `json:"From"`
	FromFull struct {
		Email string `json:"Email"`
		Name  string `json:"Name"`
	} `json:"FromFull"`
	To     string `json:"To"`
	ToFull []struct {
		Email       string `json:"Email"`
		Name        string `json:"Name"`
		MailboxHash string `json:"MailboxHash"`
	} `json:"ToFull"`
	Subject     string              `json:"Subject"`
	MessageID   string              `json:"MessageID"`
	Date        string              `json:"Date"`
	TextBody    string              `json:"TextBody"`
	HtmlBody    string              `json:"HtmlBody"`
	Attachments []WebhookAttachment `json:"Attachments"`
}

type WebhookAttachment struct {
	Name        string `json:"Name"`
	ContentType string `json:"ContentType"`
	Bucket      string `json:"Bucket"`
	Path        string `json:"Path"`
}

// InboundEmail is the normalized form handed to the ingestion pipeline.
type InboundEmail struct {
	MessageKey   string
	FromAddress  string
	FromName     string
	MailboxAlias string
	Subject      string
	TextBody     string
	HTMLBody     string
	Attachments  []AttachmentPointer
}

// AttachmentPointer references an attachment blob already present in storage.
type AttachmentPointer struct {
	Filename    string
	ContentType string
	Bucket      string
	Path        string
}
