// Package share builds links for sending converted tables elsewhere.
package share

import (
	"fmt"
	"html"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// DefaultSubject is the email subject used by EmailURL when none is given.
const DefaultSubject = "Shared Table Data"

// Message wraps converted output in the text sent by email or chat.
func Message(output string) string {
	return "Check out this table data:\n\n" + output
}

// EmailURL returns a mailto: link with the given subject and body.
func EmailURL(subject, body string) string {
	if subject == "" {
		subject = DefaultSubject
	}
	return "mailto:?subject=" + escape(subject) + "&body=" + escape(body)
}

// WhatsAppURL returns a wa.me link that opens a chat prefilled with text.
func WhatsAppURL(text string) string {
	return "https://wa.me/?text=" + escape(text)
}

// NewID returns a fresh share id.
func NewID() string {
	return uuid.NewString()
}

// Link returns the public address of a shared table.
func Link(base, id string) string {
	return strings.TrimRight(base, "/") + "/shared/" + url.PathEscape(id)
}

// Embed returns an iframe snippet that shows a shared table.
func Embed(base, id string) string {
	src := strings.TrimRight(base, "/") + "/embed/" + url.PathEscape(id)
	return fmt.Sprintf(`<iframe src="%s" width="100%%" height="400" frameborder="0"></iframe>`, html.EscapeString(src))
}

// escape percent-encodes s for a URL component, spaces as %20.
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
