package gmail

import (
	"encoding/base64"
	"mime"
	"strings"

	"github.com/mikey/inbox-labeler/internal/core"
	gmail "google.golang.org/api/gmail/v1"
)

func header(headers []*gmail.MessagePartHeader, name string) string {
	for _, h := range headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value
		}
	}
	return ""
}

func toMessage(msg *gmail.Message) *core.Message {
	out := &core.Message{
		ID:       msg.Id,
		ThreadID: msg.ThreadId,
	}
	if msg.Payload == nil {
		return out
	}

	out.From = header(msg.Payload.Headers, "From")
	out.Subject = header(msg.Payload.Headers, "Subject")
	out.Date = header(msg.Payload.Headers, "Date")
	out.Payload = toPart(msg.Payload)
	return out
}

func toPart(p *gmail.MessagePart) *core.MessagePart {
	part := &core.MessagePart{
		MimeType: p.MimeType,
		Filename: p.Filename,
		Headers:  make(map[string]string, len(p.Headers)),
	}
	for _, h := range p.Headers {
		part.Headers[h.Name] = h.Value
	}
	if p.Body != nil && p.Body.Data != "" {
		part.Data = decodeBody(p.Body.Data)
	}
	for _, child := range p.Parts {
		part.Parts = append(part.Parts, toPart(child))
	}
	return part
}

// decodeBody decodes Gmail's base64url body data, padded or not
func decodeBody(data string) []byte {
	if decoded, err := base64.URLEncoding.DecodeString(data); err == nil {
		return decoded
	}
	if decoded, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(data, "=")); err == nil {
		return decoded
	}
	return nil
}

// buildDraftRaw renders a plain-text RFC 822 reply
func buildDraftRaw(req *core.DraftRequest) string {
	var buf strings.Builder
	buf.WriteString("To: " + req.To + "\r\n")
	buf.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", req.Subject) + "\r\n")
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(req.Body)
	return buf.String()
}
