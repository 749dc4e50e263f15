package eml

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"mime"
	"strings"

	"github.com/emersion/go-message"
	_ "github.com/emersion/go-message/charset"
	"github.com/emersion/go-message/mail"
	"github.com/mikey/inbox-labeler/internal/core"
)

const maxDepth = 16

// Parse reads an RFC 822 message into a core.Message with its full part tree.
// Transfer encodings are removed and text parts are converted to UTF-8.
func Parse(r io.Reader) (*core.Message, error) {
	br := bufio.NewReader(r)
	if _, err := br.Peek(1); err != nil {
		return nil, fmt.Errorf("failed to parse message: %w", err)
	}

	entity, err := message.Read(br)
	if err != nil && !recoverable(err) {
		return nil, fmt.Errorf("failed to parse message: %w", err)
	}

	payload, err := convertEntity(entity, !message.IsUnknownCharset(err), 0)
	if err != nil {
		return nil, err
	}

	h := mail.Header{Header: entity.Header}
	return &core.Message{
		ID:      strings.Trim(h.Get("Message-Id"), "<> "),
		From:    headerText(h, "From"),
		Subject: headerText(h, "Subject"),
		Date:    h.Get("Date"),
		Payload: payload,
	}, nil
}

// recoverable reports whether the entity is still usable with its body left as-is
func recoverable(err error) bool {
	return message.IsUnknownCharset(err) || message.IsUnknownEncoding(err)
}

func headerText(h mail.Header, key string) string {
	text, err := h.Text(key)
	if err != nil {
		return h.Get(key)
	}
	return text
}

// utf8Body reports whether text bodies were converted to UTF-8 on read
func convertEntity(e *message.Entity, utf8Body bool, depth int) (*core.MessagePart, error) {
	mediaType, params, err := e.Header.ContentType()
	if err != nil {
		mediaType, params = "text/plain", map[string]string{}
	}

	attachment := mail.AttachmentHeader{Header: e.Header}
	name, _ := attachment.Filename()

	part := &core.MessagePart{
		MimeType: mediaType,
		Filename: name,
		Headers:  make(map[string]string),
	}
	fields := e.Header.Fields()
	for fields.Next() {
		if _, ok := part.Headers[fields.Key()]; !ok {
			part.Headers[fields.Key()] = fields.Value()
		}
	}

	if mr := e.MultipartReader(); mr != nil && depth < maxDepth {
		for {
			child, err := mr.NextPart()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil && (child == nil || !recoverable(err)) {
				// Keep what parsed cleanly
				break
			}
			converted, err := convertEntity(child, !message.IsUnknownCharset(err), depth+1)
			if err != nil {
				return nil, err
			}
			part.Parts = append(part.Parts, converted)
		}
		return part, nil
	}

	data, err := io.ReadAll(e.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read message part: %w", err)
	}
	part.Data = data

	// The body is UTF-8 now; keep the declared charset consistent with it
	if cs := params["charset"]; utf8Body && cs != "" && strings.HasPrefix(mediaType, "text/") && !strings.EqualFold(cs, "utf-8") {
		params["charset"] = "utf-8"
		for k := range part.Headers {
			if strings.EqualFold(k, "Content-Type") {
				part.Headers[k] = mime.FormatMediaType(mediaType, params)
			}
		}
	}
	return part, nil
}
