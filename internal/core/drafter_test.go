package core

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// plainProcessor is a BodyProcessor that leaves bytes alone and strips tags crudely
type plainProcessor struct{}

func (plainProcessor) DecodeCharset(data []byte, _ string) string { return string(data) }

func (plainProcessor) HTMLToText(html string) string {
	var b strings.Builder
	inTag := false
	for _, r := range html {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func (plainProcessor) ProcessText(text string, maxSize int) string {
	if maxSize > 0 && len(text) > maxSize {
		return text[:maxSize]
	}
	return text
}

var fixedNow = time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)

func newTestDrafter(gen TextGenerator, opts DrafterOptions) *ReplyDrafter {
	opts.Now = func() time.Time { return fixedNow }
	return NewReplyDrafter(gen, plainProcessor{}, zap.NewNop(), opts, nil)
}

func textMessage(id, from, date, body string) *Message {
	return &Message{
		ID:       id,
		ThreadID: "thread-" + id,
		From:     from,
		Subject:  "Dinner plans",
		Date:     date,
		Payload:  &MessagePart{MimeType: "text/plain", Data: []byte(body)},
	}
}

func rfcDate(t time.Time) string { return t.Format(time.RFC1123Z) }

func TestCheckEligibility(t *testing.T) {
	d := newTestDrafter(&fakeGenerator{}, DrafterOptions{})

	tests := []struct {
		name   string
		from   string
		date   string
		ok     bool
		reason string
	}{
		{"recent gmail", "Ann <ann@gmail.com>", rfcDate(fixedNow.Add(-2 * time.Hour)), true, ""},
		{"exactly max age", "ann@gmail.com", rfcDate(fixedNow.Add(-24 * time.Hour)), true, ""},
		{"future date", "ann@gmail.com", rfcDate(fixedNow.Add(3 * time.Hour)), true, ""},
		{"too old", "ann@gmail.com", rfcDate(fixedNow.Add(-48 * time.Hour)), false, ReasonTooOld},
		{"unparseable date", "ann@gmail.com", "yesterday-ish", false, ReasonTooOld},
		{"other sender", "boss@corp.example", rfcDate(fixedNow), false, ReasonSenderNotAllowed},
		{"sender gate first", "boss@corp.example", "garbage", false, ReasonSenderNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, reason := d.CheckEligibility(&Message{From: tt.from, Date: tt.date})
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.reason, reason)
		})
	}
}

func TestExtractBodyText(t *testing.T) {
	d := newTestDrafter(&fakeGenerator{}, DrafterOptions{})

	t.Run("first inline text part wins", func(t *testing.T) {
		msg := &Message{Payload: &MessagePart{
			MimeType: "multipart/mixed",
			Parts: []*MessagePart{
				{MimeType: "text/plain", Filename: "notes.txt", Data: []byte("attachment")},
				{MimeType: "multipart/alternative", Parts: []*MessagePart{
					{MimeType: "text/plain; charset=utf-8", Data: []byte("  plain body  ")},
					{MimeType: "text/html", Data: []byte("<p>html body</p>")},
				}},
			},
		}}
		assert.Equal(t, "plain body", d.ExtractBodyText(msg))
	})

	t.Run("html only is converted", func(t *testing.T) {
		msg := &Message{Payload: &MessagePart{
			MimeType: "multipart/alternative",
			Parts: []*MessagePart{
				{MimeType: "image/png", Data: []byte{0x89, 0x50}},
				{MimeType: "text/html", Data: []byte("<div>Hello <b>there</b></div>")},
			},
		}}
		assert.Equal(t, "Hello there", d.ExtractBodyText(msg))
	})

	t.Run("no text part", func(t *testing.T) {
		assert.Empty(t, d.ExtractBodyText(&Message{}))
		assert.Empty(t, d.ExtractBodyText(&Message{Payload: &MessagePart{MimeType: "multipart/mixed"}}))
	})
}

func TestDraftReplyIneligibleMakesNoModelCalls(t *testing.T) {
	gen := &fakeGenerator{reply: func(string) (string, error) { return "reply", nil }}
	d := newTestDrafter(gen, DrafterOptions{})
	mail := newFakeMail()

	res, err := d.DraftReply(context.Background(), mail, textMessage("m1", "ann@gmail.com", rfcDate(fixedNow.Add(-48*time.Hour)), "hi"))
	require.NoError(t, err)

	assert.False(t, res.Eligible)
	assert.Equal(t, ReasonTooOld, res.Reason)
	assert.Zero(t, gen.calls())
	assert.Empty(t, mail.drafts)
}

func TestDraftReplyCreatesThreadedDraft(t *testing.T) {
	gen := &fakeGenerator{reply: func(string) (string, error) { return "  Sounds great, see you at 8!  ", nil }}
	d := newTestDrafter(gen, DrafterOptions{})
	mail := newFakeMail()
	msg := textMessage("m1", "Ann <ann@gmail.com>", rfcDate(fixedNow.Add(-time.Hour)), "Dinner at 8?")

	res, err := d.DraftReply(context.Background(), mail, msg)
	require.NoError(t, err)

	assert.True(t, res.Eligible)
	assert.Equal(t, "draft-1", res.DraftID)
	assert.Equal(t, "Sounds great, see you at 8!", res.Preview)

	require.Len(t, mail.drafts, 1)
	draft := mail.drafts[0]
	assert.Equal(t, "Ann <ann@gmail.com>", draft.To)
	assert.Equal(t, "Re: Dinner plans", draft.Subject)
	assert.Equal(t, "thread-m1", draft.ThreadID)
	assert.Equal(t, "Sounds great, see you at 8!", draft.Body)

	require.Equal(t, 1, gen.calls())
	assert.Contains(t, gen.prompts[0], "Dinner at 8?")
}

func TestDraftReplyPreviewIsTruncated(t *testing.T) {
	long := strings.Repeat("é", 300)
	gen := &fakeGenerator{reply: func(string) (string, error) { return long, nil }}
	d := newTestDrafter(gen, DrafterOptions{PreviewLength: 200})
	mail := newFakeMail()

	res, err := d.DraftReply(context.Background(), mail, textMessage("m1", "ann@gmail.com", rfcDate(fixedNow), "hi"))
	require.NoError(t, err)

	assert.Equal(t, strings.Repeat("é", 200)+"...", res.Preview)
	assert.Equal(t, long, mail.drafts[0].Body)
}

func TestDraftReplyGenerationErrors(t *testing.T) {
	tests := []struct {
		name    string
		reply   func(string) (string, error)
		wantErr error
	}{
		{"model failure", func(string) (string, error) { return "", errors.New("quota") }, nil},
		{"blank reply", func(string) (string, error) { return "  \n ", nil }, ErrEmptyResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newTestDrafter(&fakeGenerator{reply: tt.reply}, DrafterOptions{})
			mail := newFakeMail()

			_, err := d.DraftReply(context.Background(), mail, textMessage("m1", "ann@gmail.com", rfcDate(fixedNow), "hi"))
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			assert.Empty(t, mail.drafts)
		})
	}
}

func TestGenerateReplyTruncatesBody(t *testing.T) {
	gen := &fakeGenerator{reply: func(string) (string, error) { return "ok", nil }}
	d := newTestDrafter(gen, DrafterOptions{MaxBodySize: 5})

	_, err := d.GenerateReply(context.Background(), "abcdefghij")
	require.NoError(t, err)

	assert.Contains(t, gen.prompts[0], "abcde")
	assert.NotContains(t, gen.prompts[0], "abcdef")
}

func TestPreviewReplyDoesNotDraft(t *testing.T) {
	gen := &fakeGenerator{reply: func(string) (string, error) { return "Sure thing", nil }}
	d := newTestDrafter(gen, DrafterOptions{})

	res, err := d.PreviewReply(context.Background(), textMessage("m1", "ann@gmail.com", rfcDate(fixedNow), "hi"))
	require.NoError(t, err)
	assert.True(t, res.Eligible)
	assert.Equal(t, "Sure thing", res.Preview)

	res, err = d.PreviewReply(context.Background(), textMessage("m2", "x@corp.example", rfcDate(fixedNow), "hi"))
	require.NoError(t, err)
	assert.False(t, res.Eligible)
	assert.Equal(t, ReasonSenderNotAllowed, res.Reason)
	assert.Equal(t, 1, gen.calls())
}

func TestDraftRecent(t *testing.T) {
	gen := &fakeGenerator{reply: func(string) (string, error) { return "Thanks!", nil }}
	d := newTestDrafter(gen, DrafterOptions{})
	mail := newFakeMail()
	mail.add(textMessage("m1", "ann@gmail.com", rfcDate(fixedNow.Add(-time.Hour)), "hello"))
	mail.add(textMessage("m2", "news@shop.example", rfcDate(fixedNow), "buy now"))
	mail.add(textMessage("m3", "bob@gmail.com", rfcDate(fixedNow.Add(-72*time.Hour)), "old news"))
	mail.add(textMessage("m4", "eve@gmail.com", rfcDate(fixedNow), "hey"))
	mail.getErr["m4"] = errors.New("fetch failed")

	report, err := d.DraftRecent(context.Background(), mail)
	require.NoError(t, err)

	assert.Equal(t, 4, report.Processed)
	require.Len(t, report.Drafted, 1)
	assert.Equal(t, "m1", report.Drafted[0].MessageID)

	reasons := map[string]string{}
	for _, s := range report.Skipped {
		reasons[s.MessageID] = s.Reason
	}
	assert.Equal(t, map[string]string{
		"m2": ReasonSenderNotAllowed,
		"m3": ReasonTooOld,
		"m4": "fetch failed",
	}, reasons)
	assert.Equal(t, 1, gen.calls())
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "short", Preview("short", 10))
	assert.Equal(t, "exact", Preview("exact", 5))
	assert.Equal(t, "abc...", Preview("abcdef", 3))
	assert.Equal(t, "日本...", Preview("日本語", 2))
}
