package email

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"mime"
	"mime/multipart"
	"net/textproto"
	"strings"
	"time"

	"github.com/tuumbleweed/xerr"
)

type Provider string

const (
	ProviderSES      Provider = "ses"
	ProviderMailgun  Provider = "mailgun"
	ProviderSendgrid Provider = "sendgrid"
)

// Attachment is a file sent along with a message, e.g. a generated PDF report.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

type Message struct {
	Sender      string
	Recipients  []string
	Subject     string
	Text        string
	HTML        string
	Attachments []Attachment
}

/*
rawMIME builds a multipart/mixed message with a text/html alternative part
and base64 attachments, for providers that accept raw messages.
*/
func (m Message) rawMIME() (raw []byte, e *xerr.Error) {
	if e = m.checkAddresses(); e != nil {
		return nil, e
	}
	if strings.ContainsAny(m.Subject, "\r\n") {
		return nil, xerr.NewError(fmt.Errorf("line break in subject"), "build message headers", m.Subject)
	}

	var buffer bytes.Buffer
	mixed := multipart.NewWriter(&buffer)

	fmt.Fprintf(&buffer, "From: %s\r\n", m.Sender)
	fmt.Fprintf(&buffer, "To: %s\r\n", strings.Join(m.Recipients, ", "))
	fmt.Fprintf(&buffer, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", m.Subject))
	fmt.Fprintf(&buffer, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	fmt.Fprintf(&buffer, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buffer, "Content-Type: multipart/mixed; boundary=%q\r\n\r\n", mixed.Boundary())

	var alternativeBody bytes.Buffer
	alternative := multipart.NewWriter(&alternativeBody)
	for _, part := range []struct{ contentType, content string }{
		{"text/plain; charset=utf-8", m.Text},
		{"text/html; charset=utf-8", m.HTML},
	} {
		if part.content == "" {
			continue
		}
		writer, err := alternative.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {part.contentType},
			"Content-Transfer-Encoding": {"base64"},
		})
		if err != nil {
			return nil, xerr.NewError(err, "create message body part", part.contentType)
		}
		_, _ = writer.Write([]byte(wrapBase64(part.content)))
	}
	if err := alternative.Close(); err != nil {
		return nil, xerr.NewError(err, "close alternative part", m.Subject)
	}

	bodyWriter, err := mixed.CreatePart(textproto.MIMEHeader{
		"Content-Type": {fmt.Sprintf("multipart/alternative; boundary=%q", alternative.Boundary())},
	})
	if err != nil {
		return nil, xerr.NewError(err, "create message body", m.Subject)
	}
	_, _ = bodyWriter.Write(alternativeBody.Bytes())

	for _, attachment := range m.Attachments {
		writer, err := mixed.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {attachment.ContentType},
			"Content-Transfer-Encoding": {"base64"},
			"Content-Disposition":       {mime.FormatMediaType("attachment", map[string]string{"filename": attachment.Filename})},
		})
		if err != nil {
			return nil, xerr.NewError(err, "create attachment part", attachment.Filename)
		}
		_, _ = writer.Write([]byte(wrapBase64(string(attachment.Data))))
	}

	if err := mixed.Close(); err != nil {
		return nil, xerr.NewError(err, "close message", m.Subject)
	}
	return buffer.Bytes(), nil
}

// checkAddresses rejects addresses that would inject extra header lines.
func (m Message) checkAddresses() (e *xerr.Error) {
	for _, address := range append([]string{m.Sender}, m.Recipients...) {
		if strings.ContainsAny(address, "\r\n") {
			return xerr.NewError(fmt.Errorf("line break in address"), "check email addresses", address)
		}
	}
	return nil
}

// wrapBase64 encodes content in 76-character lines.
func wrapBase64(content string) string {
	encoded := base64.StdEncoding.EncodeToString([]byte(content))
	var builder strings.Builder
	for len(encoded) > 76 {
		builder.WriteString(encoded[:76])
		builder.WriteString("\r\n")
		encoded = encoded[76:]
	}
	builder.WriteString(encoded)
	return builder.String()
}
