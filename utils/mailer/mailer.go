package mailer

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/penoFahmi/e-arsip-sub000/config"
	"gopkg.in/gomail.v2"
)

var dispositionTemplate = template.Must(template.New("disposisi").Parse(`<p>Yth. {{.RecipientName}},</p>
<p>{{.Headline}}</p>
<table cellpadding="4">
<tr><td>No. Agenda</td><td>{{.NoAgenda}}</td></tr>
<tr><td>No. Surat</td><td>{{.NoSurat}}</td></tr>
<tr><td>Perihal</td><td>{{.Perihal}}</td></tr>
<tr><td>Sifat</td><td>{{.Sifat}}</td></tr>
{{if .Instruksi}}<tr><td>Instruksi</td><td>{{.Instruksi}}</td></tr>{{end}}
{{if .Catatan}}<tr><td>Catatan</td><td>{{.Catatan}}</td></tr>{{end}}
</table>
<p>{{.AppName}}</p>`))

// DispositionMail is the data rendered into a disposition notice.
type DispositionMail struct {
	AppName       string
	RecipientName string
	Headline      string
	NoAgenda      string
	NoSurat       string
	Perihal       string
	Sifat         string
	Instruksi     string
	Catatan       string
}

func RenderDisposition(d DispositionMail) (string, error) {
	var body bytes.Buffer
	if err := dispositionTemplate.Execute(&body, d); err != nil {
		return "", fmt.Errorf("render disposition template: %w", err)
	}
	return body.String(), nil
}

type Client struct {
	cfg config.EmailConfig
}

func NewClient(cfg config.EmailConfig) *Client {
	return &Client{cfg: cfg}
}

// Send delivers an HTML email through the configured SMTP server.
func (c *Client) Send(to, subject, htmlBody string) error {
	if c.cfg.Host == "" {
		return fmt.Errorf("smtp host is not configured")
	}

	from := c.cfg.FromAddress
	if from == "" {
		from = c.cfg.Username
	}
	if from == "" {
		return fmt.Errorf("smtp from address is not configured")
	}

	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", from, c.cfg.FromName)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	dialer := gomail.NewDialer(c.cfg.Host, c.cfg.Port, c.cfg.Username, c.cfg.Password)
	return dialer.DialAndSend(msg)
}
