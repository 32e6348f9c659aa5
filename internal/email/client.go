package email

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"strconv"

	"github.com/wneessen/go-mail"
)

// Client representa el cliente de correo electrónico
type Client struct {
	host      string
	port      int
	user      string
	password  string
	fromName  string
	fromEmail string
}

// NewClient crea una nueva instancia del cliente de email
func NewClient(host, portStr, user, password, fromName, fromEmail string) (*Client, error) {
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("puerto SMTP inválido: %w", err)
	}

	return &Client{
		host:      host,
		port:      port,
		user:      user,
		password:  password,
		fromName:  fromName,
		fromEmail: fromEmail,
	}, nil
}

// SendQR envía el código QR de una persona como adjunto PNG
func (c *Client) SendQR(to, nombrePersona, nombreArchivo string, pngQR []byte) error {
	m := mail.NewMsg()

	if err := m.From(fmt.Sprintf("%s <%s>", c.fromName, c.fromEmail)); err != nil {
		return fmt.Errorf("error al configurar remitente: %w", err)
	}
	if err := m.To(to); err != nil {
		return fmt.Errorf("error al configurar destinatario: %w", err)
	}

	m.Subject(fmt.Sprintf("Tu código QR de empadronamiento - %s", c.fromName))
	m.SetBodyString(mail.TypeTextHTML, generarHTMLQR(nombrePersona))

	if err := m.AttachReader(nombreArchivo, bytes.NewReader(pngQR)); err != nil {
		return fmt.Errorf("error al adjuntar el código QR: %w", err)
	}

	client, err := mail.NewClient(c.host,
		mail.WithPort(c.port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(c.user),
		mail.WithPassword(c.password),
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithTLSConfig(&tls.Config{
			ServerName: c.host,
		}),
	)
	if err != nil {
		return fmt.Errorf("error al crear cliente SMTP (host=%s port=%d): %w", c.host, c.port, err)
	}

	if err := client.DialAndSend(m); err != nil {
		return fmt.Errorf("error al enviar correo (host=%s port=%d): %w", c.host, c.port, err)
	}

	return nil
}

// generarHTMLQR genera el HTML del correo con el código adjunto
func generarHTMLQR(nombre string) string {
	return fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
			<div style="background: #4F46E5; color: white; padding: 20px; text-align: center;">
				<h1 style="margin: 0;">Código QR de empadronamiento</h1>
			</div>
			<div style="padding: 20px;">
				<p>Hola <strong>%s</strong>,</p>
				<p>Adjuntamos tu código QR personal. Preséntalo al momento del control
				para verificar tu estado de empadronamiento.</p>
				<p style="color: #666; font-size: 13px;">El código contiene tu información
				al momento de generación; si tus datos cambian, solicita uno nuevo.</p>
			</div>
		</div>
	`, nombre)
}
