package notifier

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"mime"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	config "github.com/novahogar2025-gif/Backend-final/configs"
)

// SESMailer sends every transactional email the store produces: the order
// confirmation with the PDF purchase note attached, the subscription
// coupon, contact confirmations and password resets.
type SESMailer struct {
	cfg config.EmailConfig
}

func NewSESMailer(cfg config.EmailConfig) *SESMailer {
	return &SESMailer{cfg: cfg}
}

func (m *SESMailer) client(ctx context.Context) (*ses.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(m.cfg.AWSRegion),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(m.cfg.AWSAccessKeyID, m.cfg.AWSSecretAccessKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS SDK config: %w", err)
	}
	return ses.NewFromConfig(awsCfg), nil
}

func (m *SESMailer) checkAddresses(recipient string) error {
	if m.cfg.SenderEmail == "" {
		return fmt.Errorf("sender email address is not configured in environment variables")
	}
	if recipient == "" {
		return fmt.Errorf("recipient email address is empty")
	}
	return nil
}

// SendInvoice mails the purchase note as a PDF attachment. SES's simple
// SendEmail API has no attachment support, so the message is assembled as
// raw MIME.
func (m *SESMailer) SendInvoice(to, name string, orderID uint, pdf []byte) error {
	if err := m.checkAddresses(to); err != nil {
		return err
	}

	client, err := m.client(context.TODO())
	if err != nil {
		log.Printf("Failed to load AWS SDK config for invoice email to %s (order %d): %v", to, orderID, err)
		return err
	}

	subject := fmt.Sprintf("Compra #%d confirmada - Nova Hogar", orderID)
	body := fmt.Sprintf(
		"Hola %s,\n\n¡Gracias por tu compra! Tu orden #%d quedó registrada.\n\n"+
			"Adjuntamos tu nota de compra en PDF.\n\nSaludos,\nEquipo Nova Hogar",
		name, orderID)

	raw := buildRawMessage(m.cfg.SenderEmail, to, subject, body,
		fmt.Sprintf("nota-compra-%d.pdf", orderID), pdf)

	_, err = client.SendRawEmail(context.TODO(), &ses.SendRawEmailInput{
		Source:       aws.String(m.cfg.SenderEmail),
		Destinations: []string{to},
		RawMessage:   &types.RawMessage{Data: raw},
	})
	if err != nil {
		log.Printf("Failed to send invoice email for order %d to %s: %v", orderID, to, err)
		return fmt.Errorf("failed to send invoice email: %w", err)
	}

	log.Printf("Invoice email sent successfully for order %d to %s", orderID, to)
	return nil
}

// SendCouponCode mails the welcome coupon created by a subscription.
func (m *SESMailer) SendCouponCode(to, name, code string) error {
	subject := "Tu cupón de bienvenida - Nova Hogar"
	body := fmt.Sprintf(
		"Hola %s,\n\nGracias por suscribirte a Nova Hogar.\n\n"+
			"Tu cupón de descuento es: %s\n\nÚsalo en tu próxima compra.\n\nEquipo Nova Hogar",
		name, code)
	return m.sendSimple(to, subject, body)
}

// SendPasswordReset mails the single-use recovery token.
func (m *SESMailer) SendPasswordReset(to, name, token string) error {
	subject := "Recuperación de contraseña - Nova Hogar"
	body := fmt.Sprintf(
		"Hola %s,\n\nRecibimos una solicitud para restablecer tu contraseña.\n\n"+
			"Tu código de recuperación es: %s\n\nEl código expira en una hora. "+
			"Si no fuiste tú, ignora este correo.\n\nEquipo Nova Hogar",
		name, token)
	return m.sendSimple(to, subject, body)
}

// SendContactMessages forwards a contact-form message to the company inbox
// and sends the confirmation to the customer.
func (m *SESMailer) SendContactMessages(name, fromEmail, message string) error {
	internal := fmt.Sprintf("Mensaje de contacto de %s <%s>:\n\n%s", name, fromEmail, message)
	if err := m.sendSimple(m.cfg.ContactInbox, "Nuevo mensaje de contacto", internal); err != nil {
		return err
	}

	confirmation := fmt.Sprintf(
		"Hola %s,\n\nRecibimos tu mensaje y te responderemos pronto.\n\n"+
			"Tu mensaje:\n%s\n\nEquipo Nova Hogar",
		name, message)
	return m.sendSimple(fromEmail, "Recibimos tu mensaje - Nova Hogar", confirmation)
}

func (m *SESMailer) sendSimple(to, subject, body string) error {
	if err := m.checkAddresses(to); err != nil {
		return err
	}

	client, err := m.client(context.TODO())
	if err != nil {
		log.Printf("Failed to load AWS SDK config for email to %s: %v", to, err)
		return err
	}

	input := &ses.SendEmailInput{
		Source: aws.String(m.cfg.SenderEmail),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Charset: aws.String("UTF-8"),
				Data:    aws.String(subject),
			},
			Body: &types.Body{
				Text: &types.Content{
					Charset: aws.String("UTF-8"),
					Data:    aws.String(body),
				},
			},
		},
	}

	if _, err := client.SendEmail(context.TODO(), input); err != nil {
		log.Printf("Failed to send email to %s: %v", to, err)
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// buildRawMessage assembles a multipart/mixed message with a UTF-8 text
// part and a base64 PDF attachment.
func buildRawMessage(from, to, subject, body, filename string, attachment []byte) []byte {
	const boundary = "NovaHogarMimeBoundary"

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "From: %s\r\n", from)
	fmt.Fprintf(&buf, "To: %s\r\n", to)
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("UTF-8", subject))
	buf.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/mixed; boundary=\"%s\"\r\n\r\n", boundary)

	fmt.Fprintf(&buf, "--%s\r\n", boundary)
	buf.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	buf.WriteString("Content-Transfer-Encoding: 8bit\r\n\r\n")
	buf.WriteString(body)
	buf.WriteString("\r\n\r\n")

	fmt.Fprintf(&buf, "--%s\r\n", boundary)
	buf.WriteString("Content-Type: application/pdf\r\n")
	buf.WriteString("Content-Transfer-Encoding: base64\r\n")
	fmt.Fprintf(&buf, "Content-Disposition: attachment; filename=\"%s\"\r\n\r\n", filename)

	encoded := base64.StdEncoding.EncodeToString(attachment)
	for len(encoded) > 76 {
		buf.WriteString(encoded[:76])
		buf.WriteString("\r\n")
		encoded = encoded[76:]
	}
	buf.WriteString(encoded)
	buf.WriteString("\r\n")

	fmt.Fprintf(&buf, "--%s--\r\n", boundary)
	return buf.Bytes()
}
