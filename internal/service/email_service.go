package service

import (
	"context"
	"fmt"
	"html"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// EmailService sends notification emails through Amazon SES
type EmailService struct {
	client     *sesv2.Client
	fromEmail  string
	fromName   string
	appBaseURL string
	enabled    bool
	debug      bool
}

// NewEmailService creates a new email service. Without a from address the
// service is disabled and every send is a logged no-op.
func NewEmailService(ctx context.Context, awsRegion, fromEmail, fromName, appBaseURL string, debug bool) (*EmailService, error) {
	if fromEmail == "" {
		log.Println("Email service disabled: SES_FROM_EMAIL not configured")
		return &EmailService{enabled: false, debug: debug}, nil
	}

	if debug {
		log.Printf("[DEBUG] Initializing email service: region=%s, from=%s, base=%s", awsRegion, fromEmail, appBaseURL)
	}

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(awsRegion))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	log.Printf("Email service enabled: from=%s, region=%s", fromEmail, awsRegion)

	return &EmailService{
		client:     sesv2.NewFromConfig(cfg),
		fromEmail:  fromEmail,
		fromName:   fromName,
		appBaseURL: appBaseURL,
		enabled:    true,
		debug:      debug,
	}, nil
}

// IsEnabled returns whether the email service is enabled
func (s *EmailService) IsEnabled() bool {
	return s.enabled
}

// SendWelcomeEmail greets a newly registered user
func (s *EmailService) SendWelcomeEmail(ctx context.Context, toEmail, toName string) error {
	if !s.enabled {
		log.Printf("Skipping email send (service disabled): welcome to %s", toEmail)
		return nil
	}

	subject := "Welcome to FitFam"
	intro := "Your FitFam account is ready. Create a family or join one with a join code, then start logging results."
	return s.send(ctx, toEmail, subject, welcomeBody(toName, intro, s.appBaseURL, "Open FitFam"))
}

// SendFamilyAddedEmail tells a user someone added them to a family
func (s *EmailService) SendFamilyAddedEmail(ctx context.Context, toEmail, toName, familyName string) error {
	if !s.enabled {
		log.Printf("Skipping email send (service disabled): family membership to %s", toEmail)
		return nil
	}

	subject := fmt.Sprintf("You were added to %s on FitFam", familyName)
	intro := fmt.Sprintf("You are now a member of %s. You can see the family's posted workouts and share your results.", familyName)
	return s.send(ctx, toEmail, subject, welcomeBody(toName, intro, s.appBaseURL, "View your families"))
}

type emailBody struct {
	html string
	text string
}

func welcomeBody(toName, intro, link, linkLabel string) emailBody {
	htmlBody := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
	<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
		<p>Hi %s,</p>
		<p>%s</p>
		<p><a href="%s" style="display: inline-block; padding: 12px 30px; background-color: #e2574a; color: white; text-decoration: none; border-radius: 5px;">%s</a></p>
		<p style="font-size: 12px; color: #666;">This is an automated email from FitFam. Please do not reply.</p>
	</div>
</body>
</html>
`, html.EscapeString(toName), html.EscapeString(intro), link, linkLabel)

	textBody := fmt.Sprintf("Hi %s,\n\n%s\n\n%s: %s\n\n---\nThis is an automated email from FitFam. Please do not reply.\n",
		toName, intro, linkLabel, link)

	return emailBody{html: htmlBody, text: textBody}
}

func (s *EmailService) send(ctx context.Context, toEmail, subject string, body emailBody) error {
	fromAddress := s.fromEmail
	if s.fromName != "" {
		fromAddress = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	if s.debug {
		log.Printf("[DEBUG] Sending email: from=%s, to=%s, subject=%s", fromAddress, toEmail, subject)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject), Charset: aws.String("UTF-8")},
				Body: &types.Body{
					Html: &types.Content{Data: aws.String(body.html), Charset: aws.String("UTF-8")},
					Text: &types.Content{Data: aws.String(body.text), Charset: aws.String("UTF-8")},
				},
			},
		},
	}

	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send email to %s: %w", toEmail, err)
	}

	if s.debug && result.MessageId != nil {
		log.Printf("[DEBUG] SES message id: %s", *result.MessageId)
	}
	log.Printf("Email sent successfully: to=%s, subject=%s", toEmail, subject)
	return nil
}
