// Package notify turns job and CV lifecycle events into email and SMS
// notifications for the recruiting team. Sends are best effort: a failed
// notification is logged and counted, never retried, and never affects the
// store operation that triggered it.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"recruitdesk/internal/common/config"
	stderrors "recruitdesk/internal/common/errors"
	"recruitdesk/internal/common/logger"
	"recruitdesk/internal/events"
)

// Interfaces over the AWS clients for mocking.
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// Notifier tails lifecycle topics and fans each event out to the configured
// channels. SMS goes out only for job status changes; everything else is
// email only.
type Notifier struct {
	cfg    config.NotificationConfig
	ses    SESService
	sns    SNSService
	logger logger.Logger
	errs   *stderrors.ErrorHandler

	cancels []func()
	done    chan struct{}
}

var watchedTopics = []events.Topic{
	events.TopicJobCreated,
	events.TopicJobStatusChanged,
	events.TopicJobDeleted,
	events.TopicCVUploaded,
}

func NewNotifier(cfg config.NotificationConfig, sesClient SESService, snsClient SNSService, bus *events.Bus, log logger.Logger) *Notifier {
	scoped := log.WithFields(map[string]interface{}{"component": "notifier"})
	n := &Notifier{
		cfg:    cfg,
		ses:    sesClient,
		sns:    snsClient,
		logger: scoped,
		errs:   stderrors.NewErrorHandler(scoped),
		done:   make(chan struct{}),
	}

	merged := make(chan events.Event)
	running := 0
	for _, topic := range watchedTopics {
		ch, cancel := bus.Subscribe(topic)
		n.cancels = append(n.cancels, cancel)
		running++
		go func(ch <-chan events.Event) {
			for evt := range ch {
				merged <- evt
			}
			merged <- events.Event{Topic: topicDrained}
		}(ch)
	}

	go func() {
		defer close(n.done)
		for evt := range merged {
			if evt.Topic == topicDrained {
				running--
				if running == 0 {
					return
				}
				continue
			}
			n.handle(evt)
		}
	}()

	return n
}

// topicDrained is an internal sentinel marking one subscription's channel as
// closed.
const topicDrained events.Topic = "internal.drained"

func (n *Notifier) handle(evt events.Event) {
	subject, body, ok := render(evt)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if n.cfg.Email.Enabled && len(n.cfg.Email.To) > 0 {
		if err := n.sendEmail(ctx, subject, body); err != nil {
			n.errs.Handle(string(evt.Topic), stderrors.NewNotificationSendFailedError("email", err))
		}
	}

	if n.cfg.SMS.Enabled && n.cfg.SMS.Phone != "" && evt.Topic == events.TopicJobStatusChanged {
		if err := n.sendSMS(ctx, body); err != nil {
			n.errs.Handle(string(evt.Topic), stderrors.NewNotificationSendFailedError("sms", err))
		}
	}
}

// render maps an event to subject and body text. Unknown payloads yield
// ok=false and are skipped.
func render(evt events.Event) (subject, body string, ok bool) {
	switch payload := evt.Payload.(type) {
	case events.JobEvent:
		job := payload.Job
		switch evt.Topic {
		case events.TopicJobCreated:
			return fmt.Sprintf("New requisition: %s", job.Title),
				fmt.Sprintf("Requisition %s (%s) was opened in %s by %s.", job.ID, job.Title, job.Department, job.HiringManager),
				true
		case events.TopicJobStatusChanged:
			return fmt.Sprintf("Requisition %s is now %s", job.ID, job.Status),
				fmt.Sprintf("Requisition %s (%s) moved to status %s.", job.ID, job.Title, job.Status),
				true
		case events.TopicJobDeleted:
			return fmt.Sprintf("Requisition %s deleted", job.ID),
				fmt.Sprintf("Requisition %s (%s) was removed.", job.ID, job.Title),
				true
		}
	case events.CVEvent:
		if evt.Topic == events.TopicCVUploaded {
			name := ""
			if payload.CV.Parsed != nil {
				name = payload.CV.Parsed.Name
			}
			return fmt.Sprintf("New CV for requisition %s", payload.JobID),
				fmt.Sprintf("CV %s (%s) was uploaded for requisition %s.", payload.CV.ID, name, payload.JobID),
				true
		}
	}
	return "", "", false
}

func (n *Notifier) sendEmail(ctx context.Context, subject, body string) error {
	_, err := n.ses.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: n.cfg.Email.To,
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
				Html: &types.Content{Data: aws.String(body)},
			},
		},
		Source: aws.String(n.cfg.Email.FromEmail),
	})
	return err
}

func (n *Notifier) sendSMS(ctx context.Context, message string) error {
	_, err := n.sns.Publish(ctx, &sns.PublishInput{
		PhoneNumber: aws.String(n.cfg.SMS.Phone),
		Message:     aws.String(message),
	})
	return err
}

// Close unsubscribes from all topics and waits for in-flight sends.
func (n *Notifier) Close() {
	for _, cancel := range n.cancels {
		cancel()
	}
	<-n.done
}
