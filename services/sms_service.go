package services

import (
	"context"
	"fmt"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/RitamPal26/student-progress-site/config"
)

// SMSService sends inactivity reminders over SMS through Twilio. It is an
// optional secondary channel next to email, for students with a phone on
// file.
type SMSService struct {
	client *twilio.RestClient
	from   string
}

func NewSMSService(cfg *config.Config) *SMSService {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.TwilioAccountSID,
		Password: cfg.TwilioAuthToken,
	})
	return &SMSService{client: client, from: cfg.TwilioFromNumber}
}

// SendReminder texts an inactivity reminder to the given phone number.
func (s *SMSService) SendReminder(ctx context.Context, phone, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(phone)
	params.SetFrom(s.from)
	params.SetBody(fmt.Sprintf(
		"Hi %s, you haven't submitted anything on Codeforces in the last week. Keep the streak alive!", name))

	if _, err := s.client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("twilio message failed: %w", err)
	}
	return nil
}
