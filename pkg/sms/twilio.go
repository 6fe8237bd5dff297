package sms

import (
	"context"
	"errors"
	"fmt"

	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// messageCreator is the slice of the Twilio REST API this package uses.
type messageCreator interface {
	CreateMessage(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error)
}

type twilioSender struct {
	api  messageCreator
	from string
}

// NewTwilioSender requires the account SID, auth token and a sender number.
func NewTwilioSender(cfg Config) (Sender, error) {
	if cfg.TwilioAccountSID == "" {
		return nil, fmt.Errorf("%w: TwilioAccountSID is required", ErrInvalidConfig)
	}
	if cfg.TwilioAuthToken == "" {
		return nil, fmt.Errorf("%w: TwilioAuthToken is required", ErrInvalidConfig)
	}
	if cfg.TwilioFromNumber == "" {
		return nil, fmt.Errorf("%w: TwilioFromNumber is required", ErrInvalidConfig)
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.TwilioAccountSID,
		Password: cfg.TwilioAuthToken,
	})
	return newTwilioSender(client.Api, cfg.TwilioFromNumber), nil
}

func newTwilioSender(api messageCreator, from string) *twilioSender {
	return &twilioSender{api: api, from: from}
}

func (s *twilioSender) SendSMS(ctx context.Context, params SendSMSParams) error {
	if err := params.Validate(); err != nil {
		return err
	}

	req := &openapi.CreateMessageParams{}
	req.SetTo(NormalizePhone(params.To))
	req.SetFrom(s.from)
	req.SetBody(params.Body)

	type result struct {
		msg *openapi.ApiV2010Message
		err error
	}
	done := make(chan result, 1)
	go func() {
		msg, err := s.api.CreateMessage(req)
		done <- result{msg: msg, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			return errors.Join(ErrFailedToSendSMS, res.err)
		}
		if res.msg != nil && res.msg.ErrorCode != nil && *res.msg.ErrorCode != 0 {
			detail := ""
			if res.msg.ErrorMessage != nil {
				detail = *res.msg.ErrorMessage
			}
			return errors.Join(ErrFailedToSendSMS, fmt.Errorf("twilio error: %d - %s", *res.msg.ErrorCode, detail))
		}
		return nil
	case <-ctx.Done():
		return errors.Join(ErrFailedToSendSMS, ctx.Err())
	}
}
