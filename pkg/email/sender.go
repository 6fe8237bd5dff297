package email

import "fmt"

// New builds the Sender named by cfg.Provider. ProviderNone yields a nil
// Sender and no error; callers treat that as "email not configured".
func New(cfg Config) (Sender, error) {
	switch cfg.Provider {
	case ProviderPostmark:
		return NewPostmarkClient(cfg)
	case ProviderSMTP:
		return NewSMTPClient(cfg)
	case ProviderDev:
		return NewDevSender(cfg.DevDir), nil
	case ProviderNone, "":
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", ErrInvalidConfig, cfg.Provider)
	}
}
