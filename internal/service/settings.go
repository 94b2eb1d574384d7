package service

import (
	"context"
	"net/url"
	"strings"

	"kal-storefront/internal/domain"

	"github.com/pkg/errors"
)

var ErrInvalidSettings = errors.New("invalid store settings")

type SettingsService struct {
	repo SettingsRepository
}

func NewSettingsService(repo SettingsRepository) *SettingsService {
	return &SettingsService{repo: repo}
}

func (s *SettingsService) Get(ctx context.Context) (domain.StoreSettings, error) {
	return s.repo.GetSettings(ctx)
}

func (s *SettingsService) Public(ctx context.Context) (domain.PublicSettings, error) {
	settings, err := s.repo.GetSettings(ctx)
	if err != nil {
		return domain.PublicSettings{}, err
	}
	return settings.Public(), nil
}

// Update replaces the stored settings. Changes apply to the next checkout.
func (s *SettingsService) Update(ctx context.Context, settings domain.StoreSettings) (domain.StoreSettings, error) {
	settings.ContactNumber = strings.TrimSpace(settings.ContactNumber)
	settings.WebhookURL = strings.TrimSpace(settings.WebhookURL)
	if settings.MenuLayout == "" {
		settings.MenuLayout = domain.LayoutStandard
	}

	switch {
	case settings.ContactNumber == "":
		return settings, errors.Wrap(ErrInvalidSettings, "contact number is required")
	case settings.DeliveryFee.IsNegative():
		return settings, errors.Wrap(ErrInvalidSettings, "delivery fee must not be negative")
	case !settings.MenuLayout.Valid():
		return settings, errors.Wrapf(ErrInvalidSettings, "unknown menu layout %q", settings.MenuLayout)
	}
	if settings.WebhookURL != "" {
		parsed, err := url.Parse(settings.WebhookURL)
		if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
			return settings, errors.Wrap(ErrInvalidSettings, "webhook url must be an absolute http(s) url")
		}
	}
	if strings.TrimSpace(settings.AssistantInstruction) == "" {
		settings.AssistantInstruction = domain.DefaultAssistantInstruction
	}
	settings.DeliveryFee = settings.DeliveryFee.Round(2)

	if err := s.repo.SaveSettings(ctx, settings); err != nil {
		return settings, err
	}
	return settings, nil
}

var _ SettingsServiceInterface = (*SettingsService)(nil)
