package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"kal-storefront/internal/domain"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const DefaultAssistantTimeout = 30 * time.Second

var ErrEmptyMessage = errors.New("message is required")

type ReplyKind string

const (
	ReplyAnswer             ReplyKind = "answer"
	ReplyEmpty              ReplyKind = "empty"
	ReplyMissingCredentials ReplyKind = "missing_credentials"
	ReplyTimeout            ReplyKind = "timeout"
	ReplyFailure            ReplyKind = "failure"
)

var fallbackReplies = map[ReplyKind]string{
	ReplyEmpty:              "Hmm, não consegui pensar em uma resposta. Pode tentar de novo? 🤔",
	ReplyMissingCredentials: "Desculpe, o sistema está sem a chave de segurança (API Key). Avise o gerente! 😅",
	ReplyTimeout:            "Estou demorando um pouco mais que o normal para pensar. Por favor, pergunte novamente! 🐢",
	ReplyFailure:            "Tive um pequeno problema técnico ao consultar o cardápio. Tente novamente! 🍢",
}

type Reply struct {
	Kind ReplyKind `json:"kind"`
	Text string    `json:"text"`
}

func fallback(kind ReplyKind) Reply {
	return Reply{Kind: kind, Text: fallbackReplies[kind]}
}

type AssistantService struct {
	completer Completer
	catalog   CatalogRepository
	settings  SettingsRepository
	timeout   time.Duration
}

func NewAssistantService(completer Completer, catalog CatalogRepository, settings SettingsRepository, timeout time.Duration) *AssistantService {
	if timeout <= 0 {
		timeout = DefaultAssistantTimeout
	}
	return &AssistantService{completer: completer, catalog: catalog, settings: settings, timeout: timeout}
}

// MenuContext renders one catalog line per item for the completion prompt.
func MenuContext(items []domain.CatalogItem) string {
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, fmt.Sprintf("- %s (%s): R$ %s | %s",
			item.Name, item.Category, item.Price.StringFixed(2), item.Description))
	}
	return strings.Join(lines, "\n")
}

func SystemInstruction(instruction string, items []domain.CatalogItem) string {
	return instruction + "\n\n[CONTEXTO DO CARDÁPIO ATUAL]:\n" + MenuContext(items) + "\n"
}

type completion struct {
	text string
	err  error
}

// Ask relays message to the completion collaborator. Every failure degrades to
// a fallback reply; the returned error is reserved for caller mistakes.
func (s *AssistantService) Ask(ctx context.Context, message string) (Reply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return Reply{}, ErrEmptyMessage
	}
	if s.completer == nil {
		return fallback(ReplyMissingCredentials), nil
	}

	settings, err := s.settings.GetSettings(ctx)
	if err != nil {
		log.WithError(err).Error("assistant: failed to load settings")
		return fallback(ReplyFailure), nil
	}
	items, err := s.catalog.ListItems(ctx)
	if err != nil {
		log.WithError(err).Error("assistant: failed to load catalog")
		return fallback(ReplyFailure), nil
	}
	instruction := settings.AssistantInstruction
	if strings.TrimSpace(instruction) == "" {
		instruction = domain.DefaultAssistantInstruction
	}
	system := SystemInstruction(instruction, items)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	done := make(chan completion, 1)
	go func() {
		text, err := s.completer.Complete(ctx, system, message)
		done <- completion{text: text, err: err}
	}()

	select {
	case res := <-done:
		return classify(res), nil
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			log.WithField("timeout", s.timeout).Warn("assistant: completion timed out")
			return fallback(ReplyTimeout), nil
		}
		return fallback(ReplyFailure), nil
	}
}

func classify(res completion) Reply {
	switch {
	case errors.Is(res.err, domain.ErrMissingCredentials):
		log.Error("assistant: completion credentials missing")
		return fallback(ReplyMissingCredentials)
	case errors.Is(res.err, context.DeadlineExceeded):
		return fallback(ReplyTimeout)
	case res.err != nil:
		log.WithError(res.err).Error("assistant: completion failed")
		return fallback(ReplyFailure)
	case strings.TrimSpace(res.text) == "":
		return fallback(ReplyEmpty)
	}
	return Reply{Kind: ReplyAnswer, Text: res.text}
}

var _ AssistantServiceInterface = (*AssistantService)(nil)
