package service

import (
	"context"
	"fmt"

	"github.com/warp/payroll-engine/factory"
	"github.com/warp/payroll-engine/generic"
	"go.uber.org/zap"
)

// =============================================================================
// SETTINGS - The rules document
// =============================================================================

// Rules loads and validates the stored document, or the defaults when none
// was ever saved.
func (s *Service) Rules(ctx context.Context) (*generic.Rules, error) {
	rules, _, err := s.loadRules(ctx)
	return rules, err
}

// RulesDocument returns the effective document as indented JSON.
func (s *Service) RulesDocument(ctx context.Context) ([]byte, error) {
	_, doc, err := s.loadRules(ctx)
	if err != nil {
		return nil, err
	}
	return factory.Marshal(doc)
}

func (s *Service) loadRules(ctx context.Context) (*generic.Rules, factory.RulesJSON, error) {
	raw, err := s.store.LoadRulesDocument(ctx)
	if err != nil {
		return nil, factory.RulesJSON{}, fmt.Errorf("load rules: %w", err)
	}
	rules, doc, err := s.factory.ParseRules(raw)
	if err != nil {
		return nil, factory.RulesJSON{}, fmt.Errorf("stored rules: %w", err)
	}
	return rules, doc, nil
}

// SaveRules validates a structured document and stores it.
func (s *Service) SaveRules(ctx context.Context, doc factory.RulesJSON) (*generic.Rules, error) {
	rules, err := s.factory.Build(doc)
	if err != nil {
		return nil, err
	}
	return rules, s.persistRules(ctx, doc)
}

// SaveRulesDocument validates a raw JSON document. A rejected document
// leaves the stored one untouched.
func (s *Service) SaveRulesDocument(ctx context.Context, raw []byte) (*generic.Rules, error) {
	doc, err := s.factory.Decode(raw)
	if err != nil {
		return nil, err
	}
	return s.SaveRules(ctx, doc)
}

// ResetRules stores the built-in defaults.
func (s *Service) ResetRules(ctx context.Context) (*generic.Rules, error) {
	return s.SaveRules(ctx, factory.DefaultRulesJSON())
}

func (s *Service) persistRules(ctx context.Context, doc factory.RulesJSON) error {
	b, err := factory.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode rules: %w", err)
	}
	if err := s.store.SaveRulesDocument(ctx, b); err != nil {
		return fmt.Errorf("save rules: %w", err)
	}
	s.logger.Info("rules saved", zap.String("company", doc.Company.Name))
	return nil
}
