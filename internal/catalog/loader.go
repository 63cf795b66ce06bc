// Package catalog loads the static JSON data the engine is constructed
// with: intent rules, reference catalogs, and the FAQ knowledge base.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spec-kit/support-engine/internal/config"
	"github.com/spec-kit/support-engine/internal/domain"
)

// Bundle is the immutable configuration set injected into the engine.
type Bundle struct {
	IntentRules   map[string]domain.IntentRule
	ReferenceData *domain.ReferenceData
	KnowledgeBase *domain.KnowledgeBase
}

// Load reads every data file named in the config. Missing knowledge base
// entries leave the FAQ layer empty rather than failing startup; the
// intent rules and reference catalogs are required.
func Load(cfg config.DataConfig) (*Bundle, error) {
	rules := map[string]domain.IntentRule{}
	if err := readJSON(cfg.IntentRulesPath, &rules); err != nil {
		return nil, fmt.Errorf("intent rules: %w", err)
	}
	if len(rules) == 0 {
		return nil, fmt.Errorf("intent rules: %s is empty", cfg.IntentRulesPath)
	}

	refs := &domain.ReferenceData{}
	if err := readJSON(cfg.ReferenceDataPath, refs); err != nil {
		return nil, fmt.Errorf("reference data: %w", err)
	}

	kb := &domain.KnowledgeBase{}
	if cfg.KnowledgeBasePath != "" {
		if err := readJSON(cfg.KnowledgeBasePath, kb); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("knowledge base: %w", err)
			}
			kb = &domain.KnowledgeBase{}
		}
	}

	return &Bundle{
		IntentRules:   rules,
		ReferenceData: refs,
		KnowledgeBase: kb,
	}, nil
}

func readJSON(path string, out any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}
