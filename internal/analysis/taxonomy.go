package analysis

import (
	"fmt"
	"os"
	"strings"
	"unicode"

	"github.com/pelletier/go-toml/v2"
)

// CategoryUnknown is the sentinel for labels outside the A–F alphabet.
const CategoryUnknown = "Unknown"

// Categories is the closed taxonomy alphabet in display order.
var Categories = []string{"A", "B", "C", "D", "E", "F"}

// CategoryLabels gives the human-readable meaning of each symbol.
var CategoryLabels = map[string]string{
	"A": "Traditional methods in domain",
	"B": "Data-driven methods (general background)",
	"C": "Data-driven methods in domain",
	"D": "Solutions to core challenge (any domain)",
	"E": "Solutions to core challenge in domain (core)",
	"F": "Other / Unrelated",
}

// NormalizeCategory maps a free-text category label like
// "E. Core literature" onto its single-letter symbol. Labels whose first
// character is outside A–F normalize to CategoryUnknown.
func NormalizeCategory(label string) string {
	s := strings.TrimSpace(label)
	if s == "" {
		return CategoryUnknown
	}
	c := unicode.ToUpper([]rune(s)[0])
	if c >= 'A' && c <= 'F' {
		return string(c)
	}
	return CategoryUnknown
}

// Rule maps any label containing one of its keywords (case-insensitive
// substring match) onto a canonical name.
type Rule struct {
	Canonical string   `toml:"canonical"`
	Keywords  []string `toml:"keywords"`
}

// RuleTable is an ordered list of rules. Order is significant: the first
// rule with a keyword match wins, and a label matching no rule passes
// through unchanged so unmapped terminology is never silently dropped.
type RuleTable struct {
	Rules []Rule `toml:"rules"`
}

// Canonicalize maps a free-text technique label onto its canonical name.
func (t *RuleTable) Canonicalize(label string) string {
	s := strings.TrimSpace(label)
	sl := strings.ToLower(s)
	for _, rule := range t.Rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(sl, kw) {
				return rule.Canonical
			}
		}
	}
	return s
}

// Validate checks that the table is idempotent: every canonical label must
// canonicalize to itself, i.e. no canonical label may match an earlier,
// different rule.
func (t *RuleTable) Validate() error {
	for _, rule := range t.Rules {
		if strings.TrimSpace(rule.Canonical) == "" {
			return fmt.Errorf("rule with empty canonical label")
		}
		if len(rule.Keywords) == 0 {
			return fmt.Errorf("rule %q has no keywords", rule.Canonical)
		}
		for _, kw := range rule.Keywords {
			if kw != strings.ToLower(kw) {
				return fmt.Errorf("rule %q keyword %q must be lowercase", rule.Canonical, kw)
			}
		}
		if got := t.Canonicalize(rule.Canonical); got != rule.Canonical {
			return fmt.Errorf("table is not idempotent: %q canonicalizes to %q", rule.Canonical, got)
		}
	}
	return nil
}

// LoadRuleTable reads an ordered rule table from a TOML file so the
// domain terminology can be swapped without touching pipeline code.
func LoadRuleTable(path string) (*RuleTable, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var t RuleTable
	if err := toml.Unmarshal(blob, &t); err != nil {
		return nil, fmt.Errorf("parse rule table: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// DefaultTechniqueRules is the built-in technique/strategy vocabulary for
// small-sample data-driven modeling reviews.
func DefaultTechniqueRules() *RuleTable {
	return &RuleTable{Rules: []Rule{
		{Canonical: "Multi-Fidelity Data Fusion", Keywords: []string{"multi-fidelity", "multifidelity", "multi fidelity", "dual fidelity", "bi-fidelity"}},
		{Canonical: "Transfer Learning", Keywords: []string{"transfer learn", "fine-tun", "fine tun"}},
		{Canonical: "Physics-Informed Methods / PINN", Keywords: []string{"physics-inform", "physics inform", "pinn", "physics-guided", "physics constrain"}},
		{Canonical: "Surrogate Modeling", Keywords: []string{"surrogate", "emulat", "metamodel"}},
		{Canonical: "Data Augmentation", Keywords: []string{"data augment"}},
		{Canonical: "Virtual Sample Generation", Keywords: []string{"virtual sample", "synthetic sample", "synthetic data"}},
		{Canonical: "Active Learning / Adaptive Sampling", Keywords: []string{"active learn", "adaptive sampling", "adaptive sample"}},
		{Canonical: "Few-Shot / Small-Data Learning", Keywords: []string{"few-shot", "few shot", "small sample", "small data", "low-data", "low data"}},
		{Canonical: "Sparse Methods / Compressed Sensing", Keywords: []string{"sparse", "compress", "compressive"}},
		{Canonical: "Generative Models (GAN/VAE/Diffusion)", Keywords: []string{"gan", "generative adversarial", "variational autoencod", "diffusion model", "vae"}},
		{Canonical: "Multi-Task Learning", Keywords: []string{"multi-task", "multitask"}},
		{Canonical: "Uncertainty Quantification / Bayesian Methods", Keywords: []string{"uncertainty", "bayesian", "probabilistic"}},
	}}
}

// methodAliases merges synonymous ML method names. Exact match only;
// unmapped names pass through.
var methodAliases = map[string]string{
	"Artificial Neural Network":       "Neural Network / ANN",
	"ANN":                             "Neural Network / ANN",
	"Deep Neural Network":             "Deep Neural Network (DNN)",
	"DNN":                             "Deep Neural Network (DNN)",
	"Convolutional Neural Network":    "Convolutional Neural Network (CNN)",
	"CNN":                             "Convolutional Neural Network (CNN)",
	"Long Short-Term Memory":          "LSTM",
	"Physics-Informed Neural Network": "PINN",
	"Generative Adversarial Network":  "GAN",
	"Support Vector Machine":          "SVM / SVR",
	"SVM":                             "SVM / SVR",
	"SVR":                             "SVM / SVR",
	"Gaussian Process":                "Gaussian Process (GP/GPR)",
	"Gaussian Process Regression":     "Gaussian Process (GP/GPR)",
	"GPR":                             "Gaussian Process (GP/GPR)",
	"Random Forest":                   "Random Forest (RF)",
	"RF":                              "Random Forest (RF)",
}

// NormalizeMethod merges synonymous ML method names onto a stable form.
func NormalizeMethod(m string) string {
	m = strings.TrimSpace(m)
	if canonical, ok := methodAliases[m]; ok {
		return canonical
	}
	return m
}
