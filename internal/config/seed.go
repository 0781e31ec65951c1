package config

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"fieldscope/internal/models"
)

// SeedSynonymRules is the starter rule set loaded into a fresh session.
// Users edit or disable these freely; they only seed the grid.
func SeedSynonymRules() []models.SynonymRule {
	return []models.SynonymRule{
		{Enabled: "Y", Pattern: `^insured$`, Replacement: "insured_name"},
		{Enabled: "Y", Pattern: `^pol_holder$`, Replacement: "policy_holder"},
		{Enabled: "Y", Pattern: `^policyholder$`, Replacement: "policy_holder"},
		{Enabled: "Y", Pattern: `^claimant$`, Replacement: "claimant_name"},
		{Enabled: "N", Pattern: `_cd$`, Replacement: "_code"},
	}
}

// fallbackDefinitions backs the lookup when no data file is shipped.
// The data file is the real home for this growing domain knowledge.
var fallbackDefinitions = map[string]string{
	"policy_number":   "Unique identifier of the insurance policy.",
	"claim_number":    "Unique identifier of a claim against a policy.",
	"account_id":      "Identifier of the customer account holding the policy.",
	"loss_date":       "Date the insured loss occurred.",
	"report_date":     "Date the loss was reported to the carrier.",
	"effective_date":  "Date the policy cover begins.",
	"expiration_date": "Date the policy cover ends.",
	"insured_name":    "Name of the insured party.",
	"premium_amount":  "Premium charged for the policy term.",
}

// LoadDefinitionLookup reads the homogenized-name to definition lookup
// from the YAML data file, falling back to the built-in set when the
// file is absent.
func LoadDefinitionLookup(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fallbackDefinitions, nil
		}
		return nil, fmt.Errorf("reading definitions %s: %w", path, err)
	}

	lookup := map[string]string{}
	if err := yaml.Unmarshal(data, &lookup); err != nil {
		return nil, fmt.Errorf("parsing definitions %s: %w", path, err)
	}
	return lookup, nil
}

// SeedDefinitions turns a lookup into the initial definitions table,
// every entry included by default, in stable name order.
func SeedDefinitions(lookup map[string]string) []models.DefinitionEntry {
	entries := make([]models.DefinitionEntry, 0, len(lookup))
	for name, def := range lookup {
		entries = append(entries, models.DefinitionEntry{
			ColumnHomogenized:  name,
			IncludeFlag:        "Y",
			BusinessDefinition: def,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].ColumnHomogenized < entries[j].ColumnHomogenized
	})
	return entries
}
