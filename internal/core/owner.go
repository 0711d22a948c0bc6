package core

import (
	"slices"
	"strings"
)

// BankOther is always accepted as a bank, registered or not.
const BankOther = "Other"

// OwnerConfig is the per-owner settings record.
type OwnerConfig struct {
	OwnerID string
	Banks   []string
}

// HasBank reports whether bank may be used on the owner's entries.
func (c OwnerConfig) HasBank(bank string) bool {
	bank = strings.TrimSpace(bank)
	if bank == "" {
		return false
	}
	if strings.EqualFold(bank, BankOther) {
		return true
	}
	return slices.Contains(c.Banks, bank)
}

// AddBank registers a trimmed bank name. Adding an existing name is a no-op
// and reports false.
func (c *OwnerConfig) AddBank(name string) (bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return false, ErrEmptyBank
	}
	if slices.Contains(c.Banks, name) || strings.EqualFold(name, BankOther) {
		return false, nil
	}
	c.Banks = append(c.Banks, name)
	return true, nil
}

// RemoveBank drops name and reports whether it was present.
func (c *OwnerConfig) RemoveBank(name string) bool {
	name = strings.TrimSpace(name)
	i := slices.Index(c.Banks, name)
	if i < 0 {
		return false
	}
	c.Banks = slices.Delete(c.Banks, i, i+1)
	return true
}

// SelectableBanks lists the registered banks followed by BankOther.
func (c OwnerConfig) SelectableBanks() []string {
	out := make([]string, 0, len(c.Banks)+1)
	out = append(out, c.Banks...)
	return append(out, BankOther)
}
