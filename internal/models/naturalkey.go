package models

import (
	"strings"

	"golang.org/x/text/cases"
)

// NaturalKey identifies a category independently of its generated id.
type NaturalKey struct {
	OwnerID string
	Name    string
	Type    CategoryType
}

// NewNaturalKey builds a key with the name normalized: trimmed, inner
// whitespace collapsed to one space, and Unicode case-folded.
func NewNaturalKey(ownerID, name string, typ CategoryType) NaturalKey {
	return NaturalKey{OwnerID: ownerID, Name: NormalizeName(name), Type: typ}
}

func NormalizeName(name string) string {
	return cases.Fold().String(strings.Join(strings.Fields(name), " "))
}

func (k NaturalKey) String() string {
	return k.OwnerID + "/" + string(k.Type) + "/" + k.Name
}
