// Package smarthome handles design identifiers and the starter workspace
// generated for a new smart home.
package smarthome

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidID is returned for identifiers not in CC-ZIPCODE-STR##-NN form.
var ErrInvalidID = errors.New("invalid smart home id")

// idPattern is {country}-{zip}-{street code}{house number}-{sequence},
// e.g. DE-80331-MAR12-01.
var idPattern = regexp.MustCompile(`^([A-Z]{2})-(\d{3,5})-([A-Z]{3})(\d{1,5})-(\d{2})$`)

// ID is a parsed smart home identifier. It is the root id of every IRI
// compiled from the home's design.
type ID struct {
	Country     string // ISO 3166 alpha-2
	Zip         string
	StreetCode  string
	HouseNumber string
	Suffix      string
}

// String returns the canonical form of the identifier.
func (id ID) String() string {
	return fmt.Sprintf("%s-%s-%s%s-%s", id.Country, id.Zip, id.StreetCode, id.HouseNumber, id.Suffix)
}

// Normalize trims and upper-cases an identifier.
func Normalize(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// ValidateID checks an identifier after normalization.
func ValidateID(s string) error {
	_, err := ParseID(s)
	return err
}

// ParseID normalizes and splits an identifier into its parts.
func ParseID(s string) (ID, error) {
	norm := Normalize(s)
	if norm == "" {
		return ID{}, fmt.Errorf("%w: id is required", ErrInvalidID)
	}
	m := idPattern.FindStringSubmatch(norm)
	if m == nil {
		return ID{}, fmt.Errorf("%w: %q, expected CC-ZIPCODE-STR##-NN (e.g. DE-80331-MAR12-01)", ErrInvalidID, s)
	}
	return ID{
		Country:     m[1],
		Zip:         m[2],
		StreetCode:  m[3],
		HouseNumber: m[4],
		Suffix:      m[5],
	}, nil
}
