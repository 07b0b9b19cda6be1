package domain

import "strings"

// PetType selects which deterministic pixel-art pattern is rendered for a launch.
type PetType string

const (
	PetDog     PetType = "dog"
	PetCat     PetType = "cat"
	PetHamster PetType = "hamster"
	PetBunny   PetType = "bunny"
)

// PetTypes lists all supported pet types.
var PetTypes = []PetType{PetDog, PetCat, PetHamster, PetBunny}

// ParsePetType case-folds s and returns the matching pet type.
// The second return value is false when s is not a known pet type.
func ParsePetType(s string) (PetType, bool) {
	p := PetType(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range PetTypes {
		if p == known {
			return p, true
		}
	}
	return "", false
}
