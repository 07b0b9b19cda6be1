// Package parser turns raw feed post text into validated launch requests.
package parser

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"petpad-launchpad/internal/domain"
)

// Marker is the token that signals a post carries a launch request.
const Marker = "!petpad"

// Required keys a launch request post must carry.
var requiredKeys = []string{"name", "symbol", "wallet", "description", "pettype"}

// Parser extracts launch requests from free-text posts.
// Parse is a pure function: no I/O, deterministic for the same input.
type Parser struct{}

// New creates a Parser.
func New() *Parser {
	return &Parser{}
}

// Parse returns the launch request embedded in content, or nil when content
// carries no marker, misses a required key, or fails validation.
//
// Lines are scanned for "key: value" pairs: the first colon splits key from
// value, the value keeps any further colons, and keys are case-folded. The
// symbol is canonicalized to uppercase; website and twitter pass through
// unchanged and stay nil when absent.
func (p *Parser) Parse(content string) *domain.LaunchRequest {
	lines := strings.Split(content, "\n")

	hasMarker := false
	fields := make(map[string]string)
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if strings.Contains(line, Marker) {
			hasMarker = true
		}

		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)
		if key != "" && value != "" {
			fields[key] = value
		}
	}

	if !hasMarker {
		return nil
	}

	for _, key := range requiredKeys {
		if fields[key] == "" {
			return nil
		}
	}

	petType, ok := domain.ParsePetType(fields["pettype"])
	if !ok {
		return nil
	}

	wallet := fields["wallet"]
	if !strings.HasPrefix(wallet, "0x") || !common.IsHexAddress(wallet) {
		return nil
	}

	req := &domain.LaunchRequest{
		Name:        fields["name"],
		Symbol:      strings.ToUpper(fields["symbol"]),
		Wallet:      wallet,
		Description: fields["description"],
		PetType:     petType,
	}
	if v, ok := fields["website"]; ok {
		req.Website = &v
	}
	if v, ok := fields["twitter"]; ok {
		req.Twitter = &v
	}
	return req
}
