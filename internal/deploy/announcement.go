package deploy

import (
	"encoding/json"
	"fmt"
	"strings"

	"petpad-launchpad/internal/domain"
)

// launchMarker is the directive that tells the deployment service to pick
// the announcement up.
const launchMarker = "!clawnch"

// descriptionSuffix tags every launched token description with its pet type.
const descriptionSuffix = "\n\n\U0001F43E %s | Launched via PetPad"

// announcementPayload is the machine-readable block embedded in the
// announcement post body. Field order is fixed so announcements are
// reproducible.
type announcementPayload struct {
	Name        string  `json:"name"`
	Symbol      string  `json:"symbol"`
	Wallet      string  `json:"wallet"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	Website     *string `json:"website,omitempty"`
	Twitter     *string `json:"twitter,omitempty"`
}

// buildAnnouncement renders the title and body of a launch announcement post.
func buildAnnouncement(req *domain.LaunchRequest, imageURL string) (title, content string, err error) {
	payload := announcementPayload{
		Name:        req.Name,
		Symbol:      req.Symbol,
		Wallet:      req.Wallet,
		Description: req.Description + fmt.Sprintf(descriptionSuffix, strings.ToUpper(string(req.PetType))),
		Image:       imageURL,
		Website:     req.Website,
		Twitter:     req.Twitter,
	}

	encoded, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", "", fmt.Errorf("marshal announcement payload: %w", err)
	}

	title = "\U0001F43E Launching " + req.Symbol
	content = launchMarker + "\n```json\n" + string(encoded) + "\n```"
	return title, content, nil
}
