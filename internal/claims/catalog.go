package claims

import "time"

// Airdrop is a claimable token grant. Amounts are MURAT tokens.
type Airdrop struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Amount      int64  `json:"amount"`
	ImageURL    string `json:"image_url"`
	Active      bool   `json:"is_active"`
}

// Proposal is a governance question with a closed option list.
type Proposal struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Options     []string `json:"options"`
	Active      bool     `json:"is_active"`
	EndsAt      int64    `json:"ends_at_s"`
}

var defaultAirdrops = []Airdrop{
	{
		ID:          "daily_bonus",
		Name:        "Daily Bonus",
		Description: "Täglicher MURAT Bonus",
		Amount:      50,
		ImageURL:    "https://cdn.kryptomurat.de/airdrops/daily.png",
		Active:      true,
	},
	{
		ID:          "welcome_bonus",
		Name:        "Welcome Bonus",
		Description: "Willkommensbonus für neue User",
		Amount:      100,
		ImageURL:    "https://cdn.kryptomurat.de/airdrops/welcome.png",
		Active:      true,
	},
	{
		ID:          "community_bonus",
		Name:        "Community Bonus",
		Description: "Bonus für aktive Community-Mitglieder",
		Amount:      75,
		ImageURL:    "https://cdn.kryptomurat.de/airdrops/community.png",
		Active:      true,
	},
}

func defaultProposals(now time.Time) []Proposal {
	return []Proposal{
		{
			ID:          "proposal_1",
			Title:       "Neue NFT-Kollektion",
			Description: "Sollen wir eine neue Meme-NFT-Kollektion erstellen?",
			Options:     []string{"Ja", "Nein", "Später"},
			Active:      true,
			EndsAt:      now.Add(7 * 24 * time.Hour).Unix(),
		},
		{
			ID:          "proposal_2",
			Title:       "Stream-Thema",
			Description: "Welches Thema soll der nächste Stream haben?",
			Options:     []string{"Crypto News", "Gaming", "NFT Reviews"},
			Active:      true,
			EndsAt:      now.Add(3 * 24 * time.Hour).Unix(),
		},
		{
			ID:          "proposal_3",
			Title:       "Metaverse Erweiterung",
			Description: "Welche neuen Bereiche sollen im Metaverse hinzukommen?",
			Options:     []string{"Gaming Zone", "Trading Floor", "Social Hub"},
			Active:      true,
			EndsAt:      now.Add(5 * 24 * time.Hour).Unix(),
		},
	}
}
