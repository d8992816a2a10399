package memory

import (
	"github.com/refbook/refbook/internal/domain/club"
	"github.com/refbook/refbook/internal/domain/match"
)

const (
	ClubIDNordwest  = "club-nordwest"
	ClubIDSuedstern = "club-suedstern"
)

func SeedClubs() []club.Club {
	return []club.Club{
		{ID: ClubIDNordwest, Name: "SV Nordwest", ShortCode: "SVN"},
		{ID: ClubIDSuedstern, Name: "FC Suedstern", ShortCode: "FCS"},
	}
}

func SeedMatches() []match.Match {
	return []match.Match{
		{
			ID:          "mx-nw-001",
			ClubID:      ClubIDNordwest,
			Description: "SV Nordwest II vs TuS Hafen",
			Date:        "2026-09-12",
			Time:        "15:00",
			Location:    "Sportplatz Nordwest",
			Status:      match.StatusScheduled,
		},
		{
			ID:          "mx-nw-002",
			ClubID:      ClubIDNordwest,
			Description: "SV Nordwest U19 vs Blau-Gelb 04",
			Date:        "2026-09-12",
			Time:        "11:30",
			Location:    "Sportplatz Nordwest",
			Status:      match.StatusScheduled,
		},
		{
			ID:          "mx-nw-003",
			ClubID:      ClubIDNordwest,
			Description: "SV Nordwest vs SC Eiche",
			Date:        "2026-09-19",
			Time:        "15:00",
			Location:    "Stadion Am Wall",
			Status:      match.StatusScheduled,
		},
		{
			ID:          "mx-ss-001",
			ClubID:      ClubIDSuedstern,
			Description: "FC Suedstern vs VfB Klinge",
			Date:        "2026-09-13",
			Time:        "13:00",
			Location:    "Suedstern-Park",
			Status:      match.StatusScheduled,
		},
		{
			ID:          "mx-ss-002",
			ClubID:      ClubIDSuedstern,
			Description: "FC Suedstern II vs Rot-Weiss 09",
			Date:        "2026-09-20",
			Time:        "13:00",
			Location:    "Suedstern-Park",
			Status:      match.StatusPostponed,
		},
	}
}
