package catalog

import "ivix-ratings/internal/domain"

// Seed returns the fixed starting catalog. Entries start without reviews,
// so their rating is the editorial score until the first review arrives.
func Seed() []domain.Game {
	return []domain.Game{
		{
			ID:          "1",
			Title:       "The Legend of Zelda: Breath of the Wild",
			Genre:       "Action-Adventure",
			Platforms:   []string{"Nintendo Switch", "Wii U"},
			Rating:      9.5,
			Description: "An epic open-world adventure in the kingdom of Hyrule.",
			ReleaseYear: 2017,
			Image:       DefaultCoverImage,
			Reviews:     []domain.Review{},
		},
		{
			ID:          "2",
			Title:       "Red Dead Redemption 2",
			Genre:       "Action-Adventure",
			Platforms:   []string{"PlayStation 4", "Xbox One", "PC"},
			Rating:      9.7,
			Description: "An epic tale of life in America's unforgiving heartland.",
			ReleaseYear: 2018,
			Image:       DefaultCoverImage,
			Reviews:     []domain.Review{},
		},
		{
			ID:          "3",
			Title:       "Cyberpunk 2077",
			Genre:       "RPG",
			Platforms:   []string{"PC", "PlayStation", "Xbox"},
			Rating:      7.8,
			Description: "An open-world, action-adventure RPG set in Night City.",
			ReleaseYear: 2020,
			Image:       DefaultCoverImage,
			Reviews:     []domain.Review{},
		},
		{
			ID:          "4",
			Title:       "God of War",
			Genre:       "Action",
			Platforms:   []string{"PlayStation 4", "PC"},
			Rating:      9.4,
			Description: "A father and son journey through Norse realms.",
			ReleaseYear: 2018,
			Image:       DefaultCoverImage,
			Reviews:     []domain.Review{},
		},
		{
			ID:          "5",
			Title:       "Minecraft",
			Genre:       "Sandbox",
			Platforms:   []string{"All Platforms"},
			Rating:      9.0,
			Description: "A sandbox game that lets players build and explore.",
			ReleaseYear: 2011,
			Image:       DefaultCoverImage,
			Reviews:     []domain.Review{},
		},
	}
}
