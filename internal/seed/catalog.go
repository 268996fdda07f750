package seed

import (
	gamedomain "github.com/carbonctrl/carbonctrl/internal/game/domain"
	missiondomain "github.com/carbonctrl/carbonctrl/internal/mission/domain"
	quizdomain "github.com/carbonctrl/carbonctrl/internal/quiz/domain"
)

func quizCatalog() []quizdomain.Quiz {
	return []quizdomain.Quiz{
		{
			Code:        "recycling-basics",
			Title:       "Recycling Basics",
			Description: "Learn the fundamentals of recycling and waste management",
			Icon:        "♻️",
			Difficulty:  "Easy",
			Points:      100,
			Questions: []quizdomain.Question{
				{
					ID:            1,
					Question:      "Which of the following items can be recycled?",
					Options:       []string{"Plastic bottles", "Food waste", "Broken glass", "All of the above"},
					CorrectAnswer: 0,
					Explanation:   "Plastic bottles are recyclable, while food waste should be composted and broken glass needs special handling.",
					Points:        20,
				},
				{
					ID:            2,
					Question:      "What is the most important step before recycling?",
					Options:       []string{"Washing items", "Sorting by color", "Removing labels", "All of the above"},
					CorrectAnswer: 3,
					Explanation:   "All these steps help ensure proper recycling and prevent contamination.",
					Points:        20,
				},
				{
					ID:            3,
					Question:      "How long does it take for a plastic bottle to decompose?",
					Options:       []string{"1 year", "10 years", "450 years", "1000 years"},
					CorrectAnswer: 2,
					Explanation:   "Plastic bottles can take up to 450 years to decompose in the environment.",
					Points:        20,
				},
				{
					ID:            4,
					Question:      "Which material is most commonly recycled?",
					Options:       []string{"Paper", "Plastic", "Glass", "Metal"},
					CorrectAnswer: 0,
					Explanation:   "Paper is the most commonly recycled material worldwide.",
					Points:        20,
				},
				{
					ID:            5,
					Question:      "What percentage of waste can be recycled?",
					Options:       []string{"25%", "50%", "75%", "90%"},
					CorrectAnswer: 2,
					Explanation:   "Approximately 75% of household waste can be recycled or composted.",
					Points:        20,
				},
			},
		},
		{
			Code:        "climate-change",
			Title:       "Climate Change",
			Description: "Test your knowledge about climate change and its impacts",
			Icon:        "🌡️",
			Difficulty:  "Medium",
			Points:      150,
			Questions: []quizdomain.Question{
				{
					ID:            1,
					Question:      "What is the main cause of climate change?",
					Options:       []string{"Solar radiation", "Greenhouse gases", "Ocean currents", "Volcanic activity"},
					CorrectAnswer: 1,
					Explanation:   "Greenhouse gases trap heat in the atmosphere, causing global warming.",
					Points:        30,
				},
				{
					ID:            2,
					Question:      "Which gas is the most abundant greenhouse gas?",
					Options:       []string{"Carbon dioxide", "Methane", "Water vapor", "Nitrous oxide"},
					CorrectAnswer: 2,
					Explanation:   "Water vapor is the most abundant greenhouse gas in the atmosphere.",
					Points:        30,
				},
			},
		},
		{
			Code:        "renewable-energy",
			Title:       "Renewable Energy",
			Description: "Learn about clean energy sources and sustainability",
			Icon:        "⚡",
			Difficulty:  "Hard",
			Points:      200,
			Questions: []quizdomain.Question{
				{
					ID:            1,
					Question:      "Which renewable energy source is most efficient?",
					Options:       []string{"Solar", "Wind", "Hydroelectric", "Geothermal"},
					CorrectAnswer: 2,
					Explanation:   "Hydroelectric power has the highest efficiency among renewable energy sources.",
					Points:        40,
				},
			},
		},
	}
}

func gameCatalog() []gamedomain.Game {
	return []gamedomain.Game{
		{
			Code:            "recycling-game",
			Title:           "Recycling Rush",
			Description:     "Sort falling waste into the right bins before time runs out",
			Icon:            "♻️",
			Color:           "#4caf50",
			Difficulty:      "Easy",
			CoinReward:      20,
			ScoreMultiplier: 1.5,
		},
		{
			Code:            "energy-saver",
			Title:           "Energy Saver",
			Description:     "Switch off wasteful appliances and keep the house efficient",
			Icon:            "💡",
			Color:           "#ffc107",
			Difficulty:      "Easy",
			CoinReward:      15,
			ScoreMultiplier: 1,
		},
		{
			Code:            "tree-planting",
			Title:           "Tree Planting",
			Description:     "Grow a forest by planting and watering saplings",
			Icon:            "🌳",
			Color:           "#2e7d32",
			Difficulty:      "Medium",
			CoinReward:      25,
			ScoreMultiplier: 2,
		},
		{
			Code:            "water-conservation",
			Title:           "Water Guardian",
			Description:     "Find and fix leaks before the reservoir runs dry",
			Icon:            "💧",
			Color:           "#03a9f4",
			Difficulty:      "Hard",
			CoinReward:      30,
			ScoreMultiplier: 2.5,
		},
	}
}

func missionCatalog() []missiondomain.Mission {
	return []missiondomain.Mission{
		{
			Code:       "plastic-free-week",
			Title:      "The Plastic-Free Week",
			Story:      "Single-use plastic has taken over the school cafeteria. Lead your class through a week without it.",
			Icon:       "🛍️",
			Difficulty: "Easy",
			Chapters: []string{
				"Audit your lunchbox",
				"Swap bottles for refillables",
				"Convince a friend to join",
			},
			CoinReward:  40,
			ScoreReward: 60,
			Badge:       "plastic-free",
		},
		{
			Code:       "neighborhood-cleanup",
			Title:      "Neighborhood Cleanup",
			Story:      "The park by the river has collected a winter of litter. Organize a cleanup crew and bring it back.",
			Icon:       "🧹",
			Difficulty: "Medium",
			Chapters: []string{
				"Map the litter hotspots",
				"Gather gloves and bags",
				"Sort what you collected",
				"Report your haul",
			},
			CoinReward:  60,
			ScoreReward: 100,
			Badge:       "cleanup-hero",
		},
		{
			Code:       "carbon-detective",
			Title:      "Carbon Detective",
			Story:      "Someone is wasting energy at home and the meter knows it. Follow the clues and cut the waste.",
			Icon:       "🕵️",
			Difficulty: "Hard",
			Chapters: []string{
				"Read the meter for three days",
				"Find the biggest consumer",
				"Make one change and measure again",
			},
			CoinReward:  80,
			ScoreReward: 150,
			Badge:       "carbon-detective",
		},
		{
			Code:       "ar-habitat-hunt",
			Title:      "AR Habitat Hunt",
			Story:      "Point your camera at the world around you and discover the species that share your street.",
			Icon:       "📷",
			Difficulty: "Medium",
			Chapters: []string{
				"Find three urban habitats",
				"Identify a bird and an insect",
				"Share your field notes",
			},
			CoinReward:  50,
			ScoreReward: 80,
			Badge:       "field-explorer",
			AR:          true,
		},
	}
}
