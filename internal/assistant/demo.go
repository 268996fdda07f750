package assistant

import (
	"fmt"
	"strings"

	profiledomain "github.com/carbonctrl/carbonctrl/internal/profile/domain"
	quizdomain "github.com/carbonctrl/carbonctrl/internal/quiz/domain"
)

// Demo mode content. Served when no API key is configured so classrooms
// without network credentials still get a working tutor.

func demoAnswer(question string) string {
	lower := strings.ToLower(question)
	switch {
	case strings.Contains(lower, "recycl"):
		return "Recycling keeps materials in use and out of landfills. Rinse containers, " +
			"check your local sorting rules, and remember that paper, glass, and most rigid " +
			"plastics are widely accepted. Tip: flatten cardboard boxes to save bin space!"
	case strings.Contains(lower, "climate"):
		return "Climate change is driven by greenhouse gases like CO2 trapping heat in the " +
			"atmosphere. Everyday choices matter: walking or cycling short trips, eating more " +
			"plant-based meals, and saving electricity all reduce emissions."
	case strings.Contains(lower, "energy"):
		return "Saving energy starts at home. Switch to LED bulbs, unplug chargers you are " +
			"not using, and let sunlight warm rooms in winter. Small habits add up to real " +
			"reductions in your carbon footprint."
	default:
		return "Great question! Protecting the environment starts with small daily habits: " +
			"reduce waste, reuse what you can, recycle the rest, and save water and energy. " +
			"Keep exploring the quizzes and missions to learn more."
	}
}

func demoQuiz(topic, difficulty string) []quizdomain.Question {
	points := pointsForDifficulty(difficulty)
	return []quizdomain.Question{
		{
			ID:            1,
			Question:      fmt.Sprintf("Which everyday action helps most with %s?", topic),
			Options:       []string{"Ignoring the problem", "Learning and acting on small habits", "Using more disposable items", "Leaving lights on"},
			CorrectAnswer: 1,
			Explanation:   "Consistent small habits are the foundation of sustainable change.",
			Points:        points,
		},
		{
			ID:            2,
			Question:      fmt.Sprintf("Why does %s matter for the planet?", topic),
			Options:       []string{"It does not matter", "Only scientists need to care", "It affects ecosystems and future generations", "It is just a trend"},
			CorrectAnswer: 2,
			Explanation:   "Environmental choices today shape the world future generations inherit.",
			Points:        points,
		},
		{
			ID:            3,
			Question:      fmt.Sprintf("What is a good first step to learn about %s?", topic),
			Options:       []string{"Ask questions and explore reliable sources", "Assume you know everything", "Avoid the topic", "Wait for others to act"},
			CorrectAnswer: 0,
			Explanation:   "Curiosity and reliable information are the best starting points.",
			Points:        points,
		},
	}
}

func demoInsights(profile *profiledomain.Profile) *Insights {
	return &Insights{
		CarbonFootprint: 0,
		Recommendations: []string{"Continue your eco-friendly journey!"},
		Achievements:    []string{"Great progress so far!"},
		NextGoals:       []string{"Set new environmental goals"},
	}
}

func demoMotivation(profile *profiledomain.Profile) string {
	if profile != nil && profile.EcoScore > 0 {
		return fmt.Sprintf("Amazing work, %s! You have earned %d eco points and reached level %d. "+
			"Every quiz, game, and mission you complete makes a real difference. Keep going!",
			profile.DisplayName, profile.EcoScore, profile.Level)
	}
	return "Keep up the great environmental work! Every small action counts, and your journey is just beginning."
}
