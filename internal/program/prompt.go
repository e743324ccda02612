package program

import (
	"fmt"
	"strings"
	"time"
)

// systemPrompt frames the model as a coach and pins the response format.
const systemPrompt = "You are an expert strength and conditioning coach who specializes in creating effective, " +
	"periodized training programs. Create professional, functional fitness-style workouts with precise stimulus " +
	"explanations, detailed scaling options, and specific coaching cues. Each workout should include clear RX " +
	"weights, proper warm-up and cool-down protocols, and actionable strategy recommendations. Follow sound " +
	"exercise science principles with appropriate progression, variation, and specificity. VERY IMPORTANT: Always " +
	"prioritize the client's specific requirements from their description field above all other considerations - " +
	"these are their must-have elements and should be incorporated throughout the program. Provide responses " +
	"EXACTLY in the JSON format specified in the prompt."

// buildPrompt assembles the user prompt for a generation run. The output is
// a pure function of its inputs so a run can be reproduced from the stored
// settings.
func buildPrompt(p Params, metricsContent, referencesContent string, dates []string, hasInjury bool) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Generate a %d-week training program with the following parameters:\n\n", p.Weeks)

	if p.AdditionalNotes != "" {
		fmt.Fprintf(&b, "IMPORTANT REQUIREMENTS FROM THE CLIENT: %s\n", p.AdditionalNotes)
		b.WriteString("Please prioritize these specific requirements above all else in program design.\n\n")
	}

	fmt.Fprintf(&b, "Goal: %s\n", p.Goal)
	fmt.Fprintf(&b, "Difficulty: %s\n", p.Difficulty)
	fmt.Fprintf(&b, "Days Per Week: %d days\n", p.DaysPerWeek)
	fmt.Fprintf(&b, "Selected Training Days: %s\n", dayNames(p.SelectedWeekdays))
	fmt.Fprintf(&b, "Total Length: %d weeks\n", p.Weeks)
	if p.FocusArea != "" {
		fmt.Fprintf(&b, "Focus Area: %s\n", p.FocusArea)
	}
	if len(p.Equipment) > 0 {
		fmt.Fprintf(&b, "Available Equipment: %s\n", strings.Join(p.Equipment, ", "))
	}
	if len(p.WorkoutFormats) > 0 {
		fmt.Fprintf(&b, "Workout Formats to Include: %s\n", strings.Join(p.WorkoutFormats, ", "))
	}
	if p.GymType != "" {
		fmt.Fprintf(&b, "Gym Type: %s\n", p.GymType)
	}
	if p.Personalization != "" {
		fmt.Fprintf(&b, "Personalization: %s\n", p.Personalization)
	}
	if metricsContent != "" {
		b.WriteString("\n" + metricsContent + "\n")
	}
	if referencesContent != "" {
		b.WriteString("\n" + referencesContent + "\n")
	}

	b.WriteString(`
For the program description, include:
1. A concise overview of the program's goals and intended adaptations
2. The periodization approach used and why it's appropriate
3. Expected outcomes from following the program
4. Recommendations for nutrition, recovery, and supplementary training

`)
	fmt.Fprintf(&b, "The program should follow logical progression based on the selected program type (%s).\n", p.ProgramType)
	b.WriteString("Ensure proper periodization, recovery, and exercise variation throughout the program.\n\n")
	b.WriteString("IMPORTANT: The workouts must be scheduled on specific dates according to the user's selected " +
		"training days. DO NOT create workouts on days other than the ones specified.\n\n")

	focus := p.FocusArea
	if focus == "" {
		focus = p.Goal
	}
	b.WriteString("Your response MUST be in this exact JSON format:\n")
	fmt.Fprintf(&b, `{
  "title": "Training Program for %s",
  "description": "A comprehensive %d-week %s training program focused on %s that includes detailed weekly progression, nutrition guidance, and recovery recommendations",
  "overview": "A detailed explanation of the program methodology, periodization approach, expected outcomes, and supplementary recommendations",
  "workouts": [
    {
      "title": "Week X, Day Y: [Focus Area] and [Creative Title]",
      "body": "Detailed workout description including all required sections",
      "date": "YYYY-MM-DD"
    },
    ...more workouts
  ]
}
`, p.Goal, p.Weeks, p.Difficulty, focus)

	b.WriteString("\nFor each workout's \"body\" field, use this structure:\n```\n")
	b.WriteString(`## Stimulus and Strategy
[Detailed explanation of workout stimulus and strategy approach]
- Explain the intended stimulus for both strength and conditioning portions
- Provide pacing guidance for each section
- Explain how to approach the workout (e.g., "Break the handstand push-ups into sets of 3 early")`)
	b.WriteString(scalingBodyStructure(p.Difficulty, hasInjury))
	b.WriteString(`

## Warm-up
[Detailed warm-up protocol with specific movements, sets, reps]
- Include duration, reps, and brief explanations
- Focus on movement preparation and activation

## Strength Work
[Complete strength workout with movements, sets, reps, specific weights]
- Clear exercise format (Sets x Reps, EMOM, etc.)
- Specific movements, sets, reps, and rest periods
- Exact weights for RX (men and women) and scaling options
- Loading percentages when appropriate (e.g., "75% of 1RM")

## Conditioning Work
[Complete conditioning workout with movements, sets, reps, specific weights]
- Clear exercise format (AMRAP, For Time, etc.)
- Specific movements, sets, reps, and rest periods
- Exact weights for RX (men and women) and scaling options
- Target time domains or goal times when applicable

## Cool-down
[Detailed cool-down protocol]
- Include specific movements and durations
- Focus on recovery and mobility work

## Coaching Cues
[3-5 specific technical cues for key movements]
- Technical cues for the most complex movements
- Form tips to maximize efficiency and safety
- Common errors to avoid
`)
	b.WriteString("```\n\n")

	fmt.Fprintf(&b, "The \"workouts\" array should contain exactly %d workouts, organized in a progressive sequence.\n\n",
		p.TotalWorkouts)

	b.WriteString("Use the following dates for each workout:\n")
	for i, date := range dates {
		week := i/p.DaysPerWeek + 1
		day := i%p.DaysPerWeek + 1
		fmt.Fprintf(&b, "Workout %d: %s (Week %d, Day %d)\n", i+1, date, week, day)
	}

	b.WriteString("\nIMPORTANT: Each workout MUST be assigned to one of the above dates. " +
		"These dates strictly follow the user's selected training days of the week.")

	return b.String()
}

// scalingBodyStructure returns the scaling section of the workout body
// template. Advanced and Elite athletes do not get scaling options; injury
// considerations only appear when the client has a meaningful injury history.
func scalingBodyStructure(difficulty string, hasInjury bool) string {
	if difficulty != "Beginner" && difficulty != "Intermediate" {
		return ""
	}
	section := `

## Scaling Options
### Intermediate Option
[Detailed intermediate scaling with specific weights and modifications]

### Beginner Option
[Detailed beginner scaling with specific weights and modifications]`
	if hasInjury {
		section += `

### Injury Considerations
[Modifications for common limitations]`
	}
	return section
}

// dayNames renders weekdays as a comma-separated list, e.g. "Monday, Wednesday".
func dayNames(weekdays []time.Weekday) string {
	names := make([]string, len(weekdays))
	for i, day := range weekdays {
		names[i] = day.String()
	}
	return strings.Join(names, ", ")
}
