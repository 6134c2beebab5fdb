package pipeline

import (
	"fmt"
	"strings"

	"coursebuild/internal/lesson"
)

// renderSpoken produces the narration document read aloud during recording.
func renderSpoken(master *lesson.ScriptMaster) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s (%s)\n\n", master.Title, master.LessonID)
	fmt.Fprintf(&b, "Objective: %s\n", master.Objective)

	for _, section := range master.Sections {
		fmt.Fprintf(&b, "\n## %s\n\n", section.Heading)
		for _, line := range section.Narration {
			fmt.Fprintf(&b, "%s\n", line)
		}
	}

	if len(master.Roleplay.Lines) > 0 {
		fmt.Fprintf(&b, "\n## Role-play: %s\n\n", master.Roleplay.Scenario)
		for _, line := range master.Roleplay.Lines {
			fmt.Fprintf(&b, "%s: %s | %s | %s\n", line.Speaker, line.Script, line.Translit, line.Gloss)
		}
	}

	if len(master.Recap) > 0 {
		fmt.Fprintf(&b, "\n## Recap\n\n")
		for _, entry := range master.Recap {
			fmt.Fprintf(&b, "%s\n", entry)
		}
	}
	return b.String()
}

// renderVisual produces the on-screen document: one bullet per line in the
// fixed triplet shape.
func renderVisual(master *lesson.ScriptMaster) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Visuals: %s\n", master.Title)

	for _, section := range master.Sections {
		if len(section.Bullets) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n## %s\n\n", section.Heading)
		for _, bullet := range section.Bullets {
			fmt.Fprintf(&b, "- %s\n", bullet)
		}
	}
	return b.String()
}

// renderGuide produces the human-readable study guide companion to the
// structured source object.
func renderGuide(guide *lesson.StudyGuide) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n", guide.Title)
	for _, section := range guide.Sections {
		fmt.Fprintf(&b, "\n## %s\n\n%s\n", section.Heading, section.Body)
	}
	if len(guide.Drills) > 0 {
		fmt.Fprintf(&b, "\n## Drills\n\n")
		for i, drill := range guide.Drills {
			fmt.Fprintf(&b, "%d. %s\n", i+1, drill)
		}
	}
	if len(guide.AnswerKey) > 0 {
		fmt.Fprintf(&b, "\n## Answer Key\n\n")
		for i, answer := range guide.AnswerKey {
			fmt.Fprintf(&b, "%d. %s\n", i+1, answer)
		}
	}
	return b.String()
}
