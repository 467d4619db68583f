package main

import (
	"fmt"
	"math/rand/v2"

	"github.com/charmbracelet/lipgloss"
)

var deckGreetings = [...]string{
	"The backlog grew by three while you read this.",
	"Somebody assigned you an issue. You wouldn't know. You're logged out.",
	"Unread notifications pile up whether you watch them or not.",
	"A critical bug does not care that your session expired.",
	"The board is moving. Your column isn't.",
	"Someone mentioned you in a comment an hour ago. Awkward.",
	"Time not logged is time argued about later.",
	"Every open issue was once someone's 'quick fix'.",
	"The deck is shuffled. Your cards are waiting.",
	"Status: open. Assignee: you. Presence: absent.",
	"Closing issues feels better than reading this. Log in and compare.",
	"Your teammates can see the 'last seen' column. Just saying.",
}

// printGreeting is shown when no valid session exists.
func printGreeting() {
	msg := deckGreetings[rand.IntN(len(deckGreetings))]

	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#4ea1f3")).
		Bold(true).
		Render("TRACKDECK")

	quote := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Italic(true).
		Render(msg)

	hint := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Render("To get started: trackdeck login")

	fmt.Printf("\n%s\n\n%s\n\n%s\n\n", title, quote, hint)
}

func printHelp() {
	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#4ea1f3")).
		Bold(true).
		Render("T R A C K D E C K")

	cmdStyle := lipgloss.NewStyle().Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	commands := []struct{ cmd, desc string }{
		{"trackdeck", "Open the tracker (interactive TUI)"},
		{"trackdeck login", "Authenticate with username and password"},
		{"trackdeck logout", "Clear the stored session"},
		{"trackdeck --version", "Show version"},
	}

	fmt.Printf("\n%s\n\n", title)
	for _, c := range commands {
		fmt.Printf("  %s\n      %s\n", cmdStyle.Render(c.cmd), descStyle.Render(c.desc))
	}
	fmt.Println()
}
