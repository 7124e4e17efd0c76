// Package tui provides the full-screen prompter used by 'adivina play --ui tui'.
//
// Every question runs as a short-lived bubbletea program, so the game loop
// stays a plain sequence of blocking calls:
//
//	p := tui.NewPrompter(os.Stdin, os.Stdout, classifier, reprompt)
//	yes, err := p.AskYesNo("¿El animal... Ruge?")
//
// Each prompt shows the title with the round number, the questions already
// answered this round, the input field and a footer with the running score.
// Unrecognized yes/no replies keep the prompt open with a warning. Esc or
// Ctrl+C ends the prompt with ErrCanceled.
package tui
