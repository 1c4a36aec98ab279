package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/noborus/ov/oviewer"
)

// helpPagerMsg contains the result of a help pager command
type helpPagerMsg struct {
	err error
}

// HelpRenderer handles help content rendering
type HelpRenderer struct {
	keys keyMap
}

// NewHelpRenderer creates a new help renderer
func NewHelpRenderer() *HelpRenderer {
	return &HelpRenderer{keys: newKeyMap()}
}

// RenderHelpContent generates the full help page shown in the pager
func (r *HelpRenderer) RenderHelpContent(itemCount int, autoplay time.Duration) string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("99")).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("39")).
		MarginTop(1)

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("220")).
		Width(12)

	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252"))

	noteStyle := lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("241"))

	var help strings.Builder

	help.WriteString(titleStyle.Render("bannerloop help"))
	help.WriteString("\n")

	sections := []string{"Navigation", "Other"}
	for i, group := range r.keys.FullHelp() {
		help.WriteString(sectionStyle.Render(sections[i]))
		help.WriteString("\n")
		for _, b := range group {
			h := b.Help()
			help.WriteString(fmt.Sprintf("  %s %s\n", keyStyle.Render(h.Key), descStyle.Render(h.Desc)))
		}
		help.WriteString("\n")
	}

	help.WriteString(sectionStyle.Render("Mouse"))
	help.WriteString("\n")
	help.WriteString(fmt.Sprintf("  %s %s\n", keyStyle.Render("drag"), descStyle.Render("Scroll; release to snap, fling to skip")))
	help.WriteString(fmt.Sprintf("  %s %s\n", keyStyle.Render("wheel"), descStyle.Render("Previous/next")))
	help.WriteString("\n")

	help.WriteString(noteStyle.Render(fmt.Sprintf("  %d banners, autoplay every %s. Dragging pauses autoplay.", itemCount, autoplay)))
	help.WriteString("\n")

	return help.String()
}

// HelpOps handles help operations
type HelpOps struct {
	program *tea.Program // reference to Bubble Tea program for terminal management
}

// NewHelpOps creates a new help operations instance
func NewHelpOps(program *tea.Program) *HelpOps {
	return &HelpOps{
		program: program,
	}
}

// ShowHelpInPager shows help content using ov pager
func (h *HelpOps) ShowHelpInPager(helpContent string) error {
	if h.program == nil {
		return fmt.Errorf("program not set")
	}

	// Release terminal control to run ov
	if err := h.program.ReleaseTerminal(); err != nil {
		return err
	}

	// Ensure terminal is restored even if ov fails
	defer func() {
		// Small delay to ensure ov has fully exited before restoring terminal
		time.Sleep(100 * time.Millisecond)
		_ = h.program.RestoreTerminal()
	}()

	root, err := oviewer.NewRoot(strings.NewReader(helpContent))
	if err != nil {
		return err
	}

	// Configure ov to not write on exit (to avoid messing with our screen)
	config := oviewer.NewConfig()
	config.IsWriteOnExit = false
	config.IsWriteOriginal = false
	configureVimKeyBindings(&config)

	root.SetConfig(config)

	return root.Run()
}

// configureVimKeyBindings adds j/k/g/G on top of ov's defaults
func configureVimKeyBindings(config *oviewer.Config) {
	if config.Keybind == nil {
		config.Keybind = make(map[string][]string)
	}
	config.Keybind["down"] = []string{"Enter", "Down", "ctrl+n", "j"}
	config.Keybind["up"] = []string{"Up", "ctrl+p", "k"}
	config.Keybind["top"] = []string{"Home", "g"}
	config.Keybind["bottom"] = []string{"End", "G"}
	config.Keybind["exit"] = []string{"Escape", "q", "?"}
}
