package tui

import "github.com/charmbracelet/lipgloss"

// Theme defines the color palette for the viewer. All colors use
// lipgloss ANSI 256-color codes.
type Theme struct {
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color

	// Tag chips.
	ChipForeground       lipgloss.Color
	ChipBackground       lipgloss.Color
	ActiveChipForeground lipgloss.Color
	ActiveChipBackground lipgloss.Color

	HeaderForeground lipgloss.Color
	BorderColor      lipgloss.Color
	HelpText         lipgloss.Color
	ErrorText        lipgloss.Color

	// Carousel position dots.
	DotActive   lipgloss.Color
	DotInactive lipgloss.Color
}

// DefaultTheme is the built-in dark-terminal color scheme.
var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),

	SelectedBackground: lipgloss.Color("236"),
	SelectedForeground: lipgloss.Color("255"),

	ChipForeground:       lipgloss.Color("250"),
	ChipBackground:       lipgloss.Color("238"),
	ActiveChipForeground: lipgloss.Color("16"),
	ActiveChipBackground: lipgloss.Color("180"), // sand

	HeaderForeground: lipgloss.Color("255"),
	BorderColor:      lipgloss.Color("240"),
	HelpText:         lipgloss.Color("241"),
	ErrorText:        lipgloss.Color("203"),

	DotActive:   lipgloss.Color("180"),
	DotInactive: lipgloss.Color("240"),
}

type styles struct {
	header     lipgloss.Style
	chip       lipgloss.Style
	activeChip lipgloss.Style
	row        lipgloss.Style
	selected   lipgloss.Style
	faint      lipgloss.Style
	errorText  lipgloss.Style
	modal      lipgloss.Style
	dotActive  lipgloss.Style
	dotIdle    lipgloss.Style
	disabled   lipgloss.Style
}

func newStyles(theme Theme) styles {
	return styles{
		header: lipgloss.NewStyle().Bold(true).Foreground(theme.HeaderForeground),
		chip: lipgloss.NewStyle().
			Foreground(theme.ChipForeground).
			Background(theme.ChipBackground).
			Padding(0, 1),
		activeChip: lipgloss.NewStyle().
			Foreground(theme.ActiveChipForeground).
			Background(theme.ActiveChipBackground).
			Bold(true).
			Padding(0, 1),
		row: lipgloss.NewStyle().Foreground(theme.NormalText),
		selected: lipgloss.NewStyle().
			Foreground(theme.SelectedForeground).
			Background(theme.SelectedBackground).
			Bold(true),
		faint:     lipgloss.NewStyle().Foreground(theme.FaintText),
		errorText: lipgloss.NewStyle().Foreground(theme.ErrorText),
		modal: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.BorderColor).
			Padding(1, 2),
		dotActive: lipgloss.NewStyle().Foreground(theme.DotActive),
		dotIdle:   lipgloss.NewStyle().Foreground(theme.DotInactive),
		disabled:  lipgloss.NewStyle().Foreground(theme.FaintText).Strikethrough(true),
	}
}
