package view

import "github.com/charmbracelet/lipgloss"

// Theme holds the colors of the transaction table and summary cards.
type Theme struct {
	Border  lipgloss.Color
	Muted   lipgloss.Color
	Text    lipgloss.Color
	Header  lipgloss.Color
	Income  lipgloss.Color
	Outcome lipgloss.Color
}

var Default = Theme{
	Border:  lipgloss.Color("#323238"), // gray-600
	Muted:   lipgloss.Color("#7C7C8A"), // gray-400
	Text:    lipgloss.Color("#C4C4CC"), // gray-300
	Header:  lipgloss.Color("#E1E1E6"), // gray-100
	Income:  lipgloss.Color("#00B37E"), // green-300
	Outcome: lipgloss.Color("#F75A68"), // red-300
}

// AmountColor picks the income or outcome color for a signed amount.
func (t Theme) AmountColor(negative bool) lipgloss.Color {
	if negative {
		return t.Outcome
	}
	return t.Income
}
