package view

import (
	"dtmoney-server/src/models"
	"dtmoney-server/src/store"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/shopspring/decimal"
)

// Table re-renders the transaction list every time the store replaces it.
type Table struct {
	mu          sync.Mutex
	out         io.Writer
	store       *store.Store
	renders     int
	unsubscribe func()
}

func NewTable(out io.Writer, s *store.Store) *Table {
	t := &Table{out: out, store: s}
	t.unsubscribe = s.Subscribe(store.FieldTransactions, t.Render)
	return t
}

func (t *Table) Render() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.renders++
	if err := WriteTransactions(t.out, t.store.Transactions()); err != nil {
		fmt.Fprintf(t.out, "render failed: %v\n", err)
	}
}

func (t *Table) Renders() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.renders
}

func (t *Table) Close() {
	t.unsubscribe()
}

// PriceStyle colors a transaction's price by its type.
func PriceStyle(th Theme, t models.Transaction) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(th.AmountColor(t.Type == models.Outcome))
}

func WriteTransactions(w io.Writer, transactions []models.Transaction) error {
	if len(transactions) == 0 {
		_, err := fmt.Fprintln(w, "Nenhuma transação encontrada")
		return err
	}
	th := Default
	rows := make([][]string, 0, len(transactions))
	for _, t := range transactions {
		rows = append(rows, []string{t.Description, FormatPrice(t), t.Category, FormatDate(t.CreatedAt)})
	}

	cell := lipgloss.NewStyle().Padding(0, 1)
	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(th.Border)).
		Headers("Descrição", "Preço", "Categoria", "Data").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return cell.Foreground(th.Header).Bold(true)
			case row < 0 || row >= len(transactions):
				return cell
			case col == 1:
				return PriceStyle(th, transactions[row]).Padding(0, 1)
			case col >= 2:
				return cell.Foreground(th.Muted)
			default:
				return cell.Foreground(th.Text)
			}
		})

	_, err := fmt.Fprintln(w, tbl.Render())
	return err
}

// WriteSummary renders the Entradas, Saídas and Total cards side by side.
func WriteSummary(w io.Writer, s models.Summary) error {
	th := Default
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(th.Border).
		Padding(0, 2).
		Width(24)
	title := lipgloss.NewStyle().Foreground(th.Text)

	render := func(label string, value decimal.Decimal, color lipgloss.Color) string {
		amount := lipgloss.NewStyle().Foreground(color).Bold(true).Render(FormatCurrency(value))
		return card.Render(title.Render(label) + "\n" + amount)
	}

	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		render("Entradas", s.Income, th.Income),
		render("Saídas", s.Outcome.Neg(), th.Outcome),
		render("Total", s.Total, th.AmountColor(s.Total.IsNegative())),
	)
	_, err := fmt.Fprintln(w, cards)
	return err
}
