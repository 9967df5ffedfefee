package action

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

const (
	// FormatJSON renders indented JSON.
	FormatJSON = "json"

	// FormatTable renders lists as a bordered table.
	FormatTable = "table"
)

type tabular interface {
	headers() []string
	rows() [][]string
}

type jobRecords []jobRecord

func (r jobRecords) headers() []string {
	return []string{"Name", "Color", "URL"}
}

func (r jobRecords) rows() [][]string {
	result := make([][]string, 0, len(r))

	for _, record := range r {
		result = append(result, []string{record.Name, record.Color, record.URL})
	}

	return result
}

type queueRecords []queueRecord

func (r queueRecords) headers() []string {
	return []string{"ID", "Job", "Why"}
}

func (r queueRecords) rows() [][]string {
	result := make([][]string, 0, len(r))

	for _, record := range r {
		result = append(result, []string{strconv.FormatInt(record.ID, 10), record.Job, record.Why})
	}

	return result
}

type computerRecords []computerRecord

func (r computerRecords) headers() []string {
	return []string{"Name", "Offline", "Executors"}
}

func (r computerRecords) rows() [][]string {
	result := make([][]string, 0, len(r))

	for _, record := range r {
		result = append(result, []string{record.Name, strconv.FormatBool(record.Offline), strconv.Itoa(record.Executors)})
	}

	return result
}

type viewRecords []viewRecord

func (r viewRecords) headers() []string {
	return []string{"Name", "Color", "URL"}
}

func (r viewRecords) rows() [][]string {
	result := make([][]string, 0, len(r))

	for _, record := range r {
		result = append(result, []string{record.Name, record.Color, record.URL})
	}

	return result
}

// render writes lists as table if requested, everything else as JSON.
func render(w io.Writer, format string, v any) error {
	if t, ok := v.(tabular); ok && format == FormatTable {
		output := table.New().
			Border(lipgloss.NormalBorder()).
			BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("99"))).
			Headers(t.headers()...).
			Rows(t.rows()...)

		if _, err := fmt.Fprintln(w, output.Render()); err != nil {
			return fmt.Errorf("failed to render output: %w", err)
		}

		return nil
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to render output: %w", err)
	}

	return nil
}
