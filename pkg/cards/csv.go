package cards

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
)

// WriteVocabCSV writes vocabulary cards to path with a header row. Examples
// are newline-separated inside their cell.
func WriteVocabCSV(path string, cards []VocabCard) error {
	return writeCSV(path, [][]string{{"token", "reading", "common", "meanings", "examples", "source"}}, func(records [][]string) [][]string {
		for _, c := range cards {
			common := ""
			if c.Common {
				common = "yes"
			}
			records = append(records, []string{
				c.Token,
				c.Reading,
				common,
				c.Meanings,
				strings.Join(c.Examples, "\n"),
				c.SourceName,
			})
		}
		return records
	})
}

// WriteKanjiCSV writes kanji cards to path with a header row.
func WriteKanjiCSV(path string, cards []KanjiCard) error {
	return writeCSV(path, [][]string{{"kanji", "tokens", "source"}}, func(records [][]string) [][]string {
		for _, c := range cards {
			records = append(records, []string{
				c.Kanji,
				strings.Join(c.Tokens, "、"),
				c.SourceName,
			})
		}
		return records
	})
}

func writeCSV(path string, header [][]string, fill func([][]string) [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create card file: %w", err)
	}
	w := csv.NewWriter(f)
	if err := w.WriteAll(fill(header)); err != nil {
		f.Close()
		return fmt.Errorf("write card file: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	return nil
}
