package output

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
)

// CSVCommitListWriter writes commit listings as CSV.
type CSVCommitListWriter struct{}

// Write outputs the commit listing as CSV.
func (w *CSVCommitListWriter) Write(report *CommitListReport, options OutputOptions) error {
	commits := limitTop(report.Commits, options.Top)

	writer, file, err := createCSVWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	headers := []string{"SHA", "Date", "Author", "AuthorEmail", "FileCount", "Files", "Message"}
	if err := writer.Write(headers); err != nil {
		return err
	}

	for _, c := range commits {
		row := []string{
			c.Hash,
			c.Date.Format(reportDateTimeLayout),
			c.Author,
			c.AuthorEmail,
			fmt.Sprintf("%d", len(c.Files)),
			strings.Join(c.Files, ";"),
			c.Message,
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func createCSVWriter(outputPath string) (*csv.Writer, *os.File, error) {
	out, file, err := openOutputWriter(outputPath)
	if err != nil {
		return nil, nil, err
	}
	return csv.NewWriter(out), file, nil
}
