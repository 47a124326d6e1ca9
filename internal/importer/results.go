package importer

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/cpkimr/olympreg/internal/database"
	"github.com/cpkimr/olympreg/internal/scoring"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Required spreadsheet columns, by their Russian headers as exported by
// the olympiad organizers.
const (
	colLastName   = "фамилия"
	colFirstName  = "имя"
	colPatronymic = "отчество"
	colOlympiad   = "олимпиада"
	colScore      = "очки"
)

var requiredColumns = []string{colLastName, colFirstName, colPatronymic, colOlympiad, colScore}

// RowError reports why one spreadsheet row was skipped. Row numbers are
// 1-based as shown in spreadsheet software.
type RowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// Report summarizes an import run. Bad rows never abort the file; they
// are skipped and reported so the administrator can fix and re-upload.
type Report struct {
	Imported int        `json:"imported"`
	Skipped  []RowError `json:"skipped"`
}

// Importer parses results spreadsheets and feeds each row through the
// scoring recorder.
type Importer struct {
	db       *gorm.DB
	recorder *scoring.Recorder
}

func New(db *gorm.DB, recorder *scoring.Recorder) *Importer {
	return &Importer{db: db, recorder: recorder}
}

// ImportResults reads an xlsx file and records one result per data row.
// Students are matched by full name within the school, case-insensitively;
// olympiads by name.
func (im *Importer) ImportResults(data []byte, schoolID uint) (*Report, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open xlsx file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("xlsx file has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheets[0])
	}

	headerIdx, columns, err := findHeaderRow(rows)
	if err != nil {
		return nil, err
	}

	report := &Report{}
	for i := headerIdx + 1; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		if err := im.importRow(row, columns, schoolID); err != nil {
			report.Skipped = append(report.Skipped, RowError{Row: i + 1, Reason: err.Error()})
			continue
		}
		report.Imported++
	}

	zap.S().Infof("imported %d results for school %d, skipped %d rows",
		report.Imported, schoolID, len(report.Skipped))
	return report, nil
}

func (im *Importer) importRow(row []string, columns map[string]int, schoolID uint) error {
	lastName := cellAt(row, columns[colLastName])
	firstName := cellAt(row, columns[colFirstName])
	patronymic := cellAt(row, columns[colPatronymic])
	olympiadName := cellAt(row, columns[colOlympiad])
	scoreText := cellAt(row, columns[colScore])

	if lastName == "" || firstName == "" {
		return fmt.Errorf("missing student name")
	}
	if olympiadName == "" {
		return fmt.Errorf("missing olympiad name")
	}

	score, err := strconv.Atoi(scoreText)
	if err != nil {
		return fmt.Errorf("non-numeric score %q", scoreText)
	}

	student, err := database.FindStudentByFullName(im.db, schoolID, lastName, firstName, patronymic)
	if err != nil {
		return fmt.Errorf("student %q not found in school", strings.TrimSpace(lastName+" "+firstName))
	}

	olympiad, err := database.GetOlympiadByName(im.db, olympiadName)
	if err != nil {
		return fmt.Errorf("olympiad %q not found", olympiadName)
	}

	if _, err := im.recorder.Record(student.ID, olympiad.ID, score); err != nil {
		return err
	}
	return nil
}

// findHeaderRow locates the first row carrying all required column
// headers and returns the column index for each.
func findHeaderRow(rows [][]string) (int, map[string]int, error) {
	for i, row := range rows {
		columns := make(map[string]int)
		for j, cell := range row {
			columns[strings.ToLower(strings.TrimSpace(cell))] = j
		}

		var missing []string
		for _, name := range requiredColumns {
			if _, ok := columns[name]; !ok {
				missing = append(missing, name)
			}
		}
		if len(missing) == 0 {
			return i, columns, nil
		}
		// Header rows are expected near the top; only partially matching
		// rows are worth reporting.
		if len(missing) < len(requiredColumns) {
			return 0, nil, fmt.Errorf("header row %d is missing columns: %s", i+1, strings.Join(missing, ", "))
		}
	}
	return 0, nil, fmt.Errorf("no header row found")
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
