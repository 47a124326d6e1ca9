package importer

import (
	"bytes"
	"fmt"

	"github.com/cpkimr/olympreg/internal/database"
	"github.com/cpkimr/olympreg/internal/database/models"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ExportResults writes a school's results to an xlsx workbook and
// returns the serialized bytes. A non-nil classroomID narrows the
// export to one class.
func ExportResults(db *gorm.DB, schoolID uint, classroomID *uint) ([]byte, error) {
	var (
		results []models.Result
		err     error
	)
	if classroomID != nil {
		results, err = database.GetResultsByClassroom(db, schoolID, *classroomID)
	} else {
		results, err = database.GetResultsBySchool(db, schoolID)
	}
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Results"
	f.SetSheetName(f.GetSheetName(0), sheet)

	header := []interface{}{"ФИО", "Класс", "Олимпиада", "Этап", "Очки", "Статус", "Дата"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, err
	}

	for i, result := range results {
		fullName, classInfo := "", ""
		if result.User != nil {
			fullName = result.User.FullName()
			if result.User.Classroom != nil {
				classInfo = fmt.Sprintf("%d%s", result.User.Classroom.Number, result.User.Classroom.Letter)
			}
		}
		olympiadName, stageName := "", ""
		if result.Olympiad != nil {
			olympiadName = result.Olympiad.Name
			stageName = result.Olympiad.Stage.DisplayName()
		}

		row := []interface{}{
			fullName,
			classInfo,
			olympiadName,
			stageName,
			result.Score,
			result.Status.DisplayName(),
			result.CreatedAt.Format("2006-01-02"),
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
