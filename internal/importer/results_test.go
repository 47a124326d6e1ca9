package importer

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/cpkimr/olympreg/internal/database"
	"github.com/cpkimr/olympreg/internal/database/models"
	"github.com/cpkimr/olympreg/internal/scoring"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func buildWorkbook(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell := fmt.Sprintf("A%d", i+1)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

func setupImporter(t *testing.T) (*Importer, *gorm.DB, uint, *models.User) {
	t.Helper()
	db := testDB(t)

	school := models.School{Name: "School " + t.Name(), Status: models.SchoolApproved}
	require.NoError(t, db.Create(&school).Error)

	student := models.User{
		ID:         uuid.NewString(),
		Username:   "anna",
		FirstName:  "Анна",
		LastName:   "Смирнова",
		Patronymic: "Ивановна",
		IsChild:    true,
		SchoolID:   &school.ID,
	}
	require.NoError(t, db.Create(&student).Error)

	olympiad := models.Olympiad{Name: "Физика", Stage: models.StageSchool}
	require.NoError(t, db.Create(&olympiad).Error)

	recorder := scoring.NewRecorder(db, scoring.DefaultRules(), nil, nil)
	return New(db, recorder), db, school.ID, &student
}

func TestImportResults(t *testing.T) {
	imp, db, schoolID, student := setupImporter(t)

	data := buildWorkbook(t, [][]interface{}{
		{"Фамилия", "Имя", "Отчество", "Олимпиада", "Очки"},
		{"Смирнова", "Анна", "Ивановна", "Физика", 75},
	})

	report, err := imp.ImportResults(data, schoolID)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Imported)
	assert.Empty(t, report.Skipped)

	results, err := database.GetResultsByUserID(db, student.ID)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 75, results[0].Score)
	assert.Equal(t, models.StatusPrize, results[0].Status)

	rating, err := database.GetRatingByUserID(db, student.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, rating.Points)
}

func TestImportResultsHeaderCaseInsensitive(t *testing.T) {
	imp, db, schoolID, student := setupImporter(t)

	data := buildWorkbook(t, [][]interface{}{
		{"ФАМИЛИЯ", "ИМЯ", "ОТЧЕСТВО", "ОЛИМПИАДА", "ОЧКИ"},
		{"Смирнова", "Анна", "Ивановна", "Физика", 100},
	})

	report, err := imp.ImportResults(data, schoolID)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Imported)

	results, err := database.GetResultsByUserID(db, student.ID)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, models.StatusWinner, results[0].Status)
}

func TestImportResultsSkipsBadRows(t *testing.T) {
	imp, db, schoolID, student := setupImporter(t)

	data := buildWorkbook(t, [][]interface{}{
		{"Фамилия", "Имя", "Отчество", "Олимпиада", "Очки"},
		{"Смирнова", "Анна", "Ивановна", "Физика", 75},
		{"Неизвестный", "Ученик", "", "Физика", 80},
		{"Смирнова", "Анна", "Ивановна", "Химия", 60},
		{"Смирнова", "Анна", "Ивановна", "Физика", "n/a"},
		{"", "", "", "", ""},
	})

	report, err := imp.ImportResults(data, schoolID)
	require.NoError(t, err)

	// One good row; unknown student, unknown olympiad and a non-numeric
	// score are reported, the blank row is silently ignored.
	assert.Equal(t, 1, report.Imported)
	require.Len(t, report.Skipped, 3)
	assert.Equal(t, 3, report.Skipped[0].Row)
	assert.Contains(t, report.Skipped[0].Reason, "not found")

	results, err := database.GetResultsByUserID(db, student.ID)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestImportResultsMissingColumns(t *testing.T) {
	imp, _, schoolID, _ := setupImporter(t)

	data := buildWorkbook(t, [][]interface{}{
		{"Фамилия", "Имя", "Олимпиада"},
		{"Смирнова", "Анна", "Физика"},
	})

	_, err := imp.ImportResults(data, schoolID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing columns")
}

func TestImportResultsNotAWorkbook(t *testing.T) {
	imp, _, schoolID, _ := setupImporter(t)

	_, err := imp.ImportResults([]byte("definitely not xlsx"), schoolID)
	assert.Error(t, err)
}

func TestExportResults(t *testing.T) {
	imp, db, schoolID, student := setupImporter(t)

	data := buildWorkbook(t, [][]interface{}{
		{"Фамилия", "Имя", "Отчество", "Олимпиада", "Очки"},
		{"Смирнова", "Анна", "Ивановна", "Физика", 75},
	})
	_, err := imp.ImportResults(data, schoolID)
	require.NoError(t, err)

	exported, err := ExportResults(db, schoolID, nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(exported))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Results")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "ФИО", rows[0][0])
	assert.Equal(t, student.FullName(), rows[1][0])
	assert.Equal(t, "Физика", rows[1][2])
	assert.Equal(t, "75", rows[1][4])
	assert.Equal(t, "Призер", rows[1][5])
}

func TestExportResultsClassroomFilter(t *testing.T) {
	imp, db, schoolID, student := setupImporter(t)

	classroom := models.Classroom{Number: 9, Letter: "Б", SchoolID: schoolID}
	require.NoError(t, db.Create(&classroom).Error)
	require.NoError(t, db.Model(student).Update("classroom_id", classroom.ID).Error)

	classmate := models.User{
		ID:        uuid.NewString(),
		Username:  "boris",
		FirstName: "Борис",
		LastName:  "Волков",
		IsChild:   true,
		SchoolID:  &schoolID,
	}
	require.NoError(t, db.Create(&classmate).Error)

	data := buildWorkbook(t, [][]interface{}{
		{"Фамилия", "Имя", "Отчество", "Олимпиада", "Очки"},
		{"Смирнова", "Анна", "Ивановна", "Физика", 75},
		{"Волков", "Борис", "", "Физика", 100},
	})
	report, err := imp.ImportResults(data, schoolID)
	require.NoError(t, err)
	require.Equal(t, 2, report.Imported)

	exported, err := ExportResults(db, schoolID, &classroom.ID)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(exported))
	require.NoError(t, err)
	defer f.Close()

	// Only the 9Б student appears in the classroom export.
	rows, err := f.GetRows("Results")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, student.FullName(), rows[1][0])
	assert.Equal(t, "9Б", rows[1][1])
}
