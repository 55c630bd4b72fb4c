package synthetic

import (
	"encoding/csv"
	"fmt"
	"math"
	"math/rand"
	"os"
	"strconv"

	"hrpulse/domain/dataset"

	"github.com/xuri/excelize/v2"
)

// Config controls the synthetic employee generator. The output follows the
// column layout of the HR attrition dataset so it can stand in for EA.csv.
type Config struct {
	Rows int
	Seed int64

	// BaseAttrition is the attrition probability before risk factors
	BaseAttrition float64
}

func DefaultConfig() Config {
	return Config{
		Rows:          1470,
		Seed:          42,
		BaseAttrition: 0.10,
	}
}

var (
	departments = []weighted{
		{"Research & Development", 0.65},
		{"Sales", 0.30},
		{"Human Resources", 0.05},
	}
	rolesByDepartment = map[string][]string{
		"Research & Development": {"Research Scientist", "Laboratory Technician", "Manufacturing Director", "Healthcare Representative", "Research Director", "Manager"},
		"Sales":                  {"Sales Executive", "Sales Representative", "Manager"},
		"Human Resources":        {"Human Resources", "Manager"},
	}
	educationFields = []weighted{
		{"Life Sciences", 0.41},
		{"Medical", 0.32},
		{"Marketing", 0.11},
		{"Technical Degree", 0.09},
		{"Other", 0.05},
		{"Human Resources", 0.02},
	}
	travel = []weighted{
		{"Travel_Rarely", 0.71},
		{"Travel_Frequently", 0.19},
		{"Non-Travel", 0.10},
	}
	marital = []weighted{
		{"Married", 0.46},
		{"Single", 0.32},
		{"Divorced", 0.22},
	}
)

type weighted struct {
	value  string
	weight float64
}

// Generate produces a deterministic employee table for the given seed
func Generate(cfg Config) (*dataset.RawTable, error) {
	if cfg.Rows <= 0 {
		return nil, fmt.Errorf("rows must be > 0")
	}
	if cfg.BaseAttrition < 0 || cfg.BaseAttrition > 1 {
		return nil, fmt.Errorf("base attrition must be within [0,1]")
	}

	rng := rand.New(rand.NewSource(cfg.Seed))

	headers := make([]string, len(dataset.EmployeeSchema))
	for i, col := range dataset.EmployeeSchema {
		headers[i] = string(col.Field)
	}

	rows := make([][]string, cfg.Rows)
	for r := 0; r < cfg.Rows; r++ {
		rec := generateEmployee(rng, cfg, r+1)
		row := make([]string, len(headers))
		for i, col := range dataset.EmployeeSchema {
			row[i] = rec[col.Field]
		}
		rows[r] = row
	}

	return &dataset.RawTable{
		Source:  fmt.Sprintf("synthetic(seed=%d)", cfg.Seed),
		Headers: headers,
		Rows:    rows,
	}, nil
}

func generateEmployee(rng *rand.Rand, cfg Config, number int) map[dataset.Field]string {
	age := 18 + rng.Intn(43)
	dept := pick(rng, departments)
	roles := rolesByDepartment[dept]
	role := roles[rng.Intn(len(roles))]

	jobLevel := 1 + rng.Intn(3)
	if role == "Manager" || role == "Research Director" {
		jobLevel = 4 + rng.Intn(2)
	}

	maxTenure := age - 18
	totalYears := rng.Intn(maxTenure + 1)
	yearsAtCompany := 0
	if totalYears > 0 {
		yearsAtCompany = rng.Intn(totalYears + 1)
	}
	yearsInRole := 0
	if yearsAtCompany > 0 {
		yearsInRole = rng.Intn(yearsAtCompany + 1)
	}

	income := 1000 + 3200*float64(jobLevel-1) + 40*float64(totalYears) + rng.NormFloat64()*600
	income = math.Max(1009, math.Round(income))

	satisfaction := 1 + rng.Intn(4)
	overtime := rng.Float64() < 0.28

	risk := cfg.BaseAttrition
	if overtime {
		risk += 0.12
	}
	if age < 30 {
		risk += 0.08
	}
	if satisfaction == 1 {
		risk += 0.07
	}
	if jobLevel == 1 {
		risk += 0.05
	}
	attrition := "No"
	if rng.Float64() < math.Min(risk, 0.95) {
		attrition = "Yes"
	}

	gender := "Male"
	if rng.Float64() < 0.4 {
		gender = "Female"
	}
	over := "No"
	if overtime {
		over = "Yes"
	}

	return map[dataset.Field]string{
		dataset.FieldAge:                      itoa(age),
		dataset.FieldAttrition:                attrition,
		dataset.FieldBusinessTravel:           pick(rng, travel),
		dataset.FieldDailyRate:                itoa(102 + rng.Intn(1397)),
		dataset.FieldDepartment:               dept,
		dataset.FieldDistanceFromHome:         itoa(1 + rng.Intn(29)),
		dataset.FieldEducation:                itoa(1 + rng.Intn(5)),
		dataset.FieldEducationField:           pick(rng, educationFields),
		dataset.FieldEmployeeCount:            "1",
		dataset.FieldEmployeeNumber:           itoa(number),
		dataset.FieldEnvironmentSatisfaction:  itoa(1 + rng.Intn(4)),
		dataset.FieldGender:                   gender,
		dataset.FieldHourlyRate:               itoa(30 + rng.Intn(71)),
		dataset.FieldJobInvolvement:           itoa(1 + rng.Intn(4)),
		dataset.FieldJobLevel:                 itoa(jobLevel),
		dataset.FieldJobRole:                  role,
		dataset.FieldJobSatisfaction:          itoa(satisfaction),
		dataset.FieldMaritalStatus:            pick(rng, marital),
		dataset.FieldMonthlyIncome:            strconv.FormatFloat(income, 'f', 0, 64),
		dataset.FieldMonthlyRate:              itoa(2094 + rng.Intn(24907)),
		dataset.FieldNumCompaniesWorked:       itoa(rng.Intn(10)),
		dataset.FieldOver18:                   "Y",
		dataset.FieldOverTime:                 over,
		dataset.FieldPercentSalaryHike:        itoa(11 + rng.Intn(15)),
		dataset.FieldPerformanceRating:        itoa(3 + rng.Intn(2)),
		dataset.FieldRelationshipSatisfaction: itoa(1 + rng.Intn(4)),
		dataset.FieldStandardHours:            "80",
		dataset.FieldStockOptionLevel:         itoa(rng.Intn(4)),
		dataset.FieldTotalWorkingYears:        itoa(totalYears),
		dataset.FieldTrainingTimesLastYear:    itoa(rng.Intn(7)),
		dataset.FieldWorkLifeBalance:          itoa(1 + rng.Intn(4)),
		dataset.FieldYearsAtCompany:           itoa(yearsAtCompany),
		dataset.FieldYearsInCurrentRole:       itoa(yearsInRole),
		dataset.FieldYearsSinceLastPromotion:  itoa(rng.Intn(yearsAtCompany + 1)),
		dataset.FieldYearsWithCurrManager:     itoa(yearsInRole),
	}
}

func pick(rng *rand.Rand, options []weighted) string {
	x := rng.Float64()
	acc := 0.0
	for _, o := range options {
		acc += o.weight
		if x < acc {
			return o.value
		}
	}
	return options[len(options)-1].value
}

func itoa(n int) string { return strconv.Itoa(n) }

// WriteCSV writes the table with a header row
func WriteCSV(path string, raw *dataset.RawTable) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(raw.Headers); err != nil {
		return err
	}
	for _, row := range raw.Rows {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// WriteXLSX writes the table to the named sheet of a new workbook
func WriteXLSX(path, sheet string, raw *dataset.RawTable) error {
	f := excelize.NewFile()
	defer f.Close()

	if sheet == "" {
		sheet = "Sheet1"
	}
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx == -1 {
		idx, err := f.NewSheet(sheet)
		if err != nil {
			return err
		}
		f.SetActiveSheet(idx)
	}

	if err := f.SetSheetRow(sheet, "A1", &raw.Headers); err != nil {
		return err
	}
	for r, row := range raw.Rows {
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(row))
		for i, v := range row {
			values[i] = v
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}

	return f.SaveAs(path)
}
