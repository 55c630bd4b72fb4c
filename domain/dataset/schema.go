package dataset

import "strings"

// Field names a column of the employee record schema
type Field string

// Kind classifies a field as categorical or numeric
type Kind string

const (
	KindCategorical Kind = "categorical"
	KindNumeric     Kind = "numeric"
)

// Required categorical fields
const (
	FieldDepartment     Field = "Department"
	FieldGender         Field = "Gender"
	FieldEducationField Field = "EducationField"
	FieldJobRole        Field = "JobRole"
	FieldAttrition      Field = "Attrition"
)

// Required numeric fields
const (
	FieldAge             Field = "Age"
	FieldMonthlyIncome   Field = "MonthlyIncome"
	FieldYearsAtCompany  Field = "YearsAtCompany"
	FieldJobSatisfaction Field = "JobSatisfaction"
	FieldEmployeeNumber  Field = "EmployeeNumber"
)

// Optional fields, loaded when the source carries them
const (
	FieldBusinessTravel Field = "BusinessTravel"
	FieldMaritalStatus  Field = "MaritalStatus"
	FieldOver18         Field = "Over18"
	FieldOverTime       Field = "OverTime"

	FieldDailyRate                Field = "DailyRate"
	FieldDistanceFromHome         Field = "DistanceFromHome"
	FieldEducation                Field = "Education"
	FieldEmployeeCount            Field = "EmployeeCount"
	FieldEnvironmentSatisfaction  Field = "EnvironmentSatisfaction"
	FieldHourlyRate               Field = "HourlyRate"
	FieldJobInvolvement           Field = "JobInvolvement"
	FieldJobLevel                 Field = "JobLevel"
	FieldMonthlyRate              Field = "MonthlyRate"
	FieldNumCompaniesWorked       Field = "NumCompaniesWorked"
	FieldPercentSalaryHike        Field = "PercentSalaryHike"
	FieldPerformanceRating        Field = "PerformanceRating"
	FieldRelationshipSatisfaction Field = "RelationshipSatisfaction"
	FieldStandardHours            Field = "StandardHours"
	FieldStockOptionLevel         Field = "StockOptionLevel"
	FieldTotalWorkingYears        Field = "TotalWorkingYears"
	FieldTrainingTimesLastYear    Field = "TrainingTimesLastYear"
	FieldWorkLifeBalance          Field = "WorkLifeBalance"
	FieldYearsInCurrentRole       Field = "YearsInCurrentRole"
	FieldYearsSinceLastPromotion  Field = "YearsSinceLastPromotion"
	FieldYearsWithCurrManager     Field = "YearsWithCurrManager"
)

// IdentifierField carries no statistical meaning and is left out of correlations
const IdentifierField = FieldEmployeeNumber

// Column describes one field of the schema
type Column struct {
	Field    Field `json:"field" yaml:"field"`
	Kind     Kind  `json:"kind" yaml:"kind"`
	Required bool  `json:"required" yaml:"required"`
}

// Schema is an ordered list of columns
type Schema []Column

// EmployeeSchema is the full schema of the HR attrition dataset in source column order
var EmployeeSchema = Schema{
	{FieldAge, KindNumeric, true},
	{FieldAttrition, KindCategorical, true},
	{FieldBusinessTravel, KindCategorical, false},
	{FieldDailyRate, KindNumeric, false},
	{FieldDepartment, KindCategorical, true},
	{FieldDistanceFromHome, KindNumeric, false},
	{FieldEducation, KindNumeric, false},
	{FieldEducationField, KindCategorical, true},
	{FieldEmployeeCount, KindNumeric, false},
	{FieldEmployeeNumber, KindNumeric, true},
	{FieldEnvironmentSatisfaction, KindNumeric, false},
	{FieldGender, KindCategorical, true},
	{FieldHourlyRate, KindNumeric, false},
	{FieldJobInvolvement, KindNumeric, false},
	{FieldJobLevel, KindNumeric, false},
	{FieldJobRole, KindCategorical, true},
	{FieldJobSatisfaction, KindNumeric, true},
	{FieldMaritalStatus, KindCategorical, false},
	{FieldMonthlyIncome, KindNumeric, true},
	{FieldMonthlyRate, KindNumeric, false},
	{FieldNumCompaniesWorked, KindNumeric, false},
	{FieldOver18, KindCategorical, false},
	{FieldOverTime, KindCategorical, false},
	{FieldPercentSalaryHike, KindNumeric, false},
	{FieldPerformanceRating, KindNumeric, false},
	{FieldRelationshipSatisfaction, KindNumeric, false},
	{FieldStandardHours, KindNumeric, false},
	{FieldStockOptionLevel, KindNumeric, false},
	{FieldTotalWorkingYears, KindNumeric, false},
	{FieldTrainingTimesLastYear, KindNumeric, false},
	{FieldWorkLifeBalance, KindNumeric, false},
	{FieldYearsAtCompany, KindNumeric, true},
	{FieldYearsInCurrentRole, KindNumeric, false},
	{FieldYearsSinceLastPromotion, KindNumeric, false},
	{FieldYearsWithCurrManager, KindNumeric, false},
}

// Lookup returns the column for a field
func (s Schema) Lookup(field Field) (Column, bool) {
	for _, c := range s {
		if c.Field == field {
			return c, true
		}
	}
	return Column{}, false
}

// Match resolves a source header to a schema column. Exact match wins,
// otherwise the comparison is case-insensitive.
func (s Schema) Match(header string) (Column, bool) {
	header = strings.TrimSpace(header)
	if c, ok := s.Lookup(Field(header)); ok {
		return c, true
	}
	for _, c := range s {
		if strings.EqualFold(string(c.Field), header) {
			return c, true
		}
	}
	return Column{}, false
}

// Required lists the required columns in schema order
func (s Schema) Required() []Column {
	var out []Column
	for _, c := range s {
		if c.Required {
			out = append(out, c)
		}
	}
	return out
}

// Fields returns the fields of the given kind in schema order
func (s Schema) Fields(kind Kind) []Field {
	var out []Field
	for _, c := range s {
		if c.Kind == kind {
			out = append(out, c.Field)
		}
	}
	return out
}
