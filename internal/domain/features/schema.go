// Package features defines the employee input schema and assembles raw
// inputs into the fixed-order vector the scaler and classifier were fit on.
package features

import (
	"math"

	"github.com/okian/attrition/internal/domain/category"
)

// Count is the width of every feature vector.
const Count = 30

// Kind classifies a field's value domain.
type Kind int

// Field kinds.
const (
	KindInt Kind = iota
	KindCategory
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "integer"
	case KindCategory:
		return "category"
	default:
		return "unknown"
	}
}

// Spec declares one input field.
type Spec struct {
	Name  string
	Label string
	Kind  Kind

	// Min and Max are inclusive; Max is +Inf for fields with no upper bound.
	Min float64
	Max float64

	// Default is a float64 for numeric fields and a string for categories.
	Default any

	// Categories is set for KindCategory fields only.
	Categories category.Map
}

// Numeric reports whether the field carries a number.
func (s Spec) Numeric() bool { return s.Kind != KindCategory }

// Unbounded reports whether the field has no upper bound.
func (s Spec) Unbounded() bool { return math.IsInf(s.Max, 1) }

// Clamp limits v to the field's declared bounds.
func (s Spec) Clamp(v float64) float64 {
	if v < s.Min {
		return s.Min
	}
	if v > s.Max {
		return s.Max
	}
	return v
}

var unbounded = math.Inf(1)

func num(name, label string, lo, hi, def float64) Spec {
	return Spec{Name: name, Label: label, Kind: KindInt, Min: lo, Max: hi, Default: def}
}

func cat(label string, m category.Map) Spec {
	return Spec{Name: m.Field(), Label: label, Kind: KindCategory, Default: m.Values()[0], Categories: m}
}

// Field names of the numeric attributes. Categorical names live in package
// category.
const (
	FieldAge                      = "age"
	FieldDailyRate                = "daily_rate"
	FieldDistanceFromHome         = "distance_from_home"
	FieldEducation                = "education"
	FieldEnvironmentSatisfaction  = "environment_satisfaction"
	FieldHourlyRate               = "hourly_rate"
	FieldJobInvolvement           = "job_involvement"
	FieldJobLevel                 = "job_level"
	FieldJobSatisfaction          = "job_satisfaction"
	FieldMonthlyIncome            = "monthly_income"
	FieldMonthlyRate              = "monthly_rate"
	FieldNumCompaniesWorked       = "num_companies_worked"
	FieldPercentSalaryHike        = "percent_salary_hike"
	FieldPerformanceRating        = "performance_rating"
	FieldRelationshipSatisfaction = "relationship_satisfaction"
	FieldStockOptionLevel         = "stock_option_level"
	FieldTotalWorkingYears        = "total_working_years"
	FieldTrainingTimesLastYear    = "training_times_last_year"
	FieldWorkLifeBalance          = "work_life_balance"
	FieldYearsAtCompany           = "years_at_company"
	FieldYearsInCurrentRole       = "years_in_current_role"
	FieldYearsSinceLastPromotion  = "years_since_last_promotion"
	FieldYearsWithCurrManager     = "years_with_curr_manager"
)

// schema is the training-time column order. Moving an entry silently corrupts
// every prediction.
var schema = []Spec{ //nolint:gochecknoglobals // immutable training contract
	num(FieldAge, "Age", 18, 70, 30),
	cat("Business Travel", category.BusinessTravel),
	num(FieldDailyRate, "Daily Rate", 0, unbounded, 500),
	cat("Department", category.Department),
	num(FieldDistanceFromHome, "Distance From Home", 0, unbounded, 5),
	num(FieldEducation, "Education (1-5)", 1, 5, 3),
	cat("Education Field", category.EducationField),
	num(FieldEnvironmentSatisfaction, "Environment Satisfaction (1-4)", 1, 4, 3),
	cat("Gender", category.Gender),
	num(FieldHourlyRate, "Hourly Rate", 0, unbounded, 60),
	num(FieldJobInvolvement, "Job Involvement (1-4)", 1, 4, 3),
	num(FieldJobLevel, "Job Level", 1, 5, 2),
	cat("Job Role", category.JobRole),
	num(FieldJobSatisfaction, "Job Satisfaction (1-4)", 1, 4, 3),
	cat("Marital Status", category.MaritalStatus),
	num(FieldMonthlyIncome, "Monthly Income", 0, unbounded, 5000),
	num(FieldMonthlyRate, "Monthly Rate", 0, unbounded, 20000),
	num(FieldNumCompaniesWorked, "Num Companies Worked", 0, unbounded, 2),
	cat("OverTime", category.OverTime),
	num(FieldPercentSalaryHike, "Percent Salary Hike", 0, unbounded, 15),
	num(FieldPerformanceRating, "Performance Rating (1-4)", 1, 4, 3),
	num(FieldRelationshipSatisfaction, "Relationship Satisfaction (1-4)", 1, 4, 3),
	num(FieldStockOptionLevel, "Stock Option Level", 0, 3, 1),
	num(FieldTotalWorkingYears, "Total Working Years", 0, unbounded, 10),
	num(FieldTrainingTimesLastYear, "Training Times Last Year", 0, unbounded, 3),
	num(FieldWorkLifeBalance, "Work Life Balance (1-4)", 1, 4, 3),
	num(FieldYearsAtCompany, "Years at Company", 0, unbounded, 5),
	num(FieldYearsInCurrentRole, "Years in Current Role", 0, unbounded, 3),
	num(FieldYearsSinceLastPromotion, "Years Since Last Promotion", 0, unbounded, 1),
	num(FieldYearsWithCurrManager, "Years with Current Manager", 0, unbounded, 3),
}

var index = func() map[string]int { //nolint:gochecknoglobals // derived from schema
	if len(schema) != Count {
		panic("features: schema width drifted from Count")
	}
	m := make(map[string]int, len(schema))
	for i, s := range schema {
		m[s.Name] = i
	}
	return m
}()

// Schema returns the field specs in vector order.
func Schema() []Spec {
	out := make([]Spec, len(schema))
	copy(out, schema)
	return out
}

// Names returns the field names in vector order.
func Names() []string {
	out := make([]string, len(schema))
	for i, s := range schema {
		out[i] = s.Name
	}
	return out
}

// Lookup returns the field definition for name.
func Lookup(name string) (Spec, bool) {
	i, ok := index[name]
	if !ok {
		return Spec{}, false
	}
	return schema[i], true
}

// Position returns the zero-based vector index of name, or -1.
func Position(name string) int {
	i, ok := index[name]
	if !ok {
		return -1
	}
	return i
}
