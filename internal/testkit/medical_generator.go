package testkit

import (
	"database/sql"
	"fmt"
	"math"
	"math/rand"
	"time"

	"medstat/domain/dataset"
)

// MarkerColumn is the free-text complications column the generator writes
const MarkerColumn = "осложнения"

// MedicalGeneratorConfig configures the synthetic cohort
type MedicalGeneratorConfig struct {
	Patients        int       `json:"patients"`
	NumericFeatures int       `json:"numeric_features"`
	Positives       int       `json:"positives"`
	SignalFeatures  int       `json:"signal_features"` // leading features shifted for positives
	MissingRate     float64   `json:"missing_rate"`
	AdmissionStart  time.Time `json:"admission_start"`
	Seed            int64     `json:"seed"`
}

// DefaultMedicalConfig returns the 1000-patient cohort used by the end-to-end tests
func DefaultMedicalConfig() MedicalGeneratorConfig {
	return MedicalGeneratorConfig{
		Patients:        1000,
		NumericFeatures: 20,
		Positives:       50,
		SignalFeatures:  4,
		MissingRate:     0.03,
		AdmissionStart:  time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		Seed:            42,
	}
}

type featureSpec struct {
	name  string
	mean  float64
	sd    float64
	shift float64 // in units of sd, applied to positives when the feature carries signal
}

// clinicalFeatures are used in order; further features get generic lab names
var clinicalFeatures = []featureSpec{
	{"crp", 12, 6, 1.5},
	{"blood pressure/systolic", 128, 15, 1.0},
	{"age", 58, 12, 0.8},
	{"operation_minutes", 140, 40, 0.7},
	{"bmi", 27, 4, 0.3},
	{"hemoglobin", 135, 14, -0.5},
	{"leukocytes", 7.5, 2, 0.4},
	{"glucose", 5.8, 1.1, 0.2},
	{"creatinine", 85, 18, 0.3},
	{"heart_rate", 76, 11, 0.2},
}

var complicationTexts = []string{
	"кровотечение",
	"инфекция раны",
	"пневмония",
	" тромбоз ",
	"несостоятельность анастомоза",
}

// MedicalDataGenerator produces a labelled patient table
type MedicalDataGenerator struct {
	config MedicalGeneratorConfig
	rng    *rand.Rand
}

// NewMedicalDataGenerator creates a new generator
func NewMedicalDataGenerator(config MedicalGeneratorConfig) *MedicalDataGenerator {
	return &MedicalDataGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// FeatureNames returns the numeric column names the generator emits
func (g *MedicalDataGenerator) FeatureNames() []string {
	names := make([]string, g.config.NumericFeatures)
	for j := range names {
		names[j] = g.spec(j).name
	}
	return names
}

func (g *MedicalDataGenerator) spec(j int) featureSpec {
	if j < len(clinicalFeatures) {
		return clinicalFeatures[j]
	}
	return featureSpec{name: fmt.Sprintf("lab_%02d", j+1), mean: 50, sd: 10, shift: 0}
}

// Generate builds the dataset. Exactly Positives rows carry a non-blank
// complication text; negatives hold a mix of nulls, empty and blank strings.
func (g *MedicalDataGenerator) Generate() (*dataset.Dataset, error) {
	c := g.config
	if c.Positives < 0 || c.Positives > c.Patients {
		return nil, fmt.Errorf("positives %d out of range for %d patients", c.Positives, c.Patients)
	}

	positive := make([]bool, c.Patients)
	for _, i := range g.rng.Perm(c.Patients)[:c.Positives] {
		positive[i] = true
	}

	ds := dataset.New("synthetic", c.Patients)
	ids := make([]sql.NullString, c.Patients)
	admitted := make([]sql.NullTime, c.Patients)
	marker := make([]sql.NullString, c.Patients)
	smoker := make([]float64, c.Patients)
	for i := 0; i < c.Patients; i++ {
		ids[i] = sql.NullString{String: fmt.Sprintf("P%05d", i+1), Valid: true}
		admitted[i] = sql.NullTime{Time: c.AdmissionStart.Add(time.Duration(g.rng.Intn(365*24)) * time.Hour), Valid: true}
		if positive[i] {
			marker[i] = sql.NullString{String: complicationTexts[g.rng.Intn(len(complicationTexts))], Valid: true}
		} else {
			switch g.rng.Intn(3) {
			case 0:
				marker[i] = sql.NullString{}
			case 1:
				marker[i] = sql.NullString{String: "", Valid: true}
			default:
				marker[i] = sql.NullString{String: "   ", Valid: true}
			}
		}
		smoker[i] = float64(g.rng.Intn(2))
	}

	if err := ds.AddColumn(dataset.NewTextColumn("patient_id", ids)); err != nil {
		return nil, err
	}
	if err := ds.AddColumn(dataset.NewTemporalColumn("admitted_at", admitted)); err != nil {
		return nil, err
	}

	for j := 0; j < c.NumericFeatures; j++ {
		spec := g.spec(j)
		values := make([]float64, c.Patients)
		for i := range values {
			v := spec.mean + spec.sd*g.rng.NormFloat64()
			if positive[i] && j < c.SignalFeatures {
				v += spec.shift * spec.sd
			}
			if g.rng.Float64() < c.MissingRate {
				v = math.NaN()
			}
			values[i] = v
		}
		if err := ds.AddColumn(dataset.NewNumericColumn(spec.name, values)); err != nil {
			return nil, err
		}
	}

	if err := ds.AddColumn(dataset.NewBoolColumn("smoker", smoker)); err != nil {
		return nil, err
	}
	if err := ds.AddColumn(dataset.NewTextColumn(MarkerColumn, marker)); err != nil {
		return nil, err
	}
	return ds, nil
}
