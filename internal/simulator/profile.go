package simulator

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"time"

	"carehaven-edgesim/internal/models"
)

var sexOptions = []string{"male", "female"}

// 合并症及其在老年人群中的近似患病率权重
var comorbidityWeights = []struct {
	Name   string
	Weight float64
}{
	{"hypertension", 0.55},
	{"diabetes", 0.25},
	{"hyperlipidemia", 0.40},
	{"coronary_artery_disease", 0.18},
	{"atrial_fibrillation", 0.08},
	{"chronic_kidney_disease", 0.12},
	{"mild_cognitive_impairment", 0.22},
	{"parkinsonism", 0.04},
	{"depression", 0.20},
	{"sleep_apnea", 0.10},
}

// 合并症 → 候选用药
var medicationsMap = map[string][]string{
	"hypertension":              {"lisinopril", "amlodipine", "losartan"},
	"diabetes":                  {"metformin", "glipizide"},
	"hyperlipidemia":            {"atorvastatin", "rosuvastatin"},
	"coronary_artery_disease":   {"aspirin", "clopidogrel"},
	"atrial_fibrillation":       {"apixaban", "warfarin"},
	"chronic_kidney_disease":    {"epoetin"},
	"mild_cognitive_impairment": {"donepezil"},
	"parkinsonism":              {"carbidopa-levodopa"},
	"depression":                {"sertraline", "citalopram"},
	"sleep_apnea":               {"cpap"},
}

var firstNames = []string{
	"John", "Mary", "Robert", "Patricia", "Michael", "Linda", "William", "Barbara", "David", "Elizabeth",
	"Richard", "Jennifer", "Joseph", "Maria", "Thomas", "Susan", "Charles", "Margaret", "Christopher", "Sarah",
}

var lastNames = []string{
	"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis", "Rodriguez", "Martinez",
	"Hernandez", "Lopez", "Gonzalez", "Wilson", "Anderson", "Thomas", "Taylor", "Moore", "Jackson", "Martin",
}

// GenerateProfiles 生成 n 个合成患者档案
//
// 年龄三角分布 65-90 峰值 72；受教育年限与认知基线正相关；
// 合并症按患病率加权采样，用药由合并症派生。
func GenerateProfiles(rng *rand.Rand, n int) []models.PatientProfile {
	profiles := make([]models.PatientProfile, 0, n)
	for i := 1; i <= n; i++ {
		comorbidities := sampleComorbidities(rng)
		educationYears := clampI(int(normal(rng, 13, 3)), 4, 22)
		baseline := sampleCognitiveBaseline(rng, educationYears,
			contains(comorbidities, "mild_cognitive_impairment"),
			contains(comorbidities, "depression"))

		profiles = append(profiles, models.PatientProfile{
			PatientID:      newPatientID(rng),
			Name:           firstNames[randInt(rng, 0, len(firstNames)-1)] + " " + lastNames[randInt(rng, 0, len(lastNames)-1)],
			DOB:            randomDOB(rng).Format("2006-01-02"),
			Sex:            sexOptions[randInt(rng, 0, 1)],
			EducationYears: educationYears,
			Comorbidities:  comorbidities,
			Medications:    deriveMedications(rng, comorbidities),
			DeviceIDs: map[string]string{
				models.DeviceRoleWearable: fmt.Sprintf("WEAR-%03d", i),
				models.DeviceRoleSpeech:   fmt.Sprintf("SPK-%03d", i),
			},
			CognitiveBaseline: &baseline,
		})
	}
	return profiles
}

// sampleComorbidities 采样 0-5 个合并症，数量偏低，种类按权重加权
func sampleComorbidities(rng *rand.Rand) []string {
	k := clampI(int(normal(rng, 2.0, 1.2)), 0, 5)
	if k == 0 {
		return []string{}
	}

	total := 0.0
	for _, c := range comorbidityWeights {
		total += c.Weight
	}

	// 过采样后去重，直到凑满 k 个
	unique := make([]string, 0, k)
	for attempt := 0; attempt < 10 && len(unique) < k; attempt++ {
		r := uniform(rng, 0, total)
		for _, c := range comorbidityWeights {
			r -= c.Weight
			if r <= 0 {
				if !contains(unique, c.Name) {
					unique = append(unique, c.Name)
				}
				break
			}
		}
	}
	return unique
}

func deriveMedications(rng *rand.Rand, comorbidities []string) []string {
	seen := map[string]bool{}
	for _, c := range comorbidities {
		if cand := medicationsMap[c]; len(cand) > 0 {
			seen[cand[randInt(rng, 0, len(cand)-1)]] = true
		}
	}
	// 偶发多重用药
	if bernoulli(rng, 0.15) {
		extra := []string{"vitamin_d", "multivitamin", "omega_3"}
		seen[extra[randInt(rng, 0, 2)]] = true
	}
	meds := make([]string, 0, len(seen))
	for m := range seen {
		meds = append(meds, m)
	}
	sort.Strings(meds)
	return meds
}

// randomDOB 年龄 65-90 三角分布，峰值 72
func randomDOB(rng *rand.Rand) time.Time {
	age := int(triangular(rng, 65, 90, 72))
	birthYear := time.Now().Year() - age
	dayOffset := randInt(rng, 0, 364)
	return time.Date(birthYear, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, dayOffset)
}

// sampleCognitiveBaseline 认知基线：基准分布 + 教育修正，MCI/抑郁降低得分
func sampleCognitiveBaseline(rng *rand.Rand, educationYears int, hasMCI, hasDepression bool) models.CognitiveBaseline {
	mmse := normal(rng, 27.5, 2.0)
	moca := normal(rng, 24.5, 2.5)
	depression := normal(rng, 5, 3)

	eduFactor := float64(educationYears-12) * 0.15
	mmse += eduFactor
	moca += eduFactor * 1.1

	if hasMCI {
		mmse -= uniform(rng, 1.0, 3.0)
		moca -= uniform(rng, 2.0, 4.0)
	}
	if hasDepression {
		moca -= uniform(rng, 0.5, 1.5)
	}

	return models.CognitiveBaseline{
		MMSE:            clampI(roundI(mmse), 10, 30),
		MoCA:            clampI(roundI(moca), 5, 30),
		DepressionScore: clampI(roundI(depression), 0, 27),
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// LoadProfiles 读取患者档案 JSON 文件，要求顶层为对象数组
func LoadProfiles(path string) ([]models.PatientProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read patient profiles: %w", err)
	}

	var probe json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("parse patient profiles JSON: %w", err)
	}
	if len(probe) == 0 || probe[0] != '[' {
		return nil, fmt.Errorf("patient profiles JSON must be an array of objects")
	}

	var profiles []models.PatientProfile
	if err := json.Unmarshal(data, &profiles); err != nil {
		return nil, fmt.Errorf("parse patient profiles JSON: %w", err)
	}
	return profiles, nil
}
