package simulator

import (
	"math/rand"

	"carehaven-edgesim/internal/models"
)

// daySimulator 单域的按天模拟函数（每患者一个实例，闭包持有基线）
// 返回当天的指标块与可选的信号质量分。
type daySimulator func(rng *rand.Rand, dayIndex int) (metrics any, signalQuality *float64)

// DomainSpec 单域模拟器的声明式配置
//
// 各域仅常数不同：设备角色、会话时间窗、任务/测试判别符，
// 以及基线与趋势常数（由 newPatient 闭包封装）。
type DomainSpec struct {
	Domain     string
	DeviceRole string
	TaskType   string // task_type 判别符（可为空）
	TestType   string // test_type 判别符（可为空）
	HourLo     int    // 会话随机时间窗（小时，含两端）
	HourHi     int
	FileStem   string // 输出文件名词干，如 "memory_dataset"

	newPatient func(rng *rand.Rand, profile *models.PatientProfile) daySimulator
}

// domainSpecs 全部单域模拟器注册表
var domainSpecs = map[string]DomainSpec{
	models.DomainMobility: {
		Domain:     models.DomainMobility,
		DeviceRole: models.DeviceRoleWearable,
		HourLo:     6,
		HourHi:     22,
		FileStem:   "mobility_dataset",
		newPatient: newMobilityPatient,
	},
	models.DomainMemory: {
		Domain:     models.DomainMemory,
		DeviceRole: models.DeviceRoleClinic,
		TestType:   "MoCA_recall",
		HourLo:     10,
		HourHi:     12,
		FileStem:   "memory_dataset",
		newPatient: newMemoryPatient,
	},
	models.DomainExecutiveFunction: {
		Domain:     models.DomainExecutiveFunction,
		DeviceRole: models.DeviceRoleApp,
		TaskType:   "trail_making_test_b",
		HourLo:     9,
		HourHi:     14,
		FileStem:   "executive_function_dataset",
		newPatient: newExecutivePatient,
	},
	models.DomainLanguage: {
		Domain:     models.DomainLanguage,
		DeviceRole: models.DeviceRoleSpeech,
		TaskType:   "verbal_fluency_test",
		HourLo:     8,
		HourHi:     11,
		FileStem:   "language_dataset",
		newPatient: newLanguagePatient,
	},
}

// DomainNames 返回已注册的单域模拟器名称（固定顺序）
func DomainNames() []string {
	return []string{
		models.DomainMobility,
		models.DomainMemory,
		models.DomainExecutiveFunction,
		models.DomainLanguage,
	}
}

// LookupDomain 查找单域模拟器配置
func LookupDomain(domain string) (DomainSpec, bool) {
	spec, ok := domainSpecs[domain]
	return spec, ok
}
