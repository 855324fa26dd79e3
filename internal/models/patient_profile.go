package models

// 设备角色常量（device_ids 的键）
const (
	DeviceRoleWearable = "wearable"
	DeviceRoleSpeech   = "speech"
	DeviceRoleApp      = "app"
	DeviceRoleClinic   = "clinic"
)

// CognitiveBaseline 认知基线评分（入组时一次性评估）
type CognitiveBaseline struct {
	MMSE            int `json:"mmse"`             // 0-30
	MoCA            int `json:"moca"`             // 0-30
	DepressionScore int `json:"depression_score"` // 0-27 (PHQ-9 style)
}

// PatientProfile 患者静态档案
//
// 作为模拟数据生成的输入（只读，绝不修改）。patient_id 在一次生成运行中全局唯一。
// device_ids 按角色（wearable/speech/app/clinic）映射设备ID，每个角色至多一个设备，
// 且在模拟患者生命周期内不变。
type PatientProfile struct {
	PatientID         string             `json:"patient_id"`
	Name              string             `json:"name"`
	DOB               string             `json:"dob"`
	Sex               string             `json:"sex"`
	EducationYears    int                `json:"education_years"`
	Comorbidities     []string           `json:"comorbidities"`
	Medications       []string           `json:"medications"`
	DeviceIDs         map[string]string  `json:"device_ids"`
	CognitiveBaseline *CognitiveBaseline `json:"cognitive_baseline,omitempty"`
}

// Device 返回指定角色的设备ID（不存在时返回空串）
func (p *PatientProfile) Device(role string) string {
	if p == nil || p.DeviceIDs == nil {
		return ""
	}
	return p.DeviceIDs[role]
}
