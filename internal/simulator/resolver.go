package simulator

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"carehaven-edgesim/internal/models"
)

// 设备角色 → 设备ID前缀
var devicePrefixes = map[string]string{
	models.DeviceRoleWearable: "WEAR",
	models.DeviceRoleSpeech:   "SPK",
	models.DeviceRoleApp:      "APP",
	models.DeviceRoleClinic:   "CLIN",
}

// Identity 解析后的患者/设备标识
type Identity struct {
	PatientID string
	DeviceID  string
	Profile   *models.PatientProfile // 无档案时为 nil
}

// ResolveIdentities 将生成请求与可选的外部档案集合对账
//
// 规则：
//   - 无档案：生成 requested 个新患者ID + 按序号合成设备ID（ROLE-{index:03d}）
//   - 档案不足：非致命告警并缩减到可用数量
//   - 档案多于请求：取前 requested 个；useAll 时全部使用
//   - 每个档案直接复用其 patient_id；角色设备ID存在则复用，否则按位置合成
//
// 不变量：len(result) == min(requested, available)，useAll 时 == available。
func ResolveIdentities(rng *rand.Rand, logger *zap.Logger, requested int, profiles []models.PatientProfile, role string, useAll bool) []Identity {
	prefix, ok := devicePrefixes[role]
	if !ok {
		prefix = "DEV"
	}

	if len(profiles) == 0 {
		identities := make([]Identity, 0, requested)
		for i := 0; i < requested; i++ {
			identities = append(identities, Identity{
				PatientID: newPatientID(rng),
				DeviceID:  fmt.Sprintf("%s-%03d", prefix, i+1),
			})
		}
		return identities
	}

	count := requested
	if useAll {
		count = len(profiles)
		logger.Info("Using all patient profiles",
			zap.Int("profiles", len(profiles)),
		)
	} else if len(profiles) < requested {
		logger.Warn("Requested more patients than available profiles, reducing",
			zap.Int("requested", requested),
			zap.Int("available", len(profiles)),
		)
		count = len(profiles)
	}

	identities := make([]Identity, 0, count)
	for i := 0; i < count; i++ {
		p := profiles[i]
		pid := p.PatientID
		if pid == "" {
			pid = newPatientID(rng)
		}
		deviceID := p.Device(role)
		if deviceID == "" {
			deviceID = fmt.Sprintf("%s-%03d", prefix, i+1)
		}
		identities = append(identities, Identity{
			PatientID: pid,
			DeviceID:  deviceID,
			Profile:   &profiles[i],
		})
	}
	return identities
}

// newPatientID 从显式随机源派生 UUID，保证固定 seed 下可复现
func newPatientID(rng *rand.Rand) string {
	id, err := uuid.NewRandomFromReader(rng)
	if err != nil {
		// math/rand 的 Read 不返回错误，此分支不可达
		return uuid.New().String()
	}
	return id.String()
}
