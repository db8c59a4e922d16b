package geometry

import (
	"fmt"
	"iter"
	"math"

	"github.com/hashicorp/go-multierror"

	"molviz-go/internal/model"
	"molviz-go/pkg/errs"
)

// bondAxis 是化学键圆柱体的规范轴：单位高度的圆柱沿 +Y 方向。
// 键的朝向四元数把该轴旋转到键的方向向量上。
var bondAxis = AxisY

// AtomPosition 返回原子的坐标。
func AtomPosition(a model.Atom) Vec3 {
	return Vec3{X: a.X, Y: a.Y, Z: a.Z}
}

// ValidateStructure 校验结构的不变式：原子 id 唯一、每个键连接两个
// 不同且存在的原子。任何违反都以 MalformedStructureError 返回，
// 其中聚合了全部失败项，而不是只报告第一个。
func ValidateStructure(s model.Structure) error {
	var result *multierror.Error

	atoms := make(map[int]struct{}, len(s.Atoms))
	for _, a := range s.Atoms {
		if _, dup := atoms[a.ID]; dup {
			result = multierror.Append(result, fmt.Errorf("duplicate atom id %d", a.ID))
			continue
		}
		atoms[a.ID] = struct{}{}
	}

	for i, b := range s.Bonds {
		if b.AtomIDs[0] == b.AtomIDs[1] {
			result = multierror.Append(result, fmt.Errorf("bond %d connects atom %d to itself", i, b.AtomIDs[0]))
			continue
		}
		for _, id := range b.AtomIDs {
			if _, ok := atoms[id]; !ok {
				result = multierror.Append(result, fmt.Errorf("bond %d references missing atom %d", i, id))
			}
		}
	}

	if err := result.ErrorOrNil(); err != nil {
		return &errs.MalformedStructureError{Reason: err}
	}
	return nil
}

// atomIndex 构建 id 到原子的索引；键引用缺失原子时整体失败。
func atomIndex(s model.Structure) (map[int]model.Atom, error) {
	if err := ValidateStructure(s); err != nil {
		return nil, err
	}
	idx := make(map[int]model.Atom, len(s.Atoms))
	for _, a := range s.Atoms {
		idx[a.ID] = a
	}
	return idx, nil
}

// BondPlacement 是渲染一个化学键所需的派生几何量。
type BondPlacement struct {
	Bond model.Bond
	// Midpoint 是两端点的平均位置，拉伸前后保持不变。
	Midpoint Vec3
	// Length 是渲染长度：存储的原子间距乘以 bondLengthFactor。
	Length float64
	// Orientation 把规范轴 +Y 旋转到键的方向上。
	Orientation Quat
	// Start 和 End 是按因子对称拉伸后的渲染端点。
	Start Vec3
	End   Vec3
}

// ComputeBondPlacement 为结构中的每个键计算摆放信息。
//
// 拉伸规则（见 DESIGN.md）：bondLengthFactor 围绕键的中点对称缩放，
// 两个渲染端点同时移动，存储的原子坐标永不改变。factor 为 1 时
// 渲染端点与存储坐标完全一致。factor 必须为正数。
func ComputeBondPlacement(s model.Structure, factor float64) ([]BondPlacement, error) {
	if factor <= 0 {
		return nil, fmt.Errorf("bond length factor must be positive, got %v", factor)
	}
	idx, err := atomIndex(s)
	if err != nil {
		return nil, err
	}

	placements := make([]BondPlacement, 0, len(s.Bonds))
	for _, b := range s.Bonds {
		start := AtomPosition(idx[b.AtomIDs[0]])
		end := AtomPosition(idx[b.AtomIDs[1]])

		mid := start.Add(end).Scale(0.5)
		dir := end.Sub(start).Normalize()
		length := start.DistanceTo(end) * factor
		half := dir.Scale(length / 2)

		placements = append(placements, BondPlacement{
			Bond:        b,
			Midpoint:    mid,
			Length:      length,
			Orientation: QuatFromUnitVectors(bondAxis, dir),
			Start:       mid.Sub(half),
			End:         mid.Add(half),
		})
	}
	return placements, nil
}

// ComputeBondAngle 返回从共享原子出发的两个键向量之间的夹角（度）。
// 共线向量返回 180°（或 0°），不会失败；点积在取 acos 前被钳制到
// [-1, 1] 以避免浮点误差导致 NaN。
func ComputeBondAngle(s model.Structure, commonAtomID int, bondA, bondB model.Bond) (float64, error) {
	idx, err := atomIndex(s)
	if err != nil {
		return 0, err
	}

	v1, err := bondVectorFrom(idx, commonAtomID, bondA)
	if err != nil {
		return 0, err
	}
	v2, err := bondVectorFrom(idx, commonAtomID, bondB)
	if err != nil {
		return 0, err
	}

	cos := v1.Normalize().Dot(v2.Normalize())
	cos = math.Max(-1, math.Min(1, cos))
	return math.Acos(cos) * 180 / math.Pi, nil
}

// bondVectorFrom 返回键上从 commonAtomID 指向另一端的向量。
func bondVectorFrom(idx map[int]model.Atom, commonAtomID int, b model.Bond) (Vec3, error) {
	var otherID int
	switch commonAtomID {
	case b.AtomIDs[0]:
		otherID = b.AtomIDs[1]
	case b.AtomIDs[1]:
		otherID = b.AtomIDs[0]
	default:
		return Vec3{}, fmt.Errorf("bond %v does not contain atom %d", b.AtomIDs, commonAtomID)
	}
	return AtomPosition(idx[otherID]).Sub(AtomPosition(idx[commonAtomID])), nil
}

// Arc 描述渲染一个键角指示盘所需的全部量。
type Arc struct {
	// AtomID 是两个键共享的原子。
	AtomID int `json:"atomId"`
	// Center 是盘的圆心，即共享原子的位置。
	Center Vec3 `json:"center"`
	// Radius 是盘的半径。
	Radius float64 `json:"radius"`
	// StartDir 是扫掠起始方向（归一化的 v1）。
	StartDir Vec3 `json:"startDir"`
	// Sweep 是从 StartDir 扫向 v2 的角度（弧度）。
	Sweep float64 `json:"sweep"`
	// Normal 是盘所在平面的法向量。
	Normal Vec3 `json:"normal"`
}

// ComputeAngleArc 返回平分两个键向量的圆弧描述。纯函数：相同输入
// 产生逐位相同的输出。v1 与 v2 共线时叉积退化，选用固定的 +Z 作为
// 法向量；若键本身沿 Z 轴则退回 +X。
func ComputeAngleArc(atomID int, origin, v1, v2 Vec3, radius float64) Arc {
	const eps = 1e-8

	n1 := v1.Normalize()
	n2 := v2.Normalize()

	normal := n1.Cross(n2)
	if normal.Length() < eps {
		normal = AxisZ
		if math.Abs(n1.Dot(AxisZ)) > 1-eps {
			normal = AxisX
		}
	} else {
		normal = normal.Normalize()
	}

	cos := math.Max(-1, math.Min(1, n1.Dot(n2)))

	return Arc{
		AtomID:   atomID,
		Center:   origin,
		Radius:   radius,
		StartDir: n1,
		Sweep:    math.Acos(cos),
		Normal:   normal,
	}
}

// BondPair 是共享一个原子的两个键，用于生成键角指示。
type BondPair struct {
	AtomID int
	A, B   model.Bond
}

// SharedBondPairs 枚举结构中所有共享原子的键对，按原子 id 与键的
// 声明顺序排列，结果确定。
func SharedBondPairs(s model.Structure) ([]BondPair, error) {
	if err := ValidateStructure(s); err != nil {
		return nil, err
	}

	byAtom := make(map[int][]model.Bond)
	for _, b := range s.Bonds {
		byAtom[b.AtomIDs[0]] = append(byAtom[b.AtomIDs[0]], b)
		byAtom[b.AtomIDs[1]] = append(byAtom[b.AtomIDs[1]], b)
	}

	var pairs []BondPair
	for _, a := range s.Atoms {
		bonds := byAtom[a.ID]
		for i := 0; i < len(bonds); i++ {
			for j := i + 1; j < len(bonds); j++ {
				pairs = append(pairs, BondPair{AtomID: a.ID, A: bonds[i], B: bonds[j]})
			}
		}
	}
	return pairs, nil
}

// LonePairPositions 返回分子孤对电子位置的惰性序列；未声明时为空。
func LonePairPositions(s model.Structure) iter.Seq[Vec3] {
	return func(yield func(Vec3) bool) {
		for _, lp := range s.LonePairs {
			if !yield(Vec3{X: lp.X, Y: lp.Y, Z: lp.Z}) {
				return
			}
		}
	}
}
