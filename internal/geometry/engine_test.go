package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"molviz-go/internal/model"
	"molviz-go/pkg/errs"
)

func waterStructure() model.Structure {
	return model.Structure{
		Atoms: []model.Atom{
			{ID: 1, X: 0, Y: 0, Z: 0, Color: 0xff0000},
			{ID: 2, X: -0.8, Y: 0.6, Z: 0, Color: 0xffffff},
			{ID: 3, X: 0.8, Y: 0.6, Z: 0, Color: 0xffffff},
		},
		Bonds: []model.Bond{
			{AtomIDs: [2]int{1, 2}},
			{AtomIDs: [2]int{1, 3}},
		},
	}
}

func TestValidateStructureOK(t *testing.T) {
	require.NoError(t, ValidateStructure(waterStructure()))
}

func TestValidateStructureReportsEveryViolation(t *testing.T) {
	s := model.Structure{
		Atoms: []model.Atom{
			{ID: 1},
			{ID: 1}, // 重复 id
		},
		Bonds: []model.Bond{
			{AtomIDs: [2]int{1, 98}},
			{AtomIDs: [2]int{99, 1}},
			{AtomIDs: [2]int{1, 1}}, // 自环
		},
	}
	err := ValidateStructure(s)
	require.Error(t, err)
	require.True(t, errs.IsMalformedStructure(err))
	assert.Contains(t, err.Error(), "duplicate atom id 1")
	assert.Contains(t, err.Error(), "missing atom 98")
	assert.Contains(t, err.Error(), "missing atom 99")
	assert.Contains(t, err.Error(), "itself")
}

func TestComputeBondPlacementIdentityFactor(t *testing.T) {
	placements, err := ComputeBondPlacement(waterStructure(), 1.0)
	require.NoError(t, err)
	require.Len(t, placements, 2)

	// 水的 O-H 键长正好是 1.0
	p := placements[0]
	assert.InDelta(t, 1.0, p.Length, 1e-12)
	assert.InDelta(t, -0.4, p.Midpoint.X, 1e-12)
	assert.InDelta(t, 0.3, p.Midpoint.Y, 1e-12)

	// factor 为 1 时渲染端点与存储坐标一致
	assert.InDelta(t, 0.0, p.Start.X, 1e-9)
	assert.InDelta(t, 0.0, p.Start.Y, 1e-9)
	assert.InDelta(t, -0.8, p.End.X, 1e-9)
	assert.InDelta(t, 0.6, p.End.Y, 1e-9)

	// 朝向把规范轴 +Y 映射到键的方向
	dir := p.End.Sub(p.Start).Normalize()
	got := p.Orientation.Rotate(AxisY)
	assert.InDelta(t, dir.X, got.X, 1e-9)
	assert.InDelta(t, dir.Y, got.Y, 1e-9)
	assert.InDelta(t, dir.Z, got.Z, 1e-9)
}

func TestComputeBondPlacementSymmetricStretch(t *testing.T) {
	base, err := ComputeBondPlacement(waterStructure(), 1.0)
	require.NoError(t, err)
	stretched, err := ComputeBondPlacement(waterStructure(), 2.0)
	require.NoError(t, err)

	for i := range base {
		// 中点不因拉伸而移动，长度严格按因子缩放
		assert.Equal(t, base[i].Midpoint, stretched[i].Midpoint)
		assert.InDelta(t, base[i].Length*2, stretched[i].Length, 1e-12)
		// 两个端点围绕中点对称外移
		assert.InDelta(t, stretched[i].Start.DistanceTo(stretched[i].Midpoint),
			stretched[i].End.DistanceTo(stretched[i].Midpoint), 1e-9)
	}
}

func TestComputeBondPlacementDeterministic(t *testing.T) {
	a, err := ComputeBondPlacement(waterStructure(), 1.5)
	require.NoError(t, err)
	b, err := ComputeBondPlacement(waterStructure(), 1.5)
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestComputeBondPlacementRejectsNonPositiveFactor(t *testing.T) {
	_, err := ComputeBondPlacement(waterStructure(), 0)
	require.Error(t, err)
	_, err = ComputeBondPlacement(waterStructure(), -1)
	require.Error(t, err)
}

func TestComputeBondPlacementDanglingBond(t *testing.T) {
	s := waterStructure()
	s.Bonds = append(s.Bonds, model.Bond{AtomIDs: [2]int{1, 42}})
	_, err := ComputeBondPlacement(s, 1.0)
	require.Error(t, err)
	require.True(t, errs.IsMalformedStructure(err))
}

func TestComputeBondAngleWater(t *testing.T) {
	s := waterStructure()
	angle, err := ComputeBondAngle(s, 1, s.Bonds[0], s.Bonds[1])
	require.NoError(t, err)
	// (-0.8,0.6)·(0.8,0.6) = -0.28 → acos ≈ 106.26°
	assert.InDelta(t, 106.26, angle, 0.01)
}

func TestComputeBondAngleColinear(t *testing.T) {
	s := model.Structure{
		Atoms: []model.Atom{
			{ID: 1, X: 0},
			{ID: 2, X: 1},
			{ID: 3, X: -1},
		},
		Bonds: []model.Bond{
			{AtomIDs: [2]int{1, 2}},
			{AtomIDs: [2]int{1, 3}},
		},
	}
	angle, err := ComputeBondAngle(s, 1, s.Bonds[0], s.Bonds[1])
	require.NoError(t, err)
	assert.InDelta(t, 180.0, angle, 1e-9)
}

func TestComputeBondAngleRightAngle(t *testing.T) {
	s := model.Structure{
		Atoms: []model.Atom{
			{ID: 1},
			{ID: 2, X: 1},
			{ID: 3, Y: 1},
		},
		Bonds: []model.Bond{
			{AtomIDs: [2]int{1, 2}},
			{AtomIDs: [2]int{1, 3}},
		},
	}
	angle, err := ComputeBondAngle(s, 1, s.Bonds[0], s.Bonds[1])
	require.NoError(t, err)
	assert.InDelta(t, 90.0, angle, 1e-9)
}

func TestComputeBondAngleWrongCommonAtom(t *testing.T) {
	s := waterStructure()
	_, err := ComputeBondAngle(s, 2, s.Bonds[0], s.Bonds[1])
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not contain atom 2")
}

func TestComputeAngleArc(t *testing.T) {
	v1 := Vec3{X: -0.8, Y: 0.6}
	v2 := Vec3{X: 0.8, Y: 0.6}
	origin := Vec3{}

	arc := ComputeAngleArc(1, origin, v1, v2, 0.6)
	assert.Equal(t, 1, arc.AtomID)
	assert.Equal(t, origin, arc.Center)
	assert.InDelta(t, 0.6, arc.Radius, 1e-12)
	assert.InDelta(t, 106.26*math.Pi/180, arc.Sweep, 1e-4)
	// 平面法向量垂直于两个键向量
	assert.InDelta(t, 0.0, arc.Normal.Dot(v1), 1e-9)
	assert.InDelta(t, 0.0, arc.Normal.Dot(v2), 1e-9)
	assert.InDelta(t, 1.0, arc.Normal.Length(), 1e-9)

	// 纯函数：两次调用逐位相同
	assert.Equal(t, arc, ComputeAngleArc(1, origin, v1, v2, 0.6))
}

func TestComputeAngleArcColinearFallbackNormal(t *testing.T) {
	// 沿 X 轴共线，退化叉积 → 固定 +Z 法向量
	arc := ComputeAngleArc(1, Vec3{}, Vec3{X: 1}, Vec3{X: -1}, 0.6)
	assert.Equal(t, AxisZ, arc.Normal)
	assert.InDelta(t, math.Pi, arc.Sweep, 1e-9)

	// 键本身沿 Z 轴时退回 +X
	arcZ := ComputeAngleArc(1, Vec3{}, Vec3{Z: 1}, Vec3{Z: -1}, 0.6)
	assert.Equal(t, AxisX, arcZ.Normal)
}

func TestSharedBondPairs(t *testing.T) {
	s := waterStructure()
	pairs, err := SharedBondPairs(s)
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.Equal(t, 1, pairs[0].AtomID)

	// 甲烷：中心碳有 4 个键 → C(4,2) = 6 对
	methane := model.Structure{
		Atoms: []model.Atom{
			{ID: 1}, {ID: 2, X: 1, Y: 1, Z: 1}, {ID: 3, X: -1, Y: -1, Z: 1},
			{ID: 4, X: 1, Y: -1, Z: -1}, {ID: 5, X: -1, Y: 1, Z: -1},
		},
		Bonds: []model.Bond{
			{AtomIDs: [2]int{1, 2}}, {AtomIDs: [2]int{1, 3}},
			{AtomIDs: [2]int{1, 4}}, {AtomIDs: [2]int{1, 5}},
		},
	}
	pairs, err = SharedBondPairs(methane)
	require.NoError(t, err)
	assert.Len(t, pairs, 6)
}

func TestLonePairPositions(t *testing.T) {
	s := waterStructure()
	s.LonePairs = []model.LonePair{
		{X: 0, Y: -0.7, Z: 0.3},
		{X: 0, Y: -0.7, Z: -0.3},
	}

	var got []Vec3
	for p := range LonePairPositions(s) {
		got = append(got, p)
	}
	require.Len(t, got, 2)
	assert.Equal(t, Vec3{X: 0, Y: -0.7, Z: 0.3}, got[0])

	// 惰性序列：提前终止不会越界
	count := 0
	for range LonePairPositions(s) {
		count++
		break
	}
	assert.Equal(t, 1, count)

	// 未声明时为空
	empty := 0
	for range LonePairPositions(waterStructure()) {
		empty++
	}
	assert.Equal(t, 0, empty)
}
